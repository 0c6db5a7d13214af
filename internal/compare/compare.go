// Package compare picks the stock whose forecast reaches the higher peak.
package compare

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"StockTrends/internal/model"
)

// ErrEmptyFrame is returned when a frame has no points to compare.
var ErrEmptyFrame = errors.New("empty forecast frame")

// Compare returns a recommendation for the label whose frame has the higher
// maximum predicted value. The first label wins only when its peak is
// strictly greater; ties go to the second label.
func Compare(f1 *model.ForecastFrame, label1 string, f2 *model.ForecastFrame, label2 string) (*model.Recommendation, error) {
	peak1, ok := f1.MaxPredicted()
	if !ok {
		return nil, fmt.Errorf("compare %s: %w", label1, ErrEmptyFrame)
	}
	peak2, ok := f2.MaxPredicted()
	if !ok {
		return nil, fmt.Errorf("compare %s: %w", label2, ErrEmptyFrame)
	}

	winner := label2
	if peak1 > peak2 {
		winner = label1
	}
	return &model.Recommendation{
		Label1:  label1,
		Label2:  label2,
		Peak1:   peak1,
		Peak2:   peak2,
		Winner:  winner,
		Message: fmt.Sprintf("%s is expected to have a greater and more profitable stock high.", winner),
	}, nil
}

// PeakLines returns the "Predicted highest value" line for each stock.
func PeakLines(r *model.Recommendation) []string {
	return []string{
		PeakLine(r.Label1, r.Peak1),
		PeakLine(r.Label2, r.Peak2),
	}
}

// PeakLine formats one predicted peak.
func PeakLine(label string, peak float64) string {
	return fmt.Sprintf("Predicted highest value for %s: %s", label, decimal.NewFromFloat(peak).Round(2).StringFixed(2))
}
