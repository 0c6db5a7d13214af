// Package export writes forecast frames as Parquet files.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"StockTrends/internal/model"
)

// ForecastRecord is the Parquet schema of one forecast row. Y is null for
// dates after the history.
type ForecastRecord struct {
	Symbol    string   `parquet:"symbol"`
	DS        int64    `parquet:"ds,timestamp(millisecond)"` // Unix ms
	YHat      float64  `parquet:"yhat"`
	YHatLower float64  `parquet:"yhat_lower"`
	YHatUpper float64  `parquet:"yhat_upper"`
	Trend     float64  `parquet:"trend"`
	Weekly    float64  `parquet:"weekly"`
	Yearly    float64  `parquet:"yearly"`
	Y         *float64 `parquet:"y,optional"`
}

// Records converts a frame into Parquet rows.
func Records(frame *model.ForecastFrame) []ForecastRecord {
	out := make([]ForecastRecord, 0, frame.Len())
	if frame == nil {
		return out
	}
	for _, p := range frame.Points {
		r := ForecastRecord{
			Symbol:    frame.Symbol,
			DS:        p.Date.UnixMilli(),
			YHat:      p.Predicted,
			YHatLower: p.Lower,
			YHatUpper: p.Upper,
			Trend:     p.Trend,
			Weekly:    p.Weekly,
			Yearly:    p.Yearly,
		}
		if p.HasActual {
			y := p.Actual
			r.Y = &y
		}
		out = append(out, r)
	}
	return out
}

// WriteForecast writes frame to w.
func WriteForecast(w io.Writer, frame *model.ForecastFrame) error {
	if err := parquet.Write(w, Records(frame)); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	return nil
}

// WriteForecastFile writes frame to path, creating parent directories.
func WriteForecastFile(path string, frame *model.ForecastFrame) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := parquet.WriteFile(path, Records(frame)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadForecastFile reads rows written by WriteForecastFile.
func ReadForecastFile(path string) ([]ForecastRecord, error) {
	rows, err := parquet.ReadFile[ForecastRecord](path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// FileName is the conventional export name for a frame.
func FileName(frame *model.ForecastFrame, now time.Time) string {
	return fmt.Sprintf("%s_forecast_%dd_%s.parquet", frame.Symbol, frame.HorizonDays, now.Format("20060102"))
}
