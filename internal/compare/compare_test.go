package compare

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockTrends/internal/model"
)

func frame(values ...float64) *model.ForecastFrame {
	f := &model.ForecastFrame{HistoryLen: len(values)}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range values {
		f.Points = append(f.Points, model.ForecastPoint{Date: start.AddDate(0, 0, i), Predicted: v})
	}
	return f
}

func TestCompare_FirstStrictlyGreater(t *testing.T) {
	r, err := Compare(frame(1, 5, 3), "GOOG", frame(2, 4.99, 1), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "GOOG", r.Winner)
	assert.Equal(t, 5.0, r.Peak1)
	assert.Equal(t, 4.99, r.Peak2)
	assert.Equal(t, "GOOG is expected to have a greater and more profitable stock high.", r.Message)
}

func TestCompare_SecondGreater(t *testing.T) {
	r, err := Compare(frame(1, 2), "GOOG", frame(3), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", r.Winner)
}

func TestCompare_TieGoesToSecond(t *testing.T) {
	r, err := Compare(frame(7, 7), "MSFT", frame(7), "GME")
	require.NoError(t, err)
	assert.Equal(t, "GME", r.Winner)
}

func TestCompare_SameTicker(t *testing.T) {
	f := frame(1, 2, 3)
	r, err := Compare(f, "GOOG", f, "GOOG")
	require.NoError(t, err)
	assert.Equal(t, "GOOG", r.Winner)
	assert.Equal(t, r.Peak1, r.Peak2)
}

func TestCompare_UpwardBeatsFlat(t *testing.T) {
	up := make([]float64, 400)
	flat := make([]float64, 400)
	for i := range up {
		up[i] = 100 + float64(i)*0.5
		flat[i] = 100
	}
	r, err := Compare(frame(up...), "GOOG", frame(flat...), "GME")
	require.NoError(t, err)
	assert.Equal(t, "GOOG", r.Winner)

	r, err = Compare(frame(flat...), "GME", frame(up...), "GOOG")
	require.NoError(t, err)
	assert.Equal(t, "GOOG", r.Winner)
}

func TestCompare_EmptyFrame(t *testing.T) {
	_, err := Compare(frame(), "GOOG", frame(1), "AAPL")
	assert.True(t, errors.Is(err, ErrEmptyFrame))

	_, err = Compare(frame(1), "GOOG", nil, "AAPL")
	assert.True(t, errors.Is(err, ErrEmptyFrame))
}

func TestPeakLines(t *testing.T) {
	r, err := Compare(frame(101.456), "GOOG", frame(99), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Predicted highest value for GOOG: 101.46",
		"Predicted highest value for AAPL: 99.00",
	}, PeakLines(r))
}
