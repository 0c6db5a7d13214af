package collector

import (
	"context"
	"time"

	"StockTrends/internal/model"
)

// Fetcher retrieves daily bars for one symbol over an inclusive date range.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}
