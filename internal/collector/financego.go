package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"StockTrends/internal/model"
)

// FinanceGoFetcher implements Fetcher on top of the finance-go chart
// iterator.
type FinanceGoFetcher struct{}

func NewFinanceGoFetcher() *FinanceGoFetcher { return &FinanceGoFetcher{} }

func (f *FinanceGoFetcher) Name() string { return "financego" }

func (f *FinanceGoFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	until := end.AddDate(0, 0, 1)
	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&until),
		Interval: datetime.OneDay,
	})

	var bars []model.OHLCV
	for iter.Next() {
		bar := iter.Bar()
		bars = append(bars, model.OHLCV{
			Time:     truncateDay(time.Unix(int64(bar.Timestamp), 0).In(newYork)),
			Open:     bar.Open.InexactFloat64(),
			High:     bar.High.InexactFloat64(),
			Low:      bar.Low.InexactFloat64(),
			Close:    bar.Close.InexactFloat64(),
			AdjClose: bar.AdjClose.InexactFloat64(),
			Volume:   float64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("finance-go chart %s: %w", symbol, err)
	}
	return bars, nil
}
