package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"StockTrends/internal/model"
)

// AlpacaFetcher implements Fetcher using the Alpaca market-data API.
type AlpacaFetcher struct {
	client *marketdata.Client
	feed   string
}

// NewAlpacaFetcher creates a fetcher for the given credentials. feed is
// "iex" for free accounts or "sip" for paid ones.
func NewAlpacaFetcher(apiKey, apiSecret, dataURL, feed string) *AlpacaFetcher {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	if feed == "" {
		feed = "iex"
	}
	return &AlpacaFetcher{client: marketdata.NewClient(opts), feed: feed}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

func (f *AlpacaFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	alpacaBars, err := f.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		End:       end.AddDate(0, 0, 1),
		Feed:      f.feed,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca GetBars: %w", err)
	}

	bars := make([]model.OHLCV, 0, len(alpacaBars))
	for _, ab := range alpacaBars {
		bars = append(bars, model.OHLCV{
			Time:     truncateDay(ab.Timestamp.In(newYork)),
			Open:     ab.Open,
			High:     ab.High,
			Low:      ab.Low,
			Close:    ab.Close,
			AdjClose: ab.Close,
			Volume:   float64(ab.Volume),
		})
	}
	return bars, nil
}
