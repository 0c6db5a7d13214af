package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockTrends/internal/collector"
	"StockTrends/internal/export"
	"StockTrends/internal/forecast"
	"StockTrends/internal/model"
	"StockTrends/internal/pipeline"
	"StockTrends/internal/recorder"
)

var tickers = []string{"GOOG", "AAPL", "MSFT", "GME"}

// emptyFor returns no bars for one ticker.
type emptyFor struct {
	collector.MockFetcher
	ticker string
}

func (f *emptyFor) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.OHLCV, error) {
	if symbol == f.ticker {
		return nil, nil
	}
	return f.MockFetcher.FetchDailyBars(ctx, symbol, start, end)
}

type memRecorder struct {
	recorder.NoopRecorder
	events []recorder.RecommendationEvent
}

func (m *memRecorder) RecordRecommendation(evt *recorder.RecommendationEvent) error {
	m.events = append(m.events, *evt)
	return nil
}

func (m *memRecorder) RecentRecommendations(limit int) ([]recorder.RecommendationEvent, error) {
	if limit < len(m.events) {
		return m.events[:limit], nil
	}
	return m.events, nil
}

func newTestServer(t *testing.T, rec recorder.Recorder, opts Options) http.Handler {
	t.Helper()
	f := &emptyFor{MockFetcher: collector.MockFetcher{Price: 100, Drift: 0.2}, ticker: "GME"}
	l := collector.NewLoader(f, tickers, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	l.Now = func() time.Time { return time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC) }
	runner := pipeline.NewRunner(l, forecast.New(forecast.DefaultOptions()), rec, "mock")
	opts.Mode = gin.TestMode
	return New(runner, tickers, rec, opts).Handler()
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, nil, Options{})
	assert.Equal(t, http.StatusOK, get(h, "/api/health").Code)
}

func TestStocks(t *testing.T) {
	h := newTestServer(t, nil, Options{})
	w := get(h, "/api/stocks")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, []any{"GOOG", "AAPL", "MSFT", "GME"}, body["data"])
}

func TestRun_Compare(t *testing.T) {
	rec := &memRecorder{}
	h := newTestServer(t, rec, Options{})

	w := get(h, "/api/run?stock=GOOG&years=1&compare=true&stock2=AAPL")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decode(t, w)["data"].(map[string]any)
	cmp := data["comparison"].(map[string]any)
	assert.Equal(t, "Investment Recommendation", cmp["heading"])
	reco := cmp["recommendation"].(map[string]any)
	assert.Contains(t, []any{"GOOG", "AAPL"}, reco["winner"])
	assert.Len(t, rec.events, 1)

	w = get(h, "/api/recommendations?limit=5")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)
}

func TestRun_PartialFailure(t *testing.T) {
	h := newTestServer(t, nil, Options{})

	w := get(h, "/api/run?stock=MSFT&compare=true&stock2=GME")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)

	primary := data["primary"].(map[string]any)
	assert.Nil(t, primary["error"])
	assert.NotNil(t, primary["forecast"])

	secondary := data["secondary"].(map[string]any)
	assert.Contains(t, secondary["error"], "data unavailable")
	assert.Contains(t, data["comparison"].(map[string]any)["error"], "data unavailable")
}

func TestRun_InvalidSelection(t *testing.T) {
	h := newTestServer(t, nil, Options{})

	for _, target := range []string{
		"/api/run?stock=GOOG&years=9",
		"/api/run?stock=GOOG&years=abc",
		"/api/run?stock=GOOG&from=yesterday",
	} {
		w := get(h, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Equal(t, false, decode(t, w)["success"])
	}
}

func TestRecommendations_BadLimit(t *testing.T) {
	h := newTestServer(t, nil, Options{})
	assert.Equal(t, http.StatusBadRequest, get(h, "/api/recommendations?limit=0").Code)

	w := get(h, "/api/recommendations")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decode(t, w)["data"])
}

func TestExportForecast(t *testing.T) {
	h := newTestServer(t, nil, Options{})

	w := get(h, "/api/forecast/aapl/export?years=1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "AAPL_forecast_365d_")

	body := w.Body.Bytes()
	rows, err := parquet.Read[export.ForecastRecord](bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "AAPL", rows[0].Symbol)
	assert.Nil(t, rows[len(rows)-1].Y)

	assert.Equal(t, http.StatusBadGateway, get(h, "/api/forecast/GME/export").Code)
	assert.Equal(t, http.StatusBadRequest, get(h, "/api/forecast/TSLA/export").Code)
}

func TestDashboard(t *testing.T) {
	h := newTestServer(t, nil, Options{})

	w := get(h, "/?stock=GOOG&years=2&compare=true&stock2=GME")
	require.Equal(t, http.StatusOK, w.Code)
	page := w.Body.String()
	assert.Contains(t, page, "Raw data for GOOG")
	assert.Contains(t, page, "Forecast data for GOOG")
	assert.Contains(t, page, "Forecast components for GOOG")
	assert.Contains(t, page, "<svg")
	assert.Contains(t, page, "Investment Recommendation")
	assert.Contains(t, page, "data unavailable")

	w = get(h, "/?years=7")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateLimiter(t *testing.T) {
	h := newTestServer(t, nil, Options{RateLimit: 0.001, Burst: 1})
	assert.Equal(t, http.StatusOK, get(h, "/api/health").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(h, "/api/health").Code)
}
