package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"StockTrends/internal/model"
)

var (
	// ErrDataUnavailable is returned when the source fails or returns no bars.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInvalidSelection is returned for symbols outside the configured list.
	ErrInvalidSelection = errors.New("invalid selection")
)

// DefaultStart is the first date requested for every ticker.
var DefaultStart = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

var newYork = loadLocation("America/New_York")

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// truncateDay maps t to UTC midnight of its own calendar day.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Loader fetches a ticker's full daily history once per session and serves
// later requests from its cache.
type Loader struct {
	Fetcher Fetcher
	Start   time.Time
	Now     func() time.Time

	tickers []string
	allowed map[string]struct{}
	cache   *cache.Cache

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLoader creates a Loader restricted to the given tickers.
func NewLoader(fetcher Fetcher, tickers []string, start time.Time) *Loader {
	if start.IsZero() {
		start = DefaultStart
	}
	allowed := make(map[string]struct{}, len(tickers))
	list := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if _, dup := allowed[t]; dup || t == "" {
			continue
		}
		allowed[t] = struct{}{}
		list = append(list, t)
	}
	return &Loader{
		Fetcher: fetcher,
		Start:   truncateDay(start),
		Now:     time.Now,
		tickers: list,
		allowed: allowed,
		cache:   cache.New(cache.NoExpiration, 0),
		locks:   make(map[string]*sync.Mutex),
	}
}

// Tickers returns the configured ticker list in configuration order.
func (l *Loader) Tickers() []string {
	out := make([]string, len(l.tickers))
	copy(out, l.tickers)
	return out
}

// Validate checks that ticker is well formed and configured.
func (l *Loader) Validate(ticker string) error {
	if !symbolPattern.MatchString(ticker) {
		return fmt.Errorf("%w: malformed ticker %q", ErrInvalidSelection, ticker)
	}
	if _, ok := l.allowed[ticker]; !ok {
		return fmt.Errorf("%w: ticker %q is not in the stock list", ErrInvalidSelection, ticker)
	}
	return nil
}

// Cached reports whether ticker is already in the session cache.
func (l *Loader) Cached(ticker string) bool {
	_, ok := l.cache.Get(ticker)
	return ok
}

// Reset drops every cached series, starting a new session.
func (l *Loader) Reset() {
	l.cache.Flush()
	log.Info().Msg("series cache reset")
}

func (l *Loader) lockFor(ticker string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[ticker]
	if !ok {
		m = &sync.Mutex{}
		l.locks[ticker] = m
	}
	return m
}

// Load returns the daily history of ticker from Start through today.
func (l *Loader) Load(ctx context.Context, ticker string) (*model.PriceSeries, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if err := l.Validate(ticker); err != nil {
		return nil, err
	}
	if v, ok := l.cache.Get(ticker); ok {
		return v.(*model.PriceSeries), nil
	}

	// Serialise fetches per ticker so concurrent requests share one download.
	lock := l.lockFor(ticker)
	lock.Lock()
	defer lock.Unlock()
	if v, ok := l.cache.Get(ticker); ok {
		return v.(*model.PriceSeries), nil
	}

	end := truncateDay(l.Now())
	log.Info().Str("ticker", ticker).Str("source", l.Fetcher.Name()).
		Time("start", l.Start).Time("end", end).Msg("Loading data...")

	raw, err := l.Fetcher.FetchDailyBars(ctx, ticker, l.Start, end)
	if err != nil {
		log.Error().Err(err).Str("ticker", ticker).Msg("fetch daily bars")
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, ticker, err)
	}
	bars := normalizeBars(raw, l.Start, end)
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s: source returned no bars", ErrDataUnavailable, ticker)
	}

	series := &model.PriceSeries{Symbol: ticker, Bars: bars, FetchedAt: l.Now()}
	l.cache.Set(ticker, series, cache.NoExpiration)
	log.Info().Str("ticker", ticker).Int("bars", len(bars)).Msg("Loading data... done!")
	return series, nil
}

// normalizeBars sorts ascending, drops bars outside [start, end] or without
// a usable close, and keeps the first bar of any duplicated day.
func normalizeBars(raw []model.OHLCV, start, end time.Time) []model.OHLCV {
	bars := make([]model.OHLCV, 0, len(raw))
	for _, b := range raw {
		if b.Close <= 0 || math.IsNaN(b.Close) || math.IsInf(b.Close, 0) {
			continue
		}
		b.Time = truncateDay(b.Time)
		if b.Time.Before(start) || b.Time.After(end) {
			continue
		}
		bars = append(bars, b)
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	out := bars[:0]
	for i, b := range bars {
		if i > 0 && b.Time.Equal(out[len(out)-1].Time) {
			continue
		}
		out = append(out, b)
	}
	return out
}
