package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"StockTrends/internal/collector"
	"StockTrends/internal/config"
	"StockTrends/internal/forecast"
	"StockTrends/internal/pipeline"
	"StockTrends/internal/recorder"
)

// app holds the collaborators shared by every command.
type app struct {
	cfg      *config.Config
	fetcher  collector.Fetcher
	loader   *collector.Loader
	recorder recorder.Recorder
	runner   *pipeline.Runner
}

// setupLogging configures the global zerolog logger.
func setupLogging(level, format string) {
	zerolog.TimeFieldFormat = time.RFC3339
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}

// newFetcher picks the market-data source configured in cfg.
func newFetcher(cfg *config.Config) (collector.Fetcher, error) {
	ds := cfg.DataSource
	switch ds.Provider {
	case config.ProviderYahoo:
		return collector.NewYahooFetcher(ds.BaseURL, cfg.Proxy, ds.Timeout), nil
	case config.ProviderAlpaca:
		return collector.NewAlpacaFetcher(ds.AlpacaKey, ds.AlpacaSecret, ds.AlpacaURL, ds.AlpacaFeed), nil
	case config.ProviderFinanceGo:
		return collector.NewFinanceGoFetcher(), nil
	case config.ProviderMock:
		return &collector.MockFetcher{Price: 100, Drift: 0.05}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", ds.Provider)
	}
}

// newRecorder opens SQLite, falling back to the no-op recorder.
func newRecorder(path string) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Warn().Err(err).Msg("create database dir failed, using noop recorder")
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

// newApp loads configuration and builds the shared collaborators.
func newApp(cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	setupLogging(cfg.Logging.Level, cfg.Logging.Format)

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return nil, err
	}
	start, err := cfg.StartDate()
	if err != nil {
		return nil, err
	}
	log.Info().Str("source", fetcher.Name()).Strs("stocks", cfg.Stocks).Msg("data source ready")

	loader := collector.NewLoader(fetcher, cfg.Stocks, start)
	rec := newRecorder(cfg.Database.SQLitePath)
	runner := pipeline.NewRunner(loader, forecast.New(cfg.Forecast), rec, fetcher.Name())
	return &app{cfg: cfg, fetcher: fetcher, loader: loader, recorder: rec, runner: runner}, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		log.Error().Err(err).Msg("close recorder")
	}
}
