package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"StockTrends/internal/model"
)

// Cache is the part of the series loader the scheduler drives.
type Cache interface {
	Tickers() []string
	Load(ctx context.Context, ticker string) (*model.PriceSeries, error)
	Reset()
}

// WarmResult summarises one warm-up pass.
type WarmResult struct {
	Loaded  []string
	Failed  map[string]error
	Elapsed time.Duration
}

// Scheduler manages the cache maintenance cron tasks.
type Scheduler struct {
	Cron  *cron.Cron
	Cache Cache
	Ctx   context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, c Cache) *Scheduler {
	return &Scheduler{
		Cron:  cron.New(cron.WithSeconds()),
		Cache: c,
		Ctx:   ctx,
	}
}

// RegisterAll registers the warm-up and reset tasks. Empty specs are skipped.
func (s *Scheduler) RegisterAll(warmCron, resetCron string) error {
	// Reset first so a reset and warm on the same tick refetch fresh data.
	if resetCron != "" {
		if _, err := s.Cron.AddFunc(resetCron, s.resetTask); err != nil {
			return fmt.Errorf("register reset task: %w", err)
		}
	}
	if warmCron != "" {
		if _, err := s.Cron.AddFunc(warmCron, func() { s.Warm() }); err != nil {
			return fmt.Errorf("register warm task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("tasks", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// Warm loads every configured ticker into the cache. Failures are logged and
// reported; they do not stop the pass.
func (s *Scheduler) Warm() WarmResult {
	began := time.Now()
	res := WarmResult{Failed: make(map[string]error)}
	for _, ticker := range s.Cache.Tickers() {
		if err := s.Ctx.Err(); err != nil {
			res.Failed[ticker] = err
			continue
		}
		if _, err := s.Cache.Load(s.Ctx, ticker); err != nil {
			log.Error().Err(err).Str("ticker", ticker).Msg("warm cache")
			res.Failed[ticker] = err
			continue
		}
		res.Loaded = append(res.Loaded, ticker)
	}
	res.Elapsed = time.Since(began)
	log.Info().Strs("loaded", res.Loaded).Int("failed", len(res.Failed)).
		Dur("elapsed", res.Elapsed).Msg("cache warm-up finished")
	return res
}

func (s *Scheduler) resetTask() {
	log.Info().Msg("running session reset")
	s.Cache.Reset()
}
