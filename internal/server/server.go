// Package server exposes the dashboard and its JSON API over HTTP.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"StockTrends/internal/pipeline"
	"StockTrends/internal/recorder"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Options tunes the HTTP layer.
type Options struct {
	Mode      string  // gin mode
	RateLimit float64 // requests per second per client, 0 disables
	Burst     int
}

// Server wires controllers onto a gin engine.
type Server struct {
	engine *gin.Engine
}

// New builds the router.
func New(runner *pipeline.Runner, tickers []string, rec recorder.Recorder, opts Options) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}

	r := gin.New()
	r.Use(Recovery(), RequestLogger(), RateLimiter(opts.RateLimit, opts.Burst))
	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templatesFS, "templates/*.html")))

	NewDashboardController(runner, tickers).RegisterRoutes(&r.RouterGroup)
	api := r.Group("/api")
	{
		NewAPIController(runner, tickers, rec).RegisterRoutes(api)
	}
	return &Server{engine: r}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("initiating graceful shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
