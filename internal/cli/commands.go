// Package cli implements the stock-trends command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"StockTrends/internal/chart"
	"StockTrends/internal/export"
	"StockTrends/internal/pipeline"
	"StockTrends/internal/report"
	"StockTrends/internal/scheduler"
	"StockTrends/internal/server"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:           "trends",
		Short:         "Stock trend forecasting dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cfgPath == "" {
				cfgPath = "configs/config.yaml"
				if v := os.Getenv("CONFIG_PATH"); v != "" {
					cfgPath = v
				}
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "configuration file path (default $CONFIG_PATH or configs/config.yaml)")

	rootCmd.AddCommand(newServeCmd(&cfgPath))
	rootCmd.AddCommand(newForecastCmd(&cfgPath))
	rootCmd.AddCommand(newWarmCmd(&cfgPath))
	rootCmd.AddCommand(newHistoryCmd(&cfgPath))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newServeCmd(cfgPath *string) *cobra.Command {
	var rateLimit float64
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sched := scheduler.NewScheduler(ctx, a.loader)
			if err := sched.RegisterAll(a.cfg.Schedule.WarmCron, a.cfg.Schedule.ResetCron); err != nil {
				return fmt.Errorf("register cron tasks: %w", err)
			}
			sched.Start()
			defer sched.Stop()

			if os.Getenv("RUN_ON_START") == "true" {
				log.Info().Msg("RUN_ON_START enabled, warming cache now")
				go sched.Warm()
			}

			srv := server.New(a.runner, a.loader.Tickers(), a.recorder, server.Options{
				Mode:      a.cfg.Server.Mode,
				RateLimit: rateLimit,
			})
			return srv.Run(ctx, a.cfg.Addr())
		},
	}
	cmd.Flags().Float64Var(&rateLimit, "rate-limit", 5, "requests per second per client (0 disables)")
	return cmd
}

func newForecastCmd(cfgPath *string) *cobra.Command {
	var (
		years    int
		compare  string
		outDir   string
		save     bool
		from, to string
	)
	cmd := &cobra.Command{
		Use:   "forecast TICKER",
		Short: "Forecast a stock and optionally compare it with another",
		Example: `  trends forecast GOOG --years 2
  trends forecast GOOG --compare AAPL --out data/exports`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			sel := pipeline.Selection{
				Primary:      args[0],
				HorizonYears: years,
				Compare:      compare != "",
				Secondary:    compare,
			}
			if sel.From, err = parseFlagDate(from); err != nil {
				return err
			}
			if sel.To, err = parseFlagDate(to); err != nil {
				return err
			}

			out := a.runner.Run(cmd.Context(), sel)
			fmt.Fprint(cmd.OutOrStdout(), report.FormatOutputs(out))
			if out.Err != nil {
				return out.Err
			}
			if save && outDir == "" {
				outDir = a.cfg.Export.Dir
			}
			if outDir != "" {
				return writeArtifacts(outDir, out)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&years, "years", 1, "years of prediction (1-4)")
	cmd.Flags().StringVar(&compare, "compare", "", "second ticker to compare with")
	cmd.Flags().StringVar(&outDir, "out", "", "directory for SVG charts and Parquet exports")
	cmd.Flags().BoolVar(&save, "save", false, "write artifacts to the configured export dir")
	cmd.Flags().StringVar(&from, "from", "", "chart window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "chart window end (YYYY-MM-DD)")
	return cmd
}

func newWarmCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "warm",
		Short: "Fetch every configured ticker once and report failures",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			res := scheduler.NewScheduler(cmd.Context(), a.loader).Warm()
			for _, t := range res.Loaded {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", t)
			}
			for t, err := range res.Failed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", t, err)
			}
			if len(res.Failed) > 0 {
				return fmt.Errorf("%d of %d tickers failed", len(res.Failed), len(res.Failed)+len(res.Loaded))
			}
			return nil
		},
	}
}

func newHistoryCmd(cfgPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*cfgPath)
			if err != nil {
				return err
			}
			defer a.Close()

			events, err := a.recorder.RecentRecommendations(limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report.FormatRecommendations(events))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "trends %s\n", Version)
		},
	}
}

func parseFlagDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", v, err)
	}
	return t, nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func fileName(title, ext string) string {
	return strings.Trim(unsafeName.ReplaceAllString(title, "_"), "_") + ext
}

// writeArtifacts saves every figure of the run as SVG and every forecast
// frame as Parquet under dir.
func writeArtifacts(dir string, out *pipeline.Outputs) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var figs []chart.Figure
	for _, s := range []*pipeline.StockSection{out.Primary, out.Secondary} {
		if s == nil {
			continue
		}
		if s.Raw != nil {
			figs = append(figs, s.Raw.Figure)
		}
		if s.Forecast != nil {
			figs = append(figs, s.Forecast.Figure)
			figs = append(figs, s.Forecast.Components...)
		}
		if s.OK() {
			path := filepath.Join(dir, export.FileName(s.Frame, time.Now()))
			if err := export.WriteForecastFile(path, s.Frame); err != nil {
				return err
			}
			log.Info().Str("path", path).Msg("forecast exported")
		}
	}
	if out.Comparison != nil && out.Comparison.Figure != nil {
		figs = append(figs, *out.Comparison.Figure)
	}

	for _, f := range figs {
		svg, err := chart.RenderSVG(f, chart.DefaultWidth, chart.DefaultHeight)
		if err != nil {
			return fmt.Errorf("render %q: %w", f.Title, err)
		}
		path := filepath.Join(dir, fileName(f.Title, ".svg"))
		if err := os.WriteFile(path, svg, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	log.Info().Int("charts", len(figs)).Str("dir", dir).Msg("charts written")
	return nil
}
