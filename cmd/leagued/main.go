// Command leagued runs promotion and relegation leagues.
//
// Usage:
//
//	leagued simulate --seasons 3
//	leagued serve
//	leagued roster --generator html
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/justinjudd/league/config"
	"github.com/justinjudd/league/models/storm"
	"github.com/justinjudd/league/roster"
	"github.com/justinjudd/league/server"
	"github.com/justinjudd/league/simulate"
	"github.com/justinjudd/league/tournament"
)

func main() {
	root := &cobra.Command{
		Use:          "leagued",
		Short:        "Promotion and relegation league runner",
		SilenceUsage: true,
	}
	root.AddCommand(simulateCmd(), serveCmd(), rosterCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func simulateCmd() *cobra.Command {
	var seasons int
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate whole seasons and store their reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if seasons < 1 {
				return fmt.Errorf("--seasons must be at least 1, got %d", seasons)
			}

			store, err := storm.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			l, season, err := loadOrCreate(ctx, cfg, store, logger)
			if err != nil {
				return err
			}

			for i := 0; i < seasons; i++ {
				sim := simulate.NewPoisson(cfg.Seed+int64(season), cfg.MeanGoals)
				applyStrength(sim, l)

				start := time.Now()
				report, err := tournament.RunSeason(ctx, l, sim)
				if err != nil {
					return fmt.Errorf("season %d: %w", season, err)
				}
				logReport(logger, season, report, time.Since(start))

				if l, err = finishSeason(store, l, season, report); err != nil {
					return err
				}
				season++
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&seasons, "seasons", 1, "number of seasons to simulate")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the current season over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			store, err := storm.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()

			l, season, err := loadOrCreate(ctx, cfg, store, logger)
			if err != nil {
				return err
			}

			s := server.New(l, server.Options{
				Logger:            logger,
				CORSAllowOrigins:  cfg.CORSAllowOrigins,
				RateLimitRequests: cfg.RateLimitRequests,
				RateLimitWindow:   cfg.RateLimitWindow,
				OnFinalize: func(report *tournament.LeagueReport) error {
					_, err := finishSeason(store, l, season, report)
					return err
				},
			})

			srv := &http.Server{
				Addr:         cfg.Addr,
				Handler:      s.Handler(),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 30 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errs := make(chan error, 1)
			go func() {
				logger.Info("Starting league server", "addr", cfg.Addr, "league", l.GetName(), "season", season)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errs <- err
				}
			}()

			select {
			case err := <-errs:
				return err
			case <-ctx.Done():
			}
			logger.Info("Shutting down...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func rosterCmd() *cobra.Command {
	var generator string
	var count int
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Print the roster a generator produces",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := setup()
			if err != nil {
				return err
			}
			if generator != "" {
				cfg.Generator = generator
			}
			if count == 0 {
				count = cfg.RosterSize()
			}

			g, err := roster.NewRegistry().New(cfg.Generator, roster.Options{CacheDir: cfg.CacheDir, Seed: cfg.Seed, Count: count})
			if err != nil {
				return err
			}
			competitors, err := g.Generate(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range competitors {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.ID, c.Name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&generator, "generator", "", "roster generator, overriding LEAGUE_ROSTER")
	cmd.Flags().IntVar(&count, "count", 0, "number of competitors, defaults to enough to fill every division")
	return cmd
}
