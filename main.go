package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"fightnight/card"
	"fightnight/career"
	"fightnight/config"
	"fightnight/database"
	"fightnight/fight"
	"fightnight/logger"
	"fightnight/policy"
	"fightnight/roster"
	"fightnight/scheduler"
	"fightnight/utils"
	"fightnight/web"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const SHUTDOWN_TIMEOUT = 10 * time.Second

var Module = fx.Options(
	fx.Provide(config.Load),
	fx.Provide(provideLogger),
	fx.Provide(provideDB),
	fx.Provide(database.NewRepository),
	fx.Provide(providePolicy),
	fx.Provide(fight.NewEngine),
	fx.Provide(provideMatchmaker),
	fx.Provide(provideScheduler),
	fx.Provide(web.NewServer),
)

func main() {
	fx.New(
		Module,
		fx.NopLogger,
		fx.Invoke(bootstrap),
		fx.Invoke(runServer),
		fx.Invoke(runTicker),
	).Run()
}

func provideLogger(cfg *config.Config) zerolog.Logger {
	log := logger.New(cfg.LogLevel)
	if !cfg.DotEnvLoaded {
		log.Debug().Msg(".env file not found, using environment variables or defaults")
	}
	log.Info().
		Str("database_url", cfg.DatabaseURL).
		Str("port", cfg.Port).
		Str("promotion", cfg.PromotionName).
		Dur("event_interval", cfg.EventInterval).
		Msg("configuration loaded")
	return log
}

func provideDB(cfg *config.Config, log zerolog.Logger) (*sqlx.DB, error) {
	return database.Open(cfg.DatabaseURL, log)
}

func providePolicy(cfg *config.Config) policy.SimulationPolicy {
	return cfg.Policy
}

func provideMatchmaker(cfg *config.Config) *card.Matchmaker {
	return card.NewMatchmaker(cfg.PromotionName)
}

func provideScheduler(cfg *config.Config, repo *database.Repository, p policy.SimulationPolicy, mm *card.Matchmaker, log zerolog.Logger) (*scheduler.Scheduler, error) {
	seed := cfg.Seed
	if seed == 0 {
		var err error
		if seed, err = utils.NewSeed(); err != nil {
			return nil, err
		}
	}
	log.Info().Int64("seed", seed).Msg("simulation seed")
	return scheduler.NewScheduler(repo, p, mm, seed, career.NewCalendar(cfg.StartYear, cfg.StartEvent), log), nil
}

// bootstrap imports the starting roster into an empty database and fills in
// ranking scores missing from older rows.
func bootstrap(lc fx.Lifecycle, cfg *config.Config, repo *database.Repository, log zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			n, err := repo.CountFighters(ctx)
			if err != nil {
				return err
			}
			if n == 0 && cfg.RosterImport != "" {
				if err := importRoster(ctx, repo, cfg.RosterImport); err != nil {
					return err
				}
			} else if n == 0 {
				log.Warn().Msg("roster is empty; set ROSTER_IMPORT to load one")
			}
			return repo.BackfillRankingScores(ctx)
		},
	})
}

func importRoster(ctx context.Context, repo *database.Repository, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	fighters, err := roster.DecodeJSON(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return repo.ImportRoster(ctx, fighters)
}

func runServer(lc fx.Lifecycle, server *web.Server, cfg *config.Config, db *sqlx.DB, log zerolog.Logger) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info().Str("addr", srv.Addr).Msg("server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			if err := db.Close(); err != nil {
				log.Warn().Err(err).Msg("error closing database connection")
			}
			log.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}

// runTicker runs one event every EVENT_INTERVAL when the interval is set.
func runTicker(lc fx.Lifecycle, cfg *config.Config, sched *scheduler.Scheduler, log zerolog.Logger) {
	if cfg.EventInterval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.EventInterval)
				defer ticker.Stop()

				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						report, err := sched.RunNextEvent(ctx)
						if err != nil {
							log.Error().Err(err).Msg("background event failed")
							continue
						}
						log.Info().
							Str("event", report.Name).
							Str("buys", utils.FormatNumber(report.Buys)).
							Msg("background event complete")
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
