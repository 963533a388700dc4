package main

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"raidtracker/internal/constants"
	fxmodules "raidtracker/internal/fx"
	"raidtracker/internal/service"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runProcessor),
	).Run()
}

func runProcessor(
	lc fx.Lifecycle,
	processor *service.Processor,
	db *sql.DB,
	logger zerolog.Logger,
) {
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer close(done)
				logger.Info().Msg("processor starting")
				processor.Run(runCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down")
			cancel()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer shutdownCancel()

			select {
			case <-done:
			case <-shutdownCtx.Done():
				logger.Warn().Msg("processor did not stop within timeout")
			}

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}

			logger.Info().Msg("stopped gracefully")
			return nil
		},
	})
}
