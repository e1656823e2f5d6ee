package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/SafeMPC/signin-service/internal/api"
	"github.com/SafeMPC/signin-service/internal/api/router"
	"github.com/SafeMPC/signin-service/internal/util/command"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Starts the sign-in HTTP server",
		Long: `Starts the sign-in HTTP server.

Requires configuration through ENV and optionally a config file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return command.WithServer(ctx, cfg, runServer)
		},
	}
}

func runServer(ctx context.Context, s *api.Server) error {
	if err := router.Init(s); err != nil {
		log.Error().Err(err).Msg("Failed to initialize router")
		return err
	}

	errs := make(chan error, 1)
	go func() {
		errs <- s.Start()
	}()

	select {
	case err := <-errs:
		if err != nil {
			log.Error().Err(err).Msg("Failed to start server")
		}
		return err
	case <-ctx.Done():
		// WithServer shuts the server down once we return
		log.Info().Msg("Received shutdown signal")
		return nil
	}
}
