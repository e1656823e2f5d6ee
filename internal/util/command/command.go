package command

import (
	"context"
	"os"
	"time"

	"github.com/SafeMPC/signin-service/internal/api"
	"github.com/SafeMPC/signin-service/internal/config"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	// ConfigFlag names the persistent flag holding an optional config file.
	ConfigFlag = "config"

	defaultShutdownTimeout = 10 * time.Second
)

// NewSubcommandGroup returns a cobra command that only groups the given subcommands.
func NewSubcommandGroup(use string, subCommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: use + " related subcommands",
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				log.Error().Err(err).Msg("Failed to print help")
			}
		},
	}

	cmd.AddCommand(subCommands...)

	return cmd
}

// LoadConfig reads the config from ENV and merges the file given by --config, if any.
func LoadConfig(cmd *cobra.Command) (config.Server, error) {
	cfg := config.DefaultServiceConfigFromEnv()

	path, err := cmd.Flags().GetString(ConfigFlag)
	if err != nil || path == "" {
		// the flag is not registered on commands outside of the root command tree
		return cfg, nil
	}

	if err := config.MergeFile(path, &cfg); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to merge config file")
		return cfg, err
	}

	return cfg, nil
}

// ConfigureLogger applies the logger configuration to the global zerolog logger.
func ConfigureLogger(cfg config.LoggerServer) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(cfg.Level)

	if cfg.PrettyPrintConsole {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}

	if cfg.Caller {
		log.Logger = log.Logger.With().Caller().Logger()
	}
}

// WithServer validates cfg, initializes a fully wired *api.Server and hands it to f.
// The server is shut down once f returns.
func WithServer(ctx context.Context, cfg config.Server, f func(ctx context.Context, s *api.Server) error) error {
	ConfigureLogger(cfg.Logger)

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("Invalid service configuration")
		return err
	}

	s, err := api.InitNewServer(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize server")
		return errors.Wrap(err, "failed to initialize server")
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()

		if errs := s.Shutdown(shutdownCtx); len(errs) > 0 {
			log.Error().Errs("shutdownErrors", errs).Msg("Failed to gracefully shut down server")
		}
	}()

	return f(ctx, s)
}
