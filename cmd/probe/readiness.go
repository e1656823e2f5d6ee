package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/SafeMPC/signin-service/internal/api"
	"github.com/SafeMPC/signin-service/internal/util/command"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newReadiness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Checks whether the service could start with the current configuration",
		Long: `Validates the configuration, derives the developer account and
pings the request store. Does not require a running server.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return err
			}

			verbose, _ := cmd.Flags().GetBool(verboseFlag)

			return command.WithServer(cmd.Context(), cfg, func(ctx context.Context, s *api.Server) error {
				ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
				defer cancel()

				if err := s.SignIn.Ping(ctx); err != nil {
					log.Error().Err(err).Msg("Request store is not reachable")
					return err
				}

				if verbose {
					fmt.Fprintf(cmd.OutOrStdout(), "Ready. FID %d signs as %s\n", s.Signer.RequestFID(), s.Signer.Address().Hex())
				}

				return nil
			})
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Print the probe result")

	return cmd
}
