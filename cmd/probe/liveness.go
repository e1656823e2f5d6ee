package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/SafeMPC/signin-service/internal/util/command"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Checks whether a running server answers /-/healthy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return err
			}

			verbose, _ := cmd.Flags().GetBool(verboseFlag)

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			if err := probeHTTP(ctx, cfg.Echo.ListenAddress, "/-/healthy"); err != nil {
				log.Error().Err(err).Msg("Liveness probe failed")
				return err
			}

			if verbose {
				fmt.Fprintln(cmd.OutOrStdout(), "Healthy.")
			}

			return nil
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Print the probe result")

	return cmd
}

func probeHTTP(ctx context.Context, listenAddress string, path string) error {
	host := listenAddress
	if len(host) > 0 && host[0] == ':' {
		host = "127.0.0.1" + host
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+host+path, nil)
	if err != nil {
		return err
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "failed to probe %s", path)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return errors.Errorf("%s responded with status %d", path, res.StatusCode)
	}

	return nil
}
