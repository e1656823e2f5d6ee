package signin

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SafeMPC/signin-service/internal/api"
	"github.com/SafeMPC/signin-service/internal/farcaster"
	"github.com/SafeMPC/signin-service/internal/util/command"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	intervalFlag = "interval"
	timeoutFlag  = "timeout"
)

var (
	ErrTimeout         = errors.New("sign-in was not approved in time")
	ErrExpired         = errors.New("sign-in request expired")
	ErrNotApproved     = errors.New("sign-in request ended without approval")
	ErrInvalidInterval = errors.New("interval must be positive")
	ErrInvalidTimeout  = errors.New("timeout must be positive")
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Runs a sign-in in the terminal",
		Long: `Registers a new signer, prints its deep link as QR code and polls
until the request was approved or the timeout passed.

The private key of the signer is printed once and never stored.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			interval, err := cmd.Flags().GetDuration(intervalFlag)
			if err != nil {
				return err
			}
			timeout, err := cmd.Flags().GetDuration(timeoutFlag)
			if err != nil {
				return err
			}
			if err := validatePolling(interval, timeout); err != nil {
				return err
			}

			cfg, err := command.LoadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return command.WithServer(ctx, cfg, func(ctx context.Context, s *api.Server) error {
				return runSignIn(ctx, s, cmd.OutOrStdout(), interval, timeout)
			})
		},
	}

	cmd.Flags().Duration(intervalFlag, 2*time.Second, "Poll interval")
	cmd.Flags().Duration(timeoutFlag, 5*time.Minute, "Give up after this duration")

	return cmd
}

// validatePolling rejects durations time.NewTicker and context.WithTimeout can't work with.
func validatePolling(interval time.Duration, timeout time.Duration) error {
	if interval <= 0 {
		return errors.Wrapf(ErrInvalidInterval, "--%s %s", intervalFlag, interval)
	}
	if timeout <= 0 {
		return errors.Wrapf(ErrInvalidTimeout, "--%s %s", timeoutFlag, timeout)
	}

	return nil
}

func runSignIn(ctx context.Context, s *api.Server, out io.Writer, interval time.Duration, timeout time.Duration) error {
	if err := validatePolling(interval, timeout); err != nil {
		return err
	}

	pending, err := s.SignIn.SignIn(ctx)
	if err != nil {
		return err
	}

	qr, err := s.Encoder.Terminal(pending.Token)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, qr)
	fmt.Fprintf(out, "Open %s to approve the signer.\n\n", pending.DeepLinkURL)
	fmt.Fprintf(out, "Public key:  %s\n", pending.PublicKey)
	fmt.Fprintf(out, "Private key: %s\n\n", pending.PrivateKey)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := ""
	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrTimeout
			}
			return ctx.Err()
		case <-ticker.C:
		}

		result, err := s.SignIn.Poll(ctx, pending.Token)
		if err != nil {
			// a failed poll is retried on the next tick
			log.Warn().Err(err).Msg("Failed to poll sign-in request")
			continue
		}

		if result.State != last {
			fmt.Fprintf(out, "State: %s\n", result.State)
			last = result.State
		}

		switch {
		case farcaster.IsApprovedState(result.State):
			if result.UserFID != nil {
				fmt.Fprintf(out, "Signed in as FID %d\n", *result.UserFID)
			}
			return nil
		case result.State == farcaster.StateExpired:
			return ErrExpired
		case farcaster.IsTerminalState(result.State):
			return errors.Wrapf(ErrNotApproved, "state %q", result.State)
		}
	}
}
