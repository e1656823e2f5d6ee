package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/SafeMPC/signin-service/internal/config"
	"github.com/SafeMPC/signin-service/internal/deeplink"
	"github.com/SafeMPC/signin-service/internal/farcaster"
	"github.com/SafeMPC/signin-service/internal/metrics"
	"github.com/SafeMPC/signin-service/internal/signin"
	"github.com/dropbox/godropbox/time2"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

type Router struct {
	Routes     []*echo.Route
	Root       *echo.Group
	Management *echo.Group
}

// Server is a fully wired sign-in service. The fields are read-only once
// InitNewServer returned and shared by all requests.
type Server struct {
	Config    config.Server
	Echo      *echo.Echo
	Router    *Router
	Clock     time2.Clock
	Signer    *farcaster.KeyRequestSigner
	Farcaster *farcaster.Client
	SignIn    *signin.Service
	Encoder   *deeplink.Encoder
	Metrics   *metrics.Service
	Registry  *prometheus.Registry
}

func newServerWithComponents(
	cfg config.Server,
	clock time2.Clock,
	signer *farcaster.KeyRequestSigner,
	client *farcaster.Client,
	signIn *signin.Service,
	encoder *deeplink.Encoder,
	m *metrics.Service,
	registry *prometheus.Registry,
) *Server {
	return &Server{
		Config:    cfg,
		Clock:     clock,
		Signer:    signer,
		Farcaster: client,
		SignIn:    signIn,
		Encoder:   encoder,
		Metrics:   m,
		Registry:  registry,
	}
}

// Ready reports whether every component required to serve requests is initialized.
func (s *Server) Ready() bool {
	return s.Echo != nil &&
		s.Router != nil &&
		s.Signer != nil &&
		s.Farcaster != nil &&
		s.SignIn != nil &&
		s.Encoder != nil
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	log.Info().
		Str("listenAddress", s.Config.Echo.ListenAddress).
		Uint64("requestFid", s.Signer.RequestFID()).
		Str("requestSigner", s.Signer.Address().Hex()).
		Str("storeDriver", s.Config.Store.Driver).
		Msg("Starting sign-in service")

	if err := s.Echo.Start(s.Config.Echo.ListenAddress); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown stops the HTTP server and releases the request store. All errors are collected.
func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Echo != nil {
		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown HTTP server")
			errs = append(errs, err)
		}
	}

	if s.SignIn != nil {
		if err := s.SignIn.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close sign-in request store")
			errs = append(errs, err)
		}
	}

	return errs
}
