package test

import (
	"context"
	"testing"

	"github.com/SafeMPC/signin-service/internal/api"
	"github.com/SafeMPC/signin-service/internal/api/router"
	"github.com/SafeMPC/signin-service/internal/config"
)

// NewTestConfig returns the config of DefaultServiceConfigFromEnv completed with
// the test developer account and pointed at upstreamURL.
func NewTestConfig(upstreamURL string) config.Server {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Farcaster.DeveloperFID = TestDeveloperFID
	cfg.Farcaster.DeveloperMnemonic = TestMnemonic
	cfg.Farcaster.APIBaseURL = upstreamURL
	cfg.Echo.EnableLoggerMiddleware = false

	return cfg
}

// WithTestServer runs closure against a fully wired server talking to a fresh FakeWarpcast.
func WithTestServer(t *testing.T, closure func(s *api.Server, upstream *FakeWarpcast)) {
	t.Helper()

	upstream := NewFakeWarpcast(t)

	WithTestServerConfigurable(t, NewTestConfig(upstream.URL()), func(s *api.Server) {
		closure(s, upstream)
	})
}

// WithTestServerConfigurable runs closure against a server initialized with config.
func WithTestServerConfigurable(t *testing.T, config config.Server, closure func(s *api.Server)) {
	t.Helper()

	s, err := api.InitNewTestServer(config, t)
	if err != nil {
		t.Fatalf("Failed to init test server: %v", err)
	}

	if err := router.Init(s); err != nil {
		t.Fatalf("Failed to init router: %v", err)
	}

	closure(s)

	// echo is only used through its ServeHTTP method, closing it is enough
	if errs := s.Shutdown(context.Background()); len(errs) > 0 {
		t.Fatalf("Failed to shutdown server: %v", errs)
	}
}
