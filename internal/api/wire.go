//go:build wireinject

//go:generate wire

package api

import (
	"testing"

	"github.com/SafeMPC/signin-service/internal/config"
	"github.com/google/wire"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	NewDeveloperAccount,
	NewKeyRequestSigner,
	NewFarcasterClient,
	NewEncoder,
	NewStore,
	NewSignInService,
	NewMetricsRegistry,
	NewMetrics,
	NewRandomSource,
	NewClock,
)

// InitNewServer returns a new Server instance.
func InitNewServer(
	_ config.Server,
) (*Server, error) {
	wire.Build(serviceSet, NoTest)
	return new(Server), nil
}

// InitNewTestServer returns a new Server instance driven by a mock clock.
// All the other components are initialized via go wire according to the configuration.
func InitNewTestServer(
	_ config.Server,
	t ...*testing.T,
) (*Server, error) {
	wire.Build(serviceSet)
	return new(Server), nil
}
