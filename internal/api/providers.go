package api

import (
	"crypto/rand"
	"io"
	"testing"
	"time"

	"github.com/SafeMPC/signin-service/internal/config"
	"github.com/SafeMPC/signin-service/internal/deeplink"
	"github.com/SafeMPC/signin-service/internal/farcaster"
	"github.com/SafeMPC/signin-service/internal/metrics"
	"github.com/SafeMPC/signin-service/internal/signin"
	"github.com/SafeMPC/signin-service/internal/signin/store"
	"github.com/dropbox/godropbox/time2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// PROVIDERS - define here only providers that for various reasons (e.g. cyclic dependency) can't live in their corresponding packages
// or for wrapping providers that only accept sub-configs to prevent the requirements for defining providers for sub-configs.
// https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

func NewClock(t ...*testing.T) time2.Clock {
	var clock time2.Clock

	useMock := len(t) > 0 && t[0] != nil

	if useMock {
		clock = time2.NewMockClock(time.Now())
	} else {
		clock = time2.DefaultClock
	}

	return clock
}

func NoTest() []*testing.T {
	return nil
}

func NewRandomSource() io.Reader {
	return rand.Reader
}

// NewDeveloperAccount derives the developer's custody key. The mnemonic is only read here.
func NewDeveloperAccount(cfg config.Server) (*farcaster.DeveloperAccount, error) {
	return farcaster.NewDeveloperAccount(cfg.Farcaster.DeveloperMnemonic, cfg.Farcaster.DerivationPath)
}

func NewKeyRequestSigner(cfg config.Server, account *farcaster.DeveloperAccount, clock time2.Clock) (*farcaster.KeyRequestSigner, error) {
	fid, err := cfg.Farcaster.RequestFID()
	if err != nil {
		return nil, err
	}

	return farcaster.NewKeyRequestSigner(fid, account, clock), nil
}

func NewFarcasterClient(cfg config.Server) *farcaster.Client {
	return farcaster.NewClient(cfg.Farcaster.APIBaseURL, cfg.Farcaster.APITimeout)
}

func NewEncoder(cfg config.Server) *deeplink.Encoder {
	return deeplink.NewEncoder(cfg.QR.ModuleSize)
}

// NewMetricsRegistry returns a registry owned by a single server, so several
// servers (e.g. parallel tests) never collide on collector registration.
func NewMetricsRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func NewMetrics(registry *prometheus.Registry) (*metrics.Service, error) {
	return metrics.New(registry)
}

// NewStore returns the request store selected by SIGNIN_STORE_DRIVER.
func NewStore(cfg config.Server, clock time2.Clock) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		return store.NewMemory(cfg.Store.TTL, clock), nil
	case config.StoreDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Store.RedisAddress,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		})
		return store.NewRedis(client, cfg.Store.TTL, clock), nil
	case config.StoreDriverNone, "":
		return store.Noop{}, nil
	default:
		return nil, errors.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func NewSignInService(
	signer *farcaster.KeyRequestSigner,
	client *farcaster.Client,
	st store.Store,
	m *metrics.Service,
	rand io.Reader,
	clock time2.Clock,
) *signin.Service {
	log.Debug().Str("requestSigner", signer.Address().Hex()).Msg("Initializing sign-in service")
	return signin.NewService(signer, client, st, m, rand, clock)
}
