package config

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SafeMPC/signin-service/internal/util"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	// DefaultStoreTTL matches the validity window of a signed key request.
	DefaultStoreTTL = 86400 * time.Second

	DefaultDerivationPath = "m/44'/60'/0'/0/0"
	DefaultAPIBaseURL     = "https://api.warpcast.com"

	StoreDriverNone   = "none"
	StoreDriverMemory = "memory"
	StoreDriverRedis  = "redis"
)

var (
	ErrMissingDeveloperFID      = errors.New("FARCASTER_DEVELOPER_FID is required")
	ErrInvalidDeveloperFID      = errors.New("FARCASTER_DEVELOPER_FID must be a positive integer")
	ErrMissingDeveloperMnemonic = errors.New("FARCASTER_DEVELOPER_MNEMONIC is required")
	ErrInvalidDerivationPath    = errors.New("FARCASTER_DEVELOPER_DERIVATION_PATH is not a valid BIP-32 path")
	ErrInvalidAPIBaseURL        = errors.New("FARCASTER_API_BASE_URL must be an absolute http(s) URL")
	ErrInvalidQRModuleSize      = errors.New("QR_MODULE_SIZE_PX must be between 1 and 64")
	ErrMissingRedisAddress      = errors.New("SIGNIN_STORE_REDIS_ADDRESS is required for the redis store")
)

type EchoServer struct {
	Debug                          bool
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	EnableCORSMiddleware           bool
	CORSAllowOrigins               []string
	EnableRecoverMiddleware        bool
	EnableRequestIDMiddleware      bool
	EnableLoggerMiddleware         bool
	EnableMetrics                  bool
}

type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	LogRequestHeader   bool
	LogResponseHeader  bool
	PrettyPrintConsole bool
	Caller             bool
}

// Farcaster holds the developer account and upstream API settings.
// DeveloperMnemonic is a secret and must never be logged.
type Farcaster struct {
	DeveloperFID      string
	DeveloperMnemonic string
	DerivationPath    string
	APIBaseURL        string
	APITimeout        time.Duration
}

// RequestFID parses DeveloperFID. FIDs are bounded to int64 as the api reports them.
func (f Farcaster) RequestFID() (uint64, error) {
	if strings.TrimSpace(f.DeveloperFID) == "" {
		return 0, ErrMissingDeveloperFID
	}

	fid, err := strconv.ParseUint(strings.TrimSpace(f.DeveloperFID), 10, 63)
	if err != nil || fid == 0 {
		return 0, ErrInvalidDeveloperFID
	}

	return fid, nil
}

type QR struct {
	ModuleSize int
}

type Store struct {
	Driver        string
	RedisAddress  string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

type Server struct {
	Echo      EchoServer
	Logger    LoggerServer
	Farcaster Farcaster
	QR        QR
	Store     Store
}

// Validate checks every setting the service cannot start without and reports
// all problems at once.
func (s Server) Validate() error {
	var result *multierror.Error

	if _, err := s.Farcaster.RequestFID(); err != nil {
		result = multierror.Append(result, err)
	}

	if strings.TrimSpace(s.Farcaster.DeveloperMnemonic) == "" {
		result = multierror.Append(result, ErrMissingDeveloperMnemonic)
	}

	if _, err := accounts.ParseDerivationPath(s.Farcaster.DerivationPath); err != nil {
		result = multierror.Append(result, errors.Wrap(ErrInvalidDerivationPath, err.Error()))
	}

	if u, err := url.Parse(s.Farcaster.APIBaseURL); err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		result = multierror.Append(result, ErrInvalidAPIBaseURL)
	}

	if s.QR.ModuleSize < 1 || s.QR.ModuleSize > 64 {
		result = multierror.Append(result, ErrInvalidQRModuleSize)
	}

	if s.Store.Driver == StoreDriverRedis && s.Store.RedisAddress == "" {
		result = multierror.Append(result, ErrMissingRedisAddress)
	}

	if err := result.ErrorOrNil(); err != nil {
		return &ValidationError{err: err}
	}

	return nil
}

// ValidationError is returned by Server.Validate and wraps every detected problem.
type ValidationError struct {
	err error
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + e.err.Error()
}

func (e *ValidationError) Unwrap() []error {
	var merr *multierror.Error
	if errors.As(e.err, &merr) {
		return merr.WrappedErrors()
	}

	return []error{e.err}
}

// DefaultServiceConfigFromEnv returns the server config as parsed from environment variables
// and their respective defaults defined below.
// We don't expect that ENV_VARs change while we are running our application or our tests
// (and it would be a bad thing to do anyways with parallel testing).
// Do NOT use os.Setenv / os.Unsetenv in tests utilizing DefaultServiceConfigFromEnv()!
func DefaultServiceConfigFromEnv() Server {
	// An `.env.local` file in your project root can override the currently set ENV variables.
	//
	// We never automatically apply `.env.local` when running "go test" as these ENV variables
	// may be sensitive (e.g. secrets to external APIs) and applying them modifies the process-global "os.Env" state
	// (it should be applied via t.Setenv instead).
	//
	// If you need dotenv ENV variables available in a test, do that explicitly within that
	// test before executing DefaultServiceConfigFromEnv (or test.WithTestServer).
	if !util.RunningInTest() {
		DotEnvTryLoad(util.GetProjectRootDir()+"/.env.local", util.Setenv)
	}

	return Server{
		Echo: EchoServer{
			Debug:                          util.GetEnvAsBool("SERVER_ECHO_DEBUG", false),
			ListenAddress:                  util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", ":8080"),
			HideInternalServerErrorDetails: util.GetEnvAsBool("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS", true),
			EnableCORSMiddleware:           util.GetEnvAsBool("SERVER_ECHO_ENABLE_CORS_MIDDLEWARE", true),
			CORSAllowOrigins:               util.GetEnvAsStringArr("SERVER_ECHO_CORS_ALLOW_ORIGINS", []string{"*"}),
			EnableRecoverMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true),
			EnableRequestIDMiddleware:      util.GetEnvAsBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true),
			EnableLoggerMiddleware:         util.GetEnvAsBool("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE", true),
			EnableMetrics:                  util.GetEnvAsBool("SERVER_ENABLE_METRICS", true),
		},
		Logger: LoggerServer{
			Level:              util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_LEVEL", zerolog.DebugLevel.String())),
			RequestLevel:       util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_REQUEST_LEVEL", zerolog.DebugLevel.String())),
			LogRequestHeader:   util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_HEADER", false),
			LogResponseHeader:  util.GetEnvAsBool("SERVER_LOGGER_LOG_RESPONSE_HEADER", false),
			PrettyPrintConsole: util.GetEnvAsBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false),
			Caller:             util.GetEnvAsBool("SERVER_LOGGER_CALLER", false),
		},
		Farcaster: Farcaster{
			DeveloperFID:      util.GetEnv("FARCASTER_DEVELOPER_FID", ""),
			DeveloperMnemonic: util.GetEnv("FARCASTER_DEVELOPER_MNEMONIC", ""),
			DerivationPath:    util.GetEnv("FARCASTER_DEVELOPER_DERIVATION_PATH", DefaultDerivationPath),
			APIBaseURL:        strings.TrimSuffix(util.GetEnv("FARCASTER_API_BASE_URL", DefaultAPIBaseURL), "/"),
			APITimeout:        time.Second * time.Duration(util.GetEnvAsInt("FARCASTER_API_TIMEOUT_SEC", 30)),
		},
		QR: QR{
			ModuleSize: util.GetEnvAsInt("QR_MODULE_SIZE_PX", 6),
		},
		Store: Store{
			Driver:        util.GetEnvEnum("SIGNIN_STORE_DRIVER", StoreDriverNone, []string{StoreDriverNone, StoreDriverMemory, StoreDriverRedis}),
			RedisAddress:  util.GetEnv("SIGNIN_STORE_REDIS_ADDRESS", ""),
			RedisPassword: util.GetEnv("SIGNIN_STORE_REDIS_PASSWORD", ""),
			RedisDB:       util.GetEnvAsInt("SIGNIN_STORE_REDIS_DB", 0),
			TTL:           time.Second * time.Duration(util.GetEnvAsInt("SIGNIN_STORE_TTL_SEC", int(DefaultStoreTTL/time.Second))),
		},
	}
}
