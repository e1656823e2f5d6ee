package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SafeMPC/signin-service/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Farcaster.DeveloperFID = "1234"
	cfg.Farcaster.DeveloperMnemonic = "test test test test test test test test test test test junk"
	return cfg
}

func TestDefaultServiceConfigFromEnv(t *testing.T) {
	t.Setenv("FARCASTER_DEVELOPER_FID", "1234")
	t.Setenv("FARCASTER_API_BASE_URL", "http://localhost:9999/")
	t.Setenv("FARCASTER_API_TIMEOUT_SEC", "3")
	t.Setenv("SIGNIN_STORE_DRIVER", "memory")
	t.Setenv("SIGNIN_STORE_TTL_SEC", "60")
	t.Setenv("QR_MODULE_SIZE_PX", "10")

	cfg := config.DefaultServiceConfigFromEnv()

	assert.Equal(t, "1234", cfg.Farcaster.DeveloperFID)
	assert.Equal(t, "http://localhost:9999", cfg.Farcaster.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.Farcaster.APITimeout)
	assert.Equal(t, config.DefaultDerivationPath, cfg.Farcaster.DerivationPath)
	assert.Equal(t, config.StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, time.Minute, cfg.Store.TTL)
	assert.Equal(t, 10, cfg.QR.ModuleSize)
}

func TestDefaultServiceConfigFromEnvDefaults(t *testing.T) {
	t.Setenv("SIGNIN_STORE_DRIVER", "postgres")

	cfg := config.DefaultServiceConfigFromEnv()

	assert.Equal(t, config.DefaultAPIBaseURL, cfg.Farcaster.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.Farcaster.APITimeout)
	assert.Equal(t, config.StoreDriverNone, cfg.Store.Driver)
	assert.Equal(t, config.DefaultStoreTTL, cfg.Store.TTL)
	assert.Equal(t, 6, cfg.QR.ModuleSize)
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.Farcaster.DeveloperFID = "abc"
	cfg.Farcaster.DeveloperMnemonic = " "
	cfg.Farcaster.DerivationPath = "m/not/a/path"
	cfg.Farcaster.APIBaseURL = "ftp://api.warpcast.com"
	cfg.QR.ModuleSize = 0
	cfg.Store.Driver = config.StoreDriverRedis

	err := cfg.Validate()
	require.Error(t, err)

	var validationErr *config.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Unwrap(), 6)

	assert.ErrorIs(t, err, config.ErrInvalidDeveloperFID)
	assert.ErrorIs(t, err, config.ErrMissingDeveloperMnemonic)
	assert.ErrorIs(t, err, config.ErrInvalidDerivationPath)
	assert.ErrorIs(t, err, config.ErrInvalidAPIBaseURL)
	assert.ErrorIs(t, err, config.ErrInvalidQRModuleSize)
	assert.ErrorIs(t, err, config.ErrMissingRedisAddress)
}

func TestRequestFID(t *testing.T) {
	tests := []struct {
		name    string
		fid     string
		want    uint64
		wantErr error
	}{
		{name: "valid", fid: "1234", want: 1234},
		{name: "whitespace", fid: " 42 ", want: 42},
		{name: "missing", fid: "", wantErr: config.ErrMissingDeveloperFID},
		{name: "zero", fid: "0", wantErr: config.ErrInvalidDeveloperFID},
		{name: "negative", fid: "-1", wantErr: config.ErrInvalidDeveloperFID},
		{name: "not a number", fid: "abc", wantErr: config.ErrInvalidDeveloperFID},
		{name: "max int64", fid: "9223372036854775807", want: 9223372036854775807},
		{name: "above max int64", fid: "9223372036854775808", wantErr: config.ErrInvalidDeveloperFID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fid, err := config.Farcaster{DeveloperFID: tt.fid}.RequestFID()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, fid)
		})
	}
}

func TestMergeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"logger": {"level": "warn"},
		"farcaster": {"developer_fid": "99", "api_base_url": "https://example.com/", "api_timeout": "5s"},
		"store": {"driver": "redis", "redis_address": "localhost:6379", "ttl": "1h"}
	}`), 0o600))

	cfg := validConfig()
	require.NoError(t, config.MergeFile(path, &cfg))

	assert.Equal(t, zerolog.WarnLevel, cfg.Logger.Level)
	assert.Equal(t, "99", cfg.Farcaster.DeveloperFID)
	assert.Equal(t, "https://example.com", cfg.Farcaster.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.Farcaster.APITimeout)
	assert.Equal(t, config.StoreDriverRedis, cfg.Store.Driver)
	assert.Equal(t, "localhost:6379", cfg.Store.RedisAddress)
	assert.Equal(t, time.Hour, cfg.Store.TTL)

	// untouched keys keep their value
	assert.Equal(t, "test test test test test test test test test test test junk", cfg.Farcaster.DeveloperMnemonic)
	require.NoError(t, cfg.Validate())
}

func TestMergeFileInvalidLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logger:\n  level: loud\n"), 0o600))

	cfg := validConfig()
	assert.Error(t, config.MergeFile(path, &cfg))
}

func TestDotEnvLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.local")
	require.NoError(t, os.WriteFile(path, []byte("FARCASTER_DEVELOPER_FID=777\nQR_MODULE_SIZE_PX=\"9\"\n"), 0o600))

	got := map[string]string{}
	err := config.DotEnvLoad(path, func(k string, v string) error {
		got[k] = v
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"FARCASTER_DEVELOPER_FID": "777", "QR_MODULE_SIZE_PX": "9"}, got)

	err = config.DotEnvLoad(filepath.Join(t.TempDir(), "missing"), func(string, string) error { return nil })
	assert.ErrorIs(t, err, os.ErrNotExist)
}
