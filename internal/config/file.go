package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// MergeFile overlays the settings found in the config file at path on top of cfg.
// Any format viper understands (yaml, toml, json, ...) is accepted; keys absent
// from the file leave the current value untouched.
//
//	farcaster:
//	  developer_fid: "1234"
//	  api_timeout: 10s
//	store:
//	  driver: redis
//	  redis_address: localhost:6379
func MergeFile(path string, cfg *Server) error {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}

	setString := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	setBool := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}
	setInt := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}

	setString("echo.listen_address", &cfg.Echo.ListenAddress)
	setBool("echo.debug", &cfg.Echo.Debug)
	setBool("echo.enable_metrics", &cfg.Echo.EnableMetrics)
	if v.IsSet("echo.cors_allow_origins") {
		cfg.Echo.CORSAllowOrigins = v.GetStringSlice("echo.cors_allow_origins")
	}

	setBool("logger.pretty_print_console", &cfg.Logger.PrettyPrintConsole)
	setBool("logger.caller", &cfg.Logger.Caller)
	if v.IsSet("logger.level") {
		level, err := zerolog.ParseLevel(v.GetString("logger.level"))
		if err != nil {
			return errors.Wrap(err, "invalid logger.level")
		}
		cfg.Logger.Level = level
	}

	setString("farcaster.developer_fid", &cfg.Farcaster.DeveloperFID)
	setString("farcaster.developer_mnemonic", &cfg.Farcaster.DeveloperMnemonic)
	setString("farcaster.derivation_path", &cfg.Farcaster.DerivationPath)
	setString("farcaster.api_base_url", &cfg.Farcaster.APIBaseURL)
	cfg.Farcaster.APIBaseURL = strings.TrimSuffix(cfg.Farcaster.APIBaseURL, "/")
	if v.IsSet("farcaster.api_timeout") {
		cfg.Farcaster.APITimeout = v.GetDuration("farcaster.api_timeout")
	}

	setInt("qr.module_size", &cfg.QR.ModuleSize)

	setString("store.driver", &cfg.Store.Driver)
	setString("store.redis_address", &cfg.Store.RedisAddress)
	setString("store.redis_password", &cfg.Store.RedisPassword)
	setInt("store.redis_db", &cfg.Store.RedisDB)
	if v.IsSet("store.ttl") {
		cfg.Store.TTL = v.GetDuration("store.ttl")
	}

	return nil
}
