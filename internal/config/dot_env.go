package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/subosito/gotenv"
)

// DotEnvTryLoad forcefully overrides ENV variables through **a maybe available** .env file.
//
// This function always silently fails in case there is no .env file at the given path.
// A malformed .env file aborts the process, as starting with half-applied secrets is worse.
func DotEnvTryLoad(absolutePathToEnvFile string, setEnvFn func(k string, v string) error) {
	err := DotEnvLoad(absolutePathToEnvFile, setEnvFn)

	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Fatal().Err(err).Str("envFile", absolutePathToEnvFile).Msg(".env parse error!")
		}
	} else {
		log.Warn().Str("envFile", absolutePathToEnvFile).Msg(".env overrides ENV variables!")
	}
}

// DotEnvLoad forcefully overrides ENV variables through the supplied .env file.
func DotEnvLoad(absolutePathToEnvFile string, setEnvFn func(k string, v string) error) error {
	file, err := os.Open(absolutePathToEnvFile)
	if err != nil {
		return err
	}
	defer file.Close()

	envs, err := gotenv.StrictParse(file)
	if err != nil {
		return errors.Wrap(err, "failed to parse .env file")
	}

	for key, val := range envs {
		if err := setEnvFn(key, val); err != nil {
			return errors.Wrapf(err, "failed to set env %s", key)
		}
	}

	return nil
}
