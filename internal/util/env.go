package util

import (
	"flag"
	"os"
	"strconv"
	"strings"
)

// GetEnv returns the value of the environment variable key or defaultVal if unset.
func GetEnv(key string, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}

	return defaultVal
}

// GetEnvEnum returns the value of key if it is one of allowedValues, defaultVal otherwise.
func GetEnvEnum(key string, defaultVal string, allowedValues []string) string {
	val := GetEnv(key, defaultVal)
	for _, allowed := range allowedValues {
		if val == allowed {
			return val
		}
	}

	return defaultVal
}

func GetEnvAsInt(key string, defaultVal int) int {
	strVal := GetEnv(key, "")

	if val, err := strconv.Atoi(strVal); err == nil {
		return val
	}

	return defaultVal
}

func GetEnvAsBool(key string, defaultVal bool) bool {
	strVal := GetEnv(key, "")

	if val, err := strconv.ParseBool(strVal); err == nil {
		return val
	}

	return defaultVal
}

// GetEnvAsStringArr splits the value of key by separator, trimming whitespace around each element.
func GetEnvAsStringArr(key string, defaultVal []string, separator ...string) []string {
	strVal := GetEnv(key, "")

	if len(strVal) == 0 {
		return defaultVal
	}

	sep := ","
	if len(separator) >= 1 {
		sep = separator[0]
	}

	parts := strings.Split(strVal, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts
}

// Setenv sets the environment variable key; it matches the signature DotEnvTryLoad expects.
func Setenv(key, value string) error {
	return os.Setenv(key, value)
}

// RunningInTest reports whether the current process is a "go test" binary.
func RunningInTest() bool {
	return flag.Lookup("test.v") != nil || strings.HasSuffix(os.Args[0], ".test")
}
