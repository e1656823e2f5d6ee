package util_test

import (
	"testing"

	"github.com/SafeMPC/signin-service/internal/util"
	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("SIGNIN_TEST_STRING", "value")
	t.Setenv("SIGNIN_TEST_INT", "42")
	t.Setenv("SIGNIN_TEST_INT_INVALID", "forty-two")
	t.Setenv("SIGNIN_TEST_BOOL", "true")
	t.Setenv("SIGNIN_TEST_ENUM", "redis")
	t.Setenv("SIGNIN_TEST_ARR", "a, b ,c")

	assert.Equal(t, "value", util.GetEnv("SIGNIN_TEST_STRING", "default"))
	assert.Equal(t, "default", util.GetEnv("SIGNIN_TEST_UNSET", "default"))

	assert.Equal(t, 42, util.GetEnvAsInt("SIGNIN_TEST_INT", 1))
	assert.Equal(t, 1, util.GetEnvAsInt("SIGNIN_TEST_INT_INVALID", 1))

	assert.True(t, util.GetEnvAsBool("SIGNIN_TEST_BOOL", false))
	assert.False(t, util.GetEnvAsBool("SIGNIN_TEST_UNSET", false))

	assert.Equal(t, "redis", util.GetEnvEnum("SIGNIN_TEST_ENUM", "none", []string{"none", "redis"}))
	assert.Equal(t, "none", util.GetEnvEnum("SIGNIN_TEST_ENUM", "none", []string{"none", "memory"}))

	assert.Equal(t, []string{"a", "b", "c"}, util.GetEnvAsStringArr("SIGNIN_TEST_ARR", nil))
	assert.Equal(t, []string{"*"}, util.GetEnvAsStringArr("SIGNIN_TEST_UNSET", []string{"*"}))
}

func TestRunningInTest(t *testing.T) {
	assert.True(t, util.RunningInTest())
}
