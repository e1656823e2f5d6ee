package command_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/SafeMPC/signin-service/internal/api"
	"github.com/SafeMPC/signin-service/internal/config"
	"github.com/SafeMPC/signin-service/internal/test"
	"github.com/SafeMPC/signin-service/internal/util/command"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithServer(t *testing.T) {
	upstream := test.NewFakeWarpcast(t)
	cfg := test.NewTestConfig(upstream.URL())

	called := false
	err := command.WithServer(context.Background(), cfg, func(ctx context.Context, s *api.Server) error {
		called = true
		assert.NotNil(t, s.SignIn)
		assert.Equal(t, test.TestDeveloperAddress, s.Signer.Address().Hex())
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestWithServerInvalidConfig(t *testing.T) {
	cfg := test.NewTestConfig("not a url")
	cfg.Farcaster.DeveloperFID = ""

	err := command.WithServer(context.Background(), cfg, func(ctx context.Context, s *api.Server) error {
		t.Fatal("closure must not run with an invalid config")
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingDeveloperFID)
	assert.ErrorIs(t, err, config.ErrInvalidAPIBaseURL)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("farcaster:\n  developer_fid: \"4321\"\nqr:\n  module_size: 8\n"), 0o600))

	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().String(command.ConfigFlag, "", "")
	require.NoError(t, cmd.Flags().Set(command.ConfigFlag, path))

	cfg, err := command.LoadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "4321", cfg.Farcaster.DeveloperFID)
	assert.Equal(t, 8, cfg.QR.ModuleSize)

	require.NoError(t, cmd.Flags().Set(command.ConfigFlag, filepath.Join(t.TempDir(), "missing.yaml")))
	_, err = command.LoadConfig(cmd)
	assert.Error(t, err)
}

func TestNewSubcommandGroup(t *testing.T) {
	sub := &cobra.Command{Use: "child", Run: func(*cobra.Command, []string) {}}
	group := command.NewSubcommandGroup("group", sub)

	assert.Equal(t, "group", group.Use)
	require.Len(t, group.Commands(), 1)
	assert.Equal(t, "child", group.Commands()[0].Use)
}
