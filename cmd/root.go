package cmd

import (
	"os"

	"github.com/SafeMPC/signin-service/cmd/probe"
	"github.com/SafeMPC/signin-service/cmd/server"
	"github.com/SafeMPC/signin-service/cmd/signin"
	"github.com/SafeMPC/signin-service/internal/util/command"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "signin-service",
	Short: "Farcaster delegated sign-in service",
	Long: `Registers signed key requests on behalf of a Farcaster developer account
and lets users approve the generated signer through a deep link.

Requires configuration through ENV (FARCASTER_DEVELOPER_FID, FARCASTER_DEVELOPER_MNEMONIC)
and optionally a config file (--config).`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().String(command.ConfigFlag, "", "optional config file (yaml, toml or json) merged on top of ENV")

	rootCmd.AddCommand(
		probe.New(),
		server.New(),
		signin.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
