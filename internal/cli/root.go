// Package cli is the operator command line for the push worker.
package cli

import (
	"github.com/go-push-worker/internal/config"
	jwtinfra "github.com/go-push-worker/internal/infrastructure/jwt"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pushctl",
		Short:         "Operator tooling for the push worker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newTokenCmd())
	cmd.AddCommand(newVerifyCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}

func loadProvider() (*jwtinfra.Provider, error) {
	return jwtinfra.NewProvider(config.Load())
}
