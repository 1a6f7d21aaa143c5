package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// newTokenCmd mints a relay token with the configured private key.
func newTokenCmd() *cobra.Command {
	var relay string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a relay token for POST /v1/push",
		RunE: func(cmd *cobra.Command, args []string) error {
			if relay == "" {
				return errors.New("--relay is required")
			}
			p, err := loadProvider()
			if err != nil {
				return err
			}
			token, err := p.Sign(relay)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&relay, "relay", "", "Relay name carried in the token")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Check a relay token against the configured public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProvider()
			if err != nil {
				return err
			}
			claims, err := p.Verify(args[0])
			if err != nil {
				return fmt.Errorf("verify token: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "relay %s, expires %s\n", claims.Relay, claims.ExpiresAt.Time.UTC().Format("2006-01-02T15:04:05Z"))
			return nil
		},
	}
}
