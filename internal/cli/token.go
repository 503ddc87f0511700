package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/cinema-booking/internal/utils"
)

// newTokenCommand mints an access token for local testing.  It signs
// with the same secret the service reads from JWT_SECRET.
func newTokenCommand() *cobra.Command {
	var (
		secret, subject string
		ttl             time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token --subject USER_ID",
		Short: "Mint a development access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				return errors.New("--secret or JWT_SECRET is required")
			}
			if subject == "" {
				return errors.New("--subject is required")
			}
			tok, err := utils.NewAccessToken(secret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC secret")
	cmd.Flags().StringVar(&subject, "subject", "", "user id placed in the sub claim")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
