package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DhavalSuthar-24/crease/internal/user"
	"github.com/DhavalSuthar-24/crease/pkg/token"
)

type TokenOptions struct {
	UserID  uint
	Role    string
	Secret  string
	Minutes int
}

// NewTokenCommand creates the token command. The secret defaults to
// JWT_ACCESS_TOKEN_SECRET.
func NewTokenCommand() *cobra.Command {
	opts := &TokenOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for a user",
		Long: `Mint a signed access token, for scripting against a local server.

The server still checks the user's roles in the database; the role claim is
informational.

Examples:
  crease token --user 3 --role scorer
  crease token --user 3 --secret dev-secret --minutes 60`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.UserID == 0 {
				return errors.New("--user is required")
			}
			switch opts.Role {
			case user.RoleScorer, user.RolePlayer, user.RoleAdmin:
			default:
				return fmt.Errorf("unknown role %q", opts.Role)
			}
			secret := opts.Secret
			if secret == "" {
				secret = os.Getenv("JWT_ACCESS_TOKEN_SECRET")
			}
			tok, err := token.GenerateJWT(opts.UserID, opts.Role, secret, opts.Minutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().UintVar(&opts.UserID, "user", 0, "user id carried in the token")
	cmd.Flags().StringVar(&opts.Role, "role", user.RoleScorer, "role claim (scorer|player|admin)")
	cmd.Flags().StringVar(&opts.Secret, "secret", "", "signing secret")
	cmd.Flags().IntVar(&opts.Minutes, "minutes", 720, "lifetime in minutes")

	return cmd
}
