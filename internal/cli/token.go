package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/stwalsh4118/rms/internal/middleware"
)

func newTokenCmd() *cobra.Command {
	var (
		flagOwner     string
		flagAdmin     bool
		flagSecret    string
		flagExpiresIn time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed owner token for local use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := uuid.Parse(flagOwner)
			if err != nil {
				return fmt.Errorf("invalid --owner %q: %w", flagOwner, err)
			}

			secret := flagSecret
			if secret == "" {
				_ = godotenv.Load()
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return errors.New("no signing secret: pass --secret or set JWT_SECRET")
			}

			now := time.Now().UTC()
			token, err := middleware.SignOwnerToken(secret, owner, flagAdmin, jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(flagExpiresIn)),
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagOwner, "owner", "", "owner UUID (sub claim)")
	cmd.Flags().BoolVar(&flagAdmin, "admin", false, "set is_admin=true")
	cmd.Flags().StringVar(&flagSecret, "secret", "", "HS256 secret (default: $JWT_SECRET)")
	cmd.Flags().DurationVar(&flagExpiresIn, "expires-in", 24*time.Hour, "token lifetime (e.g. 30m, 2h)")

	_ = cmd.MarkFlagRequired("owner")

	return cmd
}
