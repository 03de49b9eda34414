package cli

import (
	"fmt"
	"time"

	"erp-portal/internal/auth"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultTokenTTL = time.Hour

func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed access token for local development",
		Args:  cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			_ = viper.BindPFlags(cmd.Flags())
			_ = viper.BindEnv("jwt-secret", "JWT_SECRET")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()

			secret := v.GetString("jwt-secret")
			if secret == "" {
				return errors.New("JWT_SECRET must be set")
			}

			userID := uuid.New()
			if raw := v.GetString("user-id"); raw != "" {
				parsed, err := uuid.Parse(raw)
				if err != nil {
					return errors.Wrap(err, "invalid --user-id")
				}
				userID = parsed
			}

			roles := v.GetStringSlice("roles")
			if len(roles) == 0 {
				return errors.New("--roles is required")
			}

			token, err := auth.NewTokenVerifier(secret).Issue(userID, roles, v.GetDuration("ttl"))
			if err != nil {
				return errors.Wrap(err, "failed to sign token")
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().String("user-id", "", "user id to embed; a random one when empty")
	cmd.Flags().StringSlice("roles", nil, "roles to embed, comma separated")
	cmd.Flags().Duration("ttl", defaultTokenTTL, "token lifetime")

	return cmd
}
