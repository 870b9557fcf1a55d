package cmd

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/config"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/jwt"
	authService "github.com/cmlabs-hris/ledger-backend-go/internal/service/auth"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		role    string
		subject string
		ttl     time.Duration
	)

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for the API",
		Long: `Sign an access token with JWT_SECRET_KEY for the given role.

Example:
  ledgerctl token --role admin --subject ops --ttl 24h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			jwtService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
			if err != nil {
				return err
			}

			resp, err := authService.NewAuthService(jwtService).IssueToken(cmd.Context(), auth.IssueTokenRequest{
				Subject: subject,
				Role:    role,
				TTL:     ttl,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	tokenCmd.Flags().StringVar(&role, "role", string(auth.RoleViewer), "role claim (admin, manager or viewer)")
	tokenCmd.Flags().StringVar(&subject, "subject", "ledgerctl", "subject claim")
	tokenCmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default JWT_ACCESS_EXPIRATION_TIME)")

	return tokenCmd
}
