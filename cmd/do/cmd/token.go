package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/templui/userfiles/internal/config"
	"github.com/templui/userfiles/internal/model"
	"github.com/templui/userfiles/internal/service"
)

// TokenCmd mints a session token for calling the API with a bearer header.
// Development deployments may run without an identity provider configured.
func TokenCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "token <provider|id>",
		Short: "Mint a session token for an identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadSession()
			if cfg.IsProduction() {
				return fmt.Errorf("refusing to mint tokens in production")
			}

			provider, _, _ := strings.Cut(args[0], "|")
			authService := service.NewAuthService(cfg.JWTSecret, cfg.AppURL, cfg.JWTExpiry, false)

			token, expiresAt, err := authService.IssueSession(&model.Identity{
				Subject:  args[0],
				Name:     name,
				Provider: provider,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name claim")
	return cmd
}
