package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/voice-agent/internal/adapter/repository"
	"github.com/johnquangdev/voice-agent/internal/infrastructure/cache"
	"github.com/johnquangdev/voice-agent/internal/infrastructure/database"
	"github.com/johnquangdev/voice-agent/internal/infrastructure/external/oauth"
	"github.com/johnquangdev/voice-agent/internal/usecase/auth"
	"github.com/johnquangdev/voice-agent/pkg/jwt"
)

var (
	tokenEmail string
	tokenName  string
)

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "alice@test.local", "user email")
	tokenCmd.Flags().StringVar(&tokenName, "name", "Alice", "user display name")
	rootCmd.AddCommand(tokenCmd)
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a development access token for a local user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer database.CloseDB(db)

		if cfg.IsProduction() {
			return fmt.Errorf("development tokens cannot be issued in production")
		}

		store := cache.NewMemoryStore()
		defer store.Close()

		svc := auth.NewOAuthService(
			repository.NewUserRepository(db),
			repository.NewSessionRepository(db),
			oauth.NewGoogleProvider(cfg.OAuth.Google),
			oauth.NewStateManager(store),
			jwt.NewManager(cfg.JWT),
			newLogger(),
		)

		resp, err := svc.IssueDevToken(cmd.Context(), tokenEmail, tokenName)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "User:          %s (%s)\n", resp.User.Email, resp.User.ID)
		fmt.Fprintf(out, "Access token:  %s\n", resp.AccessToken)
		fmt.Fprintf(out, "Refresh token: %s\n", resp.RefreshToken)
		fmt.Fprintf(out, "Expires in:    %ds\n", resp.ExpiresIn)
		return nil
	},
}
