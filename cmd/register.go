package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biosecret/portfolio-api/auth"
	"github.com/biosecret/portfolio-api/config"
	"github.com/biosecret/portfolio-api/database"
)

func registerCmd() *cobra.Command {
	var username, password, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a user account in the configured store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), cfg, func(store database.Store) error {
				svc := auth.NewService(store, cfg.JWTSecret, cfg.TokenTTL)
				if err := svc.Register(cmd.Context(), username, password, email); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ User %s registered\n", username)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "account name (required)")
	cmd.Flags().StringVar(&password, "password", "", "account password (required)")
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// withStore opens the configured store for the duration of fn
func withStore(ctx context.Context, cfg config.Config, fn func(database.Store) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := database.Open(ctx, cfg.StoreDriver, cfg.StoreSource())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}
