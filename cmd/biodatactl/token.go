package main

import (
	"fmt"

	"go-biodata-backend/config"
	"go-biodata-backend/internal/repository/postgres"
	"go-biodata-backend/internal/usecase"
	"go-biodata-backend/pkg/auth"
	"go-biodata-backend/pkg/database"

	"github.com/spf13/cobra"
)

var tokenUserID int64

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage access tokens",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a signed token for an existing user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenUserID <= 0 {
			return fmt.Errorf("--user-id must be a positive integer")
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		tokens, err := auth.NewTokenService(cfg.JWTSecret)
		if err != nil {
			return err
		}

		pool, err := database.NewPostgresConnection(cmd.Context(), cfg.DBUrl)
		if err != nil {
			return err
		}
		defer pool.Close()

		authUC := usecase.NewAuthUsecase(postgres.NewUserRepository(pool), tokens)
		token, err := authUC.IssueToken(cmd.Context(), tokenUserID)
		if err != nil {
			return fmt.Errorf("issue token for user %d: %w", tokenUserID, err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenIssueCmd)

	tokenIssueCmd.Flags().Int64Var(&tokenUserID, "user-id", 0, "id of the user the token is issued for")
	_ = tokenIssueCmd.MarkFlagRequired("user-id")
}
