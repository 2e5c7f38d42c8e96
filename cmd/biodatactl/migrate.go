package main

import (
	"fmt"

	"go-biodata-backend/config"
	"go-biodata-backend/pkg/database"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd, database.Up)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd, database.Down)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

func runMigrate(cmd *cobra.Command, direction database.Direction) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if cfg.DBUrl == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if err := database.Migrate(cfg.DBUrl, direction); err != nil {
		return fmt.Errorf("migrate %s failed: %w", direction, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done\n", direction)
	return nil
}
