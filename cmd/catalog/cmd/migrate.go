package cmd

import (
	"errors"
	"fmt"

	"github.com/mytheresa/go-catalog/models"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration commands",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Run all pending migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigrations(cmd, "up")
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Rollback the last migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigrations(cmd, "down")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

func runMigrations(cmd *cobra.Command, direction string) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if err := models.Migrate(cfg.DatabaseURL, direction); err != nil {
		return err
	}

	if direction == "up" {
		fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed successfully")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Migration rolled back successfully")
	}
	return nil
}
