package cmd

import (
	"errors"
	"fmt"

	"github.com/mytheresa/go-catalog/models"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample categories and products",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
		db, err := models.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		n, err := models.Seed(cmd.Context(), db)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
