package main

import (
	"fmt"

	"github.com/UnknownOlympus/cartograph/internal/config"
	"github.com/UnknownOlympus/cartograph/internal/repository"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		dtb, err := repository.NewDatabase(cmd.Context(), cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("failed to connect to DB: %w", err)
		}
		defer dtb.Close()

		if err = repository.Migrate(cmd.Context(), dtb); err != nil {
			return err
		}

		cmd.Println("Migrations applied")

		return nil
	},
}
