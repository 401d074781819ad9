package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/cake_shop/internal/models"
)

func newMigrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer a.close()

			if err := models.AutoMigrate(a.db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			a.logger.Info("migrate_success")
			return nil
		},
	}
}
