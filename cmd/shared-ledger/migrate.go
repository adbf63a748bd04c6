package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"shared-ledger-go/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(log)
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		defer application.Close()

		applied, err := application.Migrate(cmd.Context())
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("db: migrations applied", "count", applied)
		return nil
	},
}
