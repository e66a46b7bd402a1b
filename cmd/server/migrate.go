package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/yusufkecer/fittrack-backend/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.DBHost == "" {
			return errors.New("DB_HOST must be set to run migrations")
		}

		database, err := db.Connect(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer database.Close()

		return db.RunMigrations(cmd.Context(), database, log)
	},
}
