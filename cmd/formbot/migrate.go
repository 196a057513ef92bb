package main

import (
	"github.com/spf13/cobra"

	"github.com/Deek-011/formbot/internal/common/config"
	"github.com/Deek-011/formbot/internal/common/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadMigrate()
		if err != nil {
			return err
		}

		log, err := newLogger(cfg.Log, "formbot-migrate")
		if err != nil {
			return err
		}

		log.Info("running migrations")
		if err := db.Migrate(cmd.Context(), log, cfg.DatabaseURL); err != nil {
			log.Errorf("migrations failed: %v", err)
			return err
		}
		log.Info("migrations complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
