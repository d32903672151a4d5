package main

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-BikeRepairService/internal/config"
	"github.com/m04kA/SMC-BikeRepairService/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-BikeRepairService/pkg/logger"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer log.Close()

			db, err := sql.Open("postgres", cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			if err := db.PingContext(cmd.Context()); err != nil {
				return fmt.Errorf("failed to ping database: %w", err)
			}

			applied, err := migrations.Apply(cmd.Context(), db)
			if err != nil {
				log.Error("Migrate: %v", err)
				return err
			}

			log.Info("Migrate: applied %d migrations: %v", len(applied), applied)
			return nil
		},
	}
}
