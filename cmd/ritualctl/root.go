package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ritual-backend/internal/diagnostic"
	"ritual-backend/internal/shared/config"
	"ritual-backend/internal/shared/storage/db"
	"ritual-backend/internal/shared/telemetry"
)

// env supplies the storage the commands operate on.
type env struct {
	openDB   func(ctx context.Context) (*sql.DB, error)
	openRepo func(ctx context.Context) (diagnostic.ConfigRepo, func(), error)
}

func defaultEnv() env {
	e := env{}
	e.openDB = func(ctx context.Context) (*sql.DB, error) {
		cfg := config.Load()
		telemetry.SetLevel(cfg.LogLevel)
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		return db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	}
	e.openRepo = func(ctx context.Context) (diagnostic.ConfigRepo, func(), error) {
		sqlDB, err := e.openDB(ctx)
		if err != nil {
			return nil, nil, err
		}
		return &diagnostic.PGRepo{DB: sqlDB}, func() { sqlDB.Close() }, nil
	}
	return e
}

func newRootCmd(e env) *cobra.Command {
	root := &cobra.Command{
		Use:          "ritualctl",
		Short:        "Operate the ritual backend",
		Long:         "Try the diagnostic matcher, move its tables in and out of the database, and run migrations.",
		SilenceUsage: true,
	}
	root.AddCommand(newMatchCmd(e))
	root.AddCommand(newConfigCmd(e))
	root.AddCommand(newMigrateCmd(e))
	return root
}
