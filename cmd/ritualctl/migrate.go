package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"ritual-backend/internal/shared/storage/db"
)

func newMigrateCmd(e env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlDB, err := e.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			if err := db.RunMigrations(cmd.Context(), sqlDB); err != nil {
				return err
			}
			return printVersion(cmd, sqlDB)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlDB, err := e.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			if err := db.RollbackMigration(cmd.Context(), sqlDB); err != nil {
				return err
			}
			return printVersion(cmd, sqlDB)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlDB, err := e.openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer sqlDB.Close()
			return printVersion(cmd, sqlDB)
		},
	})
	return cmd
}

func printVersion(cmd *cobra.Command, sqlDB *sql.DB) error {
	version, err := db.MigrationVersion(cmd.Context(), sqlDB)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
	return nil
}
