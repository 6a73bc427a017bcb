package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ritual-backend/internal/diagnostic"
)

func newConfigCmd(e env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Export or import the diagnostic tables",
	}
	cmd.AddCommand(newConfigExportCmd(e))
	cmd.AddCommand(newConfigImportCmd(e))
	return cmd
}

func newConfigExportCmd(e env) *cobra.Command {
	var (
		outPath  string
		defaults bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored tables as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables := diagnostic.DefaultTables()
			if !defaults {
				repo, closeFn, err := e.openRepo(cmd.Context())
				if err != nil {
					return err
				}
				defer closeFn()
				stored, err := repo.GetActive(cmd.Context())
				switch {
				case errors.Is(err, diagnostic.ErrNotFound):
					fmt.Fprintln(cmd.ErrOrStderr(), "no stored configuration, exporting defaults")
				case err != nil:
					return err
				default:
					tables = stored
				}
			}

			data, err := diagnostic.EncodeYAML(tables)
			if err != nil {
				return err
			}
			if outPath == "" || outPath == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(outPath, data, 0o644)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&defaults, "defaults", false, "export the built-in tables without touching the database")
	return cmd
}

func newConfigImportCmd(e env) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Validate a YAML tables file and store it as the active override",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := diagnostic.LoadSeedFile(args[0])
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (%d rules)\n", args[0], len(tables.Rules))
				return nil
			}

			repo, closeFn, err := e.openRepo(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			if err := repo.SaveActive(cmd.Context(), tables); err != nil {
				return fmt.Errorf("save diagnostic config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rules\n", len(tables.Rules))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate only")
	return cmd
}
