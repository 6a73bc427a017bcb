package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ritual-backend/internal/diagnostic"
)

func newMatchCmd(e env) *cobra.Command {
	var (
		seedPath string
		stored   bool
	)
	cmd := &cobra.Command{
		Use:   "match <text...>",
		Short: "Classify free text and print the recommendation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := diagnostic.NewService(nil, diagnostic.FirstPicker())
			if seedPath != "" {
				tables, err := diagnostic.LoadSeedFile(seedPath)
				if err != nil {
					return err
				}
				if err := svc.Apply(tables); err != nil {
					return err
				}
			}
			if stored {
				repo, closeFn, err := e.openRepo(cmd.Context())
				if err != nil {
					return err
				}
				defer closeFn()
				tables, err := repo.GetActive(cmd.Context())
				switch {
				case errors.Is(err, diagnostic.ErrNotFound):
					fmt.Fprintln(cmd.ErrOrStderr(), "no stored configuration, using defaults")
				case err != nil:
					return err
				default:
					if err := svc.Apply(tables); err != nil {
						return err
					}
				}
			}

			res := svc.Match(strings.Join(args, " "))
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVar(&seedPath, "seed", "", "YAML tables file to match against")
	cmd.Flags().BoolVar(&stored, "stored", false, "match against the tables stored in the database")
	return cmd
}
