package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mediatrace/internal/config"
	"mediatrace/internal/report"
	"mediatrace/pkg/domain"
	"mediatrace/pkg/serrors"
)

func exportCommand(cfg *config.Config) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Writes the stored confirmed video domains to a CSV or XLSX file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			strg, closeStrg := getStorage(ctx, cfg)
			defer closeStrg()

			path := output
			if path == "" {
				path = report.FileName(cfg.Export.Dir, cfg.Export.Format, time.Now())
			}

			err := report.Export(path, loadDomains(ctx, strg, domain.KindVideo))
			if errors.Is(err, serrors.ErrEmpty) {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to export.")

				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)

			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file; the extension selects csv or xlsx")

	return cmd
}
