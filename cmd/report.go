package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mediatrace/internal/config"
	"mediatrace/internal/report"
	"mediatrace/pkg/domain"
)

func reportCommand(cfg *config.Config) *cobra.Command {
	var audio bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Prints the stored confirmed video domains",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			strg, closeStrg := getStorage(ctx, cfg)
			defer closeStrg()

			if err := report.Console(os.Stdout, loadDomains(ctx, strg, domain.KindVideo)); err != nil {
				return err
			}
			if !audio {
				return nil
			}

			domains := loadDomains(ctx, strg, domain.KindAudio)
			fmt.Fprintf(os.Stdout, "\nConfirmed audio domains: %d\n", len(domains))
			for _, d := range domains {
				fmt.Fprintf(os.Stdout, "  %s\n", d)
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&audio, "audio", false, "Also list stored audio domains")

	return cmd
}
