package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scriptqa/internal/scripts"
)

func newTitlesCommand(ctx *commandContext) *cobra.Command {
	titlesCmd := &cobra.Command{
		Use:   "titles",
		Short: "Manage the title list used for suggestions",
	}

	titlesCmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Download the archive's title index into the titles file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			app, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := app.fetcher.FetchTitleIndex(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch title index: %w", err)
			}
			if err := scripts.WriteTitleIndex(cfg.Paths.TitlesFile, entries); err != nil {
				return fmt.Errorf("write titles file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d titles to %s\n", len(entries), cfg.Paths.TitlesFile)
			return nil
		},
	})

	return titlesCmd
}
