package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newSuggestCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "suggest <query>",
		Short: "Suggest movie titles matching a partial query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			be, err := ctx.backend(cmd.Context())
			if err != nil {
				return err
			}
			titles, err := be.Suggest(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, titles)
			}
			if len(titles) == 0 {
				fmt.Fprintln(out, "No matching titles")
				return nil
			}
			rows := make([][]string, 0, len(titles))
			for i, title := range titles {
				name, director, _ := strings.Cut(title, "|")
				rows = append(rows, []string{strconv.Itoa(i + 1), strings.TrimSpace(name), strings.TrimSpace(director)})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Title", "Director"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print suggestions as a JSON array")
	return cmd
}
