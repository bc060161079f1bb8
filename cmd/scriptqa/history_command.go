package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Manage conversation history",
	}

	historyCmd.AddCommand(&cobra.Command{
		Use:   "clear <title>",
		Short: "Forget the conversation about a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			be, err := ctx.backend(cmd.Context())
			if err != nil {
				return err
			}
			resp, err := be.ClearHistory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if resp.Status != "ok" {
				return fmt.Errorf("clear history: %s", resp.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	})

	return historyCmd
}
