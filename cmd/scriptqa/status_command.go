package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the status of a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, ok := ctx.remote()
			if !ok {
				return errNoRemote
			}
			status, err := client.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("query server: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			lines := []string{
				renderStatusLine("Server", statusOK, fmt.Sprintf("running (pid %d)", status.PID), colorize),
			}
			if status.StartedAt != "" {
				lines = append(lines, renderStatusLine("Started", statusInfo, status.StartedAt, colorize))
			}
			if status.LLMConfigured {
				lines = append(lines, renderStatusLine("LLM", statusOK, status.Model, colorize))
			} else {
				lines = append(lines, renderStatusLine("LLM", statusError, "not configured", colorize))
			}
			lines = append(lines,
				renderStatusLine("Answer mode", statusInfo, status.AnswerMode, colorize),
				renderStatusLine("Cached scripts", statusInfo, strconv.Itoa(status.CachedScripts), colorize),
			)
			if status.CachePath != "" {
				lines = append(lines, renderStatusLine("Cache database", statusInfo, status.CachePath, colorize))
			}
			titlesKind := statusInfo
			if status.TitlesLoaded == 0 {
				titlesKind = statusWarn
			}
			lines = append(lines,
				renderStatusLine("Titles", titlesKind, strconv.Itoa(status.TitlesLoaded), colorize),
				renderStatusLine("Lock", statusInfo, status.LockFilePath, colorize),
			)
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
