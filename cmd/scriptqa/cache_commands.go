package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"scriptqa/internal/scripts"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and warm the script cache",
	}

	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheShowCommand(ctx))
	cacheCmd.AddCommand(newCacheFetchCommand(ctx))

	return cacheCmd
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached script lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			entries := app.cache.Entries()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No cached scripts")
				if app.store == nil {
					fmt.Fprintln(out, "Enable cache.persist to keep scripts between runs")
				}
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.Record.Title,
					yesNo(entry.Record.Found),
					strconv.Itoa(entry.Record.Length()),
					entry.Record.FetchedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Title", "Found", "Chars", "Fetched"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newCacheShowCommand(ctx *commandContext) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "show <title>",
		Short: "Show a cached script lookup",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			title := strings.Join(args, " ")
			record, ok := app.cache.Get(title)
			if !ok {
				return fmt.Errorf("no cached lookup for %q", title)
			}
			printRecord(cmd, record, full)
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Print the whole script text")
	return cmd
}

func newCacheFetchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <title>",
		Short: "Fetch a script into the cache without asking a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.ensureApp(cmd.Context())
			if err != nil {
				return err
			}
			record := app.resolver.Resolve(cmd.Context(), strings.Join(args, " "))
			printRecord(cmd, record, false)
			return nil
		},
	}
}

const previewChars = 400

func printRecord(cmd *cobra.Command, record scripts.Record, full bool) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	if record.Found {
		fmt.Fprintln(out, renderStatusLine(record.Title, statusOK, fmt.Sprintf("%d characters", record.Length()), colorize))
	} else if record.Transient {
		fmt.Fprintln(out, renderStatusLine(record.Title, statusWarn, "unavailable (retried next run): "+record.Reason, colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine(record.Title, statusWarn, "not found: "+record.Reason, colorize))
	}
	if record.URL != "" {
		fmt.Fprintf(out, "%sSource: %s\n", statusIndent, record.URL)
	}
	if !record.Found {
		return
	}
	text := record.Text
	if !full {
		runes := []rune(text)
		if len(runes) > previewChars {
			text = string(runes[:previewChars]) + "..."
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, text)
}
