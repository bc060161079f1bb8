package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"scriptqa/internal/api"
)

func newAskCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "ask <title> [question...]",
		Short: "Ask a question about a movie script",
		Long: "Ask a question about a movie. Without a question on the command line, " +
			"questions are read from stdin one per line and share a conversation.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			be, err := ctx.backend(cmd.Context())
			if err != nil {
				return err
			}
			title := args[0]
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			if len(args) > 1 {
				question := strings.Join(args[1:], " ")
				return askOnce(cmd, be, title, question, jsonOutput, colorize)
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for {
				if !jsonOutput {
					fmt.Fprintf(out, "%s> ", title)
				}
				if !scanner.Scan() {
					break
				}
				question := strings.TrimSpace(scanner.Text())
				if question == "" {
					continue
				}
				if err := askOnce(cmd, be, title, question, jsonOutput, colorize); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				}
			}
			if !jsonOutput {
				fmt.Fprintln(out)
			}
			return scanner.Err()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the raw response as JSON")
	return cmd
}

func askOnce(cmd *cobra.Command, be backend, title, question string, jsonOutput, colorize bool) error {
	resp, err := be.Ask(cmd.Context(), title, question)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, resp)
	}
	printAnswer(out, resp, colorize)
	return nil
}

func printAnswer(out io.Writer, resp api.AskResponse, colorize bool) {
	if resp.Status != "ok" {
		fmt.Fprintln(out, renderStatusLine("Status", answerStatusKind(resp.Status), resp.Status, colorize))
	}
	fmt.Fprintln(out, strings.TrimSpace(resp.Answer))
}

func writeJSON(out io.Writer, value any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
