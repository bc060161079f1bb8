package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"scriptqa/internal/config"
	"scriptqa/internal/services"
	"scriptqa/internal/services/llm"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set llm.api_key (or export OPENROUTER_API_KEY) before asking questions.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	var checkLLM bool

	cmd := &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration and show the resolved settings",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(strings.TrimSpace(*ctx.configFlag))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			source := path
			if !exists {
				source = path + " (not found, defaults used)"
			}
			lines := []string{
				renderStatusLine("Config", statusInfo, source, colorize),
				renderStatusLine("Archive", statusInfo, cfg.Archive.BaseURL, colorize),
				renderStatusLine("Answer mode", statusInfo, cfg.Answer.Mode, colorize),
				renderStatusLine("Min script", statusInfo, fmt.Sprintf("%d characters", cfg.Archive.MinScriptLength), colorize),
				renderStatusLine("History", statusInfo, fmt.Sprintf("%d turns", cfg.History.MaxTurns), colorize),
			}
			if cfg.Cache.Persist {
				lines = append(lines, renderStatusLine("Script cache", statusInfo, cfg.Cache.Path, colorize))
			} else {
				lines = append(lines, renderStatusLine("Script cache", statusInfo, "memory only", colorize))
			}
			if _, err := os.Stat(cfg.Paths.TitlesFile); err != nil {
				lines = append(lines, renderStatusLine("Titles", statusWarn, cfg.Paths.TitlesFile+" missing; run `scriptqa titles sync`", colorize))
			} else {
				lines = append(lines, renderStatusLine("Titles", statusOK, cfg.Paths.TitlesFile, colorize))
			}

			var llmErr error
			llmCfg := cfg.GetLLM()
			switch {
			case !cfg.LLMConfigured():
				lines = append(lines, renderStatusLine("LLM", statusWarn, "api key not set; questions will not be answered", colorize))
				if checkLLM {
					llmErr = errors.New("llm check: llm.api_key (or OPENROUTER_API_KEY) is not set")
				}
			case checkLLM:
				if llmErr = checkLLMConnectivity(cmd.Context(), llmCfg); llmErr != nil {
					lines = append(lines, renderStatusLine("LLM", statusError, llmCfg.Model+": "+services.Summary(llmErr), colorize))
				} else {
					lines = append(lines, renderStatusLine("LLM", statusOK, llmCfg.Model+" reachable", colorize))
				}
			default:
				lines = append(lines, renderStatusLine("LLM", statusOK, llmCfg.Model+" (not contacted; use --check-llm)", colorize))
			}

			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			if llmErr != nil {
				return llmErr
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkLLM, "check-llm", false, "Send a test request to verify the API key and model")
	return cmd
}

func checkLLMConnectivity(ctx context.Context, cfg config.LLMConfig) error {
	client := llm.NewClient(llm.Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		Referer:        cfg.Referer,
		Title:          cfg.Title,
		TimeoutSeconds: cfg.TimeoutSeconds,
	})
	return client.HealthCheck(ctx)
}
