package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"scriptqa/internal/daemon"
	"scriptqa/internal/logging"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the question answering HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if bind != "" {
				cfg.Paths.APIBind = bind
			}

			ctx.serving = true
			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := ctx.ensureApp(runCtx)
			if err != nil {
				return err
			}

			d, err := daemon.New(cfg, daemon.Deps{
				Orchestrator: app.orchestrator,
				Scripts:      app.cache,
				Titles:       app.titles,
			}, app.logger)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			if err := d.Start(runCtx); err != nil {
				return err
			}
			defer d.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", d.Address())
			app.logger.Info("serving until interrupted",
				logging.String(logging.FieldEventType, "serve_waiting"),
				logging.Int("titles", app.titles.Len()),
				logging.Int("cached_scripts", app.cache.Len()))

			<-runCtx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override the listen address (host:port)")
	return cmd
}
