package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"scriptqa/internal/answer"
	"scriptqa/internal/api"
	"scriptqa/internal/config"
	"scriptqa/internal/history"
	"scriptqa/internal/logging"
	"scriptqa/internal/scripts"
	"scriptqa/internal/services/llm"
	"scriptqa/internal/suggest"
)

type commandContext struct {
	configFlag  *string
	serverFlag  *string
	sessionFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	// serving routes console logs to stdout; other commands keep stdout
	// for their own output.
	serving bool

	appOnce sync.Once
	app     *application
	appErr  error
}

// application holds the in-process components shared by local commands.
type application struct {
	logger       *slog.Logger
	store        *scripts.Store
	cache        *scripts.Cache
	fetcher      *scripts.Fetcher
	resolver     *scripts.Resolver
	history      *history.Store
	titles       *suggest.Matcher
	orchestrator *answer.Orchestrator
}

func newCommandContext(configFlag, serverFlag, sessionFlag *string) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		serverFlag:  serverFlag,
		sessionFlag: sessionFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// remote returns an API client when --server was given.
func (c *commandContext) remote() (*api.Client, bool) {
	if c.serverFlag == nil || strings.TrimSpace(*c.serverFlag) == "" {
		return nil, false
	}
	session := ""
	if c.sessionFlag != nil {
		session = strings.TrimSpace(*c.sessionFlag)
	}
	if session == "" {
		session = defaultCLISession()
	}
	return api.NewClient(*c.serverFlag, session), true
}

func defaultCLISession() string {
	if user := strings.TrimSpace(os.Getenv("USER")); user != "" {
		return "cli-" + user
	}
	return "cli-" + uuid.NewString()
}

// ensureApp wires the in-process pipeline once per invocation.
func (c *commandContext) ensureApp(ctx context.Context) (*application, error) {
	c.appOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.appErr = err
			return
		}
		newLogger := logging.NewCLIFromConfig
		if c.serving {
			newLogger = logging.NewFromConfig
		}
		logger, err := newLogger(cfg)
		if err != nil {
			c.appErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.app, c.appErr = buildApplication(ctx, cfg, logger)
	})
	return c.app, c.appErr
}

func buildApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{logger: logger}

	var persister scripts.Persister
	if cfg.Cache.Persist {
		store, err := scripts.OpenStore(ctx, cfg.Cache.Path)
		if err != nil {
			logging.WarnWithContext(logger, "script database unavailable", "script_store_open_failed",
				logging.String("path", cfg.Cache.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "scripts are cached in memory only"))
		} else {
			app.store = store
			persister = store
		}
	}
	app.cache = scripts.NewCache(ctx, persister, logger)
	app.fetcher = scripts.NewFetcher(scripts.FetcherConfig{
		BaseURL:        cfg.Archive.BaseURL,
		UserAgent:      cfg.Archive.UserAgent,
		TimeoutSeconds: cfg.Archive.TimeoutSeconds,
	}, logger)
	app.resolver = scripts.NewResolver(app.cache, app.fetcher, logger)
	app.history = history.NewStore(cfg.History.MaxTurns)

	titles, err := suggest.Load(cfg.Paths.TitlesFile, logger)
	if err != nil {
		_ = app.close()
		return nil, fmt.Errorf("load titles: %w", err)
	}
	app.titles = titles

	opts := answer.Options{
		Mode:            answer.ParseMode(cfg.Answer.Mode),
		MinScriptLength: cfg.Archive.MinScriptLength,
		MaxPromptTokens: cfg.LLM.MaxPromptTokens,
		Logger:          logger,
	}
	if cfg.LLM.MaxPromptTokens > 0 {
		counter, err := llm.NewTokenCounter()
		if err != nil {
			logging.WarnWithContext(logger, "token counter unavailable", "tokenizer_load_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "long scripts are sent in a single request"))
		} else {
			opts.Tokens = counter
		}
	}

	var completer answer.Completer
	if cfg.LLMConfigured() {
		llmCfg := cfg.GetLLM()
		completer = llm.NewClient(llm.Config{
			APIKey:         llmCfg.APIKey,
			BaseURL:        llmCfg.BaseURL,
			Model:          llmCfg.Model,
			Referer:        llmCfg.Referer,
			Title:          llmCfg.Title,
			TimeoutSeconds: llmCfg.TimeoutSeconds,
		})
	} else {
		logging.WarnWithContext(logger, "llm api key not configured", "llm_not_configured",
			logging.String(logging.FieldErrorHint, "set llm.api_key or export OPENROUTER_API_KEY"),
			logging.String(logging.FieldImpact, "questions will be answered with a service unavailable message"))
	}
	app.orchestrator = answer.New(app.resolver, app.history, completer, app.titles, opts)
	return app, nil
}

func (a *application) close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}

func (c *commandContext) close() error {
	if c.app == nil {
		return nil
	}
	return c.app.close()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

var errNoRemote = errors.New("this command needs a running server; pass --server")
