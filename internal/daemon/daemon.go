package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"scriptqa/internal/answer"
	"scriptqa/internal/config"
	"scriptqa/internal/logging"
)

// Counter reports a collection size for status output.
type Counter interface {
	Len() int
}

// Deps are the long-lived components the server exposes.
type Deps struct {
	Orchestrator *answer.Orchestrator
	Scripts      Counter
	Titles       Counter
}

// Daemon owns the HTTP server and enforces single-instance execution.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	deps   Deps
	api    *apiServer

	lockPath string
	lock     *flock.Flock

	running   atomic.Bool
	startedAt atomic.Int64
	ctx       context.Context
	cancel    context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running       bool
	PID           int
	StartedAt     time.Time
	LLMConfigured bool
	Model         string
	AnswerMode    string
	CachedScripts int
	CachePath     string
	TitlesLoaded  int
	LockFilePath  string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, deps Deps, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || deps.Orchestrator == nil {
		return nil, errors.New("daemon requires config and orchestrator")
	}
	logger = logging.NewComponentLogger(logger, "daemon")
	lockPath := cfg.LockPath()
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		deps:     deps,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.api = newAPIServer(cfg.Paths.APIBind, d, logger)
	return d, nil
}

// Start acquires the instance lock and begins serving HTTP.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another scriptqa server instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.api.start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start api server: %w", err)
	}

	d.startedAt.Store(time.Now().UnixNano())
	d.running.Store(true)
	d.logger.Info("scriptqa server started",
		logging.String(logging.FieldEventType, "daemon_started"),
		logging.String("lock", d.lockPath),
		logging.String("address", d.api.address()))
	return nil
}

// Stop shuts the HTTP server down and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release daemon lock", "daemon_unlock_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the lock file if the next start fails"))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("scriptqa server stopped", logging.String(logging.FieldEventType, "daemon_stopped"))
}

// Address returns the listening address once started.
func (d *Daemon) Address() string {
	return d.api.address()
}

// Status returns current runtime information.
func (d *Daemon) Status() Status {
	status := Status{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		LLMConfigured: d.deps.Orchestrator.Configured(),
		AnswerMode:    d.cfg.Answer.Mode,
		LockFilePath:  d.lockPath,
	}
	if status.LLMConfigured {
		status.Model = d.cfg.LLM.Model
	}
	if ts := d.startedAt.Load(); ts > 0 && status.Running {
		status.StartedAt = time.Unix(0, ts)
	}
	if d.deps.Scripts != nil {
		status.CachedScripts = d.deps.Scripts.Len()
	}
	if d.cfg.Cache.Persist {
		status.CachePath = d.cfg.Cache.Path
	}
	if d.deps.Titles != nil {
		status.TitlesLoaded = d.deps.Titles.Len()
	}
	return status
}
