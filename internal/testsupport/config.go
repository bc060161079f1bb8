package testsupport

import (
	"path/filepath"
	"testing"

	"scriptqa/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose paths all live under a per-test temp
// directory. The server binds an ephemeral port and no LLM key is set.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.TitlesFile = filepath.Join(base, "movies.txt")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Cache.Path = filepath.Join(base, "state", "scripts.db")
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithLLM points the LLM client at baseURL with the given key.
func WithLLM(baseURL, apiKey string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = baseURL
		b.cfg.LLM.APIKey = apiKey
	}
}

// WithArchive points the script fetcher at baseURL.
func WithArchive(baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Archive.BaseURL = baseURL
	}
}

// WithPersistentCache enables the SQLite script cache.
func WithPersistentCache() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Persist = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
