package scripts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"scriptqa/internal/fileutil"
	"scriptqa/internal/logging"
	"scriptqa/internal/services"
)

const (
	defaultFetchTimeout = 20 * time.Second
	titleIndexPath      = "/all-scripts.html"
	maxPageBytes        = 16 << 20
)

// FetcherConfig captures archive connection settings.
type FetcherConfig struct {
	BaseURL        string
	UserAgent      string
	TimeoutSeconds int
}

// Fetcher downloads script pages from the archive.
type Fetcher struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// FetcherOption customizes the fetcher.
type FetcherOption func(*Fetcher)

// WithFetchHTTPClient overrides the default HTTP client.
func WithFetchHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) FetcherOption {
	return func(f *Fetcher) {
		if now != nil {
			f.now = now
		}
	}
}

// NewFetcher constructs an archive fetcher.
func NewFetcher(cfg FetcherConfig, logger *slog.Logger, opts ...FetcherOption) *Fetcher {
	timeout := defaultFetchTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	f := &Fetcher{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logging.NewComponentLogger(logger, "script-fetcher"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads and extracts the script for a raw title. It never returns an
// error: every failure is logged here and reported as a NotFound record.
func (f *Fetcher) Fetch(ctx context.Context, title string) Record {
	logger := logging.WithContext(ctx, f.logger).With(logging.String(logging.FieldTitle, title))
	slug := Slug(title)
	if slug == "" {
		logger.Debug("empty slug, skipping fetch")
		return NotFoundRecord(title, "", "empty title", f.now())
	}
	url := ArchiveURL(f.baseURL, slug)
	started := time.Now()

	text, err := f.fetchScript(ctx, url)
	if err != nil {
		logging.WarnWithContext(logger, "script fetch failed", "script_fetch_failed",
			logging.String("url", url),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "verify the title exists in the archive"),
			logging.String(logging.FieldImpact, "questions about this title report the script as unavailable"))
		if !errors.Is(err, services.ErrNotFound) {
			return TransientRecord(title, url, services.Summary(err), f.now())
		}
		return NotFoundRecord(title, url, services.Summary(err), f.now())
	}
	if text == "" {
		logging.WarnWithContext(logger, "script page has no text", "script_empty",
			logging.String("url", url),
			logging.String(logging.FieldErrorHint, "the archive page layout may have changed"),
			logging.String(logging.FieldImpact, "questions about this title report the script as unavailable"))
		return NotFoundRecord(title, url, "empty script", f.now())
	}

	record := FoundRecord(title, url, text, f.now())
	logger.Info("script fetched",
		logging.String(logging.FieldEventType, "script_fetched"),
		logging.String("url", url),
		logging.Int("length", record.Length()),
		logging.Duration("elapsed", time.Since(started)))
	return record
}

func (f *Fetcher) fetchScript(ctx context.Context, url string) (string, error) {
	body, err := f.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()
	text, err := ExtractScript(io.LimitReader(body, maxPageBytes))
	if err != nil {
		return "", services.Wrap(services.ErrUpstream, "script-fetcher", "extract", "", err)
	}
	return text, nil
}

// FetchTitleIndex downloads the archive's all-scripts page and returns every
// listed title.
func (f *Fetcher) FetchTitleIndex(ctx context.Context) ([]IndexEntry, error) {
	body, err := f.get(ctx, f.baseURL+titleIndexPath)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	entries, err := ParseTitleIndex(io.LimitReader(body, maxPageBytes))
	if err != nil {
		return nil, services.Wrap(services.ErrUpstream, "script-fetcher", "title index", "", err)
	}
	f.logger.Info("title index fetched",
		logging.String(logging.FieldEventType, "title_index_fetched"),
		logging.Int("title_count", len(entries)))
	return entries, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "script-fetcher", "build request", url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if ctx.Err() != nil || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, services.Wrap(services.ErrTimeout, "script-fetcher", "get", url, err)
		}
		return nil, services.Wrap(services.ErrUpstream, "script-fetcher", "get", url, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, services.Wrap(services.ErrNotFound, "script-fetcher", "get", url, nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, services.Wrap(services.ErrUpstream, "script-fetcher", "get", fmt.Sprintf("%s: http %d", url, resp.StatusCode), nil)
	}
	return resp.Body, nil
}

// WriteTitleIndex writes entries to path as "Title | Director" lines,
// replacing the file atomically.
func WriteTitleIndex(path string, entries []IndexEntry) error {
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(entry.Line())
		b.WriteByte('\n')
	}
	if err := fileutil.WriteAtomic(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write title index: %w", err)
	}
	return nil
}
