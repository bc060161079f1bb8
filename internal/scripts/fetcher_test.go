package scripts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcherFetchFound(t *testing.T) {
	var gotPath, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`<html><body><td class="scrtext"><pre>NEO   wakes  up.</pre></td></body></html>`))
	}))
	defer server.Close()

	fetcher := NewFetcher(FetcherConfig{BaseURL: server.URL, UserAgent: "scriptqa-test"}, nil)
	record := fetcher.Fetch(context.Background(), "The Matrix | Wachowskis")

	require.True(t, record.Found)
	require.Equal(t, "NEO wakes up.", record.Text)
	require.Equal(t, "/scripts/The-Matrix.html", gotPath)
	require.Equal(t, "scriptqa-test", gotAgent)
	require.Equal(t, "The Matrix | Wachowskis", record.Title)
}

func TestFetcherFetchNotFoundStatuses(t *testing.T) {
	transient := map[int]bool{
		http.StatusNotFound:            false,
		http.StatusInternalServerError: true,
		http.StatusTooManyRequests:     true,
	}
	for status, wantTransient := range transient {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		record := NewFetcher(FetcherConfig{BaseURL: server.URL}, nil).Fetch(context.Background(), "Nope")
		server.Close()
		require.False(t, record.Found, "status %d", status)
		require.NotEmpty(t, record.Reason)
		require.Equal(t, wantTransient, record.Transient, "status %d", status)
	}
}

func TestFetcherFetchEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body></body></html>`))
	}))
	defer server.Close()

	record := NewFetcher(FetcherConfig{BaseURL: server.URL}, nil).Fetch(context.Background(), "Blank")
	require.False(t, record.Found)
	require.False(t, record.Transient)
}

func TestFetcherFetchEmptyTitleSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	record := NewFetcher(FetcherConfig{BaseURL: server.URL}, nil).Fetch(context.Background(), "  ")
	require.False(t, record.Found)
	require.Zero(t, calls.Load())
}

func TestFetcherFetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	record := NewFetcher(FetcherConfig{BaseURL: url}, nil).Fetch(context.Background(), "Inception")
	require.False(t, record.Found)
	require.True(t, record.Transient)
	require.False(t, record.Persistable())
}

func TestFetcherTitleIndexAndWrite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/all-scripts.html", r.URL.Path)
		_, _ = w.Write([]byte(`<p><a href="x">Inception</a><i>Christopher Nolan</i></p><p><a href="y">Alien</a><i>Ridley Scott</i></p>`))
	}))
	defer server.Close()

	entries, err := NewFetcher(FetcherConfig{BaseURL: server.URL}, nil).FetchTitleIndex(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	path := filepath.Join(t.TempDir(), "nested", "movies.txt")
	require.NoError(t, WriteTitleIndex(path, entries))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Inception | Christopher Nolan\nAlien | Ridley Scott\n", string(data))
}

type countingSource struct {
	mu    sync.Mutex
	calls map[string]int
	delay time.Duration
	text  string
}

func (s *countingSource) Fetch(_ context.Context, title string) Record {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[CacheKey(title)]++
	s.mu.Unlock()
	time.Sleep(s.delay)
	if s.text == "" {
		return NotFoundRecord(title, "", "missing", time.Now())
	}
	return FoundRecord(title, "", s.text, time.Now())
}

func (s *countingSource) count(title string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[CacheKey(title)]
}

func TestResolverFetchesOncePerKey(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{text: strings.Repeat("x", 600)}
	resolver := NewResolver(NewCache(ctx, nil, nil), source, nil)

	first := resolver.Resolve(ctx, "Inception")
	second := resolver.Resolve(ctx, " inception ")
	require.True(t, first.Found)
	require.Equal(t, first, second)
	require.Equal(t, 1, source.count("Inception"))
}

func TestResolverCachesNotFound(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{}
	resolver := NewResolver(NewCache(ctx, nil, nil), source, nil)

	require.False(t, resolver.Resolve(ctx, "Ghost").Found)
	require.False(t, resolver.Resolve(ctx, "GHOST").Found)
	require.Equal(t, 1, source.count("ghost"))
}

func TestResolverCollapsesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	source := &countingSource{text: "script", delay: 50 * time.Millisecond}
	resolver := NewResolver(NewCache(ctx, nil, nil), source, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, resolver.Resolve(ctx, "Alien").Found)
		}()
	}
	wg.Wait()
	require.Equal(t, 1, source.count("Alien"))
}
