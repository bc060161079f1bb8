package scripts

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"scriptqa/internal/logging"
)

// Persister writes cache records through to durable storage.
type Persister interface {
	LoadAll(ctx context.Context) (map[string]Record, error)
	Save(ctx context.Context, key string, record Record) error
}

// Cache maps canonical title keys to script records. Entries are never
// replaced or expired: the first record stored for a key wins.
type Cache struct {
	mu        sync.RWMutex
	entries   map[string]Record
	persister Persister
	logger    *slog.Logger
}

// NewCache creates an empty in-memory cache. When persister is non-nil,
// previously saved records are loaded and new records are written through.
// Persistence failures are logged and otherwise ignored.
func NewCache(ctx context.Context, persister Persister, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "script-cache")
	c := &Cache{
		entries:   make(map[string]Record),
		persister: persister,
		logger:    logger,
	}
	if persister == nil {
		return c
	}
	loaded, err := persister.LoadAll(ctx)
	if err != nil {
		logging.WarnWithContext(logger, "failed to load persisted scripts", "script_cache_load_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check cache.path permissions or delete the database"),
			logging.String(logging.FieldImpact, "scripts will be fetched again on first use"))
		return c
	}
	for key, record := range loaded {
		c.entries[key] = record
	}
	logger.Debug("loaded persisted scripts", logging.Int("entry_count", len(loaded)))
	return c
}

// Get returns the record stored for the raw title.
func (c *Cache) Get(title string) (Record, bool) {
	key := CacheKey(title)
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.entries[key]
	return record, ok
}

// Put stores record under the raw title's key unless one is already present.
// It reports whether the record was stored. Transient failures are cached in
// memory but never written through to the persister.
func (c *Cache) Put(ctx context.Context, title string, record Record) bool {
	key := CacheKey(title)
	c.mu.Lock()
	if _, exists := c.entries[key]; exists {
		c.mu.Unlock()
		return false
	}
	c.entries[key] = record
	c.mu.Unlock()

	c.logger.Debug("cached script record",
		logging.String("cache_key", key),
		logging.Bool("found", record.Found),
		logging.Int("length", record.Length()))

	if c.persister != nil && !record.Persistable() {
		c.logger.Debug("transient failure kept in memory only",
			logging.String("cache_key", key),
			logging.String("reason", record.Reason))
		return true
	}
	if c.persister != nil {
		if err := c.persister.Save(ctx, key, record); err != nil {
			logging.WarnWithContext(c.logger, "failed to persist script", "script_cache_save_failed",
				logging.String("cache_key", key),
				logging.Error(err),
				logging.String(logging.FieldImpact, "script stays cached in memory only"))
		}
	}
	return true
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Entry pairs a cache key with its record.
type Entry struct {
	Key    string
	Record Record
}

// Entries returns all records sorted by fetch time, newest first.
func (c *Cache) Entries() []Entry {
	c.mu.RLock()
	entries := make([]Entry, 0, len(c.entries))
	for key, record := range c.entries {
		entries = append(entries, Entry{Key: key, Record: record})
	}
	c.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Record.FetchedAt.Equal(entries[j].Record.FetchedAt) {
			return entries[i].Key < entries[j].Key
		}
		return entries[i].Record.FetchedAt.After(entries[j].Record.FetchedAt)
	})
	return entries
}
