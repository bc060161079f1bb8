package scripts

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"scriptqa/internal/logging"
)

// Source retrieves a script record for a raw title. Implementations must not
// fail: problems are reported as NotFound records.
type Source interface {
	Fetch(ctx context.Context, title string) Record
}

// Resolver serves script records from the cache and fetches on a miss.
// Concurrent misses for the same key share one fetch.
type Resolver struct {
	cache  *Cache
	source Source
	group  singleflight.Group
	logger *slog.Logger
}

// NewResolver wires a cache to a fetch source.
func NewResolver(cache *Cache, source Source, logger *slog.Logger) *Resolver {
	return &Resolver{
		cache:  cache,
		source: source,
		logger: logging.NewComponentLogger(logger, "script-resolver"),
	}
}

// Resolve returns the cached record for title, fetching and caching it first
// when absent. NotFound outcomes are cached too.
func (r *Resolver) Resolve(ctx context.Context, title string) Record {
	if record, ok := r.cache.Get(title); ok {
		logging.WithContext(ctx, r.logger).Debug("script cache hit",
			logging.String("cache_key", CacheKey(title)),
			logging.Bool("found", record.Found))
		return record
	}

	key := CacheKey(title)
	value, _, _ := r.group.Do(key, func() (any, error) {
		if record, ok := r.cache.Get(title); ok {
			return record, nil
		}
		// The fetch outlives any single caller that joined the flight.
		detached := context.WithoutCancel(ctx)
		record := r.source.Fetch(detached, title)
		r.cache.Put(detached, title, record)
		return record, nil
	})
	return value.(Record)
}

// Cache exposes the underlying cache for listing.
func (r *Resolver) Cache() *Cache {
	return r.cache
}
