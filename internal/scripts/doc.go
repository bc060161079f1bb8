// Package scripts turns raw movie titles into script text.
//
// Slug and CacheKey normalize titles for the archive URL and for lookups.
// Fetcher downloads and extracts script pages, never surfacing errors to the
// caller. Cache keeps the first record seen per key for the life of the
// process, optionally mirrored to SQLite through Store. Resolver ties the two
// together with at-most-once fetching per key.
package scripts
