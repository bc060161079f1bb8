package testsupport

import (
	"context"
	"testing"
	"time"

	"scriptqa/internal/config"
	"scriptqa/internal/scripts"
)

// MustOpenStore opens the configured script database and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *scripts.Store {
	t.Helper()

	store, err := scripts.OpenStore(context.Background(), cfg.Cache.Path)
	if err != nil {
		t.Fatalf("scripts.OpenStore: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedScript stores a found script for title.
func SeedScript(t testing.TB, store *scripts.Store, title, text string) scripts.Record {
	t.Helper()

	record := scripts.FoundRecord(title, "", text, time.Now().UTC())
	if err := store.Save(context.Background(), scripts.CacheKey(title), record); err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return record
}
