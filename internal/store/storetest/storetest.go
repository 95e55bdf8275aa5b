// Package storetest provides a throwaway SQLite store for tests.
package storetest

import (
	"path/filepath"
	"testing"

	"github.com/999aryaDharma/HackStack/internal/store"
)

// Open returns a Store backed by a fresh database file in t.TempDir.
// The store is closed when the test finishes.
func Open(t testing.TB) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "hackstack.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}
