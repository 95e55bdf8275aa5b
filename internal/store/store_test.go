package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/999aryaDharma/HackStack/internal/store"
	"github.com/999aryaDharma/HackStack/internal/store/storetest"
)

func TestOpenAppliesPragmas(t *testing.T) {
	s := storetest.Open(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}
	for _, tt := range tests {
		var got string
		require.NoError(t, db.QueryRow("PRAGMA "+tt.pragma).Scan(&got), tt.pragma)
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hackstack.db")

	s1, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.CardRepo().Insert(context.Background(), newRecord("c1", "Go")))
	require.NoError(t, s1.Close())

	s2, err := store.Open(path)
	require.NoError(t, err)
	defer s2.Close()

	rec, err := s2.CardRepo().Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Go", rec.Language)
}

func TestDefaultDBPath_EnvOverride(t *testing.T) {
	want := filepath.Join(t.TempDir(), "nested", "custom.db")
	t.Setenv("HACKSTACK_DB", want)

	got, err := store.DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.DirExists(t, filepath.Dir(want))
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("HACKSTACK_DB", "")
	t.Setenv("XDG_DATA_HOME", dataHome)

	got, err := store.DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataHome, "hackstack", "hackstack.db"), got)
}
