package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *SQLiteClassificationStore {
	t.Helper()
	store, err := NewSQLiteClassificationStore(filepath.Join(t.TempDir(), "nested", "classifications.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteClassificationStore(t *testing.T) {
	exerciseStore(t, newSQLiteStore(t))
}

func TestSQLiteClassificationStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classifications.db")
	ctx := context.Background()

	store, err := NewSQLiteClassificationStore(path, testLogger())
	require.NoError(t, err)
	require.NoError(t, store.SaveClassification(ctx, newRecord("persisted", "cholera", 0, false)))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteClassificationStore(path, testLogger())
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetClassification(ctx, "persisted")
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.ID)
	assert.Equal(t, path, reopened.Path())
	assert.NoError(t, reopened.Health(ctx))
}
