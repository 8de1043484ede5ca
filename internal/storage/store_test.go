package storage

import (
	"context"
	"testing"

	"github.com/fixmyward/ward-server/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)

	s, err := NewSQLiteStore(context.Background(), db)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// exerciseStore runs the same contract checks against any backend.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Get(ctx, SessionKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.Put(ctx, SessionKey, []byte(`{"id":"1"}`)))
	got, err := s.Get(ctx, SessionKey)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(got))

	require.NoError(t, s.Put(ctx, SessionKey, []byte(`{"id":"2"}`)))
	got, err = s.Get(ctx, SessionKey)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"2"}`, string(got))

	require.NoError(t, s.Delete(ctx, SessionKey))
	_, err = s.Get(ctx, SessionKey)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting a missing key is fine.
	require.NoError(t, s.Delete(ctx, SessionKey))
	require.NoError(t, s.Ping(ctx))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseStore(t, s)
	assert.Equal(t, "memory", s.Name())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	buf := []byte("abc")
	require.NoError(t, s.Put(ctx, UsersKey, buf))
	buf[0] = 'x'

	got, err := s.Get(ctx, UsersKey)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[0] = 'y'
	again, _ := s.Get(ctx, UsersKey)
	assert.Equal(t, "abc", string(again))
}

func TestSQLiteStore(t *testing.T) {
	s := newSQLiteStore(t)
	exerciseStore(t, s)
	assert.Equal(t, "sqlite", s.Name())
}
