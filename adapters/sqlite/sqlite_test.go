package sqlite

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lborres/whatif/core"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetAndGet(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k1", "v1"))

	v, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
}

func TestGet_Missing_ReturnsErrKeyNotFound(t *testing.T) {
	s := setupStore(t)

	_, err := s.Get(context.Background(), "absent")
	require.ErrorIs(t, err, core.ErrKeyNotFound)
}

func TestSet_Overwrites(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "old"))
	require.NoError(t, s.Set(ctx, "k", "new"))

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

func TestSetIfAbsent_KeepsExisting(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	ok, err := s.SetIfAbsent(ctx, "whatif_user_alice", "first")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SetIfAbsent(ctx, "whatif_user_alice", "second")
	require.NoError(t, err)
	assert.False(t, ok)

	v, err := s.Get(ctx, "whatif_user_alice")
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

func TestDelete_Idempotent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v"))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, core.ErrKeyNotFound)
}

func TestKeys_PrefixIsLiteralAndCaseSensitive(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	for _, k := range []string{"whatif_user_alice", "whatif_user_bob", "WHATIF_USER_carol", "whatifXuserXdave", "whatif_current_user"} {
		require.NoError(t, s.Set(ctx, k, "x"))
	}

	keys, err := s.Keys(ctx, "whatif_user_")
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"whatif_user_alice", "whatif_user_bob"}, keys)
}

func TestOpen_FilePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "whatif.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, core.CurrentUserKey, "alice"))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, err := s.Get(ctx, core.CurrentUserKey)
	require.NoError(t, err)
	assert.Equal(t, "alice", v)
}
