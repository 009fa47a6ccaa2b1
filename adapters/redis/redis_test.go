package redis

import (
	"context"
	"os"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lborres/whatif/core"
)

func TestEscapeGlob(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "whatif_user_", want: "whatif_user_"},
		{in: "a*b", want: `a\*b`},
		{in: "a?b[c]", want: `a\?b\[c\]`},
		{in: `a\b`, want: `a\\b`},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, escapeGlob(test.in), test.in)
	}
}

func TestDedupe(t *testing.T) {
	got := dedupe([]string{"a", "b", "a", "c", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestKey_Namespace(t *testing.T) {
	s := New(nil, "test:")
	assert.Equal(t, "test:whatif_current_user", s.key(core.CurrentUserKey))
}

// Runs against a real server when WHATIF_TEST_REDIS_ADDR is set.
func TestStore_Integration(t *testing.T) {
	addr := os.Getenv("WHATIF_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("WHATIF_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	s, err := Connect(ctx, Options{Addr: addr, Namespace: "whatif_test_" + t.Name() + ":"})
	require.NoError(t, err)
	t.Cleanup(func() {
		keys, _ := s.Keys(ctx, "")
		for _, k := range keys {
			_ = s.Delete(ctx, k)
		}
		_ = s.Close()
	})

	_, err = s.Get(ctx, "absent")
	require.ErrorIs(t, err, core.ErrKeyNotFound)

	ok, err := s.SetIfAbsent(ctx, "whatif_user_alice", "first")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SetIfAbsent(ctx, "whatif_user_alice", "second")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "whatif_user_bob", "x"))
	require.NoError(t, s.Set(ctx, core.CurrentUserKey, "bob"))

	keys, err := s.Keys(ctx, core.UserKeyPrefix)
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"whatif_user_alice", "whatif_user_bob"}, keys)

	require.NoError(t, s.Delete(ctx, core.CurrentUserKey))
	require.NoError(t, s.Delete(ctx, core.CurrentUserKey))
	_, err = s.Get(ctx, core.CurrentUserKey)
	assert.ErrorIs(t, err, core.ErrKeyNotFound)
}
