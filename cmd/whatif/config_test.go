package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lborres/whatif/core"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(nil, envFrom(nil), io.Discard)
	require.NoError(t, err)

	if diff := cmp.Diff(defaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_EnvThenFlags(t *testing.T) {
	env := envFrom(map[string]string{
		"WHATIF_STORE":           "redis",
		"WHATIF_REDIS_ADDR":      "cache:6379",
		"WHATIF_REDIS_DB":        "3",
		"WHATIF_CACHE_TTL":       "1m",
		"WHATIF_DISABLE_CACHE":   "true",
		"WHATIF_LOG_LEVEL":       "debug",
		"WHATIF_PASSWORD_HASHER": "argon2",
	})

	cfg, err := loadConfig([]string{"-store", "memory", "-addr", ":9000"}, env, io.Discard)
	require.NoError(t, err)

	want := defaultConfig()
	want.Store = "memory"
	want.Addr = ":9000"
	want.RedisAddr = "cache:6379"
	want.RedisDB = 3
	want.CacheTTL = time.Minute
	want.DisableCache = true
	want.LogLevel = "debug"
	want.Hasher = "argon2"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "unknown backend", args: []string{"-store", "etcd"}},
		{name: "postgres without dsn", args: []string{"-store", "postgres"}},
		{name: "bad log level", args: []string{"-log-level", "loud"}},
		{name: "bad log format", args: []string{"-log-format", "xml"}},
		{name: "negative cache size", args: []string{"-cache-size", "-1"}},
		{name: "bad env duration", env: map[string]string{"WHATIF_CACHE_TTL": "soon"}},
		{name: "bad env int", env: map[string]string{"WHATIF_REDIS_DB": "one"}},
		{name: "unknown flag", args: []string{"-nope"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := loadConfig(test.args, envFrom(test.env), io.Discard)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_UnknownBackendSentinel(t *testing.T) {
	_, err := loadConfig([]string{"-store", "etcd"}, envFrom(nil), io.Discard)
	assert.ErrorIs(t, err, core.ErrUnknownBackend)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()

	// missing file is not an error
	require.NoError(t, loadDotEnv(filepath.Join(dir, "absent.env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("WHATIF_TEST_DOTENV_STORE=memory\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("WHATIF_TEST_DOTENV_STORE") })

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "memory", os.Getenv("WHATIF_TEST_DOTENV_STORE"))
}

func TestOpenStore_MemoryAndSQLite(t *testing.T) {
	ctx := context.Background()

	for _, backend := range []string{"memory", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Store = backend
			cfg.SQLitePath = filepath.Join(t.TempDir(), "whatif.db")

			store, closer, err := openStore(ctx, cfg)
			require.NoError(t, err)
			t.Cleanup(func() { _ = closer.Close() })

			require.NoError(t, store.Set(ctx, core.CurrentUserKey, "alice"))
			v, err := store.Get(ctx, core.CurrentUserKey)
			require.NoError(t, err)
			assert.Equal(t, "alice", v)
		})
	}
}

type stubLister []core.Profile

func (s stubLister) List(context.Context) ([]core.Profile, error) { return s, nil }

func TestExportAccounts(t *testing.T) {
	var buf bytes.Buffer
	accounts := stubLister{{Username: "alice", Email: "a@x.io"}, {Username: "bob", Email: "b@y.io"}}

	require.NoError(t, exportAccounts(context.Background(), accounts, &buf))

	assert.NotContains(t, buf.String(), "password")

	var got []core.Profile
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	if diff := cmp.Diff([]core.Profile(accounts), got); diff != "" {
		t.Errorf("exported accounts mismatch (-want +got):\n%s", diff)
	}
}
