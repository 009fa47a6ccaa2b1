package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/lborres/whatif/core"
	"github.com/lborres/whatif/pkg/logging"
)

const envPrefix = "WHATIF_"

// Config holds everything the server binary can be told from outside
type Config struct {
	Addr string

	Store          string
	SQLitePath     string
	PostgresDSN    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisNamespace string

	Hasher string

	LogLevel  string
	LogFormat string

	BasePath  string
	LoginPath string

	CacheTTL     time.Duration
	CacheSize    int
	DisableCache bool

	ExportAccounts bool
}

func defaultConfig() Config {
	return Config{
		Addr:       ":8080",
		Store:      "sqlite",
		SQLitePath: "whatif.db",
		RedisAddr:  "localhost:6379",
		Hasher:     "plaintext",
		LogLevel:   "info",
		LogFormat:  "text",
		BasePath:   "/api/auth",
		LoginPath:  "/login",
		CacheTTL:   5 * time.Minute,
		CacheSize:  500,
	}
}

// loadDotEnv reads .env into the process environment. A missing file is fine.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// loadConfig layers defaults, WHATIF_* variables and then flags
func loadConfig(args []string, getenv func(string) string, output io.Writer) (Config, error) {
	cfg := defaultConfig()
	if err := applyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("whatif", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "store backend: memory|sqlite|postgres|redis")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", cfg.SQLitePath, "sqlite database file")
	fs.StringVar(&cfg.PostgresDSN, "postgres-dsn", cfg.PostgresDSN, "postgres connection string")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.RedisPassword, "redis-password", cfg.RedisPassword, "redis password")
	fs.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "redis database index")
	fs.StringVar(&cfg.RedisNamespace, "redis-namespace", cfg.RedisNamespace, "prefix for every redis key")
	fs.StringVar(&cfg.Hasher, "password-hasher", cfg.Hasher, "password handler: plaintext|argon2")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: "+logging.LevelNames())
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text|json")
	fs.StringVar(&cfg.BasePath, "base-path", cfg.BasePath, "mount point of the auth API")
	fs.StringVar(&cfg.LoginPath, "login-path", cfg.LoginPath, "where the guard redirects")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "account cache TTL")
	fs.IntVar(&cfg.CacheSize, "cache-size", cfg.CacheSize, "account cache max entries")
	fs.BoolVar(&cfg.DisableCache, "disable-cache", cfg.DisableCache, "disable the account cache")
	fs.BoolVar(&cfg.ExportAccounts, "export-accounts", cfg.ExportAccounts, "print registered accounts as YAML and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}

	str("ADDR", &cfg.Addr)
	str("STORE", &cfg.Store)
	str("SQLITE_PATH", &cfg.SQLitePath)
	str("POSTGRES_DSN", &cfg.PostgresDSN)
	str("REDIS_ADDR", &cfg.RedisAddr)
	str("REDIS_PASSWORD", &cfg.RedisPassword)
	str("REDIS_NAMESPACE", &cfg.RedisNamespace)
	str("PASSWORD_HASHER", &cfg.Hasher)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("BASE_PATH", &cfg.BasePath)
	str("LOGIN_PATH", &cfg.LoginPath)

	if v := getenv(envPrefix + "REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sREDIS_DB: %w", envPrefix, err)
		}
		cfg.RedisDB = n
	}
	if v := getenv(envPrefix + "CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sCACHE_TTL: %w", envPrefix, err)
		}
		cfg.CacheTTL = d
	}
	if v := getenv(envPrefix + "CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sCACHE_SIZE: %w", envPrefix, err)
		}
		cfg.CacheSize = n
	}
	if v := getenv(envPrefix + "DISABLE_CACHE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sDISABLE_CACHE: %w", envPrefix, err)
		}
		cfg.DisableCache = b
	}
	return nil
}

func (c Config) validate() error {
	switch c.Store {
	case "memory", "sqlite", "redis":
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres store needs -postgres-dsn or %sPOSTGRES_DSN", envPrefix)
		}
	default:
		return fmt.Errorf("%w: %q", core.ErrUnknownBackend, c.Store)
	}

	if err := logging.Validate(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.CacheSize < 0 || c.CacheTTL < 0 {
		return errors.New("cache size and TTL must not be negative")
	}
	return nil
}
