package core

import (
	"context"
	"time"
)

// Ports define interfaces for external dependencies

// ============================================
// STORAGE PORT (durable key/value namespace)
// ============================================

// KeyValueStore is a string-keyed, string-valued persistent namespace.
//
// Get returns ErrKeyNotFound when the key is absent. SetIfAbsent must be
// atomic in the backend: it reports false, without writing, when the key
// already exists. Delete of a missing key is not an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	SetIfAbsent(ctx context.Context, key, value string) (bool, error)
	Delete(ctx context.Context, key string) error

	// Keys lists every key starting with prefix, in no particular order
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// ============================================
// CACHE PORT
// ============================================

// Cache holds account records by username. Records are immutable once
// registered, so a cached entry never goes stale; TTL only bounds memory.
type Cache interface {
	Get(username string) (*Account, error)
	Set(username string, account *Account) error
	Delete(username string) error
	Clear() error
}

// CacheWithStats extends Cache with statistics tracking
type CacheWithStats interface {
	Cache
	Stats() CacheStats
}

// CacheConfig configures cache behavior
type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// CacheStats are simple counters for cache behavior.
// These are intended for diagnostics and monitoring.
type CacheStats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}

// ============================================
// AUTH HANDLER (for HTTP adapters)
// ============================================

// AuthHandler provides the account operations HTTP adapters expose.
// Inputs are validated by the adapter before they reach these methods.
type AuthHandler interface {
	Register(ctx context.Context, input RegisterInput) error
	Login(ctx context.Context, input LoginInput) error
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*SessionData, error)
}

// AccountLister exposes the public profiles of every registered account
type AccountLister interface {
	List(ctx context.Context) ([]Profile, error)
}

// Guard decides whether a protected view may be rendered right now
type Guard interface {
	Check(ctx context.Context) (*Decision, error)
}

// Decision is the outcome of one guard evaluation
type Decision struct {
	Admit      bool
	Username   string
	RedirectTo string
}

// ============================================
// HTTP PORT
// ============================================

type HTTPAdapter interface {
	RegisterRoutes(app *App) error
}
