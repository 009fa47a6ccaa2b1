package core

import (
	"github.com/lborres/whatif/pkg/crypto"
)

type Config struct {
	Store KeyValueStore

	HTTP HTTPAdapter

	// Optional config
	CacheAdapter    Cache
	DisableCache    bool
	SessionConfig   *SessionConfig
	PasswordHandler crypto.PasswordHandler
	BasePath        string
	LoginPath       string
}

// SessionConfig names where the session marker lives
type SessionConfig struct {
	MarkerKey string
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MarkerKey: CurrentUserKey,
	}
}

// App is the assembled account core handed to HTTP adapters
type App struct {
	Auth      AuthHandler
	Guard     Guard
	Accounts  AccountLister
	BasePath  string
	LoginPath string
}
