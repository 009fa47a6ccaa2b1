package whatif

import (
	"time"

	"github.com/lborres/whatif/core"
	"github.com/lborres/whatif/pkg/cache"
	"github.com/lborres/whatif/pkg/crypto"
	"github.com/lborres/whatif/services"
)

// interfaces
type (
	KeyValueStore = core.KeyValueStore
	Cache         = core.Cache

	HTTPAdapter = core.HTTPAdapter

	AuthHandler = core.AuthHandler
	Guard       = core.Guard

	PasswordHandler = crypto.PasswordHandler
)

// structs
type (
	App           = core.App
	Config        = core.Config
	SessionConfig = core.SessionConfig
	CacheConfig   = core.CacheConfig
)

type (
	Account       = core.Account
	Profile       = core.Profile
	SessionData   = core.SessionData
	RegisterInput = core.RegisterInput
	LoginInput    = core.LoginInput
	Result        = core.Result
	Decision      = core.Decision
	CacheStats    = core.CacheStats
)

const (
	defaultBasePath  = "/api/auth"
	defaultLoginPath = "/login"
)

// Constructors & helpers (convenience re-exports)
var (
	NewInMemoryCache     = cache.NewInMemoryCache
	NewArgon2            = crypto.NewArgon2
	DefaultSessionConfig = core.DefaultSessionConfig
)

var (
	ErrDuplicateUsername  = core.ErrDuplicateUsername
	ErrAccountNotFound    = core.ErrAccountNotFound
	ErrInvalidCredentials = core.ErrInvalidCredentials
)

var (
	ErrKeyNotFound    = core.ErrKeyNotFound
	ErrCorruptAccount = core.ErrCorruptAccount
	ErrCacheNotFound  = core.ErrCacheNotFound
	ErrStoreNotReady  = core.ErrStoreNotReady
)

var (
	ErrFieldsRequired      = core.ErrFieldsRequired
	ErrCredentialsRequired = core.ErrCredentialsRequired
	ErrInvalidEmail        = core.ErrInvalidEmail
	ErrPasswordTooShort    = core.ErrPasswordTooShort
)

var (
	ErrStoreRequired       = core.ErrStoreRequired
	ErrHTTPAdapterRequired = core.ErrHTTPAdapterRequired
)

func New(config Config) (*App, error) {
	if config.Store == nil {
		return nil, ErrStoreRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}

	// Set Defaults

	cacheAdapter := config.CacheAdapter
	if cacheAdapter == nil && !config.DisableCache {
		cacheAdapter = NewInMemoryCache(CacheConfig{
			TTL:     5 * time.Minute,
			MaxSize: 500,
		})
	}

	sessionConfig := config.SessionConfig
	if sessionConfig == nil {
		defaults := DefaultSessionConfig()
		sessionConfig = &defaults
	}

	passwordHandler := config.PasswordHandler
	if passwordHandler == nil {
		passwordHandler = crypto.Plaintext{}
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	loginPath := config.LoginPath
	if loginPath == "" {
		loginPath = defaultLoginPath
	}

	credentials := services.NewCredentialStore(config.Store, passwordHandler, cacheAdapter)
	sessionManager := services.NewSessionManager(*sessionConfig, config.Store, credentials)

	app := &App{
		Auth:      services.NewAuthService(credentials, sessionManager),
		Guard:     services.NewRouteGuard(sessionManager, loginPath),
		Accounts:  credentials,
		BasePath:  basePath,
		LoginPath: loginPath,
	}

	if err := config.HTTP.RegisterRoutes(app); err != nil {
		return nil, err
	}

	return app, nil
}
