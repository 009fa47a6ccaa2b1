package core

import "errors"

// Account errors
var (
	ErrDuplicateUsername  = errors.New("username already exists")     // 409 Conflict
	ErrAccountNotFound    = errors.New("account not found")            // 404 Not Found
	ErrInvalidCredentials = errors.New("invalid username or password") // 401 Unauthorized
)

// Storage errors
var (
	ErrKeyNotFound     = errors.New("key not found")
	ErrCorruptAccount  = errors.New("stored account record is corrupt") // 500
	ErrCacheNotFound   = errors.New("account not found in cache")
	ErrStoreNotReady   = errors.New("store is not ready") // 500
	ErrMigrationFailed = errors.New("migration failed")   // 500
)

// Validation errors (client input)
var (
	ErrFieldsRequired      = errors.New("username, email and password are required") // 400
	ErrCredentialsRequired = errors.New("username and password are required")        // 400
	ErrInvalidEmail        = errors.New("invalid email format")                      // 400
	ErrPasswordTooShort    = errors.New("password is too short")                     // 400
	ErrInvalidRequestBody  = errors.New("invalid request body")                      // 400
	ErrInvalidEncoding     = errors.New("fields must be valid UTF-8")                // 400
)

// Config errors (server-side configuration)
var (
	ErrStoreRequired       = errors.New("key/value store is required") // 500
	ErrHTTPAdapterRequired = errors.New("adapter is required")         // 500
	ErrUnknownBackend      = errors.New("unknown store backend")       // 500
	ErrUnknownHasher       = errors.New("unknown password handler")    // 500
)
