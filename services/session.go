package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lborres/whatif/core"
)

// SessionManager owns the single "current user" marker.
//
// The marker is one key in the store, so it survives restarts exactly like
// the account records do. There is no expiry and no per-device state.
type SessionManager struct {
	config      core.SessionConfig
	store       core.KeyValueStore
	credentials *CredentialStore
}

func NewSessionManager(config core.SessionConfig, store core.KeyValueStore, credentials *CredentialStore) *SessionManager {
	if config.MarkerKey == "" {
		config.MarkerKey = core.CurrentUserKey
	}
	return &SessionManager{config: config, store: store, credentials: credentials}
}

// Login sets the marker to username when password matches.
//
// A failed attempt leaves the marker exactly as it was, including a session
// that belongs to somebody else. A successful one overwrites any existing
// marker without logging the previous user out first.
func (sm *SessionManager) Login(ctx context.Context, username, password string) error {
	if _, err := sm.credentials.Verify(ctx, username, password); err != nil {
		return err
	}

	if err := sm.store.Set(ctx, sm.config.MarkerKey, username); err != nil {
		return fmt.Errorf("failed to set session marker: %w", err)
	}

	slog.DebugContext(ctx, "session marker set", "username", username)
	return nil
}

// Logout clears the marker. Clearing an absent marker is not an error.
func (sm *SessionManager) Logout(ctx context.Context) error {
	if err := sm.store.Delete(ctx, sm.config.MarkerKey); err != nil {
		return fmt.Errorf("failed to clear session marker: %w", err)
	}
	return nil
}

// CurrentUser returns the username in the marker. ok is false when nobody
// is logged in; an empty marker value counts as nobody.
func (sm *SessionManager) CurrentUser(ctx context.Context) (username string, ok bool, err error) {
	username, err = sm.store.Get(ctx, sm.config.MarkerKey)
	if err != nil {
		if errors.Is(err, core.ErrKeyNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read session marker: %w", err)
	}
	if username == "" {
		return "", false, nil
	}
	return username, true, nil
}

func (sm *SessionManager) IsLoggedIn(ctx context.Context) (bool, error) {
	_, ok, err := sm.CurrentUser(ctx)
	return ok, err
}
