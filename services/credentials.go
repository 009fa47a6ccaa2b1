package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lborres/whatif/core"
	"github.com/lborres/whatif/pkg/crypto"
)

// CredentialStore maps usernames to account records in a KeyValueStore
type CredentialStore struct {
	store     core.KeyValueStore
	passwords crypto.PasswordHandler
	cache     core.Cache // optional, can be nil if caching is disabled
}

var _ core.AccountLister = (*CredentialStore)(nil)

func NewCredentialStore(store core.KeyValueStore, passwords crypto.PasswordHandler, cache core.Cache) *CredentialStore {
	if passwords == nil {
		passwords = crypto.Plaintext{}
	}
	return &CredentialStore{store: store, passwords: passwords, cache: cache}
}

// Register stores a new account record for username.
//
// The write is a single insert-if-absent, so two registrations racing for
// the same username cannot both succeed. The loser gets ErrDuplicateUsername
// and the winner's record is left untouched.
//
// Records are JSON, which cannot carry invalid UTF-8 byte for byte, so such
// input is rejected instead of being stored altered.
func (c *CredentialStore) Register(ctx context.Context, username, email, password string) error {
	if !utf8.ValidString(username) || !utf8.ValidString(email) || !utf8.ValidString(password) {
		return core.ErrInvalidEncoding
	}

	stored, err := c.passwords.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	account := &core.Account{Username: username, Email: email, Password: stored}
	payload, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to encode account: %w", err)
	}

	inserted, err := c.store.SetIfAbsent(ctx, core.UserKey(username), string(payload))
	if err != nil {
		return fmt.Errorf("failed to store account: %w", err)
	}
	if !inserted {
		return core.ErrDuplicateUsername
	}

	if c.cache != nil {
		// We don't fail the request if caching fails
		_ = c.cache.Set(username, account)
	}
	return nil
}

// Lookup returns the record for username, or ErrAccountNotFound
func (c *CredentialStore) Lookup(ctx context.Context, username string) (*core.Account, error) {
	if c.cache != nil {
		if account, err := c.cache.Get(username); err == nil {
			return account, nil
		}
	}

	raw, err := c.store.Get(ctx, core.UserKey(username))
	if err != nil {
		if errors.Is(err, core.ErrKeyNotFound) {
			return nil, core.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to read account: %w", err)
	}

	account := &core.Account{}
	if err := json.Unmarshal([]byte(raw), account); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrCorruptAccount, username, err)
	}

	// only positive results are cached, a later registration must be visible
	if c.cache != nil {
		_ = c.cache.Set(username, account)
	}
	return account, nil
}

// Verify checks password against the record for username. An unknown
// username and a wrong password both yield ErrInvalidCredentials.
func (c *CredentialStore) Verify(ctx context.Context, username, password string) (*core.Account, error) {
	account, err := c.Lookup(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrAccountNotFound) {
			return nil, core.ErrInvalidCredentials
		}
		return nil, err
	}

	valid, err := c.passwords.Verify(password, account.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, core.ErrInvalidCredentials
	}
	return account, nil
}

// List returns the public profile of every registered account, sorted by
// username.
func (c *CredentialStore) List(ctx context.Context) ([]core.Profile, error) {
	keys, err := c.store.Keys(ctx, core.UserKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	profiles := make([]core.Profile, 0, len(keys))
	for _, key := range keys {
		account, err := c.Lookup(ctx, strings.TrimPrefix(key, core.UserKeyPrefix))
		if err != nil {
			if errors.Is(err, core.ErrAccountNotFound) {
				continue
			}
			return nil, err
		}
		profiles = append(profiles, account.Profile())
	}

	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Username < profiles[j].Username })
	return profiles, nil
}
