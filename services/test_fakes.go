package services

import (
	"context"
	"strings"
	"sync"

	"github.com/lborres/whatif/core"
)

// FakeStore is a test-only fake implementing core.KeyValueStore.
// It stores values in a map and exposes error fields for behavior injection.
type FakeStore struct {
	data      map[string]string
	mu        sync.RWMutex
	getErr    error
	setErr    error
	insertErr error
	deleteErr error
	keysErr   error

	gets int
}

var _ core.KeyValueStore = (*FakeStore)(nil)

func NewFakeStore() *FakeStore {
	return &FakeStore{data: make(map[string]string)}
}

func (f *FakeStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return "", core.ErrKeyNotFound
	}
	return v, nil
}

func (f *FakeStore) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *FakeStore) SetIfAbsent(_ context.Context, key, value string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return false, f.insertErr
	}
	if _, exists := f.data[key]; exists {
		return false, nil
	}
	f.data[key] = value
	return true, nil
}

func (f *FakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.data, key)
	return nil
}

func (f *FakeStore) Keys(_ context.Context, prefix string) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.keysErr != nil {
		return nil, f.keysErr
	}
	var keys []string
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Test helper methods
func (f *FakeStore) Raw(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *FakeStore) Put(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

func (f *FakeStore) SetGetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getErr = err
}

func (f *FakeStore) SetSetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setErr = err
}

func (f *FakeStore) SetInsertError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertErr = err
}

func (f *FakeStore) SetDeleteError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteErr = err
}

func (f *FakeStore) SetKeysError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keysErr = err
}

func (f *FakeStore) Gets() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.gets
}

// FakeCache is a test-only fake implementing core.Cache.
type FakeCache struct {
	cache  map[string]*core.Account
	mu     sync.RWMutex
	setErr error
	hits   int
	misses int
}

func NewFakeCache() *FakeCache {
	return &FakeCache{cache: make(map[string]*core.Account)}
}

func (f *FakeCache) Get(username string) (*core.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.cache[username]
	if !ok {
		f.misses++
		return nil, core.ErrCacheNotFound
	}
	f.hits++
	cp := *a
	return &cp, nil
}

func (f *FakeCache) Set(username string, account *core.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	cp := *account
	f.cache[username] = &cp
	return nil
}

func (f *FakeCache) Delete(username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.cache, username)
	return nil
}

func (f *FakeCache) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache = make(map[string]*core.Account)
	return nil
}

func (f *FakeCache) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.cache)
}

func (f *FakeCache) SetSetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setErr = err
}
