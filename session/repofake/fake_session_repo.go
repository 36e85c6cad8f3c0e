package fakesessionrepo

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-maint-dashboard/session"
	"github.com/patrickmn/go-cache"
)

var _ session.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is an in-memory session.Repo. It backs the "memory" session backend and
// the package tests.
type FakeSessionRepo struct {
	entries *cache.Cache
	lock    sync.RWMutex
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		entries: cache.New(cache.NoExpiration, 0),
	}
}

func (sr *FakeSessionRepo) Get(_ context.Context, key string) (string, bool, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	v, ok := sr.entries.Get(key)
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

func (sr *FakeSessionRepo) Put(_ context.Context, entries map[string]string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	for k, v := range entries {
		sr.entries.Set(k, v, cache.NoExpiration)
	}
	return nil
}

func (sr *FakeSessionRepo) Delete(_ context.Context, keys ...string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	for _, k := range keys {
		sr.entries.Delete(k)
	}
	return nil
}

// Len returns the number of stored entries
func (sr *FakeSessionRepo) Len() int {
	sr.lock.RLock()
	defer sr.lock.RUnlock()
	return sr.entries.ItemCount()
}
