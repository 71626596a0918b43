// Package store serializes access to campaign state. It owns one mutex per
// tenant and a bounded least-recently-used cache in front of the persistent
// snapshot store.
//
// Two access modes mirror the two kinds of commands: View holds the
// tenant's lock only while reading, and Update retains it across
// validation, mutation and persist so exactly one writer is in flight per
// tenant. Tenants never contend with each other.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/louisbranch/partyledger/internal/ledger/domain"
	"github.com/louisbranch/partyledger/internal/ledger/storage"
)

// DefaultCacheSize bounds the number of campaigns kept in memory.
const DefaultCacheSize = 10

// ErrCampaignExists indicates the tenant is already initialized.
var ErrCampaignExists = errors.New("campaign already exists")

// ErrUnchanged signals from an Update callback that the campaign was not
// mutated. Update treats it as success and skips the save.
var ErrUnchanged = errors.New("campaign unchanged")

// Manager coordinates campaign loads, mutations and saves per tenant.
type Manager struct {
	backend storage.CampaignStore

	mu    sync.Mutex
	locks map[int64]*sync.Mutex

	cache *lru.Cache[int64, *domain.Campaign]
}

// NewManager creates a manager over the given snapshot store. cacheSize
// falls back to DefaultCacheSize when non-positive.
func NewManager(backend storage.CampaignStore, cacheSize int) (*Manager, error) {
	if backend == nil {
		return nil, errors.New("campaign store is required")
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[int64, *domain.Campaign](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create campaign cache: %w", err)
	}
	return &Manager{
		backend: backend,
		locks:   make(map[int64]*sync.Mutex),
		cache:   cache,
	}, nil
}

// tenantLock returns the tenant's mutex, creating it on first use.
func (m *Manager) tenantLock(id int64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[id] = lock
	}
	return lock
}

// load returns the cached campaign or reads it from the backend, caching
// the result. Callers must hold the tenant's lock.
func (m *Manager) load(ctx context.Context, id int64) (*domain.Campaign, error) {
	if campaign, ok := m.cache.Get(id); ok {
		return campaign, nil
	}
	campaign, err := m.backend.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	m.cache.Add(id, campaign)
	return campaign, nil
}

// Create persists a brand-new campaign. It fails with ErrCampaignExists
// when the tenant already has one.
func (m *Manager) Create(ctx context.Context, campaign *domain.Campaign) error {
	lock := m.tenantLock(campaign.ID)
	lock.Lock()
	defer lock.Unlock()

	exists, err := m.backend.Exists(ctx, campaign.ID)
	if err != nil {
		return fmt.Errorf("check campaign %d: %w", campaign.ID, err)
	}
	if exists {
		return ErrCampaignExists
	}
	if err := m.backend.Save(ctx, campaign); err != nil {
		return fmt.Errorf("save campaign %d: %w", campaign.ID, err)
	}
	m.cache.Add(campaign.ID, campaign)
	return nil
}

// View runs fn against the campaign while holding the tenant's lock, then
// releases it. fn must not mutate the campaign; use Update for writes.
func (m *Manager) View(ctx context.Context, id int64, fn func(*domain.Campaign) error) error {
	lock := m.tenantLock(id)
	lock.Lock()
	defer lock.Unlock()

	campaign, err := m.load(ctx, id)
	if err != nil {
		return err
	}
	return fn(campaign)
}

// Update runs fn against the campaign and persists the result, holding the
// tenant's lock across validation, mutation and save. The lock is released
// on every exit path. When fn or the save fails, the cached entry is
// dropped so the next access reloads the persisted state instead of
// observing a partial mutation.
func (m *Manager) Update(ctx context.Context, id int64, fn func(*domain.Campaign) error) error {
	lock := m.tenantLock(id)
	lock.Lock()
	defer lock.Unlock()

	campaign, err := m.load(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(campaign); err != nil {
		if errors.Is(err, ErrUnchanged) {
			return nil
		}
		m.cache.Remove(id)
		return err
	}
	if err := m.backend.Save(ctx, campaign); err != nil {
		m.cache.Remove(id)
		return fmt.Errorf("save campaign %d: %w", id, err)
	}
	m.cache.Add(id, campaign)
	return nil
}

// Delete removes the tenant's campaign from the backend and the cache.
func (m *Manager) Delete(ctx context.Context, id int64) error {
	lock := m.tenantLock(id)
	lock.Lock()
	defer lock.Unlock()

	if err := m.backend.Delete(ctx, id); err != nil {
		return err
	}
	m.cache.Remove(id)
	return nil
}
