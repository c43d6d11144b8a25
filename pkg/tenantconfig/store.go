package tenantconfig

import (
	"context"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// Store is the cache backing the resolver: one key per tenant, whole-value
// replace on write. Implementations must be safe for concurrent readers and
// concurrent single-key writers; a reader observes either the old or the new
// value, never a partial one.
type Store interface {
	// Get returns the cached configuration for a tenant, if present.
	Get(ctx context.Context, tenantID uuid.UUID) (*Config, bool)

	// Set stores a configuration, replacing any previous value atomically.
	Set(ctx context.Context, tenantID uuid.UUID, cfg *Config) error

	// Delete evicts a tenant's entry. Deleting an absent key is a no-op.
	Delete(ctx context.Context, tenantID uuid.UUID) error

	// Contains reports whether a tenant has a live entry.
	Contains(ctx context.Context, tenantID uuid.UUID) bool

	// Clear evicts every entry.
	Clear(ctx context.Context) error
}

// MemoryStoreConfig configures the in-memory store.
type MemoryStoreConfig struct {
	// MaxEntries bounds the number of cached tenants; least recently used
	// entries are evicted beyond it.
	MaxEntries int

	// TTL expires entries after the given duration. Zero disables expiry;
	// entries then live until evicted or explicitly invalidated.
	TTL time.Duration
}

// DefaultMemoryStoreConfig returns the defaults: 1024 tenants, 5 minute TTL.
func DefaultMemoryStoreConfig() MemoryStoreConfig {
	return MemoryStoreConfig{
		MaxEntries: 1024,
		TTL:        5 * time.Minute,
	}
}

// MemoryStore is an in-process Store on an expirable LRU. Values are stored
// as pointers to immutable Configs, so replacement is a single atomic map
// update and readers can never see a half-written entry.
type MemoryStore struct {
	cache *lru.LRU[uuid.UUID, *Config]
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore(cfg MemoryStoreConfig) *MemoryStore {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMemoryStoreConfig().MaxEntries
	}
	return &MemoryStore{
		cache: lru.NewLRU[uuid.UUID, *Config](cfg.MaxEntries, nil, cfg.TTL),
	}
}

func (s *MemoryStore) Get(_ context.Context, tenantID uuid.UUID) (*Config, bool) {
	return s.cache.Get(tenantID)
}

func (s *MemoryStore) Set(_ context.Context, tenantID uuid.UUID, cfg *Config) error {
	s.cache.Add(tenantID, cfg)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, tenantID uuid.UUID) error {
	s.cache.Remove(tenantID)
	return nil
}

func (s *MemoryStore) Contains(_ context.Context, tenantID uuid.UUID) bool {
	return s.cache.Contains(tenantID)
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.cache.Purge()
	return nil
}
