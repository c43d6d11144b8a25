package tenantconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/harborbank/appcontext/pkg/observability"
)

// ErrConfigFetchFailed wraps any failure of the platform fetch. Failures are
// never cached; the next Resolve retries the fetch.
var ErrConfigFetchFailed = errors.New("tenantconfig: config fetch failed")

// Fetcher is the platform collaborator that owns tenant configuration.
type Fetcher interface {
	FetchTenantConfig(ctx context.Context, tenantID uuid.UUID) (*Config, error)
}

// Resolver resolves tenant configuration through a cache Store.
//
// Cache discipline: Resolve is a plain read-through, Refresh is evict then
// fetch. Concurrent misses for the same tenant are collapsed into a single
// platform fetch; concurrent readers during a refresh observe either the old
// or the new value. No lock is held across the fetch.
type Resolver struct {
	store   Store
	fetcher Fetcher
	group   singleflight.Group
	log     *logrus.Logger
	metrics *observability.Metrics
}

// NewResolver creates a resolver over the given store and platform fetcher.
// metrics may be nil.
func NewResolver(store Store, fetcher Fetcher, log *logrus.Logger, metrics *observability.Metrics) *Resolver {
	if log == nil {
		log = logrus.New()
	}
	return &Resolver{
		store:   store,
		fetcher: fetcher,
		log:     log,
		metrics: metrics,
	}
}

// Resolve returns the tenant's configuration, fetching and caching it on
// miss. Fetch failures propagate as ErrConfigFetchFailed and leave the cache
// untouched.
func (r *Resolver) Resolve(ctx context.Context, tenantID uuid.UUID) (*Config, error) {
	if cfg, ok := r.store.Get(ctx, tenantID); ok {
		r.metrics.RecordConfigCacheHit()
		return cfg, nil
	}
	r.metrics.RecordConfigCacheMiss()

	v, err, _ := r.group.Do(tenantID.String(), func() (interface{}, error) {
		// Another goroutine may have populated the entry while this call
		// waited its turn in the group.
		if cfg, ok := r.store.Get(ctx, tenantID); ok {
			return cfg, nil
		}
		return r.fetchAndStore(ctx, tenantID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Config), nil
}

// Refresh evicts any cached entry and performs exactly one fresh fetch,
// repopulating the cache on success.
func (r *Resolver) Refresh(ctx context.Context, tenantID uuid.UUID) (*Config, error) {
	if err := r.store.Delete(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("evict config for tenant %s: %w", tenantID, err)
	}
	r.metrics.RecordConfigEviction()
	// Detach any in-flight miss so it cannot repopulate the stale value.
	r.group.Forget(tenantID.String())
	return r.fetchAndStore(ctx, tenantID)
}

// IsCached reports whether the tenant currently has a live cache entry.
func (r *Resolver) IsCached(ctx context.Context, tenantID uuid.UUID) bool {
	return r.store.Contains(ctx, tenantID)
}

// Invalidate evicts a tenant's entry without fetching a replacement.
func (r *Resolver) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if err := r.store.Delete(ctx, tenantID); err != nil {
		return err
	}
	r.metrics.RecordConfigEviction()
	r.log.WithField("tenant_id", tenantID).Debug("tenant configuration invalidated")
	return nil
}

// InvalidateAll evicts every cached entry.
func (r *Resolver) InvalidateAll(ctx context.Context) error {
	if err := r.store.Clear(ctx); err != nil {
		return err
	}
	r.log.Info("tenant configuration cache cleared")
	return nil
}

func (r *Resolver) fetchAndStore(ctx context.Context, tenantID uuid.UUID) (*Config, error) {
	cfg, err := r.fetcher.FetchTenantConfig(ctx, tenantID)
	if err != nil {
		r.metrics.RecordConfigFetch("failure")
		r.log.WithField("tenant_id", tenantID).WithError(err).Error("tenant configuration fetch failed")
		return nil, fmt.Errorf("%w: tenant %s: %v", ErrConfigFetchFailed, tenantID, err)
	}
	if cfg == nil {
		r.metrics.RecordConfigFetch("failure")
		return nil, fmt.Errorf("%w: tenant %s: platform returned no configuration", ErrConfigFetchFailed, tenantID)
	}
	r.metrics.RecordConfigFetch("success")

	// Store only after a fully successful fetch; a cancelled or failed call
	// must not leave a partially-populated entry.
	if err := r.store.Set(ctx, tenantID, cfg); err != nil {
		r.log.WithField("tenant_id", tenantID).WithError(err).Warn("failed to cache tenant configuration")
	}
	return cfg, nil
}
