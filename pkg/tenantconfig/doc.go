// Package tenantconfig resolves and caches per-tenant provider and feature
// configuration.
//
// The Resolver is a read-through cache over a pluggable Store: resolve
// returns the cached value or fetches from the platform collaborator and
// stores it; refresh evicts then fetches. Two stores are provided, an
// in-process expirable LRU (MemoryStore) and a Redis-backed store for
// sharing across instances (RedisStore). Both replace whole values on write,
// so concurrent readers see either the old or the new configuration, never a
// partial one.
//
// Concurrent cache misses for one tenant collapse into a single platform
// fetch. Fetch failures surface as ErrConfigFetchFailed and are never
// memoized.
//
//	store := tenantconfig.NewMemoryStore(tenantconfig.DefaultMemoryStoreConfig())
//	resolver := tenantconfig.NewResolver(store, platformClient, logger, metrics)
//
//	cfg, err := resolver.Resolve(ctx, tenantID)
//	if cfg.FeatureEnabled("instant-transfers") { ... }
package tenantconfig
