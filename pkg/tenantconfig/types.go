package tenantconfig

import (
	"github.com/google/uuid"
)

// Config is the provider and feature configuration for one tenant, fetched
// from the platform configuration service. Instances are treated as
// immutable once fetched; the cache always replaces whole values and never
// mutates a stored Config in place.
type Config struct {
	TenantID     uuid.UUID                   `json:"tenant_id"`
	Name         string                      `json:"name"`
	Providers    map[string]ProviderSettings `json:"providers,omitempty"`
	FeatureFlags map[string]bool             `json:"feature_flags,omitempty"`
	Settings     map[string]string           `json:"settings,omitempty"`
	Active       bool                        `json:"active"`
}

// ProviderSettings configures one named provider for a tenant.
type ProviderSettings struct {
	Enabled    bool              `json:"enabled"`
	Priority   int               `json:"priority"`
	Properties map[string]string `json:"properties,omitempty"`
}

// FeatureEnabled reports whether the named feature flag is on. Unknown
// flags are off.
func (c *Config) FeatureEnabled(name string) bool {
	if c == nil {
		return false
	}
	return c.FeatureFlags[name]
}

// Setting returns the named setting value, or the fallback when absent.
func (c *Config) Setting(key, fallback string) string {
	if c == nil {
		return fallback
	}
	if v, ok := c.Settings[key]; ok {
		return v
	}
	return fallback
}

// Provider returns the named provider settings.
func (c *Config) Provider(name string) (ProviderSettings, bool) {
	if c == nil {
		return ProviderSettings{}, false
	}
	p, ok := c.Providers[name]
	return p, ok
}

// EnabledProviders returns the names of all enabled providers in no
// particular order.
func (c *Config) EnabledProviders() []string {
	if c == nil {
		return nil
	}
	var out []string
	for name, p := range c.Providers {
		if p.Enabled {
			out = append(out, name)
		}
	}
	return out
}
