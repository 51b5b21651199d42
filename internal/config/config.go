// Package config loads gateway configuration from the process environment.
//
// Tenant credentials follow a suffix convention: for base key K and tenant T,
// the variable is K_T uppercased (OIC_CLIENT_ID_DEV, OIC_TOKEN_URL_PROD1, ...).
// The tenant set is closed and fixed at build time.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// TenantNames is the closed set of deployment environments the gateway
// can address. Adding an environment requires a rebuild.
var TenantNames = []string{"dev", "qa3", "prod1", "prod3"}

// Sentinel errors for tenant lookup failures.
var (
	ErrUnknownTenant       = errors.New("unknown tenant")
	ErrTenantNotConfigured = errors.New("tenant not configured")
)

// Tenant holds the credentials and endpoints for one deployment environment.
// Immutable after Load.
type Tenant struct {
	Name                string
	ClientID            string
	ClientSecret        Secret
	Scope               string
	TokenURL            string
	APIBaseURL          string
	IntegrationInstance string
}

// Configured reports whether the tenant carries the credentials required
// for token acquisition.
func (t Tenant) Configured() bool {
	return t.ClientID != "" && t.ClientSecret.IsSet() && t.TokenURL != ""
}

// Config is the full gateway configuration snapshot.
type Config struct {
	// Port is the HTTP listen port (PORT, default 3000).
	Port int

	// Env selects logging behavior: "production" or "development" (OIC_ENV).
	Env string

	// ShutdownTimeout bounds the drain phase on termination.
	ShutdownTimeout time.Duration

	// TokenDir is the directory holding persisted per-tenant token records.
	// Empty means the default under the user's home directory.
	TokenDir string

	tenants map[string]Tenant
}

// Load reads configuration from the process environment.
//
// Tenants with no credentials at all are still present in the snapshot
// (lookup distinguishes unknown from unconfigured), but Validate rejects a
// configuration where no tenant is usable.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Flat lowercase keys; the suffix convention is resolved per tenant below.
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg := &Config{
		Port:            3000,
		Env:             "production",
		ShutdownTimeout: 5 * time.Second,
		TokenDir:        k.String("oic_token_dir"),
		tenants:         make(map[string]Tenant, len(TenantNames)),
	}

	if p := k.Int("port"); p > 0 {
		cfg.Port = p
	}
	if e := k.String("oic_env"); e != "" {
		cfg.Env = e
	} else if e := k.String("node_env"); e != "" {
		// Accepted for compatibility with the original deployment scripts.
		cfg.Env = e
	}
	if raw := k.String("oic_shutdown_timeout"); raw != "" {
		var d Duration
		if err := d.UnmarshalText([]byte(raw)); err == nil {
			cfg.ShutdownTimeout = d.Duration()
		}
	}

	for _, name := range TenantNames {
		suffix := "_" + name
		cfg.tenants[name] = Tenant{
			Name:                name,
			ClientID:            k.String("oic_client_id" + suffix),
			ClientSecret:        Secret(k.String("oic_client_secret" + suffix)),
			Scope:               k.String("oic_scope" + suffix),
			TokenURL:            k.String("oic_token_url" + suffix),
			APIBaseURL:          strings.TrimRight(k.String("oic_api_base_url"+suffix), "/"),
			IntegrationInstance: k.String("oic_integration_instance" + suffix),
		}
	}

	return cfg, nil
}

// Tenant returns the configuration snapshot for the named tenant.
//
// A name outside the fixed set fails with ErrUnknownTenant; a known tenant
// missing any of client id, client secret, or token URL fails with
// ErrTenantNotConfigured.
func (c *Config) Tenant(name string) (Tenant, error) {
	t, ok := c.tenants[name]
	if !ok {
		return Tenant{}, fmt.Errorf("%w: %q", ErrUnknownTenant, name)
	}
	if !t.Configured() {
		return Tenant{}, fmt.Errorf("%w: %q is missing credentials", ErrTenantNotConfigured, name)
	}
	return t, nil
}

// ConfiguredTenants returns the names of tenants that carry full credentials,
// in the fixed declaration order.
func (c *Config) ConfiguredTenants() []string {
	names := make([]string, 0, len(TenantNames))
	for _, name := range TenantNames {
		if c.tenants[name].Configured() {
			names = append(names, name)
		}
	}
	return names
}

// SetTenant overrides a tenant snapshot. Intended for tests.
func (c *Config) SetTenant(t Tenant) {
	if c.tenants == nil {
		c.tenants = make(map[string]Tenant)
	}
	c.tenants[t.Name] = t
}

// Validate checks that the configuration can serve at least one tenant.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if len(c.ConfiguredTenants()) == 0 {
		return errors.New("no tenant is configured: set OIC_CLIENT_ID_<T>, OIC_CLIENT_SECRET_<T> and OIC_TOKEN_URL_<T> for at least one tenant")
	}
	return nil
}
