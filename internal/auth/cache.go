// Package auth acquires and caches per-tenant OAuth2 bearer tokens.
//
// One cache serves all tenants. Each tenant's token is obtained with a
// client-credentials grant against the tenant's token endpoint, held in
// memory, and persisted to a per-tenant file so a cooperative restart can
// reuse it. A token is usable only while the current time is strictly below
// expiry minus a 60 second safety margin.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/nareshsaladi2024/oicagentops/internal/config"
)

// SafetyMargin is subtracted from a token's nominal expiry so requests are
// never issued with a token that will expire mid-flight.
const SafetyMargin = 60 * time.Second

// defaultExpiresIn applies when the token endpoint omits expires_in.
const defaultExpiresIn = 3600 * time.Second

// ExchangeError reports a failed token acquisition. The upstream status and
// body are included so callers can surface them verbatim.
type ExchangeError struct {
	Status int
	Body   string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("Authentication failed (%d): %s", e.Status, e.Body)
}

// record is the persisted shape of a cached token. The expiry is absolute
// milliseconds since epoch, matching the on-disk layout the agents expect.
type record struct {
	AccessToken string `json:"accessToken"`
	Expiry      int64  `json:"expiry"`
	Environment string `json:"environment"`
}

// Cache holds one bearer token per tenant.
//
// Reads are shared; writes hold the lock. Acquisition is serialized per
// tenant through a singleflight group: a second concurrent caller waits for
// the first exchange and then re-reads the cache.
type Cache struct {
	dir    string
	logger *zap.Logger

	mu     sync.RWMutex
	tokens map[string]record

	group singleflight.Group

	// now is swappable for tests.
	now func() time.Time
}

// NewCache creates a token cache persisting records under dir. An empty dir
// selects ~/.oic-mcp. All on-disk records are evicted at construction so a
// restart never serves a bearer issued under a previous configuration.
func NewCache(dir string, logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".oic-mcp")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create token directory: %w", err)
	}

	c := &Cache{
		dir:    dir,
		logger: logger,
		tokens: make(map[string]record),
		now:    time.Now,
	}
	c.EvictAll()
	return c, nil
}

// Token returns a usable bearer token for the tenant, acquiring one if the
// cache holds none. At most one exchange per tenant is in flight at a time.
func (c *Cache) Token(ctx context.Context, tenant config.Tenant) (string, error) {
	if tok, ok := c.get(tenant.Name); ok {
		return tok, nil
	}

	v, err, _ := c.group.Do(tenant.Name, func() (interface{}, error) {
		// A concurrent caller may have refreshed while we queued.
		if tok, ok := c.get(tenant.Name); ok {
			return tok, nil
		}

		tok, expiry, err := c.exchange(ctx, tenant)
		if err != nil {
			return "", err
		}
		c.put(tenant.Name, tok, expiry)
		c.logger.Info("acquired token",
			zap.String("tenant", tenant.Name),
			zap.Time("expiry", expiry))
		return tok, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Put stores a token with the given lifetime and persists it.
func (c *Cache) Put(tenant, token string, expiresIn time.Duration) {
	c.put(tenant, token, c.now().Add(expiresIn))
}

// Evict removes the tenant's token from memory and disk.
func (c *Cache) Evict(tenant string) {
	c.mu.Lock()
	delete(c.tokens, tenant)
	c.mu.Unlock()

	if err := os.Remove(c.path(tenant)); err != nil && !errors.Is(err, os.ErrNotExist) {
		c.logger.Warn("failed to remove token file",
			zap.String("tenant", tenant), zap.Error(err))
	}
}

// EvictAll evicts every tenant's token. Called on startup and shutdown.
func (c *Cache) EvictAll() {
	for _, name := range config.TenantNames {
		c.Evict(name)
	}
}

func (c *Cache) get(tenant string) (string, bool) {
	c.mu.RLock()
	rec, ok := c.tokens[tenant]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	expiry := time.UnixMilli(rec.Expiry)
	if !c.now().Before(expiry.Add(-SafetyMargin)) {
		return "", false
	}
	return rec.AccessToken, true
}

func (c *Cache) put(tenant, token string, expiry time.Time) {
	rec := record{
		AccessToken: token,
		Expiry:      expiry.UnixMilli(),
		Environment: tenant,
	}

	c.mu.Lock()
	c.tokens[tenant] = rec
	c.mu.Unlock()

	if err := c.persist(tenant, rec); err != nil {
		// The in-memory token is still good; persistence is a warm-restart hint.
		c.logger.Warn("failed to persist token",
			zap.String("tenant", tenant), zap.Error(err))
	}
}

// exchange performs the OAuth2 client-credentials grant.
func (c *Cache) exchange(ctx context.Context, tenant config.Tenant) (string, time.Time, error) {
	cc := &clientcredentials.Config{
		ClientID:     tenant.ClientID,
		ClientSecret: tenant.ClientSecret.Value(),
		TokenURL:     tenant.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	if tenant.Scope != "" {
		cc.Scopes = []string{tenant.Scope}
	}

	tok, err := cc.Token(ctx)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return "", time.Time{}, &ExchangeError{
				Status: rerr.Response.StatusCode,
				Body:   string(rerr.Body),
			}
		}
		return "", time.Time{}, fmt.Errorf("token endpoint unreachable: %w", err)
	}

	expiry := tok.Expiry
	if expiry.IsZero() {
		expiry = c.now().Add(defaultExpiresIn)
	}
	return tok.AccessToken, expiry, nil
}

// persist writes the record atomically: temp file in the same directory,
// then rename.
func (c *Cache) persist(tenant string, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, "token-"+tenant+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, c.path(tenant))
}

func (c *Cache) path(tenant string) string {
	return filepath.Join(c.dir, "token-"+tenant+".json")
}
