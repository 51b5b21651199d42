package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_TenantSuffixConvention(t *testing.T) {
	t.Setenv("OIC_CLIENT_ID_DEV", "client-dev")
	t.Setenv("OIC_CLIENT_SECRET_DEV", "secret-dev")
	t.Setenv("OIC_TOKEN_URL_DEV", "https://idcs.example.com/oauth2/v1/token")
	t.Setenv("OIC_API_BASE_URL_DEV", "https://dev.example.com/")
	t.Setenv("OIC_SCOPE_DEV", "urn:opc:resource:consumer::all")
	t.Setenv("OIC_INTEGRATION_INSTANCE_DEV", "dev-instance")
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)

	tenant, err := cfg.Tenant("dev")
	require.NoError(t, err)
	assert.Equal(t, "client-dev", tenant.ClientID)
	assert.Equal(t, "secret-dev", tenant.ClientSecret.Value())
	assert.Equal(t, "urn:opc:resource:consumer::all", tenant.Scope)
	// Trailing slash trimmed so path joining stays predictable.
	assert.Equal(t, "https://dev.example.com", tenant.APIBaseURL)
	assert.Equal(t, "dev-instance", tenant.IntegrationInstance)
}

func TestTenant_UnknownName(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	_, err = cfg.Tenant("staging")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTenant)
	assert.Contains(t, err.Error(), "staging")
}

func TestTenant_NotConfigured(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.SetTenant(Tenant{Name: "qa3", ClientID: "only-id"})

	_, err = cfg.Tenant("qa3")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTenantNotConfigured)
}

func TestValidate_RequiresOneTenant(t *testing.T) {
	cfg := &Config{Port: 3000, tenants: map[string]Tenant{}}
	for _, name := range TenantNames {
		cfg.tenants[name] = Tenant{Name: name}
	}
	require.Error(t, cfg.Validate())

	cfg.SetTenant(Tenant{
		Name:         "prod1",
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     "https://idcs.example.com/token",
	})
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"prod1"}, cfg.ConfiguredTenants())
}

func TestLoad_ShutdownTimeout(t *testing.T) {
	t.Setenv("OIC_SHUTDOWN_TIMEOUT", "30s")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)

	t.Setenv("OIC_SHUTDOWN_TIMEOUT", "not-a-duration")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestDuration_TextRoundTrip(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("90s")))
	assert.Equal(t, 90*time.Second, d.Duration())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1m30s", string(text))

	require.Error(t, d.UnmarshalText([]byte("-5s")))
}

func TestSecret_Redaction(t *testing.T) {
	s := Secret("super-secret")
	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "super-secret", s.Value())

	data, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "super-secret")
}
