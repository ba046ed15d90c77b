package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDatabaseEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "crm")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("DB_NAME", "cogniseguros")
}

func TestLoad_Defaults(t *testing.T) {
	setDatabaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "cogniseguros_tenant_", cfg.Database.TenantDBPrefix)
	assert.Equal(t, "postgres", cfg.Database.MaintenanceDB)
	assert.True(t, cfg.Database.TenantAutoCreate)
	assert.Equal(t, 10*time.Minute, cfg.Auth.CodeTTL)
	assert.Equal(t, 30*time.Second, cfg.Database.StatementTimeout)
	assert.Equal(t, 1, cfg.Migration.Concurrency)
}

func TestLoad_Overrides(t *testing.T) {
	setDatabaseEnv(t)
	t.Setenv("TENANT_DB_PREFIX", "crm_t_")
	t.Setenv("OTP_TTL", "2m")
	t.Setenv("MIGRATION_CONCURRENCY", "4")
	t.Setenv("TENANT_AUTO_CREATE", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "crm_t_", cfg.Database.TenantDBPrefix)
	assert.Equal(t, 2*time.Minute, cfg.Auth.CodeTTL)
	assert.Equal(t, 4, cfg.Migration.Concurrency)
	assert.False(t, cfg.Database.TenantAutoCreate)
}

func TestLoad_MissingUser(t *testing.T) {
	setDatabaseEnv(t)
	t.Setenv("DB_USER", "")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingParameter)
	assert.Contains(t, err.Error(), "DB_USER")
}

func TestValidateServer_RequiresJWTSecret(t *testing.T) {
	setDatabaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.ValidateServer()
	assert.ErrorIs(t, err, ErrMissingParameter)

	cfg.JWT.Secret = "k"
	assert.NoError(t, cfg.ValidateServer())
}
