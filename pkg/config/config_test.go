package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "secreto", cfg.JWT.Secret)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.10", cfg.Billing.TaxRate.StringFixed(2))
	assert.Equal(t, "1.30", cfg.Billing.Markup.StringFixed(2))
	assert.Equal(t, "PY", cfg.Billing.PhoneRegion)
	assert.Equal(t, time.Minute, cfg.Dashboard.CacheTTL)
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.Equal(t, int32(2), cfg.DB.MinConns)
	assert.Equal(t, time.Hour, cfg.DB.MaxConnLifetime)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Storage.Enabled())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("BILLING_TAX_RATE", "0.05")
	t.Setenv("DASHBOARD_REFRESH_INTERVAL", "30")
	t.Setenv("DASHBOARD_CACHE_TTL", "2m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Storage.Enabled())
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, "0.05", cfg.Billing.TaxRate.StringFixed(2))
	assert.Equal(t, 30*time.Second, cfg.Dashboard.RefreshInterval)
	assert.Equal(t, 2*time.Minute, cfg.Dashboard.CacheTTL)
}

func TestLoad_TasaCeroSeRespeta(t *testing.T) {
	t.Setenv("BILLING_TAX_RATE", "0")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.Billing.TaxRate.IsZero())
}

func TestLoad_PoolInvalido(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "2")
	t.Setenv("DB_MIN_CONNS", "5")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_InvalidMarkup(t *testing.T) {
	t.Setenv("BILLING_MARKUP", "abc")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("BILLING_MARKUP", "0")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "ferreteria", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/ferreteria?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
