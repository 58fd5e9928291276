package postgres_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ferreteria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ferreteria-api/pkg/config"
)

func TestNewPoolConfig_LimitesDesdeConfig(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db", Port: 5432, User: "app", Password: "secreto", DBName: "ferreteria", SSLMode: "disable",
		MaxConns: 10, MinConns: 1, MaxConnLifetime: 15 * time.Minute, MaxConnIdleTime: time.Minute,
	}

	pc, err := postgres.NewPoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5432), pc.ConnConfig.Port)
	assert.Equal(t, "ferreteria", pc.ConnConfig.Database)
	assert.Equal(t, int32(10), pc.MaxConns)
	assert.Equal(t, int32(1), pc.MinConns)
	assert.Equal(t, 15*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, time.Minute, pc.MaxConnIdleTime)
	assert.NotNil(t, pc.AfterConnect)
}

func TestNewPoolConfig_DatabaseURL(t *testing.T) {
	pc, err := postgres.NewPoolConfig(config.DBConfig{DatabaseURL: "postgres://app:x@pg.interno:6543/tienda?sslmode=disable"})
	require.NoError(t, err)
	assert.Equal(t, "pg.interno", pc.ConnConfig.Host)
	assert.Equal(t, uint16(6543), pc.ConnConfig.Port)
	assert.Equal(t, "tienda", pc.ConnConfig.Database)

	_, err = postgres.NewPoolConfig(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}
