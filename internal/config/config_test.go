package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, DriverSQLite, cfg.DB.Driver)
	require.Equal(t, BackendMemory, cfg.Cache.Backend)
	require.Equal(t, 100*time.Second, cfg.Cache.TTL)
	require.True(t, cfg.Cache.Enabled)
	require.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_NAME", "loja")
	t.Setenv("CACHE_TTL", "45")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_CHECK_PERIOD", "1m")

	cfg, err := FromEnv()
	require.NoError(t, err)

	require.Equal(t, "3000", cfg.Port)
	require.True(t, cfg.IsProduction())
	require.Equal(t, DriverPostgres, cfg.DB.Driver)
	require.Equal(t, "db.internal", cfg.DB.Host)
	require.Equal(t, "loja", cfg.DB.Name)
	require.Equal(t, 45*time.Second, cfg.Cache.TTL)
	require.Equal(t, time.Minute, cfg.Cache.CheckPeriod)
	require.Equal(t, BackendRedis, cfg.Cache.Backend)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	_, err := FromEnv()
	require.ErrorContains(t, err, "DB_MAX_OPEN_CONNS")
}

func TestValidate_UnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	_, err := FromEnv()
	require.ErrorContains(t, err, "unknown DB_DRIVER")
}

func TestValidate_NonPositiveTTL(t *testing.T) {
	t.Setenv("CACHE_TTL", "0")
	_, err := FromEnv()
	require.Error(t, err)

	t.Setenv("CACHE_ENABLED", "false")
	_, err = FromEnv()
	require.NoError(t, err)
}
