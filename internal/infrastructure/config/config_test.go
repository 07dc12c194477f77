package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "agromarket", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "agromarket", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, 5*time.Minute, cfg.Cache.ListingTTL)
		assert.Equal(t, "agro:listing:", cfg.Cache.KeyPrefix)
		assert.Equal(t, 15*time.Minute, cfg.Storage.PresignExpiry)
		assert.False(t, cfg.Storage.Enabled)
		assert.False(t, cfg.Telemetry.MetricsEnabled)
		assert.Equal(t, 60*time.Second, cfg.Telemetry.MetricsExportInterval)
		assert.Equal(t, 15*time.Second, cfg.Telemetry.DBPoolStatsInterval)
	})

	t.Run("loads values from environment variables with AGRO prefix", func(t *testing.T) {
		t.Setenv("AGRO_APP_NAME", "test-app")
		t.Setenv("AGRO_APP_PORT", "9000")
		t.Setenv("AGRO_DATABASE_HOST", "testdb.local")
		t.Setenv("AGRO_DATABASE_PORT", "5433")
		t.Setenv("AGRO_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("AGRO_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("AGRO_CACHE_ENABLED", "true")
		t.Setenv("AGRO_CACHE_LISTING_TTL", "30s")
		t.Setenv("AGRO_TELEMETRY_METRICS_ENABLED", "true")
		t.Setenv("AGRO_TELEMETRY_METRICS_EXPORT_INTERVAL", "10s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Cache.Enabled)
		assert.Equal(t, 30*time.Second, cfg.Cache.ListingTTL)
		assert.True(t, cfg.Telemetry.MetricsEnabled)
		assert.Equal(t, 10*time.Second, cfg.Telemetry.MetricsExportInterval)
	})

	t.Run("rejects idle conns above open conns", func(t *testing.T) {
		t.Setenv("AGRO_DATABASE_MAX_OPEN_CONNS", "5")
		t.Setenv("AGRO_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("storage requires a bucket", func(t *testing.T) {
		t.Setenv("AGRO_STORAGE_ENABLED", "true")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})

	t.Run("production requires a strong secret", func(t *testing.T) {
		t.Setenv("AGRO_APP_ENV", "production")
		t.Setenv("AGRO_JWT_SECRET", "short")
		t.Setenv("AGRO_DATABASE_PASSWORD", "pw")
		t.Setenv("AGRO_DATABASE_SSLMODE", "require")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "agro",
		Password: "p@ss:word",
		DBName:   "market",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://agro:p%40ss%3Aword@db:5432/market?sslmode=disable", d.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", RedisConfig{Host: "cache", Port: 6380}.Addr())
}
