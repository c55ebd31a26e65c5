package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, 5, cfg.Auth.MaxFailedLogins)
	assert.Equal(t, 5, cfg.Queue.Concurrency)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_EXPIRES_IN", "2h")
	t.Setenv("STORAGE_DRIVER", "MINIO")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, "minio", cfg.Storage.Driver)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.CORSOrigins)
}

func TestLoadRejectsUnknownStorageDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "s3")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestValidateProductionRequiresSecrets(t *testing.T) {
	cfg := &Config{
		App:     AppConfig{Environment: "production"},
		JWT:     JWTConfig{Secret: defaultJWTSecret, ExpiresIn: time.Hour},
		Storage: StorageConfig{Driver: "local"},
		Queue:   QueueConfig{Concurrency: 1},
	}
	require.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg.JWT.Secret = "s3cret"
	require.ErrorContains(t, cfg.Validate(), "DB_PASSWORD")

	cfg.Database.Password = "pw"
	require.NoError(t, cfg.Validate())
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_RETRY_DELAY", "250ms")

	dbCfg, err := LoadDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, 6543, dbCfg.Port)
	assert.Equal(t, 250*time.Millisecond, dbCfg.RetryDelay)
	assert.Equal(t, 10*time.Second, dbCfg.ConnectTimeout)
}

func TestLoadDatabaseConfigInvalid(t *testing.T) {
	t.Setenv("DB_CONNECT_TIMEOUT", "soon")
	_, err := LoadDatabaseConfig()
	require.ErrorContains(t, err, "DB_CONNECT_TIMEOUT")

	t.Setenv("DB_CONNECT_TIMEOUT", "")
	t.Setenv("DB_MIN_CONNECTIONS", "50")
	t.Setenv("DB_MAX_CONNECTIONS", "10")
	_, err = LoadDatabaseConfig()
	require.ErrorContains(t, err, "exceeds")
}
