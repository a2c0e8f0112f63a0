package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"BILLING_APP_NAME":                       os.Getenv("BILLING_APP_NAME"),
		"BILLING_APP_ENV":                        os.Getenv("BILLING_APP_ENV"),
		"BILLING_APP_PORT":                       os.Getenv("BILLING_APP_PORT"),
		"BILLING_DATABASE_HOST":                  os.Getenv("BILLING_DATABASE_HOST"),
		"BILLING_DATABASE_PORT":                  os.Getenv("BILLING_DATABASE_PORT"),
		"BILLING_DATABASE_PASSWORD":              os.Getenv("BILLING_DATABASE_PASSWORD"),
		"BILLING_DATABASE_MAX_OPEN_CONNS":        os.Getenv("BILLING_DATABASE_MAX_OPEN_CONNS"),
		"BILLING_DATABASE_MAX_IDLE_CONNS":        os.Getenv("BILLING_DATABASE_MAX_IDLE_CONNS"),
		"BILLING_JWT_SECRET":                     os.Getenv("BILLING_JWT_SECRET"),
		"BILLING_BILLING_AUTO_APPROVE_THRESHOLD": os.Getenv("BILLING_BILLING_AUTO_APPROVE_THRESHOLD"),
		"BILLING_BILLING_MAX_BATCH_SIZE":         os.Getenv("BILLING_BILLING_MAX_BATCH_SIZE"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "billing-service", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "billing", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "500", cfg.Billing.AutoApproveThreshold.String())
		assert.Equal(t, 100, cfg.Billing.MaxBatchSize)
	})

	t.Run("loads values from environment variables with BILLING prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLING_APP_NAME", "test-app")
		os.Setenv("BILLING_APP_PORT", "9000")
		os.Setenv("BILLING_DATABASE_HOST", "testdb.local")
		os.Setenv("BILLING_DATABASE_PORT", "5433")
		os.Setenv("BILLING_BILLING_AUTO_APPROVE_THRESHOLD", "1250.50")
		os.Setenv("BILLING_BILLING_MAX_BATCH_SIZE", "25")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "1250.5", cfg.Billing.AutoApproveThreshold.String())
		assert.Equal(t, 25, cfg.Billing.MaxBatchSize)
	})

	t.Run("rejects invalid threshold", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLING_BILLING_AUTO_APPROVE_THRESHOLD", "not-a-number")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLING_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("BILLING_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
	})

	t.Run("requires jwt secret in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("BILLING_APP_ENV", "production")
		os.Setenv("BILLING_DATABASE_PASSWORD", "secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "billing",
		Password: "p@ss/word",
		DBName:   "billing",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// special characters must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
