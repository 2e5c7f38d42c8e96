package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Should fail without JWT secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := LoadConfig()
		assert.ErrorIs(t, err, ErrMissingJWTSecret)
	})

	t.Run("Should apply defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("STORAGE_DRIVER", "memory")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
		assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	})

	t.Run("Should parse origin list", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://hr.example.com/, http://localhost:3000")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, []string{"https://hr.example.com", "http://localhost:3000"}, cfg.CORSAllowedOrigins)
	})
}
