package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 5001, cfg.Port)
	assert.Equal(t, ":5001", cfg.Addr())
	assert.Equal(t, "data/skate.db", cfg.SQLitePath)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.PostgresURL())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	file := "PORT=6000\nJWT_SECRET=" + testSecret + "\nTOKEN_TTL=1h\nLOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(file), 0o600))

	t.Setenv("PORT", "7000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:8081, https://skate.example.com")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port, "environment overrides file")
	assert.Equal(t, testSecret, cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, []string{"http://localhost:8081", "https://skate.example.com"}, cfg.CORSAllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestPostgresURL(t *testing.T) {
	t.Run("explicit url wins", func(t *testing.T) {
		cfg := Config{DatabaseURL: "postgres://a@b/c", DBHost: "ignored"}
		assert.Equal(t, "postgres://a@b/c", cfg.PostgresURL())
	})

	t.Run("composed from parts", func(t *testing.T) {
		cfg := Config{DBHost: "db", DBPort: "5432", DBUser: "skate", DBPassword: "p@ss", DBName: "skate_tracker"}
		assert.Equal(t, "postgres://skate:p%40ss@db:5432/skate_tracker", cfg.PostgresURL())
	})

	t.Run("no host means sqlite", func(t *testing.T) {
		assert.Empty(t, Config{DBUser: "skate"}.PostgresURL())
	})
}

func TestValidate(t *testing.T) {
	valid := Config{
		Port:       5001,
		JWTSecret:  testSecret,
		TokenTTL:   time.Hour,
		BcryptCost: 10,
		SQLitePath: "data/skate.db",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing secret", func(c *Config) { c.JWTSecret = "" }},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }},
		{"port zero", func(c *Config) { c.Port = 0 }},
		{"port too large", func(c *Config) { c.Port = 70000 }},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }},
		{"cost too low", func(c *Config) { c.BcryptCost = 1 }},
		{"cost too high", func(c *Config) { c.BcryptCost = 40 }},
		{"no store", func(c *Config) { c.SQLitePath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSlogLevel_Unknown(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "loud"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "WARN"}.SlogLevel())
}
