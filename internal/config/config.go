// Package config loads server settings from an optional app.env file and the
// process environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port int `mapstructure:"PORT"`

	// DATABASE_URL takes precedence. Otherwise the DB_* parts are composed
	// into a URL when DB_HOST is set. With neither, the server uses SQLite.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_NAME"`
	SQLitePath  string `mapstructure:"SQLITE_PATH"`

	JWTSecret  string        `mapstructure:"JWT_SECRET"`
	TokenTTL   time.Duration `mapstructure:"TOKEN_TTL"`
	BcryptCost int           `mapstructure:"BCRYPT_COST"`

	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	CatalogCacheTTL time.Duration `mapstructure:"CATALOG_CACHE_TTL"`

	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var defaults = map[string]any{
	"PORT":                 5001,
	"DATABASE_URL":         "",
	"DB_HOST":              "",
	"DB_PORT":              "5432",
	"DB_USER":              "",
	"DB_PASSWORD":          "",
	"DB_NAME":              "",
	"SQLITE_PATH":          "data/skate.db",
	"JWT_SECRET":           "",
	"TOKEN_TTL":            "168h",
	"BCRYPT_COST":          bcrypt.DefaultCost,
	"REDIS_ADDR":           "",
	"CATALOG_CACHE_TTL":    "5m",
	"CORS_ALLOWED_ORIGINS": "*",
	"LOG_LEVEL":            "info",
	"LOG_FORMAT":           "text",
}

// Load reads path/app.env if it exists, then overlays the environment.
// A missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Unmarshal only sees keys viper knows about, so every key gets a
	// default, which also binds it to the environment.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: reading app.env: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decoding: %w", err)
	}
	cfg.CORSAllowedOrigins = splitList(cfg.CORSAllowedOrigins)

	return cfg, nil
}

// Validate reports the first setting the server cannot start with.
func (c Config) Validate() error {
	switch {
	case c.Port < 1 || c.Port > 65535:
		return fmt.Errorf("config: PORT %d out of range", c.Port)
	case c.JWTSecret == "":
		return errors.New("config: JWT_SECRET is required")
	case len(c.JWTSecret) < 16:
		return errors.New("config: JWT_SECRET must be at least 16 characters")
	case c.TokenTTL <= 0:
		return fmt.Errorf("config: TOKEN_TTL must be positive, got %s", c.TokenTTL)
	case c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost:
		return fmt.Errorf("config: BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	case c.PostgresURL() == "" && c.SQLitePath == "":
		return errors.New("config: one of DATABASE_URL, DB_HOST or SQLITE_PATH is required")
	}
	return nil
}

// Addr is the listen address, e.g. ":5001".
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// PostgresURL returns DATABASE_URL, or a URL built from the DB_* settings, or
// "" when PostgreSQL is not configured.
func (c Config) PostgresURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBHost == "" {
		return ""
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	if c.DBUser != "" {
		if c.DBPassword != "" {
			u.User = url.UserPassword(c.DBUser, c.DBPassword)
		} else {
			u.User = url.User(c.DBUser)
		}
	}
	return u.String()
}

// SlogLevel maps LOG_LEVEL to a slog level. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// splitList accepts both real lists and a single comma-separated entry, the
// shape an environment variable arrives in.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
