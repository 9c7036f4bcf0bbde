// Package config loads server configuration from an optional YAML file and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/casesettle/internal/models"
)

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	// AdminEmails register with the admin role.
	AdminEmails []string `yaml:"admin_emails"`
}

// RedisConfig enables the Redis change feed when Addr is set.
type RedisConfig struct {
	Addr    string `yaml:"addr"`
	Channel string `yaml:"channel"`
}

type ReconcileConfig struct {
	// Interval between reconciliation passes. Zero disables the loop.
	Interval time.Duration `yaml:"interval"`
}

type SettlementConfig struct {
	DefaultCategory   models.ReductionCategory `yaml:"default_category"`
	MismatchTolerance decimal.Decimal          `yaml:"mismatch_tolerance"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Config is the full server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Redis      RedisConfig      `yaml:"redis"`
	Reconcile  ReconcileConfig  `yaml:"reconcile"`
	Settlement SettlementConfig `yaml:"settlement"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// Default returns the configuration used when no file or env is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{Path: "./data/casesettle.db"},
		Auth:     AuthConfig{TokenTTL: 24 * time.Hour},
		Redis:    RedisConfig{Channel: "casesettle:changes"},
		Reconcile: ReconcileConfig{
			Interval: time.Minute,
		},
		Settlement: SettlementConfig{
			DefaultCategory:   models.CategoryStandard,
			MismatchTolerance: decimal.RequireFromString("0.01"),
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults (a missing file is not an error), then
// applies environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	c.Server.Addr = getEnv("ADDR", c.Server.Addr)
	c.Database.Path = getEnv("DB_PATH", c.Database.Path)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("LOG_FORMAT", c.Logging.Format)

	if admins := os.Getenv("ADMIN_EMAILS"); admins != "" {
		c.Auth.AdminEmails = nil
		for _, e := range strings.Split(admins, ",") {
			if e = strings.TrimSpace(e); e != "" {
				c.Auth.AdminEmails = append(c.Auth.AdminEmails, e)
			}
		}
	}
	if v := os.Getenv("RECONCILE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid RECONCILE_INTERVAL %q: %w", v, err)
		}
		c.Reconcile.Interval = d
	}
	return nil
}

// MinJWTSecretLen is the shortest accepted auth.jwt_secret, in bytes.
const MinJWTSecretLen = 32

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	var problems []string
	if c.Server.Addr == "" {
		problems = append(problems, "server.addr is required")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		problems = append(problems, "server timeouts must be positive")
	}
	if c.Database.Path == "" {
		problems = append(problems, "database.path is required")
	}
	switch {
	case c.Auth.JWTSecret == "":
		problems = append(problems, "auth.jwt_secret is required (set JWT_SECRET)")
	case len(c.Auth.JWTSecret) < MinJWTSecretLen:
		problems = append(problems, fmt.Sprintf("auth.jwt_secret must be at least %d bytes", MinJWTSecretLen))
	}
	if c.Auth.TokenTTL <= 0 {
		problems = append(problems, "auth.token_ttl must be positive")
	}
	if c.Reconcile.Interval < 0 {
		problems = append(problems, "reconcile.interval must not be negative")
	}
	if !c.Settlement.DefaultCategory.Valid() {
		problems = append(problems, fmt.Sprintf("settlement.default_category %q is not a known category", c.Settlement.DefaultCategory))
	}
	if c.Settlement.MismatchTolerance.IsNegative() {
		problems = append(problems, "settlement.mismatch_tolerance must not be negative")
	}
	if c.Redis.Addr != "" && c.Redis.Channel == "" {
		problems = append(problems, "redis.channel is required when redis.addr is set")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q must be text or json", c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// IsAdminEmail reports whether email is listed in auth.admin_emails.
func (c Config) IsAdminEmail(email string) bool {
	for _, e := range c.Auth.AdminEmails {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}
