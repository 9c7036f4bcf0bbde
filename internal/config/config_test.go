package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
	}
	if !cfg.Settlement.MismatchTolerance.Equal(decimal.RequireFromString("0.01")) {
		t.Errorf("MismatchTolerance = %s", cfg.Settlement.MismatchTolerance)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
  read_timeout: 5s
database:
  path: /tmp/settle.db
auth:
  token_ttl: 2h
  admin_emails: [ops@example.com]
reconcile:
  interval: 30s
settlement:
  mismatch_tolerance: "1.50"
logging:
  format: json
`)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DB_PATH", "/var/lib/settle.db")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":9000" || cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("WriteTimeout = %v, want default", cfg.Server.WriteTimeout)
	}
	if cfg.Database.Path != "/var/lib/settle.db" {
		t.Errorf("env override not applied: %q", cfg.Database.Path)
	}
	if cfg.Auth.TokenTTL != 2*time.Hour || cfg.Reconcile.Interval != 30*time.Second {
		t.Errorf("durations = %v, %v", cfg.Auth.TokenTTL, cfg.Reconcile.Interval)
	}
	if !cfg.Settlement.MismatchTolerance.Equal(decimal.RequireFromString("1.5")) {
		t.Errorf("MismatchTolerance = %s", cfg.Settlement.MismatchTolerance)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if !cfg.IsAdminEmail("OPS@example.com") || cfg.IsAdminEmail("user@example.com") {
		t.Error("IsAdminEmail mismatch")
	}
}

func TestPortEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "7070")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Addr = %q, want :7070", cfg.Server.Addr)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"missing jwt secret", func(c *Config) { c.Auth.JWTSecret = "" }, "auth.jwt_secret is required"},
		{"short jwt secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "at least 32 bytes"},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"bad category", func(c *Config) { c.Settlement.DefaultCategory = "bogus" }, "default_category"},
		{"negative tolerance", func(c *Config) { c.Settlement.MismatchTolerance = decimal.NewFromInt(-1) }, "mismatch_tolerance"},
		{"redis without channel", func(c *Config) { c.Redis.Addr = "localhost:6379"; c.Redis.Channel = "" }, "redis.channel"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Auth.JWTSecret = testSecret
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "auth.jwt_secret") {
		t.Errorf("Load without a secret: err = %v, want jwt_secret error", err)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}
