// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, defaults, and validation

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  http_addr: "0.0.0.0:9090"
  shutdown_timeout: "5s"

database:
  path: "./test.db"

auth:
  jwt_secret: "a-sufficiently-long-test-jwt-secret-value"
  token_ttl: "12h"
  bcrypt_cost: 10

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:9090" {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "0.0.0.0:9090")
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 5s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Database.Path != "./test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "./test.db")
	}
	if cfg.Auth.TokenTTL != 12*time.Hour {
		t.Errorf("Auth.TokenTTL = %v, want 12h", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Errorf("Auth.BcryptCost = %d, want 10", cfg.Auth.BcryptCost)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want debug/json", cfg.Logging)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: "./test.db"

auth:
  jwt_secret: "a-sufficiently-long-test-jwt-secret-value"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != DefaultHTTPAddr {
		t.Errorf("Server.HTTPAddr = %q, want default %q", cfg.Server.HTTPAddr, DefaultHTTPAddr)
	}
	if cfg.Server.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("Server.ShutdownTimeout = %v, want default %v", cfg.Server.ShutdownTimeout, DefaultShutdownTimeout)
	}
	if cfg.Auth.TokenTTL != DefaultTokenTTL {
		t.Errorf("Auth.TokenTTL = %v, want default %v", cfg.Auth.TokenTTL, DefaultTokenTTL)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want info/text defaults", cfg.Logging)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("FARMCHAINX_TEST_SECRET", "expanded-secret-value-that-is-long-enough")

	path := writeConfig(t, `
database:
  path: "./test.db"

auth:
  jwt_secret: "${FARMCHAINX_TEST_SECRET}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Auth.JWTSecret != "expanded-secret-value-that-is-long-enough" {
		t.Errorf("Auth.JWTSecret = %q, want expanded env value", cfg.Auth.JWTSecret)
	}
}

func TestLoad_UnsetEnvVarBecomesEmpty(t *testing.T) {
	path := writeConfig(t, `
database:
  path: "./test.db"

auth:
  jwt_secret: "${FARMCHAINX_DEFINITELY_UNSET_VAR}"
`)

	// Empty secret fails validation, which is the desired failure mode
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() error = nil, want validation failure for empty secret")
	}
	if !strings.Contains(err.Error(), "jwt_secret") {
		t.Errorf("Load() error = %v, want mention of jwt_secret", err)
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name: "missing jwt_secret",
			content: `
database:
  path: "./test.db"
`,
			wantMsg: "jwt_secret is required",
		},
		{
			name: "short jwt_secret",
			content: `
database:
  path: "./test.db"
auth:
  jwt_secret: "too-short"
`,
			wantMsg: "at least 32",
		},
		{
			name: "missing database path",
			content: `
auth:
  jwt_secret: "a-sufficiently-long-test-jwt-secret-value"
`,
			wantMsg: "database.path is required",
		},
		{
			name: "bcrypt cost out of range",
			content: `
database:
  path: "./test.db"
auth:
  jwt_secret: "a-sufficiently-long-test-jwt-secret-value"
  bcrypt_cost: 99
`,
			wantMsg: "bcrypt_cost",
		},
		{
			name: "bad duration",
			content: `
database:
  path: "./test.db"
auth:
  jwt_secret: "a-sufficiently-long-test-jwt-secret-value"
  token_ttl: "one day"
`,
			wantMsg: "token_ttl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() error = nil, want failure")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("Load() error = nil, want read failure")
	}
}
