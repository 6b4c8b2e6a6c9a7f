package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("Server.Address = %q, want :8080", cfg.Server.Address)
	}
	if cfg.Database.Driver != "mongo" {
		t.Errorf("Database.Driver = %q, want mongo", cfg.Database.Driver)
	}
	if cfg.JWT.Expiration != 24*time.Hour {
		t.Errorf("JWT.Expiration = %v, want 24h", cfg.JWT.Expiration)
	}
	if cfg.Generator.Mode != "mock" || cfg.Generator.Timeout != 30*time.Second {
		t.Errorf("Generator = %+v, want mock mode with 30s timeout", cfg.Generator)
	}
	if cfg.S3.Enabled() {
		t.Errorf("S3 should be disabled without a bucket")
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  address: ":9090"
database:
  driver: memory
jwt:
  secret: from-file
  expiration: 90m
s3:
  bucket_name: plans
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("GENERATOR_MODE", "gemini")
	t.Setenv("GEMINI_API_KEY", "key-123")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Address != ":9090" {
		t.Errorf("Server.Address = %q, want :9090", cfg.Server.Address)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Errorf("JWT.Secret = %q, want env override", cfg.JWT.Secret)
	}
	if cfg.JWT.Expiration != 90*time.Minute {
		t.Errorf("JWT.Expiration = %v, want 90m", cfg.JWT.Expiration)
	}
	if !cfg.S3.Enabled() {
		t.Errorf("S3 should be enabled with bucket %q", cfg.S3.BucketName)
	}
	if cfg.Generator.APIKey != "key-123" {
		t.Errorf("Generator.APIKey = %q, want fallback from GEMINI_API_KEY", cfg.Generator.APIKey)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Database:  DatabaseConfig{Driver: "memory"},
		JWT:       JWTConfig{Secret: "s"},
		Generator: GeneratorConfig{Mode: "mock"},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate(base) = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "postgres" }},
		{"gemini without key", func(c *Config) { c.Generator.Mode = "gemini" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Validate() = nil, want error")
			}
		})
	}
}
