package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/avencia/stageline/pkg/graph"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	if cfg.Retry.Attempts != 3 || cfg.Retry.BaseWaitSeconds != 1 || cfg.Retry.MaxWaitSeconds != 10 {
		t.Fatalf("unexpected retry defaults %+v", cfg.Retry)
	}
	if cfg.Store.Driver != "memory" {
		t.Fatalf("unexpected store default %+v", cfg.Store)
	}
	if cfg.Responder.Provider != "template" {
		t.Fatalf("unexpected responder default %+v", cfg.Responder)
	}
	if cfg.Groups[graph.GroupAtlas].Timeout() != 10*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.Groups[graph.GroupAtlas].Timeout())
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
service_groups:
  common:
    endpoint: http://common.internal:9000
  atlas:
    endpoint: http://atlas.internal:9000
    timeout_seconds: 5

retry:
  attempts: 5
  base_wait_seconds: 2
  max_wait_seconds: 30

store:
  driver: sqlite
  path: /tmp/runs.db

responder:
  provider: anthropic
  model: claude-sonnet-4-20250514
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Groups[graph.GroupAtlas].Endpoint != "http://atlas.internal:9000" {
		t.Fatalf("atlas endpoint not loaded: %+v", cfg.Groups)
	}
	if cfg.Groups[graph.GroupAtlas].Timeout() != 5*time.Second {
		t.Fatalf("atlas timeout not loaded: %v", cfg.Groups[graph.GroupAtlas].Timeout())
	}

	retry := cfg.RetryConfig()
	if retry.Attempts != 5 || retry.BaseWait != 2*time.Second || retry.MaxWait != 30*time.Second {
		t.Fatalf("unexpected retry config %+v", retry)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.Path != "/tmp/runs.db" {
		t.Fatalf("store not loaded: %+v", cfg.Store)
	}
	if cfg.Responder.Provider != "anthropic" {
		t.Fatalf("responder not loaded: %+v", cfg.Responder)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("STAGELINE_ATLAS_ENDPOINT", "http://override:7000")
	t.Setenv("STAGELINE_DB_PATH", "/tmp/override.db")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Groups[graph.GroupAtlas].Endpoint != "http://override:7000" {
		t.Fatalf("env endpoint not applied: %+v", cfg.Groups)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.Path != "/tmp/override.db" {
		t.Fatalf("env db path not applied: %+v", cfg.Store)
	}
	if cfg.AnthropicAPIKey != "sk-test" {
		t.Fatalf("api key not read from environment")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no groups", func(c *Config) { c.Groups = nil }},
		{"empty endpoint", func(c *Config) { c.Groups["atlas"] = ServiceGroup{} }},
		{"zero attempts", func(c *Config) { c.Retry.Attempts = 0 }},
		{"sqlite without path", func(c *Config) { c.Store = Store{Driver: "sqlite"} }},
		{"unknown driver", func(c *Config) { c.Store = Store{Driver: "postgres"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
