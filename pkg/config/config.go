package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/avencia/stageline/pkg/capability"
	"github.com/avencia/stageline/pkg/graph"
)

// ServiceGroup configures one external capability provider.
type ServiceGroup struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// Retry configures the bounded retry loop shared by all outbound calls.
type Retry struct {
	Attempts        int `yaml:"attempts"`
	BaseWaitSeconds int `yaml:"base_wait_seconds"`
	MaxWaitSeconds  int `yaml:"max_wait_seconds"`
}

// Store configures run-record persistence.
type Store struct {
	Driver string `yaml:"driver"` // memory | sqlite
	Path   string `yaml:"path,omitempty"`
}

// Responder configures the reply-drafting backend for the CREATE stage.
type Responder struct {
	Provider string `yaml:"provider"` // template | anthropic | openai | google
	Model    string `yaml:"model,omitempty"`
}

// Config is the process configuration consumed by the engine and its
// collaborators.
type Config struct {
	Groups    map[string]ServiceGroup `yaml:"service_groups"`
	Retry     Retry                   `yaml:"retry"`
	Store     Store                   `yaml:"store"`
	Responder Responder               `yaml:"responder"`

	// API keys come from the environment only, never from the file.
	AnthropicAPIKey string `yaml:"-"`
	OpenAIAPIKey    string `yaml:"-"`
	GoogleAPIKey    string `yaml:"-"`
}

// Default returns the service defaults: three attempts, one second base
// backoff capped at ten, ten second per-call timeout, in-memory store.
func Default() *Config {
	return &Config{
		Groups: map[string]ServiceGroup{
			graph.GroupCommon: {Endpoint: "http://localhost:8091/common", TimeoutSeconds: 10},
			graph.GroupAtlas:  {Endpoint: "http://localhost:8091/atlas", TimeoutSeconds: 10},
		},
		Retry:     Retry{Attempts: 3, BaseWaitSeconds: 1, MaxWaitSeconds: 10},
		Store:     Store{Driver: "memory"},
		Responder: Responder{Provider: "template"},
	}
}

// Load reads configuration from a YAML file, then applies environment
// overrides. An empty path loads defaults plus environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables; they take precedence over file
// configuration.
func applyEnv(cfg *Config) {
	if endpoint := os.Getenv("STAGELINE_COMMON_ENDPOINT"); endpoint != "" {
		group := cfg.Groups[graph.GroupCommon]
		group.Endpoint = endpoint
		cfg.Groups[graph.GroupCommon] = group
	}
	if endpoint := os.Getenv("STAGELINE_ATLAS_ENDPOINT"); endpoint != "" {
		group := cfg.Groups[graph.GroupAtlas]
		group.Endpoint = endpoint
		cfg.Groups[graph.GroupAtlas] = group
	}
	if path := os.Getenv("STAGELINE_DB_PATH"); path != "" {
		cfg.Store.Driver = "sqlite"
		cfg.Store.Path = path
	}

	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Groups) == 0 {
		return fmt.Errorf("at least one service group is required")
	}
	for name, group := range c.Groups {
		if group.Endpoint == "" {
			return fmt.Errorf("service group %s has no endpoint", name)
		}
	}
	if c.Retry.Attempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1")
	}
	switch c.Store.Driver {
	case "", "memory":
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("sqlite store requires a path")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// RetryConfig translates the retry section for the capability client.
func (c *Config) RetryConfig() capability.RetryConfig {
	return capability.RetryConfig{
		Attempts: c.Retry.Attempts,
		BaseWait: time.Duration(c.Retry.BaseWaitSeconds) * time.Second,
		MaxWait:  time.Duration(c.Retry.MaxWaitSeconds) * time.Second,
	}
}

// Timeout returns a group's per-attempt timeout.
func (g ServiceGroup) Timeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}
