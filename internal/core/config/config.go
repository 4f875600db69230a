// Package config handles configuration loading and validation for todos.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/todos/internal/core/styles"
	"github.com/hay-kot/todos/internal/core/task"
)

// DefaultTokenEnv is the environment variable consulted for a bearer token.
const DefaultTokenEnv = "TODOS_TOKEN"

// Sort orders accepted by the list endpoint.
const (
	SortCreatedAt = "createdAt"
	SortDueDate   = "dueDate"
)

// Config holds the application configuration.
type Config struct {
	API     APIConfig    `yaml:"api"`
	Auth    AuthConfig   `yaml:"auth"`
	List    ListConfig   `yaml:"list"`
	TUI     TUIConfig    `yaml:"tui"`
	Server  ServerConfig `yaml:"server"`
	DataDir string       `yaml:"-"` // set by caller, not from config file
}

// APIConfig describes how to reach the remote task service.
type APIConfig struct {
	Endpoint string `yaml:"endpoint"`
	// Timeout bounds each HTTP call. Zero disables the timeout.
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// AuthConfig describes where bearer tokens come from.
type AuthConfig struct {
	Token       string `yaml:"token"`
	TokenEnv    string `yaml:"token_env"`
	SessionFile string `yaml:"session_file"`
}

// ListConfig holds the query sent with every list call.
type ListConfig struct {
	Limit  int         `yaml:"limit"`
	SortBy string      `yaml:"sort_by"`
	Status task.Status `yaml:"status"`
}

// TUIConfig holds interactive UI settings.
type TUIConfig struct {
	Theme         string `yaml:"theme"`
	ConfirmDelete *bool  `yaml:"confirm_delete"`
}

// ShouldConfirmDelete reports whether deletes prompt first. Defaults to true.
func (t TUIConfig) ShouldConfirmDelete() bool {
	return t.ConfirmDelete == nil || *t.ConfirmDelete
}

// ServerConfig configures the local development task service.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// Secret enables HS256 verification of bearer tokens when set.
	Secret string `yaml:"secret"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Endpoint:  "http://localhost:8080",
			UserAgent: "todos",
		},
		Auth: AuthConfig{
			TokenEnv: DefaultTokenEnv,
		},
		List: ListConfig{
			Limit:  20,
			SortBy: SortDueDate,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.API.Endpoint == "" {
		c.API.Endpoint = defaults.API.Endpoint
	}
	if c.API.UserAgent == "" {
		c.API.UserAgent = defaults.API.UserAgent
	}
	if c.Auth.TokenEnv == "" {
		c.Auth.TokenEnv = defaults.Auth.TokenEnv
	}
	if c.Auth.SessionFile == "" && c.DataDir != "" {
		c.Auth.SessionFile = filepath.Join(c.DataDir, "session.db")
	}
	if c.List.Limit == 0 {
		c.List.Limit = defaults.List.Limit
	}
	if c.List.SortBy == "" {
		c.List.SortBy = defaults.List.SortBy
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.API.Endpoint == "" {
		return fmt.Errorf("api.endpoint cannot be empty")
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout cannot be negative")
	}

	if c.List.Limit < 1 {
		return fmt.Errorf("list.limit must be at least 1")
	}

	if c.List.SortBy != SortCreatedAt && c.List.SortBy != SortDueDate {
		return fmt.Errorf("list.sort_by must be %q or %q, got %q", SortCreatedAt, SortDueDate, c.List.SortBy)
	}

	if c.List.Status != "" && !c.List.Status.IsValid() {
		return fmt.Errorf("list.status %q is invalid", c.List.Status)
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is not a built-in theme %v", c.TUI.Theme, styles.ThemeNames())
	}

	return nil
}
