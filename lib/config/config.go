// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvConfig    = "KANBAN_CONFIG"
	EnvServerURL = "KANBAN_SERVER_URL"
	EnvListen    = "KANBAN_LISTEN"
	EnvDatabase  = "KANBAN_DATABASE"
	EnvLogLevel  = "KANBAN_LOG_LEVEL"
)

// Config is the complete configuration.
type Config struct {
	Client ClientConfig `yaml:"client"`
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
}

// ClientConfig configures the board and the CLI commands.
type ClientConfig struct {
	// ServerURL is the API base, including the /api prefix.
	ServerURL string `yaml:"server_url"`

	// Timeout bounds each HTTP request.
	Timeout Duration `yaml:"timeout"`

	// Watch subscribes the board to the server's change feed.
	Watch bool `yaml:"watch"`
}

// ServerConfig configures kanban-server.
type ServerConfig struct {
	// Listen is the TCP listen address.
	Listen string `yaml:"listen"`

	// Database is the SQLite file.
	Database string `yaml:"database"`

	// AllowedOrigins lists CORS origins. Empty allows any.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// Seed names a JSONC file loaded into an empty database.
	Seed string `yaml:"seed"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn, or error.
	Level string `yaml:"level"`
}

// Duration is a time.Duration written as "30s" in YAML.
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Client: ClientConfig{
			ServerURL: "http://localhost:5001/api",
			Timeout:   Duration(30 * time.Second),
		},
		Server: ServerConfig{
			Listen:   ":5001",
			Database: "kanban.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads .env, then the file named by path or, when path is empty,
// by KANBAN_CONFIG, then applies environment overrides. A missing .env
// is not an error; a missing named config file is.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: reading .env: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnvironment()
	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads only path over the defaults, without .env or
// environment overrides.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return nil
}

// ApplyEnvironment overrides fields from KANBAN_SERVER_URL,
// KANBAN_LISTEN, KANBAN_DATABASE, and KANBAN_LOG_LEVEL when set.
func (c *Config) ApplyEnvironment() {
	overrides := []struct {
		name  string
		field *string
	}{
		{EnvServerURL, &c.Client.ServerURL},
		{EnvListen, &c.Server.Listen},
		{EnvDatabase, &c.Server.Database},
		{EnvLogLevel, &c.Log.Level},
	}
	for _, override := range overrides {
		if value, ok := os.LookupEnv(override.name); ok && value != "" {
			*override.field = value
		}
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func (c *Config) expandVariables() {
	c.Server.Database = expandVars(c.Server.Database)
	c.Server.Seed = expandVars(c.Server.Seed)
}

// expandVars expands ${VAR} and ${VAR:-default} from the environment.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	parsed, err := url.Parse(c.Client.ServerURL)
	switch {
	case c.Client.ServerURL == "":
		errs = append(errs, errors.New("client.server_url is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("client.server_url: %w", err))
	case parsed.Scheme != "http" && parsed.Scheme != "https":
		errs = append(errs, fmt.Errorf("client.server_url %q must use http or https", c.Client.ServerURL))
	}
	if c.Client.Timeout <= 0 {
		errs = append(errs, errors.New("client.timeout must be positive"))
	}
	if c.Server.Listen == "" {
		errs = append(errs, errors.New("server.listen is required"))
	}
	if c.Server.Database == "" {
		errs = append(errs, errors.New("server.database is required"))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("log.level %q must be debug, info, warn, or error", name)
	}
	return level, nil
}
