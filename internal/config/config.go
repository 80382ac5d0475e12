// Package config loads the regforms service configuration from an optional
// YAML file overlaid by REGFORMS_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-regforms/pkg/registration"
	"github.com/goliatone/go-regforms/pkg/validation"
)

// Config is the root configuration document.
type Config struct {
	Server Server `yaml:"server"`
	Log    Log    `yaml:"log"`
	Forms  Forms  `yaml:"forms"`
}

// Server configures the HTTP service.
type Server struct {
	Addr              string        `yaml:"addr" env:"REGFORMS_ADDR"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"REGFORMS_READ_HEADER_TIMEOUT"`
	ShutdownGrace     time.Duration `yaml:"shutdown_grace" env:"REGFORMS_SHUTDOWN_GRACE"`
	// SessionTTL is how long an idle session keeps its form instances.
	SessionTTL time.Duration `yaml:"session_ttl" env:"REGFORMS_SESSION_TTL"`
}

// Log configures the zap logger.
type Log struct {
	Level       string `yaml:"level" env:"REGFORMS_LOG_LEVEL"`
	Development bool   `yaml:"development" env:"REGFORMS_LOG_DEVELOPMENT"`
}

// Forms configures form behaviour.
type Forms struct {
	// Default is the form the index links first and the CLI falls back to.
	Default string `yaml:"default" env:"REGFORMS_DEFAULT_FORM"`
	Theme   string `yaml:"theme" env:"REGFORMS_THEME"`
	// Presets points at a YAML document of copy overrides.
	Presets string `yaml:"presets" env:"REGFORMS_PRESETS"`
	// Document replaces the embedded OpenAPI form description.
	Document string `yaml:"document" env:"REGFORMS_DOCUMENT"`
	// Templates is a directory whose files shadow the bundled templates.
	Templates string              `yaml:"templates" env:"REGFORMS_TEMPLATES"`
	Messages  validation.Messages `yaml:"messages"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownGrace:     10 * time.Second,
			SessionTTL:        30 * time.Minute,
		},
		Log: Log{
			Level: "info",
		},
		Forms: Forms{
			Default: registration.FormOneID,
		},
	}
}

// Load reads path (when non-empty) on top of Default, applies environment
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("config: server.addr is required"))
	}
	if c.Server.ReadHeaderTimeout < 0 {
		errs = append(errs, errors.New("config: server.read_header_timeout must not be negative"))
	}
	if c.Server.ShutdownGrace < 0 {
		errs = append(errs, errors.New("config: server.shutdown_grace must not be negative"))
	}
	if c.Server.SessionTTL <= 0 {
		errs = append(errs, errors.New("config: server.session_ttl must be positive"))
	}
	if _, err := registration.Lookup(c.Forms.Default); err != nil {
		errs = append(errs, fmt.Errorf("config: forms.default: %w", err))
	}
	return errors.Join(errs...)
}

func decodeYAML(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}
