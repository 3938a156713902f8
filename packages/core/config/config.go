package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a config file fails schema validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the msgmap configuration
type Config struct {
	Variables map[string]any `yaml:"variables,omitempty" json:"variables,omitempty"` // Seed values for the message map
	EnvFile   string         `yaml:"envFile,omitempty" json:"envFile,omitempty"`     // .env file merged into the map
	EnvPrefix string         `yaml:"envPrefix,omitempty" json:"envPrefix,omitempty"` // OS env vars with this prefix are merged, prefix stripped
	StartTag  string         `yaml:"startTag,omitempty" json:"startTag"`
	EndTag    string         `yaml:"endTag,omitempty" json:"endTag"`
	Strict    *bool          `yaml:"strict,omitempty" json:"strict,omitempty"`
	NoColor   *bool          `yaml:"noColor,omitempty" json:"noColor,omitempty"`
	Verbose   *bool          `yaml:"verbose,omitempty" json:"verbose,omitempty"`
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetStrict returns the strict setting, defaulting to false
func (c *Config) GetStrict() bool {
	return getBool(c.Strict, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// ConfigFilenames contains the possible config file names, in search order
var ConfigFilenames = []string{
	".msgmap.yaml",
	".msgmap.yml",
	"msgmap.yaml",
	".msgmap.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory and
// returns defaults when none exists.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}
	return DefaultConfig(), nil
}

// loadConfigFromFile decodes YAML or JSON (JSON is valid YAML) over the
// defaults and validates the result.
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	config := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c

	if other.EnvFile != "" {
		result.EnvFile = other.EnvFile
	}
	if other.EnvPrefix != "" {
		result.EnvPrefix = other.EnvPrefix
	}
	if other.StartTag != "" {
		result.StartTag = other.StartTag
	}
	if other.EndTag != "" {
		result.EndTag = other.EndTag
	}

	// Boolean flags - only override if explicitly set in other config
	if other.Strict != nil {
		result.Strict = other.Strict
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}

	if len(c.Variables) > 0 || len(other.Variables) > 0 {
		result.Variables = make(map[string]any, len(c.Variables)+len(other.Variables))
		for k, v := range c.Variables {
			result.Variables[k] = v
		}
		for k, v := range other.Variables {
			result.Variables[k] = v
		}
	}

	return &result
}

// SaveConfig writes the configuration to path, as JSON for .json files and
// YAML otherwise. The file is replaced atomically.
func (c *Config) SaveConfig(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
