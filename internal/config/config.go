// Package config handles reading and writing .screenline/config.yaml and
// layering environment overrides on top of it.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/screenline-dev/screenline/internal/interview"
	"github.com/screenline-dev/screenline/internal/llm"
	"github.com/screenline-dev/screenline/internal/log"
)

// Config is the top-level structure for .screenline/config.yaml.
type Config struct {
	Version   int               `yaml:"version" mapstructure:"version"`
	Interview interview.Options `yaml:"interview" mapstructure:"interview"`
	LLM       llm.Config        `yaml:"llm" mapstructure:"llm"`
	Store     StoreConfig       `yaml:"store" mapstructure:"store"`
	Server    ServerConfig      `yaml:"server" mapstructure:"server"`
	Log       LogConfig         `yaml:"log" mapstructure:"log"`
}

// StoreConfig controls where consented records live and for how long.
type StoreConfig struct {
	Path          string `yaml:"path" mapstructure:"path"` // relative to the project root
	RetentionDays int    `yaml:"retention_days" mapstructure:"retention_days"`
}

// ServerConfig controls the HTTP host started by "screenline serve".
type ServerConfig struct {
	Addr              string `yaml:"addr" mapstructure:"addr"`
	SessionTTLMinutes int    `yaml:"session_ttl_minutes" mapstructure:"session_ttl_minutes"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug | info | warn | error
}

const configFile = "config.yaml"

// envPrefix namespaces environment overrides, e.g. SCREENLINE_LLM_MODEL.
const envPrefix = "SCREENLINE"

// optionalKeys are omitted from the marshalled defaults when empty, so they
// are bound to the environment explicitly.
var optionalKeys = []string{"llm.api_key", "llm.base_url", "llm.claude_command"}

// providerKeyEnv lists the conventional API key variables per provider,
// consulted when no key is configured.
var providerKeyEnv = map[string][]string{
	llm.ProviderOpenAI:   {"OPENAI_API_KEY"},
	llm.ProviderGemini:   {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
	llm.ProviderDeepSeek: {"DEEPSEEK_API_KEY"},
}

// ReadConfig reads .screenline/config.yaml from the given project directory.
// dir is the project root (not .screenline/ itself).
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, log.DirName, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}

	return &cfg, nil
}

// WriteConfig writes cfg to .screenline/config.yaml in the given project
// directory. Creates the .screenline/ directory if it does not exist.
func WriteConfig(dir string, cfg *Config) error {
	dirPath := filepath.Join(dir, log.DirName)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshalling config")
	}

	path := filepath.Join(dirPath, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "writing config")
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:   1,
		Interview: interview.DefaultOptions(),
		LLM:       llm.DefaultConfig(),
		Store: StoreConfig{
			Path:          filepath.Join(log.DirName, "candidates.db"),
			RetentionDays: 365,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			SessionTTLMinutes: 60,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration for the project in dir: defaults,
// then .screenline/config.yaml if present, then SCREENLINE_* environment
// variables. The result is validated.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	defaults, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return nil, errors.Wrap(err, "marshalling defaults")
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, errors.Wrap(err, "loading defaults")
	}

	path := filepath.Join(dir, log.DirName, configFile)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", path)
		}
	case !os.IsNotExist(err):
		return nil, errors.Wrap(err, "reading config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range optionalKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "binding %s", key)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}

	if cfg.LLM.APIKey == "" {
		for _, name := range providerKeyEnv[strings.ToLower(cfg.LLM.Provider)] {
			if key := os.Getenv(name); key != "" {
				cfg.LLM.APIKey = key
				break
			}
		}
	}
	cfg.Interview.RetentionDays = cfg.Store.RetentionDays

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return errors.Wrap(err, "llm")
	}
	if c.Interview.MaxReprompts < 0 {
		return fmt.Errorf("interview: max_reprompts must not be negative")
	}
	if c.Interview.HistoryWindow < 0 {
		return fmt.Errorf("interview: history_window must not be negative")
	}
	if len(c.Interview.RequiredFields) > 0 {
		if _, err := interview.BuildFields(c.Interview.RequiredFields, c.Interview.Phone); err != nil {
			return errors.Wrap(err, "interview")
		}
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store: path must be set")
	}
	if c.Store.RetentionDays <= 0 {
		return fmt.Errorf("store: retention_days must be positive")
	}
	if c.Server.SessionTTLMinutes <= 0 {
		return fmt.Errorf("server: session_ttl_minutes must be positive")
	}
	return nil
}

// StorePath resolves the store path against the project directory.
func (c *Config) StorePath(dir string) string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(dir, c.Store.Path)
}
