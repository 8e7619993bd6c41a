package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sortly/internal/chunk"
	"sortly/internal/errors"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure.
// It defines how the model service is reached, how folders are batched and
// how watch mode and logging behave.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Sort    SortConfig    `yaml:"sort"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig describes the OpenAI-compatible chat-completion endpoint.
type LLMConfig struct {
	BaseURL        string  `yaml:"base_url"`          // Service root, e.g. https://api.openai.com/v1
	EndpointPath   string  `yaml:"endpoint_path"`     // Appended to BaseURL
	Model          string  `yaml:"model"`             // Model name sent with each request
	APIKeyEnv      string  `yaml:"api_key_env"`       // Environment variable read once at load time
	APIKey         string  `yaml:"api_key,omitempty"` // Explicit key, wins over APIKeyEnv
	Temperature    float64 `yaml:"temperature"`       // Sampling temperature
	TimeoutSeconds int     `yaml:"timeout_seconds"`   // Per-request timeout, 0 disables it
}

// SortConfig controls how a folder is listed and batched.
type SortConfig struct {
	BatchSize int      `yaml:"batch_size"` // Names per model request
	Ignore    []string `yaml:"ignore"`     // Glob patterns of names never sent to the model
	DryRun    bool     `yaml:"dry_run"`    // If true, report planned moves only
}

// WatchConfig controls auto-sorting of new files.
type WatchConfig struct {
	SettleSeconds int `yaml:"settle_seconds"` // Quiet period before new files are sorted
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
	JSON  bool   `yaml:"json"`  // Emit JSON lines
	File  string `yaml:"file"`  // Optional log file, appended to
}

// DefaultPath returns ~/.config/sortly/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "sortly", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location.
func LoadConfig() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(path)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration. Keys absent from
// the file keep their defaults. The API key is resolved from the environment
// here, once, so nothing downstream reads process state.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.NewConfigError("error reading config file", path, errors.InvalidConfig, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
		}
	}

	cfg.ResolveAPIKey()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ResolveAPIKey fills LLM.APIKey from LLM.APIKeyEnv when no explicit key is set.
func (c *Config) ResolveAPIKey() {
	if c.LLM.APIKey == "" && c.LLM.APIKeyEnv != "" {
		c.LLM.APIKey = os.Getenv(c.LLM.APIKeyEnv)
	}
}

// defaultConfig targets Gemini's OpenAI-compatible endpoint with the key in
// OPENAI_API_KEY, temperature 0.7 and 40 names per request.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.LLM.BaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	cfg.LLM.EndpointPath = "chat/completions"
	cfg.LLM.Model = "gemini-2.0-flash"
	cfg.LLM.APIKeyEnv = "OPENAI_API_KEY"
	cfg.LLM.Temperature = 0.7
	cfg.LLM.TimeoutSeconds = 120

	cfg.Sort.BatchSize = chunk.DefaultSize
	cfg.Sort.Ignore = []string{}
	cfg.Sort.DryRun = false

	cfg.Watch.SettleSeconds = 2

	cfg.Logging.Level = "info"

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist. A key that came from the
// environment is not written back.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	out := *cfg
	if out.LLM.APIKeyEnv != "" && out.LLM.APIKey == os.Getenv(out.LLM.APIKeyEnv) {
		out.LLM.APIKey = ""
	}

	data, err := yaml.Marshal(&out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.ConfigNotSet, nil)
	}

	if c.LLM.BaseURL == "" {
		return errors.NewConfigError("base url is required", "llm.base_url", errors.InvalidConfig, nil)
	}
	u, err := url.Parse(c.LLM.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.NewConfigError("base url must be an http(s) URL", "llm.base_url", errors.InvalidConfig, err)
	}
	if c.LLM.Model == "" {
		return errors.NewConfigError("model is required", "llm.model", errors.InvalidConfig, nil)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.NewConfigError("temperature must be between 0 and 2", "llm.temperature", errors.InvalidConfig, nil)
	}
	if c.LLM.TimeoutSeconds < 0 {
		return errors.NewConfigError("timeout must be >= 0 seconds", "llm.timeout_seconds", errors.InvalidConfig, nil)
	}

	if c.Sort.BatchSize < 1 {
		return errors.NewConfigError("batch size must be >= 1", "sort.batch_size", errors.InvalidConfig, nil)
	}
	for i, pattern := range c.Sort.Ignore {
		if _, err := glob.Compile(pattern); err != nil {
			return errors.NewConfigError(fmt.Sprintf("ignore pattern %d is invalid", i), "sort.ignore", errors.InvalidConfig, err)
		}
	}

	if c.Watch.SettleSeconds < 0 {
		return errors.NewConfigError("settle period must be >= 0 seconds", "watch.settle_seconds", errors.InvalidConfig, nil)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return errors.NewConfigError("unknown log level "+c.Logging.Level, "logging.level", errors.InvalidConfig, nil)
	}

	return nil
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// modelPresets are the names accepted by --model besides a raw model name.
var modelPresets = map[string]struct {
	model   string
	baseURL string
}{
	"gemini-2.0-flash": {"gemini-2.0-flash", "https://generativelanguage.googleapis.com/v1beta/openai/"},
	"gpt-4.1":          {"gpt-4.1", "https://api.openai.com/v1"},
	"o4-mini":          {"o4-mini", "https://api.openai.com/v1"},
	"local_lm_studio":  {"local-model", "http://localhost:1234/v1"},
}

// ApplyModel selects a model by name. Known presets also switch the base URL
// to the matching provider; any other name only changes the model.
func (c *Config) ApplyModel(name string) {
	if preset, ok := modelPresets[name]; ok {
		c.LLM.Model = preset.model
		c.LLM.BaseURL = preset.baseURL
		return
	}
	c.LLM.Model = name
}

// ListModels returns the names of the model presets.
func ListModels() []string {
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MaskAPIKey shows the first four characters of key followed by asterisks.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) > 4 {
		return key[:4] + "******"
	}
	return key
}

// Masked returns a copy of the configuration safe to print.
func (c *Config) Masked() *Config {
	out := *c
	out.Sort.Ignore = append([]string(nil), c.Sort.Ignore...)
	out.LLM.APIKey = MaskAPIKey(c.LLM.APIKey)
	return &out
}
