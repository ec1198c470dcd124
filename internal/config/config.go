// Package config loads the kensaku service configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the kensaku API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Search    SearchConfig    `yaml:"search"`
	Indexes   IndexesConfig   `yaml:"indexes"`
	History   HistoryConfig   `yaml:"history"`
	Ranking   RankingConfig   `yaml:"ranking"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// TokenizerConfig selects the morphological analyzer backend.
type TokenizerConfig struct {
	Backend string `yaml:"backend"` // auto, kagome, mecab (default: auto)
}

// SearchConfig holds query-side settings.
type SearchConfig struct {
	DefaultLimit int      `yaml:"default_limit"`
	MaxLimit     int      `yaml:"max_limit"`
	CacheSize    int      `yaml:"cache_size"`
	Statuses     []string `yaml:"customer_statuses"` // valid cust_status values; empty disables validation
}

// IndexesConfig describes the index topology. With prefectures present
// the service runs one index per entry (multi-index); otherwise it runs
// the single fallback index.
type IndexesConfig struct {
	Prefectures []PrefectureConfig `yaml:"prefectures"`
	Single      PrefectureConfig   `yaml:"single"`
}

// PrefectureConfig names one region index.
type PrefectureConfig struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"` // display name, e.g. 東京都
}

// HistoryConfig holds per-user search history settings.
type HistoryConfig struct {
	Path       string `yaml:"path"`
	MaxPerUser int    `yaml:"max_per_user"`
}

// RankingConfig holds keyword popularity settings.
type RankingConfig struct {
	Driver    string   `yaml:"driver"` // redis, memory (default: memory)
	Addrs     []string `yaml:"addrs"`
	Password  string   `yaml:"password"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Tokenizer.Backend == "" {
		c.Tokenizer.Backend = "auto"
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 100
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 1000
	}
	if c.Search.CacheSize <= 0 {
		c.Search.CacheSize = 128
	}
	if c.Indexes.Single.Code == "" {
		c.Indexes.Single.Code = "default"
	}
	if c.History.Path == "" {
		c.History.Path = "data/history.db"
	}
	if c.History.MaxPerUser <= 0 {
		c.History.MaxPerUser = 500
	}
	if c.Ranking.Driver == "" {
		c.Ranking.Driver = "memory"
	}
	if c.Ranking.KeyPrefix == "" {
		c.Ranking.KeyPrefix = "kensaku:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Tokenizer.Backend {
	case "auto", "kagome", "mecab":
	default:
		return fmt.Errorf("tokenizer.backend must be auto, kagome or mecab, got %q", c.Tokenizer.Backend)
	}
	seen := make(map[string]bool, len(c.Indexes.Prefectures))
	for _, p := range c.Indexes.Prefectures {
		if p.Code == "" {
			return fmt.Errorf("indexes.prefectures entries need a code")
		}
		if seen[p.Code] {
			return fmt.Errorf("duplicate prefecture code %q", p.Code)
		}
		seen[p.Code] = true
	}
	switch c.Ranking.Driver {
	case "memory":
	case "redis":
		if len(c.Ranking.Addrs) == 0 {
			return fmt.Errorf("ranking.addrs is required for the redis driver")
		}
	default:
		return fmt.Errorf("ranking.driver must be redis or memory, got %q", c.Ranking.Driver)
	}
	return nil
}

// MultiIndex reports whether the configuration describes a multi-index
// deployment.
func (c *Config) MultiIndex() bool {
	return len(c.Indexes.Prefectures) > 0
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
