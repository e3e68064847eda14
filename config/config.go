package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the InsightPDF pipeline.
type Config struct {
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ChunkingConfig holds the chunk window parameters, in characters.
type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK            int `yaml:"top_k"`
	CacheSize       int `yaml:"cache_size"`
	CacheTTLMinutes int `yaml:"cache_ttl_minutes"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider       string `yaml:"provider"`    // "openai", "ollama", "mock"
	Model          string `yaml:"model"`       // e.g. "text-embedding-3-small"
	BaseURL        string `yaml:"base_url"`    // empty for the provider default
	APIKeyEnv      string `yaml:"api_key_env"` // environment variable for the API key
	Dimension      int    `yaml:"dimension"`
	BatchSize      int    `yaml:"batch_size"`
	MaxRetries     int    `yaml:"max_retries"`
	RetryBackoffMS int    `yaml:"retry_backoff_ms"`
}

// LLMConfig holds answer generation configuration.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // "openai", "ollama", "mock"
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Temperature float64 `yaml:"temperature"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			Size:    1000,
			Overlap: 200,
		},
		Retrieve: RetrieveConfig{
			TopK:            4,
			CacheSize:       16,
			CacheTTLMinutes: 10,
		},
		Embedding: EmbeddingConfig{
			Provider:       "openai",
			Model:          "text-embedding-3-small",
			APIKeyEnv:      "OPENAI_API_KEY",
			Dimension:      1536,
			BatchSize:      100,
			MaxRetries:     3,
			RetryBackoffMS: 500,
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			APIKeyEnv:   "OPENAI_API_KEY",
			Temperature: 0.3,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults
// when the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for
// insightpdf.yaml, then .insightpdf/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "insightpdf.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".insightpdf", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SessionDBPath returns the path to the session database.
func SessionDBPath(dir string) string {
	return filepath.Join(dir, ".insightpdf", "sessions.db")
}

// EnsureDataDir ensures the .insightpdf directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".insightpdf"), 0755)
}
