// Package config loads and validates the helpsek service configuration.
//
// Configuration is resolved in three layers, later layers winning:
//
//  1. Built-in defaults (DefaultConfig)
//  2. YAML file (helpsek.yaml, or the path given with --config)
//  3. Environment variables (HELPSEK_*, plus GEMINI_API_KEY)
//
// A missing config file is not an error; the defaults are usable for
// local runs with the static embedder.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/helpsek/helpsek/internal/corpus"
	"github.com/helpsek/helpsek/internal/errors"
)

// DefaultFileName is the config file looked up in the working directory
// when no explicit path is given.
const DefaultFileName = "helpsek.yaml"

// Embedding provider identifiers.
const (
	ProviderGemini = "gemini"
	ProviderStatic = "static"
)

// Config is the complete helpsek service configuration.
type Config struct {
	Corpus     CorpusConfig     `yaml:"corpus"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Generation GenerationConfig `yaml:"generation"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

// CollectionConfig locates one collection's source file and snapshot
// directory.
type CollectionConfig struct {
	SourcePath  string `yaml:"source_path"`
	SnapshotDir string `yaml:"snapshot_dir"`
}

// CorpusConfig configures the two document collections.
type CorpusConfig struct {
	Formasi CollectionConfig `yaml:"formasi"`
	Faq     CollectionConfig `yaml:"faq"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider selects the embedder: "gemini" or "static".
	Provider string `yaml:"provider"`

	// Model is the Gemini embedding model id. Ignored for static.
	Model string `yaml:"model"`

	// APIKey is the Gemini API key. Usually supplied via GEMINI_API_KEY
	// rather than the file.
	APIKey string `yaml:"api_key"`

	// CacheSize is the LRU embedding cache capacity. 0 disables caching.
	CacheSize int `yaml:"cache_size"`
}

// GenerationConfig configures the answer-synthesis model.
type GenerationConfig struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`

	// Timeout bounds a single generation call, as a duration string
	// like "60s".
	Timeout string `yaml:"timeout"`
}

// TimeoutDuration returns the parsed generation timeout. Validate
// guarantees the value parses; a zero value falls back to the default.
func (g GenerationConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(g.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// RetrievalConfig configures the retrieval stage.
type RetrievalConfig struct {
	// TopK is the default number of documents retrieved per query.
	TopK int `yaml:"top_k"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// ShutdownTimeout bounds graceful shutdown, as a duration string.
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// ShutdownTimeoutDuration returns the parsed shutdown timeout.
func (s ServerConfig) ShutdownTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(s.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Formasi: CollectionConfig{
				SourcePath:  "data/data_formasi.json",
				SnapshotDir: "data/index/formasi",
			},
			Faq: CollectionConfig{
				SourcePath:  "data/data_faq.json",
				SnapshotDir: "data/index/faq",
			},
		},
		Embeddings: EmbeddingsConfig{
			Provider:  ProviderGemini,
			Model:     "text-embedding-004",
			CacheSize: 1024,
		},
		Generation: GenerationConfig{
			Model:       "gemini-2.5-flash",
			Temperature: 0.2,
			Timeout:     "60s",
		},
		Retrieval: RetrievalConfig{
			TopK: 4,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: "10s",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load resolves the configuration from defaults, the YAML file at path
// (DefaultFileName when path is empty), and environment overrides.
// A missing default file is fine; an explicit path that does not exist
// is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	if err := cfg.loadYAML(path, explicit); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return errors.New(errors.ErrCodeConfigNotFound,
			fmt.Sprintf("config file %s not readable", path), err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.ConfigError(fmt.Sprintf("config file %s is not valid YAML", path), err)
	}
	return nil
}

// applyEnvOverrides applies HELPSEK_* environment variable overrides.
// GEMINI_API_KEY is also honored so the key never has to live in a file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Embeddings.APIKey = v
	}
	if v := os.Getenv("HELPSEK_API_KEY"); v != "" {
		c.Embeddings.APIKey = v
	}
	if v := os.Getenv("HELPSEK_EMBEDDINGS_PROVIDER"); v != "" {
		c.Embeddings.Provider = v
	}
	if v := os.Getenv("HELPSEK_EMBEDDINGS_MODEL"); v != "" {
		c.Embeddings.Model = v
	}
	if v := os.Getenv("HELPSEK_GENERATION_MODEL"); v != "" {
		c.Generation.Model = v
	}
	if v := os.Getenv("HELPSEK_FORMASI_SOURCE"); v != "" {
		c.Corpus.Formasi.SourcePath = v
	}
	if v := os.Getenv("HELPSEK_FAQ_SOURCE"); v != "" {
		c.Corpus.Faq.SourcePath = v
	}
	if v := os.Getenv("HELPSEK_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("HELPSEK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("HELPSEK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks the configuration and returns a typed error when a
// field is out of range.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Embeddings.Provider) {
	case ProviderGemini, ProviderStatic:
	default:
		return errors.ConfigError(
			fmt.Sprintf("embeddings.provider must be %q or %q, got %q",
				ProviderGemini, ProviderStatic, c.Embeddings.Provider), nil)
	}

	if c.Embeddings.CacheSize < 0 {
		return errors.ConfigError(
			fmt.Sprintf("embeddings.cache_size must be non-negative, got %d", c.Embeddings.CacheSize), nil)
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return errors.ConfigError(
			fmt.Sprintf("generation.temperature must be between 0 and 2, got %g", c.Generation.Temperature), nil)
	}
	if d, err := time.ParseDuration(c.Generation.Timeout); err != nil || d <= 0 {
		return errors.ConfigError(
			fmt.Sprintf("generation.timeout must be a positive duration, got %q", c.Generation.Timeout), nil)
	}
	if d, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil || d <= 0 {
		return errors.ConfigError(
			fmt.Sprintf("server.shutdown_timeout must be a positive duration, got %q", c.Server.ShutdownTimeout), nil)
	}
	if c.Retrieval.TopK <= 0 {
		return errors.ConfigError(
			fmt.Sprintf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK), nil)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.ConfigError(
			fmt.Sprintf("server.port must be between 1 and 65535, got %d", c.Server.Port), nil)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return errors.ConfigError(
			fmt.Sprintf("log.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Log.Level), nil)
	}

	for _, col := range []struct {
		name string
		cc   CollectionConfig
	}{
		{string(corpus.CollectionFormasi), c.Corpus.Formasi},
		{string(corpus.CollectionFaq), c.Corpus.Faq},
	} {
		if col.cc.SourcePath == "" {
			return errors.ConfigError(
				fmt.Sprintf("corpus.%s.source_path must not be empty", col.name), nil)
		}
		if col.cc.SnapshotDir == "" {
			return errors.ConfigError(
				fmt.Sprintf("corpus.%s.snapshot_dir must not be empty", col.name), nil)
		}
	}

	return nil
}

// Collection returns the config block for the named collection.
func (c *Config) Collection(col corpus.Collection) (CollectionConfig, bool) {
	switch col {
	case corpus.CollectionFormasi:
		return c.Corpus.Formasi, true
	case corpus.CollectionFaq:
		return c.Corpus.Faq, true
	default:
		return CollectionConfig{}, false
	}
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
