// Package config loads and persists courseqa configuration.
//
// Configuration is stored as TOML in the courseqa config directory
// and overridden by environment variables, so deployments can keep
// secrets out of the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/campuskit/courseqa/internal/segmenter"
)

// Default values applied before the file and environment are read.
const (
	DefaultEmbeddingModel      = "text-embedding-3-small"
	DefaultChatModel           = "gpt-4o-mini"
	DefaultSimilarityThreshold = 0.4
	DefaultMaxResults          = 50
	DefaultForumBaseURL        = "https://discourse.onlinedegree.iitm.ac.in"
	DefaultListenAddr          = ":8000"
	DefaultEmbedRatePerMinute  = 60

	configFileName = "config.toml"
	configDirName  = ".courseqa"
)

// Config holds all runtime configuration.
type Config struct {
	// APIKey authenticates against the OpenAI-compatible API.
	APIKey string `toml:"api_key"`

	// BaseURL overrides the API endpoint, for proxies and compatible
	// providers.
	BaseURL string `toml:"base_url"`

	// EmbeddingModel names the embedding model.
	EmbeddingModel string `toml:"embedding_model"`

	// ChatModel names the chat completion model.
	ChatModel string `toml:"chat_model"`

	// ChunkSize is the segmentation window in characters.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the number of characters shared between
	// consecutive windows.
	ChunkOverlap int `toml:"chunk_overlap"`

	// SimilarityThreshold filters retrieval hits below this cosine
	// similarity.
	SimilarityThreshold float64 `toml:"similarity_threshold"`

	// MaxResults caps the number of chunks handed to synthesis.
	MaxResults int `toml:"max_results"`

	// DataDir holds the knowledge base and the link cache. Empty means
	// the default config directory.
	DataDir string `toml:"data_dir"`

	// ForumBaseURL is the Discourse instance chunk URLs point at.
	ForumBaseURL string `toml:"forum_base_url"`

	// ListenAddr is the HTTP server bind address.
	ListenAddr string `toml:"listen_addr"`

	// EmbedRatePerMinute throttles embedding calls during ingestion.
	EmbedRatePerMinute int `toml:"embed_rate_per_minute"`

	// OCRLanguage names the Tesseract traineddata model.
	OCRLanguage string `toml:"ocr_language"`

	path string
}

// Dir returns the courseqa config directory, ~/.courseqa by default.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// Default returns a Config with all defaults applied and no file or
// environment overlay.
func Default() *Config {
	return &Config{
		EmbeddingModel:      DefaultEmbeddingModel,
		ChatModel:           DefaultChatModel,
		ChunkSize:           segmenter.DefaultWindowSize,
		ChunkOverlap:        segmenter.DefaultOverlap,
		SimilarityThreshold: DefaultSimilarityThreshold,
		MaxResults:          DefaultMaxResults,
		ForumBaseURL:        DefaultForumBaseURL,
		ListenAddr:          DefaultListenAddr,
		EmbedRatePerMinute:  DefaultEmbedRatePerMinute,
	}
}

// Load reads configuration from the TOML file at path, then applies
// environment overrides. An empty path uses the default location; a
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, configFileName)
	}
	cfg.path = path

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run; defaults plus environment.
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("COURSEQA_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("COURSEQA_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
}

func (c *Config) validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("config: chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("config: chunk_overlap must not be negative, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("config: chunk_overlap %d must be smaller than chunk_size %d", c.ChunkOverlap, c.ChunkSize)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("config: similarity_threshold must be in [0,1], got %g", c.SimilarityThreshold)
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("config: max_results must be positive, got %d", c.MaxResults)
	}
	return nil
}

// Save writes the configuration back to its TOML file with restricted
// permissions, since it may contain the API key.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, configFileName)
		c.path = path
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ResolveDataDir returns the directory for the knowledge base and the
// link cache, creating it if needed.
func (c *Config) ResolveDataDir() (string, error) {
	dir := c.DataDir
	if dir == "" {
		base, err := Dir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, "data")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dir, nil
}
