// Package config holds all praxis configuration: corpus location,
// embedding and reasoning provider chains, matching thresholds, and the
// calibration constants the scoring pipeline uses.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all praxis configuration.
type Config struct {
	// Corpus location
	Corpus CorpusConfig `yaml:"corpus"`

	// Embedding provider chain (primary first)
	Embedding EmbeddingConfig `yaml:"embedding"`

	// Reasoning provider chain (primary first)
	Reasoning ReasoningConfig `yaml:"reasoning"`

	// Matching thresholds
	Matching MatchingConfig `yaml:"matching"`

	// Scoring calibration
	Calibration CalibrationConfig `yaml:"calibration"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// CorpusConfig locates the YAML corpus files.
type CorpusConfig struct {
	DataDir string `yaml:"data_dir"`
}

// EmbeddingConfig configures the embedding fallback chain.
type EmbeddingConfig struct {
	GenAI     GenAIConfig  `yaml:"genai"`
	Ollama    OllamaConfig `yaml:"ollama"`
	CacheSize int          `yaml:"cache_size"`
	Timeout   string       `yaml:"timeout"`
}

// GenAIConfig configures the primary (cloud) embedding backend.
type GenAIConfig struct {
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	TaskType string `yaml:"task_type"`
}

// OllamaConfig configures the secondary (local) embedding backend.
type OllamaConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
}

// ReasoningConfig configures the reasoning fallback chain.
type ReasoningConfig struct {
	Gemini    GeminiConfig    `yaml:"gemini"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Timeout   string          `yaml:"timeout"`
}

// GeminiConfig configures the primary reasoning provider.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// AnthropicConfig configures the secondary reasoning provider.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// MatchingConfig holds matcher thresholds.
type MatchingConfig struct {
	// Minimum cosine similarity for a semantic match
	SemanticThreshold float64 `yaml:"semantic_threshold"`

	// Maximum aggregated matches kept
	MaxMatches int `yaml:"max_matches"`
}

// CalibrationConfig exposes the tunable scoring constants.
type CalibrationConfig struct {
	// Confidence floor applied when any SOP triggers
	SOPConfidenceFloor float64 `yaml:"sop_confidence_floor"`

	// Normalizing divisor for the alignment total
	AlignmentDivisor float64 `yaml:"alignment_divisor"`

	// Flat confidence bonus when more than one principle matches
	MultiMatchBonus float64 `yaml:"multi_match_bonus"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			DataDir: "data",
		},
		Embedding: EmbeddingConfig{
			GenAI: GenAIConfig{
				Model:    "gemini-embedding-001",
				TaskType: "SEMANTIC_SIMILARITY",
			},
			Ollama: OllamaConfig{
				Endpoint: "http://localhost:11434",
				Model:    "embeddinggemma",
			},
			CacheSize: 512,
			Timeout:   "30s",
		},
		Reasoning: ReasoningConfig{
			Gemini: GeminiConfig{
				Model: "gemini-2.5-flash",
			},
			Anthropic: AnthropicConfig{
				Model: "claude-sonnet-4-20250514",
			},
			Timeout: "60s",
		},
		Matching: MatchingConfig{
			SemanticThreshold: 0.65,
			MaxMatches:        3,
		},
		Calibration: CalibrationConfig{
			SOPConfidenceFloor: 0.8,
			AlignmentDivisor:   3.0,
			MultiMatchBonus:    0.1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file, layered over the defaults
// and topped by environment variables for credentials.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// FromEnv returns the defaults with environment credentials applied.
func FromEnv() *Config {
	cfg := DefaultConfig()
	cfg.applyEnv()
	return cfg
}

// applyEnv fills credentials from the environment when the file left
// them empty. Env never overrides an explicit config value.
func (c *Config) applyEnv() {
	if c.Embedding.GenAI.APIKey == "" {
		c.Embedding.GenAI.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Reasoning.Gemini.APIKey == "" {
		c.Reasoning.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Reasoning.Anthropic.APIKey == "" {
		c.Reasoning.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if host := os.Getenv("OLLAMA_HOST"); host != "" && c.Embedding.Ollama.Endpoint == DefaultConfig().Embedding.Ollama.Endpoint {
		c.Embedding.Ollama.Endpoint = host
	}
}

// EmbedTimeout parses the embedding per-attempt timeout.
func (c *Config) EmbedTimeout() time.Duration {
	return parseTimeout(c.Embedding.Timeout, 30*time.Second)
}

// ReasonTimeout parses the reasoning per-attempt timeout.
func (c *Config) ReasonTimeout() time.Duration {
	return parseTimeout(c.Reasoning.Timeout, 60*time.Second)
}

func parseTimeout(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
