package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"praxis/internal/analyzer"
	"praxis/internal/config"
	"praxis/internal/embedding"
	"praxis/internal/engine"
	"praxis/internal/knowledge"
	"praxis/internal/reasoning"
)

var (
	// Global flags
	configPath string
	dataDir    string
	verbose    bool

	// Logger
	logger *zap.Logger

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "praxis",
	Short: "praxis - principles-based decision support",
	Long: `praxis evaluates situations against a personal corpus of values,
principles, and standard operating procedures.

It matches free-text situations lexically and semantically, ranks the
applicable principles, triggers relevant procedures, and scores how well
past decisions adhered to the guidance.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			if _, err := os.Stat("praxis.yaml"); err == nil {
				configPath = "praxis.yaml"
			}
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dataDir != "" {
			cfg.Corpus.DataDir = dataDir
		}

		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			zapCfg.Level = levelFor(cfg.Logging.Level)
		}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config YAML")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data", "d", "", "corpus data directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func levelFor(name string) zap.AtomicLevel {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		level = zapcore.InfoLevel
	}
	return zap.NewAtomicLevelAt(level)
}

// pipeline is the wired system every command runs against.
type pipeline struct {
	kb       *knowledge.Base
	engine   *engine.DecisionEngine
	analyzer *analyzer.GapAnalyzer
}

// buildPipeline loads the corpus and wires the provider chains. Engines
// whose credentials are missing are simply left out of the chain; the
// pipeline degrades rather than failing to start.
func buildPipeline() (*pipeline, error) {
	kb, err := knowledge.Load(cfg.Corpus.DataDir)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	var engines []embedding.Engine
	if genai, err := embedding.NewGenAIEngine(cfg.Embedding.GenAI.APIKey, cfg.Embedding.GenAI.Model, cfg.Embedding.GenAI.TaskType); err == nil {
		engines = append(engines, genai)
	} else {
		logger.Debug("genai embedding unavailable", zap.Error(err))
	}
	if ollama, err := embedding.NewOllamaEngine(cfg.Embedding.Ollama.Endpoint, cfg.Embedding.Ollama.Model); err == nil {
		engines = append(engines, ollama)
	} else {
		logger.Debug("ollama embedding unavailable", zap.Error(err))
	}

	var semantic *engine.SemanticMatcher
	if len(engines) > 0 {
		chain := embedding.NewChain(logger, engines,
			embedding.WithCacheSize(cfg.Embedding.CacheSize),
			embedding.WithTimeout(cfg.EmbedTimeout()))
		semantic = engine.NewSemanticMatcher(logger, chain, cfg.Matching.SemanticThreshold)
	}

	eng := engine.NewDecisionEngine(logger, kb, semantic,
		engine.WithAggregator(engine.NewMatchAggregator(cfg.Matching.MaxMatches)),
		engine.WithAlignmentScorer(engine.NewAlignmentScorer(cfg.Calibration.AlignmentDivisor)),
		engine.WithConfidenceScorer(engine.NewConfidenceScorer(cfg.Calibration.SOPConfidenceFloor, cfg.Calibration.MultiMatchBonus)))

	var clients []reasoning.CompletionClient
	if cfg.Reasoning.Gemini.APIKey != "" {
		gc := reasoning.DefaultGeminiConfig(cfg.Reasoning.Gemini.APIKey)
		if cfg.Reasoning.Gemini.Model != "" {
			gc.Model = cfg.Reasoning.Gemini.Model
		}
		clients = append(clients, reasoning.NewGeminiClientWithConfig(gc))
	}
	if cfg.Reasoning.Anthropic.APIKey != "" {
		ac := reasoning.DefaultAnthropicConfig(cfg.Reasoning.Anthropic.APIKey)
		if cfg.Reasoning.Anthropic.Model != "" {
			ac.Model = cfg.Reasoning.Anthropic.Model
		}
		clients = append(clients, reasoning.NewAnthropicClientWithConfig(ac))
	}
	var chain *reasoning.Chain
	if len(clients) > 0 {
		chain = reasoning.NewChain(logger, clients, cfg.ReasonTimeout())
	}

	return &pipeline{
		kb:       kb,
		engine:   eng,
		analyzer: analyzer.NewGapAnalyzer(logger, eng, chain),
	}, nil
}
