package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"praxis/internal/domain"
	"praxis/internal/report"
)

var (
	historyFile     string
	historyDecision string
	historyOutcome  string
)

var historyCmd = &cobra.Command{
	Use:   "history [situation description]",
	Short: "Analyze a past decision for gaps against your principles",
	Long: `Analyze a decision you already made: evaluates what the principles
would have recommended, compares it with what you actually did, and
reports gaps, lessons, and an adherence score.

The record can be given inline with --decision and --outcome, or loaded
from a YAML file with --file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		hist, err := historicalFromInput(args)
		if err != nil {
			return err
		}

		p, err := buildPipeline()
		if err != nil {
			return err
		}

		result, err := p.analyzer.Analyze(cmd.Context(), hist)
		if err != nil {
			return err
		}

		markdown := report.NewGenerator().Historical(result)
		return renderMarkdown(cmd, markdown)
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyFile, "file", "f", "", "YAML file holding the historical record")
	historyCmd.Flags().StringVar(&historyDecision, "decision", "", "what you actually decided")
	historyCmd.Flags().StringVar(&historyOutcome, "outcome", "", "what actually happened")
	rootCmd.AddCommand(historyCmd)
}

func historicalFromInput(args []string) (*domain.HistoricalSituation, error) {
	if historyFile != "" {
		data, err := os.ReadFile(historyFile)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", historyFile, err)
		}
		var hist domain.HistoricalSituation
		if err := yaml.Unmarshal(data, &hist); err != nil {
			return nil, fmt.Errorf("parse %s: %w", historyFile, err)
		}
		if hist.ID == "" {
			hist.ID = uuid.NewString()
		}
		return &hist, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("provide a situation description or --file")
	}
	return &domain.HistoricalSituation{
		Situation: domain.Situation{
			ID:          uuid.NewString(),
			Description: strings.Join(args, " "),
		},
		ActualDecision: historyDecision,
		ActualOutcome:  historyOutcome,
	}, nil
}
