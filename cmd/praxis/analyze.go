package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"praxis/internal/domain"
	"praxis/internal/report"
)

var (
	analyzeFile     string
	analyzeOutput   string
	analyzeStakes   string
	analyzeDomain   string
	analyzeEmotions []string
	analyzePlain    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [situation description]",
	Short: "Analyze a situation against your principles",
	Long: `Analyze a free-text situation: matches applicable principles,
triggers relevant procedures, and prints a recommendation report.

The situation can be given inline or loaded from a YAML file with --file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		situation, err := situationFromInput(args)
		if err != nil {
			return err
		}

		p, err := buildPipeline()
		if err != nil {
			return err
		}

		result, err := p.engine.Evaluate(cmd.Context(), situation)
		if err != nil {
			return err
		}

		markdown := report.NewGenerator().Decision(result)
		if analyzeOutput != "" {
			return os.WriteFile(analyzeOutput, []byte(markdown), 0644)
		}
		return renderMarkdown(cmd, markdown)
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "YAML file holding the situation")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the markdown report to a file instead of the terminal")
	analyzeCmd.Flags().StringVar(&analyzeStakes, "stakes", "", "stakes level (low, medium, high, critical)")
	analyzeCmd.Flags().StringVar(&analyzeDomain, "domain", "", "life domain (personal, professional, family, financial, health, social)")
	analyzeCmd.Flags().StringSliceVar(&analyzeEmotions, "emotions", nil, "emotions present in the situation")
	analyzeCmd.Flags().BoolVar(&analyzePlain, "plain", false, "print raw markdown without terminal rendering")
	rootCmd.AddCommand(analyzeCmd)
}

func situationFromInput(args []string) (*domain.Situation, error) {
	if analyzeFile != "" {
		data, err := os.ReadFile(analyzeFile)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", analyzeFile, err)
		}
		var situation domain.Situation
		if err := yaml.Unmarshal(data, &situation); err != nil {
			return nil, fmt.Errorf("parse %s: %w", analyzeFile, err)
		}
		if situation.ID == "" {
			situation.ID = uuid.NewString()
		}
		return &situation, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("provide a situation description or --file")
	}
	return &domain.Situation{
		ID:          uuid.NewString(),
		Description: strings.Join(args, " "),
		Stakes:      domain.Stakes(analyzeStakes),
		Domain:      domain.LifeDomain(analyzeDomain),
		Context:     domain.SituationContext{Emotions: analyzeEmotions},
	}, nil
}

// renderMarkdown pretty-prints through glamour, falling back to the raw
// markdown when no terminal renderer can be built.
func renderMarkdown(cmd *cobra.Command, markdown string) error {
	if analyzePlain {
		fmt.Fprintln(cmd.OutOrStdout(), markdown)
		return nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), markdown)
		return nil
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), markdown)
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
