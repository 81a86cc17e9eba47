package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Inspect the loaded corpus",
}

var knowledgeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List values, principles, and procedures",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, titleStyle.Render("Values"))
		for _, v := range p.kb.Values.Values {
			marker := ""
			if v.IsCore {
				marker = " (core)"
			}
			fmt.Fprintf(out, "  %s: %s%s\n", v.ID, v.Name, marker)
		}

		fmt.Fprintln(out, titleStyle.Render("\nPrinciples"))
		for i := range p.kb.Principles {
			pr := &p.kb.Principles[i]
			fmt.Fprintf(out, "  %d. %s %s\n", pr.ID, pr.Title, dimStyle.Render(fmt.Sprintf("%v", pr.Tags)))
		}

		fmt.Fprintln(out, titleStyle.Render("\nProcedures"))
		for i := range p.kb.SOPs {
			s := &p.kb.SOPs[i]
			fmt.Fprintf(out, "  %d. %s: %s\n", s.ID, s.Name, s.Purpose)
		}
		return nil
	},
}

var knowledgeSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search principles by title and tags",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		results := p.kb.Search(args[0])
		if len(results) == 0 {
			fmt.Fprintln(out, "No principles matched.")
			return nil
		}
		for i := range results {
			fmt.Fprintf(out, "%d. %s\n", results[i].ID, results[i].Title)
		}
		return nil
	},
}

var knowledgeSOPsCmd = &cobra.Command{
	Use:   "sops [situation text]",
	Short: "Show procedures, or those a given text would trigger",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		sops := p.kb.SOPs
		if len(args) > 0 {
			sops = p.kb.SOPsTriggeredBy(strings.Join(args, " "))
			if len(sops) == 0 {
				fmt.Fprintln(out, "No procedures triggered.")
				return nil
			}
		}
		for i := range sops {
			s := &sops[i]
			fmt.Fprintf(out, "%s\n%s\n", titleStyle.Render(fmt.Sprintf("%d. %s", s.ID, s.Name)), s.Purpose)
			fmt.Fprintln(out, s.StepsText())
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	knowledgeCmd.AddCommand(knowledgeListCmd)
	knowledgeCmd.AddCommand(knowledgeSearchCmd)
	knowledgeCmd.AddCommand(knowledgeSOPsCmd)
	rootCmd.AddCommand(knowledgeCmd)
}
