// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// writeList writes up to limit items as bullets, then a count of the rest
func writeList(sb *strings.Builder, items []string, limit int) {
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
}

// PrintResume outputs a short summary of a structured resume.
func (p *Printer) PrintResume(resume *types.Resume) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", resume.PersonalInfo.FullName()))
	if resume.PersonalInfo.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", resume.PersonalInfo.Title))
	}
	sb.WriteString(fmt.Sprintf("Template: %s\n", resume.Template))
	sb.WriteString("\n")

	if len(resume.Experience) > 0 {
		sb.WriteString("Experience:\n")
		positions := make([]string, 0, len(resume.Experience))
		for _, e := range resume.Experience {
			positions = append(positions, strings.TrimSpace(e.Position+" at "+e.Company))
		}
		writeList(&sb, positions, 3)
		sb.WriteString("\n")
	}

	if skills := types.FlattenSkills(resume.Skills); len(skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills (%d): %s\n", len(skills), strings.Join(skills[:min(len(skills), maxItemsToShow)], ", ")))
	}

	p.printBox("RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintATSAnalysis outputs the score, keyword coverage, and formatting issues.
func (p *Printer) PrintATSAnalysis(analysis *types.ATSAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ATS score:  %d/100\n", analysis.Score))
	sb.WriteString(fmt.Sprintf("Formatting: %d/100\n", analysis.Formatting.Score))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Matched keywords (%d):\n", len(analysis.KeywordMatches)))
	writeList(&sb, analysis.KeywordMatches, maxItemsToShow)
	sb.WriteString(fmt.Sprintf("Missing keywords (%d):\n", len(analysis.MissingKeywords)))
	writeList(&sb, analysis.MissingKeywords, maxItemsToShow)

	if len(analysis.Formatting.Issues) > 0 {
		sb.WriteString("\nFormatting issues:\n")
		writeList(&sb, analysis.Formatting.Issues, maxItemsToShow)
	}

	if len(analysis.Suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		writeList(&sb, analysis.Suggestions, maxItemsToShow)
	}

	p.printBox("ATS ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// FieldProblem is one validation failure to report
type FieldProblem struct {
	Field   string
	Message string
}

// PrintValidation outputs validation failures, or a success box when there are none.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidation(problems []FieldProblem) {
	if len(problems) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ Validation passed")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Validation failed with %d error(s):\n\n", len(problems)))

	for i, problem := range problems {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", problem.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", problem.Message))
		if i < len(problems)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("VALIDATION ERRORS", strings.TrimSuffix(sb.String(), "\n"))
}
