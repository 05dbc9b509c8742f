package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-builder/internal/ats"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume for ATS compatibility",
	Long: `Runs the deterministic ATS analysis on a resume. A .json input is read as a
structured resume; any other file is analyzed as plain text.`,
	RunE: runAnalyze,
}

var (
	analyzeInput   string
	analyzeJobFile string
	analyzeOutput  string
	analyzeJSON    bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInput, "in", "i", "", "Path to resume JSON or text file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJobFile, "job", "j", "", "Path to job description text file (optional)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "out", "o", "", "Path to write the analysis JSON (optional)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the analysis as JSON")

	if err := analyzeCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark flag as required: %v", err))
	}

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	var jobDescription string
	if analyzeJobFile != "" {
		data, err := os.ReadFile(analyzeJobFile)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		jobDescription = string(data)
	}

	analysis, err := analyzeFile(analyzeInput, jobDescription)
	if err != nil {
		return err
	}

	if analyzeOutput != "" {
		if err := writeJSON(analyzeOutput, analysis); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	}
	observability.NewPrinter(out).PrintATSAnalysis(analysis)
	return nil
}

// analyzeFile scores a resume file. JSON files are flattened the same way
// the API flattens structured resume data.
func analyzeFile(path, jobDescription string) (*types.ATSAnalysis, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		resume, err := loadResumeFile(path)
		if err != nil {
			return nil, err
		}
		return ats.Analyze(ats.FlattenResume(resume), jobDescription), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	return ats.Analyze(string(data), jobDescription), nil
}
