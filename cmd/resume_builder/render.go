package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume JSON file to LaTeX or PDF",
	Long: `Renders a structured resume with one of the built-in templates. With --pdf the
LaTeX source is compiled with pdflatex, which must be installed.`,
	RunE: runRender,
}

var (
	renderInput    string
	renderTemplate string
	renderOutput   string
	renderPDF      bool
	renderVerbose  bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "in", "i", "", "Path to resume JSON file (required)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Template id (defaults to the resume's template)")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Output path (defaults to <First>_<Last>_Resume.tex or .pdf)")
	renderCmd.Flags().BoolVar(&renderPDF, "pdf", false, "Compile to PDF")
	renderCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "Print a summary of the resume")

	if err := renderCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resume, err := loadResumeFile(renderInput)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if renderVerbose {
		observability.NewPrinter(out).PrintResume(resume)
	}

	path, pages, err := renderResume(ctx, export.NewExporter(nil, nil), resume, renderInput, renderTemplate, renderOutput, renderPDF)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(out, "Wrote %s\n", path)
	if pages > export.MaxRecommendedPages {
		_, _ = fmt.Fprintf(out, "Warning: resume is %d pages; keep it to 1 or 2 pages\n", pages)
	}
	return nil
}

// renderResume renders resume and writes the result, next to input unless
// output is set. It returns the written path and, for PDFs, the page count.
func renderResume(ctx context.Context, exporter *export.Exporter, resume *types.Resume, input, templateID, output string, asPDF bool) (string, int, error) {
	ext := "tex"
	if asPDF {
		ext = "pdf"
	}
	if output == "" {
		output = filepath.Join(filepath.Dir(input), export.FileName(resume, ext))
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", 0, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if !asPDF {
		tex, err := exporter.Render(resume, templateID)
		if err != nil {
			return "", 0, err
		}
		if err := os.WriteFile(output, []byte(tex), 0o644); err != nil {
			return "", 0, fmt.Errorf("failed to write %s: %w", output, err)
		}
		return output, 0, nil
	}

	pdf, err := exporter.PDF(ctx, resume, templateID)
	if err != nil {
		return "", 0, err
	}
	if !strings.EqualFold(filepath.Ext(output), ".pdf") {
		output += ".pdf"
	}
	if err := os.WriteFile(output, pdf.Data, 0o644); err != nil {
		return "", 0, fmt.Errorf("failed to write %s: %w", output, err)
	}
	return output, pdf.Pages, nil
}
