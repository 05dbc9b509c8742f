// Package export compiles rendered resumes to PDF and publishes the results.
package export

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// CompilationTimeout is the maximum time to wait for LaTeX compilation
	CompilationTimeout = 30 * time.Second

	// maxLogTail bounds the compiler log kept on errors
	maxLogTail = 4000
)

// CompilationError represents a LaTeX compilation failure
type CompilationError struct {
	Message   string
	LogOutput string
	Cause     error
}

func (e *CompilationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("LaTeX compilation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("LaTeX compilation error: %s", e.Message)
}

func (e *CompilationError) Unwrap() error {
	return e.Cause
}

// PDF is a compiled document
type PDF struct {
	Data  []byte
	Pages int // 0 when no page counter is installed
}

// Compiler turns LaTeX source into a PDF
type Compiler func(ctx context.Context, tex string) (*PDF, error)

// CompileLaTeX compiles LaTeX source with pdflatex in a throwaway directory.
// A PDF produced despite LaTeX errors is returned with the errors logged.
func CompileLaTeX(ctx context.Context, tex string) (*PDF, error) {
	if _, err := exec.LookPath("pdflatex"); err != nil {
		return nil, &CompilationError{
			Message: "pdflatex not found in PATH. Please install a LaTeX distribution (e.g., TeX Live, MiKTeX)",
			Cause:   err,
		}
	}

	workDir, err := os.MkdirTemp("", "resume-export-*")
	if err != nil {
		return nil, &CompilationError{Message: "failed to create temporary working directory", Cause: err}
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	texPath := filepath.Join(workDir, "resume.tex")
	if err := os.WriteFile(texPath, []byte(tex), 0o644); err != nil {
		return nil, &CompilationError{Message: "failed to write LaTeX source", Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, CompilationTimeout)
	defer cancel()

	// nonstopmode keeps pdflatex from waiting on stdin after an error
	cmd := exec.CommandContext(ctx, "pdflatex", "-interaction=nonstopmode", "-halt-on-error",
		"-output-directory", workDir, texPath)
	var output strings.Builder
	cmd.Stdout = &output
	cmd.Stderr = &output
	runErr := cmd.Run()
	logOutput := tail(output.String(), maxLogTail)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, &CompilationError{Message: "LaTeX compilation timed out", LogOutput: logOutput, Cause: ctx.Err()}
	}

	pdfPath := filepath.Join(workDir, "resume.pdf")
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, &CompilationError{
			Message:   "LaTeX compilation failed: PDF was not generated",
			LogOutput: logOutput,
			Cause:     errors.Join(runErr, err),
		}
	}
	if runErr != nil {
		log.Printf("[export] pdflatex reported errors but produced a PDF: %v", runErr)
	}

	return &PDF{Data: data, Pages: CountPDFPages(pdfPath)}, nil
}

// CountPDFPages counts the pages of a PDF file with pdfinfo, falling back to
// ghostscript. Returns 0 when neither tool can answer.
func CountPDFPages(pdfPath string) int {
	if count, err := countPagesWithPdfinfo(pdfPath); err == nil {
		return count
	}
	if count, err := countPagesWithGhostscript(pdfPath); err == nil {
		return count
	}
	return 0
}

func countPagesWithPdfinfo(pdfPath string) (int, error) {
	output, err := exec.Command("pdfinfo", pdfPath).Output()
	if err != nil {
		return 0, fmt.Errorf("pdfinfo command failed: %w", err)
	}
	return parsePdfinfoPages(string(output))
}

// parsePdfinfoPages reads the "Pages: N" line of pdfinfo output
func parsePdfinfoPages(output string) (int, error) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) >= 2 {
			if count, err := strconv.Atoi(parts[1]); err == nil {
				return count, nil
			}
		}
	}
	return 0, fmt.Errorf("could not parse page count from pdfinfo output")
}

func countPagesWithGhostscript(pdfPath string) (int, error) {
	script := fmt.Sprintf("(%s) (r) file runpdfbegin pdfpagecount = quit", pdfPath)
	output, err := exec.Command("gs", "-q", "-dNODISPLAY", "-dNOSAFER", "-c", script).Output()
	if err != nil {
		return 0, fmt.Errorf("ghostscript command failed: %w", err)
	}
	out := strings.TrimSpace(string(output))
	count, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("could not parse page count from ghostscript output: %s", out)
	}
	return count, nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
