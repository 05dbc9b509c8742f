package export

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
	"golang.org/x/sync/errgroup"
)

// Content types of exported files
const (
	ContentTypeTeX = "application/x-tex"
	ContentTypePDF = "application/pdf"
)

// MaxRecommendedPages is the longest resume that avoids a length warning
const MaxRecommendedPages = 2

var unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)

// FileName returns "<First>_<Last>_Resume.<ext>" with unsafe characters removed
func FileName(r *types.Resume, ext string) string {
	parts := []string{}
	if r != nil {
		for _, p := range []string{r.PersonalInfo.FirstName, r.PersonalInfo.LastName} {
			if p = strings.Trim(unsafeFileChars.ReplaceAllString(p, "_"), "_"); p != "" {
				parts = append(parts, p)
			}
		}
	}
	parts = append(parts, "Resume")
	return strings.Join(parts, "_") + "." + strings.TrimPrefix(ext, ".")
}

// Publication describes a stored export
type Publication struct {
	TeXLocation string   `json:"texLocation"`
	PDFLocation string   `json:"pdfLocation"`
	Pages       int      `json:"pages"`
	Warnings    []string `json:"warnings"`
}

// Exporter renders, compiles, and stores resumes
type Exporter struct {
	compile Compiler
	store   Store
}

// NewExporter creates an Exporter. A nil compiler uses CompileLaTeX.
// store may be nil when only Render and PDF are used.
func NewExporter(compile Compiler, store Store) *Exporter {
	if compile == nil {
		compile = CompileLaTeX
	}
	return &Exporter{compile: compile, store: store}
}

// CanPublish reports whether a store is configured
func (e *Exporter) CanPublish() bool {
	return e.store != nil
}

// Render returns the LaTeX source of a resume
func (e *Exporter) Render(r *types.Resume, templateID string) (string, error) {
	return rendering.RenderLaTeX(r, templateID)
}

// PDF renders and compiles a resume
func (e *Exporter) PDF(ctx context.Context, r *types.Resume, templateID string) (*PDF, error) {
	tex, err := e.Render(r, templateID)
	if err != nil {
		return nil, err
	}
	return e.compile(ctx, tex)
}

// Publish stores the LaTeX source and the compiled PDF concurrently
func (e *Exporter) Publish(ctx context.Context, r *types.Resume, templateID string) (*Publication, error) {
	if e.store == nil {
		return nil, fmt.Errorf("no export store configured")
	}

	tex, err := e.Render(r, templateID)
	if err != nil {
		return nil, err
	}

	prefix := "resumes/" + r.ID.String() + "/"
	pub := &Publication{Warnings: []string{}}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		loc, err := e.store.Put(gctx, prefix+FileName(r, "tex"), ContentTypeTeX, []byte(tex))
		if err != nil {
			return err
		}
		pub.TeXLocation = loc
		return nil
	})

	g.Go(func() error {
		pdf, err := e.compile(gctx, tex)
		if err != nil {
			return err
		}
		loc, err := e.store.Put(gctx, prefix+FileName(r, "pdf"), ContentTypePDF, pdf.Data)
		if err != nil {
			return err
		}
		pub.PDFLocation = loc
		pub.Pages = pdf.Pages
		if pdf.Pages > MaxRecommendedPages {
			pub.Warnings = append(pub.Warnings,
				fmt.Sprintf("Resume is %d pages; keep it to 1 or 2 pages", pdf.Pages))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to publish resume: %w", err)
	}
	return pub, nil
}
