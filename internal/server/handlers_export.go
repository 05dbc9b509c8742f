package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-builder/internal/export"
)

// attachment sets headers for a downloadable file
func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// handleExportDownload serves GET /resumes/{id}/export.tex and /export.pdf
func (s *Server) handleExportDownload(w http.ResponseWriter, r *http.Request) {
	switch r.PathValue("file") {
	case "export.tex":
		s.handleExportTeX(w, r)
	case "export.pdf":
		s.handleExportPDF(w, r)
	default:
		s.errorResponse(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) handleExportTeX(w http.ResponseWriter, r *http.Request) {
	resume, err := s.loadResume(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tex, err := s.exporter.Render(resume, r.URL.Query().Get("template"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	attachment(w, export.ContentTypeTeX, export.FileName(resume, "tex"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(tex))
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	resume, err := s.loadResume(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pdf, err := s.exporter.PDF(r.Context(), resume, r.URL.Query().Get("template"))
	if err != nil {
		var compileErr *export.CompilationError
		if errors.As(err, &compileErr) {
			log.Printf("[export] PDF compilation failed for %s: %v\n%s", resume.ID, err, compileErr.LogOutput)
			s.errorResponse(w, http.StatusInternalServerError, "Failed to compile PDF")
			return
		}
		s.writeError(w, r, err)
		return
	}

	attachment(w, export.ContentTypePDF, export.FileName(resume, "pdf"))
	if pdf.Pages > 0 {
		w.Header().Set("X-Page-Count", strconv.Itoa(pdf.Pages))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf.Data)
}

func (s *Server) handlePublishExport(w http.ResponseWriter, r *http.Request) {
	if !s.exporter.CanPublish() {
		s.writeError(w, r, &ErrUnavailable{Message: "Export storage is not configured"})
		return
	}

	resume, err := s.loadResume(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	pub, err := s.exporter.Publish(r.Context(), resume, r.URL.Query().Get("template"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, pub)
}
