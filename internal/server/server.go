// Package server provides the HTTP REST API for the resume builder.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/ai"
	"github.com/jonathan/resume-builder/internal/autosave"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
	"github.com/jonathan/resume-builder/internal/types"
)

// ShutdownTimeout bounds graceful shutdown, including flushing drafts
const ShutdownTimeout = 30 * time.Second

// Store is the persistence the handlers use. *db.DB implements it.
type Store interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*types.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*types.User, error)
	CreateResume(ctx context.Context, r *types.Resume) (*types.Resume, error)
	GetResume(ctx context.Context, id uuid.UUID) (*types.Resume, error)
	ListResumesByUser(ctx context.Context, userID uuid.UUID) ([]types.Resume, error)
	UpdateResume(ctx context.Context, id uuid.UUID, patch *types.ResumePatch) (*types.Resume, error)
	DeleteResume(ctx context.Context, id uuid.UUID) error
	Ping(ctx context.Context) error
}

// PasswordHasher hashes user passwords before they are stored
type PasswordHasher interface {
	HashPassword(pw string) (string, error)
}

// Drafts debounces partial resume updates per resume id
type Drafts = autosave.Debouncer[uuid.UUID, *types.ResumePatch]

// NewDrafts creates a draft debouncer that persists coalesced patches to store
func NewDrafts(store Store, delay time.Duration) *Drafts {
	save := func(ctx context.Context, id uuid.UUID, patch *types.ResumePatch) error {
		_, err := store.UpdateResume(ctx, id, patch)
		return err
	}
	return autosave.New(delay, save,
		autosave.WithMerge[uuid.UUID](func(pending, next *types.ResumePatch) *types.ResumePatch {
			return pending.Merge(next)
		}))
}

// Config holds server configuration
type Config struct {
	Port int
}

// Deps are the collaborators the server is wired with. Only Store is required.
type Deps struct {
	Store     Store
	AI        *ai.Service        // nil serves deterministic fallbacks
	Exporter  *export.Exporter   // nil compiles locally without publishing
	Drafts    *Drafts            // nil uses a default 2s debouncer over Store
	Passwords PasswordHasher     // nil reads BCRYPT_COST and PASSWORD_PEPPER
	RateLimit *ratelimit.Config  // nil reads RATE_LIMIT_*
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	ai          *ai.Service
	exporter    *export.Exporter
	drafts      *Drafts
	passwords   PasswordHasher
	rateLimiter *ratelimit.Limiter
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("server requires a store")
	}

	s := &Server{
		store:     deps.Store,
		ai:        deps.AI,
		exporter:  deps.Exporter,
		drafts:    deps.Drafts,
		passwords: deps.Passwords,
	}

	if s.ai == nil {
		s.ai = ai.NewService(nil)
	}
	if s.exporter == nil {
		s.exporter = export.NewExporter(nil, nil)
	}
	if s.drafts == nil {
		s.drafts = NewDrafts(deps.Store, autosave.DefaultDelay)
	}
	if s.passwords == nil {
		passwordConfig, err := config.NewPasswordConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create password config: %w", err)
		}
		s.passwords = passwordConfig
	}

	rateConfig := deps.RateLimit
	if rateConfig == nil {
		rateConfig = ratelimit.LoadConfig()
	}
	s.rateLimiter = ratelimit.NewLimiter(rateConfig)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Users
	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)

	// Resumes
	mux.HandleFunc("POST /resumes", s.handleCreateResume)
	mux.HandleFunc("GET /resumes/{id}", s.handleGetResume)
	mux.HandleFunc("GET /resumes/user/{userId}", s.handleListUserResumes)
	mux.HandleFunc("PUT /resumes/{id}", s.handleUpdateResume)
	mux.HandleFunc("PUT /resumes/{id}/draft", s.handleSaveDraft)
	mux.HandleFunc("DELETE /resumes/{id}", s.handleDeleteResume)

	// Export. Downloads share one pattern because a literal file segment
	// would overlap with /resumes/user/{userId}.
	mux.HandleFunc("GET /resumes/{id}/{file}", s.handleExportDownload)
	mux.HandleFunc("POST /resumes/{id}/export", s.handlePublishExport)

	// AI
	mux.HandleFunc("POST /ai/improve-text", s.handleImproveText)
	mux.HandleFunc("POST /ai/generate-summary", s.handleGenerateSummary)
	mux.HandleFunc("POST /ai/analyze-ats", s.handleAnalyzeATS)
	mux.HandleFunc("POST /ai/analyze-text", s.handleAnalyzeText)
	mux.HandleFunc("POST /ai/suggestions", s.handleSuggestions)
	mux.HandleFunc("POST /ai/chat", s.handleChat)
	mux.HandleFunc("POST /ai/chat/section-advice", s.handleSectionAdvice)
	mux.HandleFunc("POST /ai/chat/career-advice", s.handleCareerAdvice)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		// PDF compilation can take up to export.CompilationTimeout
		WriteTimeout: export.CompilationTimeout + 15*time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (AI model available: %t, export publishing: %t)",
			s.httpServer.Addr, s.ai.Available(), s.exporter.CanPublish())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops accepting requests, then saves pending drafts
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown failed: %w", err))
	}
	if err := s.drafts.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to flush drafts: %w", err))
	}
	s.rateLimiter.Stop()

	if len(errs) == 0 {
		log.Println("Server stopped")
	}
	return errors.Join(errs...)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients that exceed their token bucket
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)

		if !allowed {
			log.Printf("[rate-limit] %s exceeded limit on %s %s", clientID, r.Method, r.URL.Path)
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d completed in %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		log.Printf("Health check failed: %v", err)
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes a {message} error body
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"message": message})
}

// writeError maps err to a status and client-facing message. Server errors are logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[%s] %s failed: %v", r.Method, r.URL.Path, err)
	}
	s.errorResponse(w, status, ErrorMessage(err))
}

// extractClientID uses the remote IP as the client identifier.
// X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
