package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"tesouraria/internal/core"
	applog "tesouraria/internal/log"
	"tesouraria/internal/middleware/ratelimit"
	"tesouraria/internal/middleware/security"
	"tesouraria/internal/middleware/trace"
	"tesouraria/internal/services"
)

// ImportRunner triggers one full import run.
type ImportRunner interface {
	Run(ctx context.Context) (services.ImportResult, error)
	Category() string
}

// EntryLister reads back stored ledger entries.
type EntryLister interface {
	ListByCategory(ctx context.Context, category string) ([]core.LedgerEntry, error)
}

// CompletionPublisher announces finished runs to interested consumers.
// Publishing is best effort; a failure never fails the import.
type CompletionPublisher interface {
	PublishImportCompleted(ctx context.Context, category string, rowsSeen, imported int) error
}

type Server struct {
	http.Server

	importer  ImportRunner
	lister    EntryLister
	publisher CompletionPublisher

	rateLimiter  *ratelimit.Limiter
	shutdownOnce sync.Once
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithEntryLister enables the read-side entries endpoint.
func WithEntryLister(lister EntryLister) Option {
	return func(s *Server) { s.lister = lister }
}

// WithCompletionPublisher publishes a completion event after each
// successful import.
func WithCompletionPublisher(pub CompletionPublisher) Option {
	return func(s *Server) { s.publisher = pub }
}

// WithRateLimit overrides the default import-trigger rate limit.
func WithRateLimit(requestsPerMinute int) Option {
	return func(s *Server) {
		s.rateLimiter.Stop()
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: requestsPerMinute})
	}
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, importer ImportRunner, opts ...Option) *Server {
	s := &Server{
		importer:    importer,
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(trace.NewMiddleware(clientIP).Middleware)
	r.Use(applog.Middleware(applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)))
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(chimiddleware.Timeout(120 * time.Second))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	r.Route("/api", func(r chi.Router) {
		r.With(s.rateLimiter.Middleware(clientIP, nil)).
			Post("/import/entradas", s.handleImport)
		r.Get("/entries", s.handleListEntries)
	})

	s.Server = http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// Shutdown stops the rate limiter cleanup goroutine and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// clientIP extracts the caller address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
