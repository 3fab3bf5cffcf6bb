package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/benefitdesk/insurance-assistant/internal/agent"
)

// healthChecker reports backend reachability for the health endpoint.
type healthChecker func(ctx context.Context) error

type Server struct {
	assistant agent.Agent

	graphHealth  healthChecker
	vectorHealth healthChecker

	mux    *http.ServeMux
	server *http.Server
}

type Option func(*Server)

// WithGraphHealth registers a connectivity probe for the graph backend.
func WithGraphHealth(check healthChecker) Option {
	return func(s *Server) {
		s.graphHealth = check
	}
}

// WithVectorHealth registers a connectivity probe for the vector backend.
func WithVectorHealth(check healthChecker) Option {
	return func(s *Server) {
		s.vectorHealth = check
	}
}

func NewServer(assistant agent.Agent, opts ...Option) *Server {
	s := &Server{
		assistant: assistant,
		mux:       http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.mux)
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/chat", s.handleChat)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/", s.handleRoot)
}

// corsMiddleware allows browser frontends on other origins to call the
// API directly.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
