// Package server implements the calcgraph HTTP service.
//
// The service evaluates graph descriptions submitted as JSON, renders
// them to DOT, and manages a library of named descriptions backed by a
// [store.Store]. Evaluation results are cached by description hash in a
// [cache.Cache] so repeated evaluations of the same graph are served
// without recomputation.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hweiss/calcgraph/pkg/cache"
	"github.com/hweiss/calcgraph/pkg/store"
)

// Server handles the calcgraph HTTP API.
type Server struct {
	store  store.Store
	cache  cache.Cache
	logger *log.Logger
	ttl    time.Duration
}

// New creates a server backed by the given store and cache.
// A nil logger disables request logging.
func New(st store.Store, c cache.Cache, logger *log.Logger) *Server {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Server{
		store:  st,
		cache:  c,
		logger: logger,
		ttl:    cache.DefaultTTL,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if s.logger != nil {
		r.Use(s.logRequests)
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/evaluate", s.handleEvaluate)
		r.Post("/dot", s.handleDOT)
		r.Get("/graphs", s.handleListGraphs)
		r.Route("/graphs/{name}", func(r chi.Router) {
			r.Get("/", s.handleGetGraph)
			r.Put("/", s.handlePutGraph)
			r.Delete("/", s.handleDeleteGraph)
			r.Post("/evaluate", s.handleEvaluateStored)
		})
	})
	return r
}

// logRequests logs method, path, status and duration for each request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
