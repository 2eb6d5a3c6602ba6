package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dgallion1/tref/internal/config"
	"github.com/dgallion1/tref/internal/docstore"
	"github.com/dgallion1/tref/internal/forest"
	"github.com/dgallion1/tref/internal/pathstore"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for tref documents.
type Server struct {
	router   chi.Router
	store    *docstore.Store
	exporter *pathstore.Exporter
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. exporter may be nil,
// in which case export requests fail with 503.
func NewServer(store *docstore.Store, exporter *pathstore.Exporter, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:    store,
		exporter: exporter,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Get("/api/stats", s.handleStats)

		r.Route("/api/documents", func(r chi.Router) {
			r.Get("/", s.handleListDocuments)
			r.Post("/", s.handleCreateDocument)

			r.Route("/{docID}", func(r chi.Router) {
				r.Get("/", s.handleGetDocument)
				r.Delete("/", s.handleDeleteDocument)
				r.Post("/export", s.handleExport)

				r.Post("/trees", s.handleCreateTree)
				r.Route("/trees/{treeID}", func(r chi.Router) {
					r.Get("/walk", s.handleWalk)
					r.Get("/find", s.handleFind)
					r.Post("/nodes", s.handleLinkNode)
					r.Delete("/nodes/{pos}", s.handleUnlinkNode)
				})
			})
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, docstore.ErrNotFound),
		errors.Is(err, forest.ErrTreeNotFound),
		errors.Is(err, forest.ErrNotFound),
		errors.Is(err, forest.ErrPositionOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, forest.ErrTreeExists),
		errors.Is(err, forest.ErrRootExists),
		errors.Is(err, forest.ErrDetached):
		return http.StatusConflict
	case errors.Is(err, forest.ErrContentRejected),
		errors.Is(err, forest.ErrUnlinkRoot),
		errors.Is(err, forest.ErrNoRoot):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
