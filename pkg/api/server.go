package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/autobrr/namedir/pkg/directory"
)

type Config struct {
	Bind               string
	ReadHeaderTimeout  time.Duration
	ShutdownTimeout    time.Duration
	DefaultPageLimit   int
	DefaultSearchLimit int
}

// Server is the HTTP adapter over a Directory. It never mutates the index.
type Server struct {
	cfg    Config
	dir    *directory.Directory
	log    *logrus.Entry
	router chi.Router
}

func NewServer(cfg Config, dir *directory.Directory, log *logrus.Entry) *Server {
	if cfg.DefaultPageLimit <= 0 {
		cfg.DefaultPageLimit = directory.DefaultPageLimit
	}
	if cfg.DefaultSearchLimit <= 0 {
		cfg.DefaultSearchLimit = directory.DefaultSearchLimit
	}
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = 10 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		cfg: cfg,
		dir: dir,
		log: log,
	}
	s.router = s.routes()

	return s
}

func (s *Server) routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.metricsMiddleware)
	router.Use(corsMiddleware)

	router.Route("/api", func(r chi.Router) {
		r.Get("/count", s.handleCount)
		r.Get("/index", s.handleIndex)
		r.Get("/users", s.handleUsers)
		r.Get("/users/letter/{letter}", s.handleLetter)
		r.Get("/search", s.handleSearch)
	})
	router.Get("/health", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	return router
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Bind,
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.log.Infof("Listening on http://%s", s.cfg.Bind)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.log.Info("Shutting down")
		return httpServer.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.dir.Count()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.dir.LetterIndex()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset := parseIntDefault(q.Get("offset"), 0)
	limit := parseIntDefault(q.Get("limit"), s.cfg.DefaultPageLimit)

	page, err := s.dir.Range(offset, limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

func (s *Server) handleLetter(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset := parseIntDefault(q.Get("offset"), 0)
	limit := parseIntDefault(q.Get("limit"), s.cfg.DefaultPageLimit)

	page, err := s.dir.Letter(chi.URLParam(r, "letter"), offset, limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, page)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := parseIntDefault(q.Get("limit"), s.cfg.DefaultSearchLimit)

	result, err := s.dir.Search(q.Get("q"), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type healthResponse struct {
	Status    string `json:"status"`
	Loaded    bool   `json:"loaded"`
	UserCount int    `json:"userCount"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, _ := s.dir.Count()

	respondJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Loaded:    s.dir.Ready(),
		UserCount: count,
	})
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		observeRequest(route, ww.Status())

		s.log.WithFields(logrus.Fields{
			"status":   ww.Status(),
			"duration": time.Since(start),
		}).Tracef("%s %s", r.Method, r.URL.RequestURI())
	})
}

// corsMiddleware allows any origin; the directory is public and read-only.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// letterParam returns the normalized letter from the route, for error messages.
func letterParam(r *http.Request) string {
	return directory.LetterOf(strings.TrimSpace(chi.URLParam(r, "letter")))
}
