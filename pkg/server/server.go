// Package server is the reference HTTP backend for the viewer.
//
// Routes:
//
//	GET /healthz               liveness probe
//	GET /api/tree              nested hierarchy (204 when the store is empty)
//	GET /api/person/{id}       flat record of one person
//	GET /api/layout            positioned layout snapshot
//	GET /api/render.{format}   rendered tree (svg, dot, json, png, pdf)
//	GET /skin.css              card colours for ?theme=light|dark
//
// Errors are JSON objects {"code": ..., "message": ...} with a status
// derived from the error code.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/familytree/pkg/buildinfo"
	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/pipeline"
	"github.com/matzehuels/familytree/pkg/render"
	"github.com/matzehuels/familytree/pkg/store"
	"github.com/matzehuels/familytree/pkg/theme"
	"github.com/matzehuels/familytree/pkg/view"
)

// DefaultRequestTimeout bounds each request.
const DefaultRequestTimeout = 30 * time.Second

// Config configures a Server.
type Config struct {
	// Source names the store for cache keys and logs.
	Source string
	// RequestTimeout bounds each request; zero means DefaultRequestTimeout.
	RequestTimeout time.Duration
	// View holds the layout constants used by /api/layout and rendering.
	View view.Config
}

// Server serves a store over HTTP.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	cfg    Config
	logger *log.Logger
	router chi.Router
}

// New builds the router. A nil cache disables caching and a nil logger
// discards output.
func New(st store.Store, c cache.Cache, keyer cache.Keyer, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	cfg.View.SetDefaults()

	s := &Server{
		store:  st,
		runner: pipeline.NewRunner(c, keyer, logger),
		cfg:    cfg,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/skin.css", s.handleSkin)
	r.Route("/api", func(r chi.Router) {
		r.Get("/tree", s.handleTree)
		r.Get("/person/{id}", s.handlePerson)
		r.Get("/layout", s.handleLayout)
		r.Get("/render.{format}", s.handleRender)
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Runner returns the pipeline runner the server renders with.
func (s *Server) Runner() *pipeline.Runner { return s.runner }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	root, err := s.runner.Load(r.Context(), s.store, s.options(r))
	if errors.Is(err, errors.ErrCodeEmptyTree) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, root)
}

func (s *Server) handlePerson(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidatePersonID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.store.Person(r.Context(), family.ID(id))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts := s.options(r)
	opts.Formats = []string{pipeline.FormatJSON}
	res, err := s.runner.Execute(r.Context(), s.store, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Snapshot)
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	opts := s.options(r)
	opts.Formats = []string{format}
	opts.Theme = q.Get("theme")
	opts.Focus = q.Get("focus")
	opts.Query = q.Get("q")
	opts.Policy = q.Get("policy")
	opts.Frames = q.Get("frames") == "1"
	opts.Detailed = q.Get("detailed") == "1"
	var err error
	if opts.Width, err = intParam(q, "w"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Height, err = intParam(q, "h"); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), s.store, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheStatus(res.CacheInfo.RenderHit))
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleSkin(w http.ResponseWriter, r *http.Request) {
	th := theme.Default
	if v := r.URL.Query().Get("theme"); v != "" {
		parsed, err := theme.Parse(v)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		th = parsed
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = io.WriteString(w, render.SkinCSS(th.Skin()))
}

// options returns pipeline options for the server's store. ?refresh=1
// bypasses the tree cache.
func (s *Server) options(r *http.Request) pipeline.Options {
	return pipeline.Options{
		Source:  s.cfg.Source,
		Refresh: r.URL.Query().Get("refresh") == "1",
		View:    s.cfg.View,
		Logger:  s.logger,
	}
}

// intParam parses an optional integer query parameter; absent means 0.
func intParam(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "query parameter %s must be an integer, got %q", name, v)
	}
	return n, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
