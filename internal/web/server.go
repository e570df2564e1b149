// Package web serves the interactive dashboard: an HTML page driven by query-string
// widgets, a JSON API exposing Vega-Lite specs and PNG snapshots of each chart.
//
// Every GET is one full render pass: the widget values are read from the query,
// the pipeline filters and builds all charts, and the complete page is returned.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/logging"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/model"
	"github.com/HQhanqiZHQ/bmi706-2024-Project/internal/pipeline"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Dashboards renders dashboards for widget values
type Dashboards interface {
	Render(ctx context.Context, params pipeline.Params) (*pipeline.Dashboard, error)
	Reload()
}

// Server is the dashboard HTTP server
type Server struct {
	dashboards Dashboards
	config     model.ServerConfig
	logger     *slog.Logger
	limiter    *clientLimiter
	page       *template.Template
	debug      *template.Template
}

// NewServer creates a server around dashboards
func NewServer(cfg model.ServerConfig, dashboards Dashboards, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	page, err := template.New("page.html").Funcs(template.FuncMap{"has": contains}).
		ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	debug, err := template.ParseFS(templateFS, "templates/debug.html")
	if err != nil {
		return nil, fmt.Errorf("parse debug template: %w", err)
	}

	return &Server{
		dashboards: dashboards,
		config:     cfg,
		logger:     logger,
		limiter:    newClientLimiter(cfg.RequestsPerSecond, cfg.BurstSize),
		page:       page,
		debug:      debug,
	}, nil
}

// Handler returns the routed handler wrapped in middleware
func (s *Server) Handler() http.Handler {
	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/", s.pageHandler)
	router.HandlerFunc(http.MethodGet, "/api/dashboard", s.dashboardHandler)
	router.HandlerFunc(http.MethodGet, "/api/charts/:name", s.chartHandler)
	router.HandlerFunc(http.MethodPost, "/api/reload", s.reloadHandler)
	router.HandlerFunc(http.MethodGet, "/charts/:file", s.chartPNGHandler)
	router.HandlerFunc(http.MethodGet, "/healthz", s.healthHandler)
	if s.config.Env == "development" {
		router.HandlerFunc(http.MethodGet, "/debug", s.debugHandler)
	}

	static, err := fs.Sub(staticFS, "static")
	if err == nil {
		router.Handler(http.MethodGet, "/static/*filepath", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not found")
	})

	var h http.Handler = router
	h = s.limiter.middleware(h)
	h = newCompressionMiddleware(1024, 6)(h)
	h = securityHeaders(h)
	h = newRequestLoggingMiddleware(s.logger)(h)
	return h
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	stop := make(chan struct{})
	defer close(stop)
	go s.limiter.run(5*time.Minute, stop)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", srv.Addr, "env", s.config.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
