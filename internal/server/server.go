// Package server is the HTTP surface that renders the application form and
// hands submissions to the presenter.
package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"os"
	"time"

	submitapplication "employment-application/internal/application/submit-application"
	"employment-application/internal/common/config"
	"employment-application/internal/common/logger"
	"employment-application/internal/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

//go:embed templates/*.html
var templateFS embed.FS

const sessionHeader = "X-Form-Session"

// Presenter is the part of the submit-application stage the surface needs.
type Presenter interface {
	Execute(ctx context.Context, input *submitapplication.Input) (*submitapplication.Output, error)
	Form(ctx context.Context, sessionID string) (models.FormFields, error)
}

// Pinger reports store reachability for /ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Form           config.FormConfig
	AllowedOrigins []string
	Metrics        http.Handler // defaults to promhttp.Handler()
}

type Server struct {
	presenter Presenter
	db        Pinger
	form      config.FormConfig
	page      *template.Template
	logger    logger.Logger
	handler   http.Handler
}

func New(opts Options, presenter Presenter, db Pinger, log logger.Logger) (*Server, error) {
	page, err := template.ParseFS(templateFS, "templates/form.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		presenter: presenter,
		db:        db,
		form:      opts.Form,
		page:      page,
		logger:    log.WithFields(map[string]interface{}{"component": "server"}),
	}

	metricsHandler := opts.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.showForm).Methods(http.MethodGet)
	r.HandleFunc("/applications", s.submitForm).Methods(http.MethodPost)
	r.HandleFunc("/api/applications", s.submitJSON).Methods(http.MethodPost)
	r.HandleFunc("/logo", s.serveLogo).Methods(http.MethodGet)
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.ready).Methods(http.MethodGet)
	r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)

	s.handler = r
	if len(opts.AllowedOrigins) > 0 {
		s.handler = cors.New(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type", sessionHeader},
			ExposedHeaders: []string{sessionHeader},
		}).Handler(r)
	}

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// HTTPServer builds the listener for cfg around this server's routes.
func (s *Server) HTTPServer(cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      s.handler,
		ReadTimeout:  config.GetDuration(cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.WriteTimeout),
	}
}

func (s *Server) logoAvailable() bool {
	if s.form.LogoPath == "" {
		return false
	}
	info, err := os.Stat(s.form.LogoPath)
	return err == nil && !info.IsDir()
}

func (s *Server) serveLogo(w http.ResponseWriter, r *http.Request) {
	if !s.logoAvailable() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, s.form.LogoPath)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.logger.Warn("readiness check failed", map[string]interface{}{"error": err})
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
			"time":   time.Now().Format(time.RFC3339),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}
