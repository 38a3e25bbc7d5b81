package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/inovacc/countrydesk/internal/countries"
	"github.com/inovacc/countrydesk/internal/model"
	"github.com/inovacc/countrydesk/internal/session"
)

//go:embed templates/*.html templates/partials/*.html
var templatesFS embed.FS

// Config holds the web server configuration
type Config struct {
	Port        int
	Host        string
	OpenBrowser bool
}

// DefaultConfig returns the default web server configuration
func DefaultConfig() Config {
	return Config{
		Port:        8080,
		Host:        "127.0.0.1",
		OpenBrowser: true,
	}
}

// Addr is host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

// Server is the browser front end. It shares the profile cell with every other front end
// in the process.
type Server struct {
	httpServer *http.Server
	gate       *session.Gate
	source     countries.Source
	config     Config
	templates  map[string]*template.Template
	logger     *slog.Logger
	health     func() error
}

// New creates a new web server
func New(config Config, profile session.ProfileCell, source countries.Source, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		gate:      session.NewGate(profile, logger),
		source:    source,
		config:    config,
		templates: tmpl,
		logger:    logger,
	}, nil
}

// SetHealthCheck makes /health report 503 while check fails, typically a storage ping.
func (s *Server) SetHealthCheck(check func() error) {
	s.health = check
}

func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"languages": model.LanguageNames,
	}
}

// parseTemplates gives each page its own instance so content blocks do not collide.
func parseTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)

	for _, page := range []string{"welcome.html", "dashboard.html"} {
		tmpl, err := template.New("").Funcs(templateFuncMap()).ParseFS(templatesFS,
			"templates/layout.html",
			"templates/partials/*.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", page, err)
		}

		templates[page] = tmpl
	}

	return templates, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.setupRoutes(mux)

	return s.requestIDMiddleware(s.loggingMiddleware(s.crossOriginMiddleware(mux)))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := s.config.Addr()

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	url := "http://" + addr

	if s.config.OpenBrowser {
		go func() {
			time.Sleep(100 * time.Millisecond)

			if err := openBrowser(url); err != nil {
				s.logger.Warn("failed to open browser, open it manually", "url", url, "error", err)
			}
		}()
	}

	s.logger.Info("web server starting", "url", url)

	errCh := make(chan error, 1)

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web server: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	return s.Shutdown(context.Background()) //nolint:contextcheck // parent context cancelled, use background for shutdown
}

// Shutdown gracefully shuts down the web server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down web server")

	return s.httpServer.Shutdown(shutdownCtx)
}

// openBrowser opens the default browser to the given URL
func openBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

// render executes the page's layout template with data.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data PageData) {
	tmpl, ok := s.templates[page]
	if !ok {
		loggerFrom(r.Context(), s.logger).Error("template not found", "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		loggerFrom(r.Context(), s.logger).Error("template error", "page", page, "error", err)
	}
}
