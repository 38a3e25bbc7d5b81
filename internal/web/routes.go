package web

import "net/http"

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// Pages
	mux.HandleFunc("GET /{$}", s.handleWelcome)
	mux.HandleFunc("GET /welcome", s.handleWelcome)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /profile/edit", s.handleProfileEdit)

	// Welcome form
	mux.HandleFunc("POST /welcome/username", s.handleSubmitUsername)
	mux.HandleFunc("POST /welcome/job-title", s.handleSubmitJobTitle)
	mux.HandleFunc("POST /welcome/cancel", s.handleCancel)
	mux.HandleFunc("POST /logout", s.handleLogout)

	// API
	mux.HandleFunc("GET /api/profile", s.handleAPIProfile)
	mux.HandleFunc("GET /api/countries", s.handleAPICountries)

	// System
	mux.HandleFunc("GET /health", s.handleHealth)
}
