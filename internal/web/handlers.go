package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inovacc/countrydesk/internal/countries"
	"github.com/inovacc/countrydesk/internal/model"
	"github.com/inovacc/countrydesk/internal/session"
)

const modeEdit = "edit"

// PageData holds common data for page templates
type PageData struct {
	Title    string
	Profile  model.Profile
	LoggedIn bool
	Form     *FormData

	Countries      []model.Country
	CountriesError string
	Detail         *DetailData
}

// FormData is the state of the two-step user form. Between steps the username travels in
// a hidden field.
type FormData struct {
	Step     int
	Mode     string
	Username string
	JobTitle string
	Error    string
	Editing  bool
}

// DetailData backs the country modal.
type DetailData struct {
	Code    string
	Country model.CountryDetail
	Error   string
}

// APIResponse is a generic API response
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ProfileData is the /api/profile payload.
type ProfileData struct {
	Profile model.Profile `json:"profile"`
	State   string        `json:"state"`
}

// redirector is a per-request session.Navigator: the last path it is sent to becomes a
// 303 redirect.
type redirector struct {
	to string
}

func (r *redirector) NavigateTo(path string) {
	r.to = path
}

func (r *redirector) redirect(w http.ResponseWriter, req *http.Request) bool {
	if r.to == "" {
		return false
	}

	http.Redirect(w, req, r.to, http.StatusSeeOther)

	return true
}

func (s *Server) pageData(title string) PageData {
	p := s.gate.Profile()

	return PageData{
		Title:    title,
		Profile:  p,
		LoggedIn: p.Complete(),
	}
}

// flowFor reopens the form a POST belongs to.
func (s *Server) flowFor(mode string) *session.Flow {
	if mode == modeEdit {
		return s.gate.EditFlow()
	}

	return s.gate.NewFlow()
}

func formData(flow *session.Flow, mode string, err error) *FormData {
	f := &FormData{
		Step:     1,
		Mode:     mode,
		Username: flow.Username(),
		JobTitle: flow.JobTitle(),
		Editing:  mode == modeEdit,
	}

	if flow.Step() == session.CollectingJobTitle {
		f.Step = 2
	}

	var verr *session.ValidationError
	if errors.As(err, &verr) {
		f.Error = verr.Message
	} else if err != nil {
		f.Error = err.Error()
	}

	return f
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	data := s.pageData("Welcome")

	if r.URL.Query().Get("step") == "username" {
		data.Form = formData(s.gate.NewFlow(), "", nil)
	}

	s.render(w, r, http.StatusOK, "welcome.html", data)
}

func (s *Server) handleProfileEdit(w http.ResponseWriter, r *http.Request) {
	nav := &redirector{}
	if !s.gate.Guard(nav) {
		nav.redirect(w, r)
		return
	}

	data := s.pageData("Edit profile")
	data.Form = formData(s.gate.EditFlow(), modeEdit, nil)

	s.render(w, r, http.StatusOK, "welcome.html", data)
}

func (s *Server) handleSubmitUsername(w http.ResponseWriter, r *http.Request) {
	mode := r.PostFormValue("mode")
	flow := s.flowFor(mode)
	err := flow.SubmitUsername(r.PostFormValue("username"))

	status := http.StatusOK
	if err != nil {
		status = http.StatusUnprocessableEntity
	}

	data := s.pageData("Welcome")
	data.Form = formData(flow, mode, err)

	s.render(w, r, status, "welcome.html", data)
}

func (s *Server) handleSubmitJobTitle(w http.ResponseWriter, r *http.Request) {
	mode := r.PostFormValue("mode")
	flow := s.flowFor(mode)

	// the username was validated on the previous step; a tampered one restarts the form
	if err := flow.SubmitUsername(r.PostFormValue("username")); err != nil {
		http.Redirect(w, r, "/welcome?step=username", http.StatusSeeOther)
		return
	}

	nav := &redirector{}

	if err := flow.SubmitJobTitle(r.PostFormValue("jobTitle"), nav); err != nil {
		data := s.pageData("Welcome")
		data.Form = formData(flow, mode, err)

		s.render(w, r, http.StatusUnprocessableEntity, "welcome.html", data)

		return
	}

	loggerFrom(r.Context(), s.logger).Info("profile saved from web", "username", flow.Username())
	nav.redirect(w, r)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if r.PostFormValue("mode") == modeEdit {
		http.Redirect(w, r, session.DashboardPath, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, session.EntryPath, http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	nav := &redirector{}
	s.gate.Logout(nav)
	nav.redirect(w, r)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	nav := &redirector{}
	if !s.gate.Guard(nav) {
		nav.redirect(w, r)
		return
	}

	ctx := r.Context()
	logger := loggerFrom(ctx, s.logger)
	data := s.pageData("Dashboard")
	status := http.StatusOK

	list, err := s.source.List(ctx)
	if err != nil {
		logger.Error("loading countries failed", "error", err)
		data.CountriesError = err.Error()
	}

	data.Countries = list

	if code := countries.NormalizeCode(r.URL.Query().Get("country")); code != "" {
		detail := &DetailData{Code: code}

		d, err := s.source.Get(ctx, code)

		switch {
		case errors.Is(err, countries.ErrCountryNotFound):
			detail.Error = "No country with code " + code
			status = http.StatusNotFound
		case err != nil:
			logger.Warn("loading country failed", "code", code, "error", err)
			detail.Error = err.Error()
		default:
			detail.Country = d
		}

		data.Detail = detail
	}

	s.render(w, r, status, "dashboard.html", data)
}

func (s *Server) handleAPIProfile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ProfileData{
			Profile: s.gate.Profile(),
			State:   s.gate.State().String(),
		},
	})
}

func (s *Server) handleAPICountries(w http.ResponseWriter, r *http.Request) {
	if err := s.gate.Require(); err != nil {
		writeJSON(w, http.StatusUnauthorized, APIResponse{Error: err.Error()})
		return
	}

	filter, err := countries.CompileFilter(r.URL.Query().Get("where"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Error: err.Error()})
		return
	}

	list, err := s.source.List(r.Context())
	if err != nil {
		loggerFrom(r.Context(), s.logger).Error("loading countries failed", "error", err)
		writeJSON(w, http.StatusBadGateway, APIResponse{Error: err.Error()})

		return
	}

	list, err = filter.Apply(list)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: list})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if s.health != nil {
		if err := s.health(); err != nil {
			loggerFrom(r.Context(), s.logger).Error("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unhealthy"))

			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
