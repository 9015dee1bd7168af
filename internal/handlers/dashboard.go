package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"pharmacy-dashboard/internal/dashboard"
	"pharmacy-dashboard/internal/page"
)

// DashboardHandler serves the dashboard page and its form actions. Every
// action dispatches one dashboard event and redirects back to the page.
type DashboardHandler struct {
	sessions SessionFinder
	renderer *page.Renderer
	logger   zerolog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(sessions SessionFinder, renderer *page.Renderer, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		sessions: sessions,
		renderer: renderer,
		logger:   logger,
	}
}

// Index handles GET /
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.renderer.Render(w, sess.Page.Snapshot(true)); err != nil {
		h.logger.Error().Err(err).Str("session_id", sess.ID).Msg("failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// State handles GET /api/dashboard
func (h *DashboardHandler) State(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(sess.Page.Snapshot(false)); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode page state")
	}
}

// Login handles POST /login
func (h *DashboardHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	username := r.PostForm.Get("usuario")
	sess.Page.SetLoginUsername(username)

	h.dispatch(w, r, sess, dashboard.Event{
		Type:     dashboard.EventLoginSubmit,
		Username: username,
		Password: r.PostForm.Get("clave"),
	})
}

// ApplyFilters handles POST /filters/apply
func (h *DashboardHandler) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	sess.Page.SetFilterForm(FormValuesFromRequest(r))
	h.dispatch(w, r, sess, dashboard.Event{Type: dashboard.EventApplyFilters})
}

// ResetFilters handles POST /filters/reset
func (h *DashboardHandler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.dispatch(w, r, sess, dashboard.Event{Type: dashboard.EventResetFilters})
}

// Logout handles POST /logout
func (h *DashboardHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.dispatch(w, r, sess, dashboard.Event{Type: dashboard.EventLogout})
}

// FormValuesFromRequest reads the filter controls of a posted form
func FormValuesFromRequest(r *http.Request) dashboard.FormValues {
	return dashboard.FormValues{
		DateFrom:          r.PostForm.Get("fechaDesde"),
		DateTo:            r.PostForm.Get("fechaHasta"),
		Pharmacy:          r.PostForm.Get("farmacia"),
		Medication:        r.PostForm.Get("medicamento"),
		EssentialOnly:     r.PostForm.Has("soloEsenciales"),
		CriticalThreshold: r.PostForm.Get("umbralCritico"),
	}
}

func (h *DashboardHandler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, err := h.sessions.Find(w, r)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to resolve browser session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

// dispatch runs ev and redirects to the page. Outcomes are already on the
// page, so errors are only logged.
func (h *DashboardHandler) dispatch(w http.ResponseWriter, r *http.Request, sess *Session, ev dashboard.Event) {
	err := sess.Controller.Dispatch(r.Context(), ev)
	switch {
	case err == nil:
	case errors.Is(err, dashboard.ErrSuperseded),
		errors.Is(err, dashboard.ErrMissingCredentials),
		errors.Is(err, dashboard.ErrLoginInProgress),
		errors.Is(err, dashboard.ErrNotLoggedIn):
		h.logger.Debug().Err(err).Str("event", string(ev.Type)).Str("session_id", sess.ID).Msg("dashboard event not applied")
	default:
		h.logger.Warn().Err(err).Str("event", string(ev.Type)).Str("session_id", sess.ID).Msg("dashboard event failed")
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
