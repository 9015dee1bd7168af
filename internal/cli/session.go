package cli

import (
	"context"

	"github.com/rs/zerolog"

	"pharmacy-dashboard/internal/dashboard"
	"pharmacy-dashboard/internal/page"
)

// Session is one terminal dashboard: a page and the controller drawing on it
type Session struct {
	Page       *page.Page
	Controller *dashboard.Controller
}

// NewSession creates a logged-out terminal session
func NewSession(remote dashboard.Remote, threshold float64, logger zerolog.Logger) *Session {
	p := page.New()
	return &Session{
		Page: p,
		Controller: dashboard.New(remote, p, p.Widgets(), dashboard.Config{
			DefaultThreshold: threshold,
			Logger:           logger,
		}),
	}
}

// Login signs in and loads the filter lookups without drawing the dashboard
func (s *Session) Login(ctx context.Context, username, password string) error {
	if err := s.Controller.Login(ctx, username, password); err != nil {
		return err
	}
	return s.Controller.LoadMetadata(ctx)
}

// Summary applies the given filter overrides on top of the loaded form and
// draws the dashboard once. Empty override fields keep the loaded values.
func (s *Session) Summary(ctx context.Context, overrides dashboard.FormValues) (page.State, error) {
	form := s.Page.FilterForm()
	if form.CriticalThreshold == "" {
		form = mergeForm(s.Controller.DefaultFilters().Form(), form)
	}
	s.Page.SetFilterForm(mergeForm(form, overrides))

	err := s.Controller.Refresh(ctx)
	return s.Page.Snapshot(true), err
}

// mergeForm returns base with every non-empty field of over applied
func mergeForm(base, over dashboard.FormValues) dashboard.FormValues {
	if over.DateFrom != "" {
		base.DateFrom = over.DateFrom
	}
	if over.DateTo != "" {
		base.DateTo = over.DateTo
	}
	if over.Pharmacy != "" {
		base.Pharmacy = over.Pharmacy
	}
	if over.Medication != "" {
		base.Medication = over.Medication
	}
	if over.EssentialOnly {
		base.EssentialOnly = true
	}
	if over.CriticalThreshold != "" {
		base.CriticalThreshold = over.CriticalThreshold
	}
	return base
}
