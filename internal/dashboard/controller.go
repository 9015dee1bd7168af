package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"pharmacy-dashboard/internal/api"
)

var (
	// ErrMissingCredentials is returned when the username or password is blank
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrLoginInProgress is returned for a login submitted while another is pending
	ErrLoginInProgress = errors.New("login already in progress")
	// ErrNotLoggedIn is returned by dashboard operations without a session
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrSuperseded is returned by a refresh or login whose response arrived
	// after a newer refresh or a logout; its result was discarded.
	ErrSuperseded = errors.New("superseded by a newer request")
)

const (
	msgMissingCredentials = "Ingrese usuario y contraseña."
	msgInvalidCredentials = "Credenciales inválidas"
	msgLoginFailed        = "No se pudo iniciar sesión."

	badgeLoadingMetadata = "Cargando metadatos..."
	badgeRefreshing      = "Actualizando tablero..."
	badgeUpdated         = "Datos actualizados"
	badgeLoadFailed      = "Error al cargar datos"
	badgeRefreshFailed   = "Error al actualizar"

	alertLoadFailed    = "Error al cargar datos iniciales: "
	alertRefreshFailed = "Error al actualizar tablero: "
)

// Remote is the dashboard API as seen by the controller
type Remote interface {
	Login(ctx context.Context, username, password string) (*api.LoginResult, error)
	Metadata(ctx context.Context) (*api.Metadata, error)
	Summary(ctx context.Context, q api.SummaryQuery) (*api.Summary, error)
}

// Config holds controller settings
type Config struct {
	// DefaultThreshold replaces missing or non-positive critical thresholds
	DefaultThreshold float64
	Logger           zerolog.Logger
}

// Controller owns the session, the filters and the widget handles of one
// dashboard page, and runs the request/render cycle for each UI event.
type Controller struct {
	remote    Remote
	screen    Screen
	widgets   Widgets
	threshold float64
	logger    zerolog.Logger

	mu    sync.Mutex
	state AppState
}

// New creates a controller bound to one screen and its widgets
func New(remote Remote, screen Screen, widgets Widgets, cfg Config) *Controller {
	threshold := cfg.DefaultThreshold
	if threshold <= 0 {
		threshold = DefaultCriticalThreshold
	}
	return &Controller{
		remote:    remote,
		screen:    screen,
		widgets:   widgets.withDefaults(),
		threshold: threshold,
		logger:    cfg.Logger,
		state:     AppState{Filters: DefaultFilters(threshold)},
	}
}

// State returns a snapshot of the controller state
func (c *Controller) State() AppState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.state
	if st.Session != nil {
		s := *st.Session
		st.Session = &s
	}
	return st
}

// DefaultFilters returns the filter set a reset restores
func (c *Controller) DefaultFilters() Filters {
	return DefaultFilters(c.threshold)
}

// Login checks the credentials against the remote API. One attempt per
// call; the submit control is disabled while the request is pending. A
// logout issued while the request is pending discards its result.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	c.screen.SetLoginError("")
	if username == "" || password == "" {
		c.screen.SetLoginError(msgMissingCredentials)
		return ErrMissingCredentials
	}

	c.mu.Lock()
	if c.state.LoggingIn {
		c.mu.Unlock()
		return ErrLoginInProgress
	}
	c.state.LoggingIn = true
	seq := c.state.RefreshSeq
	c.mu.Unlock()

	c.screen.SetLoginEnabled(false)
	defer func() {
		c.mu.Lock()
		c.state.LoggingIn = false
		c.mu.Unlock()
		c.screen.SetLoginEnabled(true)
	}()

	result, err := c.remote.Login(ctx, username, password)

	c.mu.Lock()
	stale := seq != c.state.RefreshSeq
	c.mu.Unlock()
	if stale {
		c.logger.Debug().Str("username", username).Msg("discarding login response after logout")
		return ErrSuperseded
	}

	if err != nil {
		c.logger.Warn().Err(err).Str("username", username).Msg("login failed")
		c.screen.SetLoginError(loginFailureMessage(err))
		return fmt.Errorf("login: %w", err)
	}

	session := Session{
		Username:    result.Username.String(),
		DisplayName: result.Name.String(),
		Role:        result.Role.String(),
	}
	if session.Username == "" {
		session.Username = username
	}
	if session.Role == "" {
		session.Role = DefaultRole
	}

	c.mu.Lock()
	c.state.Session = &session
	c.mu.Unlock()

	c.logger.Info().Str("username", session.Username).Str("role", session.Role).Msg("user logged in")

	c.screen.SetUserName(session.Label())
	c.screen.ShowView(ViewDashboard)
	return nil
}

func loginFailureMessage(err error) string {
	if msg, ok := api.RemoteMessage(err); ok {
		if msg != "" {
			return msg
		}
		return msgInvalidCredentials
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return msgLoginFailed
}

// Initialize loads the lookups, restores the default filters and draws the
// dashboard for the first time.
func (c *Controller) Initialize(ctx context.Context) error {
	if err := c.LoadMetadata(ctx); err != nil {
		return err
	}
	c.resetForm()
	return c.Refresh(ctx)
}

// LoadMetadata fetches the lookup lists and populates the filter controls.
// A failure aborts initialization with a blocking alert.
func (c *Controller) LoadMetadata(ctx context.Context) error {
	if !c.State().LoggedIn() {
		return ErrNotLoggedIn
	}

	c.screen.SetLoading(true)
	c.screen.SetBadge(badgeLoadingMetadata, BadgeLoading)

	meta, err := c.remote.Metadata(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to load metadata")
		c.screen.SetLoading(false)
		c.screen.SetBadge(badgeLoadFailed, BadgeError)
		c.screen.Alert(alertLoadFailed + err.Error())
		return fmt.Errorf("load metadata: %w", err)
	}

	c.mu.Lock()
	c.state.Metadata = meta
	c.mu.Unlock()

	c.screen.SetFilterOptions(BuildFilterOptions(meta))
	if meta.Dates != nil {
		form := c.screen.FilterForm()
		form.DateFrom = meta.Dates.Min
		form.DateTo = meta.Dates.Max
		c.screen.SetFilterForm(form)
	}
	c.screen.SetLoading(false)
	return nil
}

// Refresh reads the filter controls, requests a summary and redraws the
// KPIs, charts and tables. A failed request leaves the widgets untouched.
//
// Overlapping refreshes are sequenced: only the latest issued request may
// update the screen, older responses return ErrSuperseded.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Session == nil {
		c.mu.Unlock()
		return ErrNotLoggedIn
	}
	filters := ParseFilters(c.screen.FilterForm(), c.threshold)
	c.state.Filters = filters
	c.state.RefreshSeq++
	seq := c.state.RefreshSeq
	c.mu.Unlock()

	c.screen.SetLoading(true)
	c.screen.SetBadge(badgeRefreshing, BadgeLoading)

	summary, err := c.remote.Summary(ctx, filters.Query())

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.state.RefreshSeq {
		c.logger.Debug().Uint64("seq", seq).Uint64("latest", c.state.RefreshSeq).Msg("discarding stale summary response")
		return ErrSuperseded
	}

	c.screen.SetLoading(false)
	if err != nil {
		c.logger.Error().Err(err).Interface("filters", filters).Msg("failed to refresh dashboard")
		c.screen.SetBadge(badgeRefreshFailed, BadgeError)
		c.screen.Alert(alertRefreshFailed + err.Error())
		return fmt.Errorf("refresh: %w", err)
	}

	c.render(summary)
	c.screen.SetBadge(badgeUpdated, BadgeOK)
	return nil
}

// render maps a summary onto the screen and the widgets
func (c *Controller) render(s *api.Summary) {
	c.screen.SetKPIs(KPITexts(s.KPIs))
	if label, ok := PeriodLabel(s.Dates); ok {
		c.screen.SetPeriod(label)
	}

	c.widgets.Series.SetData(SeriesChart(s.Series))
	c.widgets.Series.Redraw()
	c.widgets.TopMeds.SetData(TopMedsChart(s.TopMeds))
	c.widgets.TopMeds.Redraw()

	c.widgets.CriticalStock.SetData(CriticalStockTable(s.CriticalStock))
	c.widgets.CriticalStock.Redraw()
	c.widgets.PharmacyBreaks.SetData(PharmacyBreaksTable(s.PharmacyBreaks))
	c.widgets.PharmacyBreaks.Redraw()
}

// ResetFilters restores the default filters and refreshes once
func (c *Controller) ResetFilters(ctx context.Context) error {
	if !c.State().LoggedIn() {
		return ErrNotLoggedIn
	}
	c.resetForm()
	return c.Refresh(ctx)
}

func (c *Controller) resetForm() {
	defaults := c.DefaultFilters()
	c.mu.Lock()
	c.state.Filters = defaults
	c.mu.Unlock()
	c.screen.SetFilterForm(defaults.Form())
}

// Logout clears the session and the login form and returns to the login view.
// Responses of refreshes still in flight are discarded.
func (c *Controller) Logout() {
	c.mu.Lock()
	if c.state.Session != nil {
		c.logger.Info().Str("username", c.state.Session.Username).Msg("user logged out")
	}
	c.state.Session = nil
	c.state.Metadata = nil
	c.state.RefreshSeq++
	c.mu.Unlock()

	c.screen.SetLoading(false)
	c.screen.ClearLoginForm()
	c.screen.SetLoginError("")
	c.screen.SetUserName(Missing)
	c.screen.ShowView(ViewLogin)
}
