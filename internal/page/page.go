// Package page holds the browser-side state of one dashboard session. A Page
// implements the dashboard Screen and widget interfaces; HTTP handlers render
// a snapshot of it after every action.
package page

import (
	"sync"

	"pharmacy-dashboard/internal/dashboard"
)

// Badge is the status badge text and styling
type Badge struct {
	Text string              `json:"text"`
	Kind dashboard.BadgeKind `json:"kind"`
}

// Page is the server-side model of one dashboard page
type Page struct {
	mu sync.Mutex

	view          dashboard.View
	userName      string
	loginUsername string
	loginError    string
	loginEnabled  bool
	badge         Badge
	loading       bool
	alerts        []string
	options       dashboard.FilterOptions
	form          dashboard.FormValues
	kpis          dashboard.KPIText
	period        string

	series         *ChartWidget
	topMeds        *ChartWidget
	criticalStock  *TableWidget
	pharmacyBreaks *TableWidget
}

// New creates a page showing the login view
func New() *Page {
	return &Page{
		view:           dashboard.ViewLogin,
		userName:       dashboard.Missing,
		loginEnabled:   true,
		options:        dashboard.BuildFilterOptions(nil),
		kpis:           dashboard.KPITexts(nil),
		series:         &ChartWidget{},
		topMeds:        &ChartWidget{},
		criticalStock:  &TableWidget{},
		pharmacyBreaks: &TableWidget{},
	}
}

// Widgets returns the chart and table handles owned by the page
func (p *Page) Widgets() dashboard.Widgets {
	return dashboard.Widgets{
		Series:         p.series,
		TopMeds:        p.topMeds,
		CriticalStock:  p.criticalStock,
		PharmacyBreaks: p.pharmacyBreaks,
	}
}

func (p *Page) ShowView(v dashboard.View) {
	p.mu.Lock()
	p.view = v
	p.mu.Unlock()
}

func (p *Page) SetUserName(name string) {
	p.mu.Lock()
	p.userName = name
	p.mu.Unlock()
}

func (p *Page) SetLoginError(msg string) {
	p.mu.Lock()
	p.loginError = msg
	p.mu.Unlock()
}

func (p *Page) SetLoginEnabled(enabled bool) {
	p.mu.Lock()
	p.loginEnabled = enabled
	p.mu.Unlock()
}

// SetLoginUsername keeps the submitted username so a failed login
// re-renders the form with it.
func (p *Page) SetLoginUsername(username string) {
	p.mu.Lock()
	p.loginUsername = username
	p.mu.Unlock()
}

func (p *Page) ClearLoginForm() {
	p.mu.Lock()
	p.loginUsername = ""
	p.mu.Unlock()
}

func (p *Page) SetBadge(text string, kind dashboard.BadgeKind) {
	p.mu.Lock()
	p.badge = Badge{Text: text, Kind: kind}
	p.mu.Unlock()
}

func (p *Page) SetLoading(loading bool) {
	p.mu.Lock()
	p.loading = loading
	p.mu.Unlock()
}

// Alert queues a message shown once on the next render
func (p *Page) Alert(msg string) {
	p.mu.Lock()
	p.alerts = append(p.alerts, msg)
	p.mu.Unlock()
}

func (p *Page) SetFilterOptions(opts dashboard.FilterOptions) {
	p.mu.Lock()
	p.options = opts
	p.mu.Unlock()
}

func (p *Page) FilterForm() dashboard.FormValues {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form
}

func (p *Page) SetFilterForm(values dashboard.FormValues) {
	p.mu.Lock()
	p.form = values
	p.mu.Unlock()
}

func (p *Page) SetKPIs(kpis dashboard.KPIText) {
	p.mu.Lock()
	p.kpis = kpis
	p.mu.Unlock()
}

func (p *Page) SetPeriod(label string) {
	p.mu.Lock()
	p.period = label
	p.mu.Unlock()
}

// State is a point-in-time copy of a page
type State struct {
	View          string                  `json:"view"`
	UserName      string                  `json:"user_name"`
	LoginUsername string                  `json:"login_username"`
	LoginError    string                  `json:"login_error,omitempty"`
	LoginEnabled  bool                    `json:"login_enabled"`
	Badge         Badge                   `json:"badge"`
	Loading       bool                    `json:"loading"`
	Alerts        []string                `json:"alerts,omitempty"`
	Options       dashboard.FilterOptions `json:"options"`
	Form          dashboard.FormValues    `json:"form"`
	KPIs          dashboard.KPIText       `json:"kpis"`
	Period        string                  `json:"period"`
	Charts        Charts                  `json:"charts"`
	Tables        Tables                  `json:"tables"`
}

// Charts are the drawn chart widgets
type Charts struct {
	Series  dashboard.ChartData `json:"series"`
	TopMeds dashboard.ChartData `json:"top_meds"`
}

// Tables are the drawn table widgets
type Tables struct {
	CriticalStock  dashboard.TableData `json:"critical_stock"`
	PharmacyBreaks dashboard.TableData `json:"pharmacy_breaks"`
}

// Snapshot copies the page. When drain is set, queued alerts are handed
// over and removed so each one is shown exactly once.
func (p *Page) Snapshot(drain bool) State {
	p.mu.Lock()
	st := State{
		View:          p.view.String(),
		UserName:      p.userName,
		LoginUsername: p.loginUsername,
		LoginError:    p.loginError,
		LoginEnabled:  p.loginEnabled,
		Badge:         p.badge,
		Loading:       p.loading,
		Alerts:        append([]string(nil), p.alerts...),
		Options:       p.options,
		Form:          p.form,
		KPIs:          p.kpis,
		Period:        p.period,
	}
	if drain {
		p.alerts = nil
	}
	p.mu.Unlock()

	st.Charts = Charts{Series: p.series.Drawn(), TopMeds: p.topMeds.Drawn()}
	st.Tables = Tables{CriticalStock: p.criticalStock.Drawn(), PharmacyBreaks: p.pharmacyBreaks.Drawn()}
	return st
}
