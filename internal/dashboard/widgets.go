package dashboard

import "pharmacy-dashboard/internal/api"

// View is one of the two mutually exclusive screens
type View int

const (
	ViewLogin View = iota
	ViewDashboard
)

func (v View) String() string {
	if v == ViewDashboard {
		return "dashboard"
	}
	return "login"
}

// BadgeKind selects the styling of the status badge
type BadgeKind string

const (
	BadgeOK      BadgeKind = "ok"
	BadgeLoading BadgeKind = "loading"
	BadgeError   BadgeKind = "error"
)

// KPIText holds the four rendered headline indicators
type KPIText struct {
	Prescribed    string `json:"prescribed"`
	Dispensed     string `json:"dispensed"`
	BreakRate     string `json:"break_rate"`
	CriticalItems string `json:"critical_items"`
}

// Option is one entry of a filter selector
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FilterOptions populates the pharmacy and medication selectors
type FilterOptions struct {
	Pharmacies  []Option `json:"pharmacies"`
	Medications []Option `json:"medications"`
}

// ChartKind is the chart type a widget should draw
type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartBar  ChartKind = "bar"
)

// Dataset is one plotted series
type Dataset struct {
	Label  string    `json:"label"`
	Values []api.Num `json:"values"`
	Fill   bool      `json:"fill"`
}

// ChartData is everything a chart widget needs to draw itself
type ChartData struct {
	Kind       ChartKind `json:"kind"`
	Horizontal bool      `json:"horizontal"`
	ShowLegend bool      `json:"show_legend"`
	Labels     []string  `json:"labels"`
	Datasets   []Dataset `json:"datasets"`
}

// Column describes one table column
type Column struct {
	Title   string `json:"title"`
	Numeric bool   `json:"numeric"`
}

// TableData is the already-formatted content of a table widget
type TableData struct {
	Columns  []Column   `json:"columns"`
	Rows     [][]string `json:"rows"`
	PageSize int        `json:"page_size"`
}

// Screen is the surface the controller drives: the login form, the header,
// the filter controls, the status badge and the KPI cards.
type Screen interface {
	ShowView(v View)
	SetUserName(name string)
	SetLoginError(msg string)
	SetLoginEnabled(enabled bool)
	ClearLoginForm()
	SetBadge(text string, kind BadgeKind)
	SetLoading(loading bool)
	Alert(msg string)
	SetFilterOptions(opts FilterOptions)
	FilterForm() FormValues
	SetFilterForm(values FormValues)
	SetKPIs(kpis KPIText)
	SetPeriod(label string)
}

// Chart is a chart widget handle, updated in place on every refresh
type Chart interface {
	SetData(data ChartData)
	Redraw()
}

// Table is a data-grid widget handle, updated in place on every refresh
type Table interface {
	SetData(data TableData)
	Redraw()
}

// Widgets are the four handles a surface creates once per page
type Widgets struct {
	Series         Chart
	TopMeds        Chart
	CriticalStock  Table
	PharmacyBreaks Table
}

type nopChart struct{}

func (nopChart) SetData(ChartData) {}
func (nopChart) Redraw()           {}

type nopTable struct{}

func (nopTable) SetData(TableData) {}
func (nopTable) Redraw()           {}

func (w Widgets) withDefaults() Widgets {
	if w.Series == nil {
		w.Series = nopChart{}
	}
	if w.TopMeds == nil {
		w.TopMeds = nopChart{}
	}
	if w.CriticalStock == nil {
		w.CriticalStock = nopTable{}
	}
	if w.PharmacyBreaks == nil {
		w.PharmacyBreaks = nopTable{}
	}
	return w
}
