package dashboard

import (
	"context"
	"sync"

	"pharmacy-dashboard/internal/api"
)

type fakeRemote struct {
	mu sync.Mutex

	loginResult *api.LoginResult
	loginErr    error
	metadata    *api.Metadata
	metadataErr error
	summary     *api.Summary
	summaryErr  error

	// summaryFn overrides summary/summaryErr when set
	summaryFn func(ctx context.Context, q api.SummaryQuery) (*api.Summary, error)

	loginCalls    int
	metadataCalls int
	summaryCalls  int
	queries       []api.SummaryQuery
}

func (f *fakeRemote) Login(ctx context.Context, username, password string) (*api.LoginResult, error) {
	f.mu.Lock()
	f.loginCalls++
	f.mu.Unlock()
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeRemote) Metadata(ctx context.Context) (*api.Metadata, error) {
	f.mu.Lock()
	f.metadataCalls++
	f.mu.Unlock()
	if f.metadataErr != nil {
		return nil, f.metadataErr
	}
	return f.metadata, nil
}

func (f *fakeRemote) Summary(ctx context.Context, q api.SummaryQuery) (*api.Summary, error) {
	f.mu.Lock()
	f.summaryCalls++
	f.queries = append(f.queries, q)
	fn := f.summaryFn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, q)
	}
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	return f.summary, nil
}

func (f *fakeRemote) SummaryCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summaryCalls
}

type badge struct {
	Text string
	Kind BadgeKind
}

type fakeScreen struct {
	mu sync.Mutex

	view         View
	userName     string
	loginError   string
	loginEnabled bool
	enabledLog   []bool
	loginCleared int
	badge        badge
	loading      bool
	alerts       []string
	options      FilterOptions
	form         FormValues
	kpis         KPIText
	period       string
}

func newFakeScreen() *fakeScreen {
	return &fakeScreen{loginEnabled: true}
}

func (s *fakeScreen) ShowView(v View)         { s.mu.Lock(); s.view = v; s.mu.Unlock() }
func (s *fakeScreen) SetUserName(name string) { s.mu.Lock(); s.userName = name; s.mu.Unlock() }
func (s *fakeScreen) SetLoginError(m string)  { s.mu.Lock(); s.loginError = m; s.mu.Unlock() }
func (s *fakeScreen) ClearLoginForm()         { s.mu.Lock(); s.loginCleared++; s.mu.Unlock() }
func (s *fakeScreen) SetLoading(l bool)       { s.mu.Lock(); s.loading = l; s.mu.Unlock() }
func (s *fakeScreen) Alert(msg string)        { s.mu.Lock(); s.alerts = append(s.alerts, msg); s.mu.Unlock() }
func (s *fakeScreen) SetKPIs(k KPIText)       { s.mu.Lock(); s.kpis = k; s.mu.Unlock() }
func (s *fakeScreen) SetPeriod(label string)  { s.mu.Lock(); s.period = label; s.mu.Unlock() }

func (s *fakeScreen) SetLoginEnabled(enabled bool) {
	s.mu.Lock()
	s.loginEnabled = enabled
	s.enabledLog = append(s.enabledLog, enabled)
	s.mu.Unlock()
}

func (s *fakeScreen) SetBadge(text string, kind BadgeKind) {
	s.mu.Lock()
	s.badge = badge{Text: text, Kind: kind}
	s.mu.Unlock()
}

func (s *fakeScreen) SetFilterOptions(opts FilterOptions) {
	s.mu.Lock()
	s.options = opts
	s.mu.Unlock()
}

func (s *fakeScreen) FilterForm() FormValues {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *fakeScreen) SetFilterForm(values FormValues) {
	s.mu.Lock()
	s.form = values
	s.mu.Unlock()
}

type fakeChart struct {
	data    ChartData
	sets    int
	redraws int
}

func (c *fakeChart) SetData(d ChartData) { c.data = d; c.sets++ }
func (c *fakeChart) Redraw()             { c.redraws++ }

type fakeTable struct {
	data    TableData
	sets    int
	redraws int
}

func (t *fakeTable) SetData(d TableData) { t.data = d; t.sets++ }
func (t *fakeTable) Redraw()             { t.redraws++ }

type harness struct {
	remote *fakeRemote
	screen *fakeScreen
	series *fakeChart
	top    *fakeChart
	stock  *fakeTable
	breaks *fakeTable
	ctrl   *Controller
}

func newHarness(remote *fakeRemote) *harness {
	h := &harness{
		remote: remote,
		screen: newFakeScreen(),
		series: &fakeChart{},
		top:    &fakeChart{},
		stock:  &fakeTable{},
		breaks: &fakeTable{},
	}
	h.ctrl = New(remote, h.screen, Widgets{
		Series:         h.series,
		TopMeds:        h.top,
		CriticalStock:  h.stock,
		PharmacyBreaks: h.breaks,
	}, Config{DefaultThreshold: 7})
	return h
}

func okLogin() *api.LoginResult {
	return &api.LoginResult{OK: true, Username: "ana", Name: "Ana Benítez", Role: "admin"}
}

func sampleSummary() *api.Summary {
	return &api.Summary{
		Dates: &api.DateBounds{Min: "2024-01-01", Max: "2024-01-31"},
		KPIs: &api.KPIs{
			TotalPrescribed: api.NewNum(1234567),
			TotalDispensed:  api.NewNum(1000000),
			BreakRate:       api.NewNum(0.256),
			CriticalItems:   api.NewNum(12),
		},
		Series: &api.Series{
			Dates:      []string{"2024-01-01", "2024-01-02"},
			Prescribed: []api.Num{api.NewNum(10), api.NewNum(12)},
			Dispensed:  []api.Num{api.NewNum(9), api.NewNum(12)},
		},
		TopMeds: []api.TopMedication{{Medication: "Paracetamol", Dispensed: api.NewNum(500)}},
		CriticalStock: []api.CriticalStockRow{
			{Pharmacy: "F01", Medication: "Insulina", LastStock: api.NewNum(10), DailyUsage: api.NewNum(2), CoverageDays: api.NewNum(5), RequiredRestock: api.NewNum(4)},
			{Pharmacy: "F02", Medication: "Enalapril", LastStock: api.NewNum(3), DailyUsage: api.NewNum(3), CoverageDays: api.NewNum(1), RequiredRestock: api.NewNum(18)},
		},
		PharmacyBreaks: []api.PharmacyBreakRow{
			{Pharmacy: "F01", BreakRate: api.NewNum(0.1), FillRate: api.NewNum(0.9)},
			{Pharmacy: "F02", BreakRate: api.NewNum(0.4), FillRate: api.NewNum(0.6)},
		},
	}
}
