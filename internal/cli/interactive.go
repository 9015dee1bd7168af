package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pharmacy-dashboard/internal/dashboard"
	"pharmacy-dashboard/internal/page"
)

// KeyMap represents the key bindings of the interactive dashboard
type KeyMap struct {
	Apply     key.Binding
	Reset     key.Binding
	Logout    key.Binding
	Filters   key.Binding
	NextTable key.Binding
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Toggle    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Apply:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "aplicar")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restablecer")),
		Logout:    key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "salir de la sesión")),
		Filters:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filtros")),
		NextTable: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "cambiar tabla")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "arriba")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "abajo")),
		Left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "anterior")),
		Right:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "siguiente")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("espacio", "marcar")),
		NextField: key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "campo siguiente")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "campo anterior")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "aceptar")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancelar")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "ayuda")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "salir")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "salir")),
	}
}

// eventDoneMsg reports the end of a dispatched dashboard event. Failures
// reach the model through the page alert queue.
type eventDoneMsg struct {
	event dashboard.EventType
}

// DashboardModel is the interactive terminal dashboard. Every key that maps
// to a dashboard event is dispatched to the controller in a command; the
// view is drawn from the page the controller renders into.
type DashboardModel struct {
	ctx  context.Context
	ctrl *dashboard.Controller
	page *page.Page

	keys     KeyMap
	styles   styles
	spinner  spinner.Model
	busy     bool
	showHelp bool
	quitting bool

	username   textinput.Model
	password   textinput.Model
	loginFocus int

	editing bool
	editor  filterEditor

	stock       table.Model
	breaks      table.Model
	focusBreaks bool

	alerts []string
}

// NewDashboardModel creates the interactive model for one controller and
// the page it draws on. Username pre-fills the login form.
func NewDashboardModel(ctx context.Context, ctrl *dashboard.Controller, p *page.Page, username string, useColor bool) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	st := newStyles(useColor)
	s.Style = st.accent

	user := textinput.New()
	user.Placeholder = "usuario"
	user.CharLimit = 64
	user.SetValue(username)

	pass := textinput.New()
	pass.Placeholder = "clave"
	pass.CharLimit = 64
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	m := DashboardModel{
		ctx:      ctx,
		ctrl:     ctrl,
		page:     p,
		keys:     DefaultKeyMap(),
		styles:   st,
		spinner:  s,
		username: user,
		password: pass,
	}
	if username != "" {
		m.loginFocus = 1
	}
	m.focusLogin()
	m.syncTables(p.Snapshot(false))
	return m
}

// Init initializes the model
func (m DashboardModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		// Alerts block every other interaction until dismissed
		if len(m.alerts) > 0 {
			if key.Matches(msg, m.keys.Submit, m.keys.Cancel) {
				m.alerts = m.alerts[1:]
			}
			return m, nil
		}
		if m.busy {
			return m, nil
		}
		if m.page.Snapshot(false).View == dashboard.ViewLogin.String() {
			return m.updateLogin(msg)
		}
		if m.editing {
			return m.updateEditor(msg)
		}
		return m.updateDashboard(msg)

	case eventDoneMsg:
		m.busy = false
		st := m.page.Snapshot(true)
		m.alerts = append(m.alerts, st.Alerts...)
		m.syncTables(st)
		if msg.event == dashboard.EventLogout || st.View == dashboard.ViewLogin.String() {
			m.editing = false
			m.password.SetValue("")
			if msg.event == dashboard.EventLogout {
				m.username.SetValue("")
				m.loginFocus = 0
			}
			m.focusLogin()
		}
		return m, nil

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.stock.SetWidth(msg.Width)
		m.breaks.SetWidth(msg.Width)
		return m, nil
	}

	if m.editing {
		return m, m.editor.update(msg)
	}
	return m.updateLoginInputs(msg)
}

func (m DashboardModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if m.loginFocus == 0 && m.password.Value() == "" {
			m.loginFocus = 1
			return m, m.focusLogin()
		}
		return m.dispatch(dashboard.Event{
			Type:     dashboard.EventLoginSubmit,
			Username: m.username.Value(),
			Password: m.password.Value(),
		})
	case key.Matches(msg, m.keys.NextField, m.keys.PrevField):
		m.loginFocus = 1 - m.loginFocus
		return m, m.focusLogin()
	case key.Matches(msg, m.keys.Cancel):
		m.quitting = true
		return m, tea.Quit
	}
	return m.updateLoginInputs(msg)
}

func (m DashboardModel) updateLoginInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *DashboardModel) focusLogin() tea.Cmd {
	if m.loginFocus == 0 {
		m.password.Blur()
		return m.username.Focus()
	}
	m.username.Blur()
	return m.password.Focus()
}

func (m DashboardModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.editing = false
		m.page.SetFilterForm(m.editor.Values())
		return m.dispatch(dashboard.Event{Type: dashboard.EventApplyFilters})
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		return m, m.editor.next()
	case key.Matches(msg, m.keys.PrevField):
		return m, m.editor.prev()
	case m.editor.input() == nil && key.Matches(msg, m.keys.Left):
		m.editor.cycle(-1)
		return m, nil
	case m.editor.input() == nil && key.Matches(msg, m.keys.Right, m.keys.Toggle):
		m.editor.cycle(1)
		return m, nil
	}
	return m, m.editor.update(msg)
}

func (m DashboardModel) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Apply):
		return m.dispatch(dashboard.Event{Type: dashboard.EventApplyFilters})
	case key.Matches(msg, m.keys.Reset):
		return m.dispatch(dashboard.Event{Type: dashboard.EventResetFilters})
	case key.Matches(msg, m.keys.Logout):
		return m.dispatch(dashboard.Event{Type: dashboard.EventLogout})
	case key.Matches(msg, m.keys.Filters):
		st := m.page.Snapshot(false)
		m.editor = newFilterEditor(st.Form, st.Options)
		m.editing = true
		return m, textinput.Blink
	case key.Matches(msg, m.keys.NextTable):
		m.focusBreaks = !m.focusBreaks
		m.focusTables()
		return m, nil
	case key.Matches(msg, m.keys.Up, m.keys.Down):
		var cmd tea.Cmd
		if m.focusBreaks {
			m.breaks, cmd = m.breaks.Update(msg)
		} else {
			m.stock, cmd = m.stock.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// dispatch runs ev against the controller outside the update loop
func (m DashboardModel) dispatch(ev dashboard.Event) (tea.Model, tea.Cmd) {
	m.busy = true
	ctx, ctrl := m.ctx, m.ctrl
	run := func() tea.Msg {
		_ = ctrl.Dispatch(ctx, ev)
		return eventDoneMsg{event: ev.Type}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m *DashboardModel) syncTables(st page.State) {
	m.stock = newTable(st.Tables.CriticalStock, m.styles)
	m.breaks = newTable(st.Tables.PharmacyBreaks, m.styles)
	m.focusTables()
}

func (m *DashboardModel) focusTables() {
	if m.focusBreaks {
		m.stock.Blur()
		m.breaks.Focus()
		return
	}
	m.breaks.Blur()
	m.stock.Focus()
}

func newTable(data dashboard.TableData, st styles) table.Model {
	columns := make([]table.Column, len(data.Columns))
	for i, c := range data.Columns {
		width := lipgloss.Width(c.Title)
		for _, row := range data.Rows {
			if i < len(row) {
				width = max(width, lipgloss.Width(row[i]))
			}
		}
		columns[i] = table.Column{Title: c.Title, Width: min(max(width, 6), 24)}
	}

	rows := make([]table.Row, len(data.Rows))
	for i, row := range data.Rows {
		rows[i] = table.Row(row)
	}

	height := data.PageSize
	if height <= 0 {
		height = dashboard.TablePageSize
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(height),
	)
	t.SetStyles(st.table)
	return t
}

// View renders the model
func (m DashboardModel) View() string {
	if m.quitting {
		return "¡Hasta luego!\n"
	}

	st := m.page.Snapshot(false)
	if len(m.alerts) > 0 {
		return m.alertView(m.alerts[0])
	}
	if st.View == dashboard.ViewLogin.String() {
		return m.loginView(st)
	}
	return m.dashboardView(st)
}

func (m DashboardModel) alertView(msg string) string {
	body := m.styles.errorText.Render("⚠ "+msg) + "\n\n" + m.styles.muted.Render("enter/esc aceptar")
	return m.styles.dialog.Render(body) + "\n"
}

func (m DashboardModel) loginView(st page.State) string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Tablero de farmacias"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Usuario  %s\n", m.username.View())
	fmt.Fprintf(&b, "Clave    %s\n\n", m.password.View())

	if st.LoginError != "" {
		b.WriteString(m.styles.errorText.Render(st.LoginError))
		b.WriteString("\n")
	}
	if !st.LoginEnabled || m.busy {
		fmt.Fprintf(&b, "%s Ingresando...\n", m.spinner.View())
	}
	b.WriteString(m.styles.muted.Render("enter ingresar • tab cambiar campo • esc salir"))
	return b.String()
}

func (m DashboardModel) dashboardView(st page.State) string {
	var b strings.Builder

	header := m.styles.title.Render("Tablero de farmacias") + "  " + st.UserName + "  " + m.badge(st.Badge)
	if st.Loading || m.busy {
		header += " " + m.spinner.View()
	}
	b.WriteString(header)
	b.WriteString("\n")
	if st.Period != "" {
		fmt.Fprintf(&b, "Período: %s\n", st.Period)
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.kpi("Recetado", st.KPIs.Prescribed),
		m.kpi("Dispensado", st.KPIs.Dispensed),
		m.kpi("Tasa de quiebre", st.KPIs.BreakRate),
		m.kpi("Ítems críticos", st.KPIs.CriticalItems),
	))
	b.WriteString("\n\n")

	if m.editing {
		b.WriteString(m.editor.view(m.styles))
		return b.String()
	}

	b.WriteString(m.styles.heading.Render("Recetado vs dispensado"))
	b.WriteString("\n")
	b.WriteString(strings.Join(ChartLines(st.Charts.Series, chartWidth), "\n"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.heading.Render("Top medicamentos dispensados"))
	b.WriteString("\n")
	b.WriteString(strings.Join(ChartLines(st.Charts.TopMeds, chartWidth), "\n"))
	b.WriteString("\n\n")

	b.WriteString(m.tableView("Stock crítico", m.stock, st.Tables.CriticalStock, !m.focusBreaks))
	b.WriteString(m.tableView("Quiebre por farmacia", m.breaks, st.Tables.PharmacyBreaks, m.focusBreaks))

	if m.showHelp {
		b.WriteString(m.helpView())
	}
	b.WriteString(m.styles.muted.Render("a aplicar • f filtros • r restablecer • l salir de la sesión • tab tabla • ? ayuda • q salir"))
	return b.String()
}

func (m DashboardModel) tableView(title string, t table.Model, data dashboard.TableData, focused bool) string {
	heading := m.styles.heading.Render(title)
	if focused {
		heading = m.styles.accent.Render("▸ ") + heading
	}
	if len(data.Rows) == 0 {
		return heading + "\n" + m.styles.muted.Render("Sin datos") + "\n\n"
	}
	footer := m.styles.muted.Render(fmt.Sprintf("fila %d de %d", t.Cursor()+1, len(data.Rows)))
	return heading + "\n" + t.View() + "\n" + footer + "\n\n"
}

func (m DashboardModel) kpi(label, value string) string {
	return m.styles.card.Render(m.styles.muted.Render(label) + "\n" + m.styles.heading.Render(value))
}

func (m DashboardModel) badge(b page.Badge) string {
	switch b.Kind {
	case dashboard.BadgeError:
		return m.styles.errorText.Render(b.Text)
	case dashboard.BadgeOK:
		return m.styles.okText.Render(b.Text)
	}
	return m.styles.muted.Render(b.Text)
}

func (m DashboardModel) helpView() string {
	bindings := []key.Binding{
		m.keys.Apply, m.keys.Filters, m.keys.Reset, m.keys.Logout,
		m.keys.NextTable, m.keys.Up, m.keys.Down, m.keys.Help, m.keys.Quit,
	}
	var b strings.Builder
	b.WriteString("Ayuda:\n")
	for _, k := range bindings {
		h := k.Help()
		fmt.Fprintf(&b, "  %-10s - %s\n", h.Key, h.Desc)
	}
	return b.String()
}

// styles are the lipgloss styles of the interactive model. Without color
// they keep layout (borders and padding) only.
type styles struct {
	title     lipgloss.Style
	heading   lipgloss.Style
	muted     lipgloss.Style
	accent    lipgloss.Style
	okText    lipgloss.Style
	errorText lipgloss.Style
	card      lipgloss.Style
	dialog    lipgloss.Style
	table     table.Styles
}

func newStyles(useColor bool) styles {
	plain := lipgloss.NewStyle()
	st := styles{
		title:     plain.Bold(true),
		heading:   plain.Bold(true),
		muted:     plain,
		accent:    plain,
		okText:    plain,
		errorText: plain,
		card:      plain.Border(lipgloss.RoundedBorder()).Padding(0, 1).MarginRight(1),
		dialog:    plain.Border(lipgloss.DoubleBorder()).Padding(1, 2),
		table:     table.DefaultStyles(),
	}
	if !useColor {
		st.table.Selected = plain.Reverse(true)
		return st
	}

	st.title = st.title.Foreground(lipgloss.Color("12"))
	st.muted = st.muted.Foreground(lipgloss.Color("8"))
	st.accent = st.accent.Foreground(lipgloss.Color("205"))
	st.okText = st.okText.Foreground(lipgloss.Color("82"))
	st.errorText = st.errorText.Foreground(lipgloss.Color("196"))
	st.card = st.card.BorderForeground(lipgloss.Color("240"))
	st.dialog = st.dialog.BorderForeground(lipgloss.Color("208"))
	st.table.Header = st.table.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	st.table.Selected = st.table.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	return st
}
