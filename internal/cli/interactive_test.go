package cli

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy-dashboard/internal/dashboard"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	rightKey = tea.KeyMsg{Type: tea.KeyRight}
	spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

// collect runs cmd and every command it batches, returning their messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func press(t *testing.T, m DashboardModel, msgs ...tea.Msg) DashboardModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(DashboardModel)
	}
	return m
}

// dispatchKey sends msg and feeds the resulting event completion back in
func dispatchKey(t *testing.T, m DashboardModel, msg tea.Msg) DashboardModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(DashboardModel)
	require.True(t, m.busy, "key did not dispatch an event")

	var done bool
	for _, out := range collect(cmd) {
		if ev, ok := out.(eventDoneMsg); ok {
			next, _ = m.Update(ev)
			m = next.(DashboardModel)
			done = true
		}
	}
	require.True(t, done)
	return m
}

func loggedInModel(t *testing.T, remote *fakeRemote) (DashboardModel, *Session) {
	t.Helper()
	s := newTestSession(remote)
	m := NewDashboardModel(context.Background(), s.Controller, s.Page, "", false)
	m = press(t, m, runes("ana"), tabKey, runes("secreto"))
	m = dispatchKey(t, m, enterKey)
	require.Equal(t, "dashboard", s.Page.Snapshot(false).View)
	return m, s
}

func TestDashboardModel_Login(t *testing.T) {
	remote := &fakeRemote{}
	m, s := loggedInModel(t, remote)

	view := m.View()
	assert.Contains(t, view, "Ana Benítez")
	assert.Contains(t, view, "Datos actualizados")
	assert.Contains(t, view, "1.234.567")
	assert.Contains(t, view, "Insulina")
	assert.Equal(t, 1, remote.summaryCalls())
	assert.Equal(t, "", m.password.Value())
	assert.Empty(t, s.Page.Snapshot(false).Alerts)
}

func TestDashboardModel_LoginRejected(t *testing.T) {
	s := newTestSession(&fakeRemote{})
	m := NewDashboardModel(context.Background(), s.Controller, s.Page, "ana", false)
	m = press(t, m, runes("mala"))

	m = dispatchKey(t, m, enterKey)

	assert.Contains(t, m.View(), "Credenciales inválidas")
	assert.Equal(t, "ana", m.username.Value())
	assert.Equal(t, "", m.password.Value())
}

func TestDashboardModel_EnterOnUsernameMovesToPassword(t *testing.T) {
	s := newTestSession(&fakeRemote{})
	m := NewDashboardModel(context.Background(), s.Controller, s.Page, "", false)

	m = press(t, m, runes("ana"), enterKey)

	assert.False(t, m.busy)
	assert.Equal(t, 1, m.loginFocus)
}

func TestDashboardModel_TypingQOnLoginDoesNotQuit(t *testing.T) {
	s := newTestSession(&fakeRemote{})
	m := NewDashboardModel(context.Background(), s.Controller, s.Page, "", false)

	m = press(t, m, runes("q"))

	assert.False(t, m.quitting)
	assert.Equal(t, "q", m.username.Value())
}

func TestDashboardModel_RefreshFailureBlocksUntilDismissed(t *testing.T) {
	remote := &fakeRemote{}
	m, _ := loggedInModel(t, remote)
	remote.mu.Lock()
	remote.summaryErr = errUpstream
	remote.mu.Unlock()

	m = dispatchKey(t, m, runes("a"))
	require.Len(t, m.alerts, 1)
	assert.Contains(t, m.View(), "Error al actualizar tablero: upstream unavailable")

	// other keys are swallowed while the alert is open
	next, cmd := m.Update(runes("r"))
	m = next.(DashboardModel)
	assert.Nil(t, cmd)
	assert.Equal(t, 2, remote.summaryCalls())

	m = press(t, m, enterKey)
	assert.Empty(t, m.alerts)
	assert.Contains(t, m.View(), "Error al actualizar")
	assert.Contains(t, m.View(), "1.234.567", "failed refresh keeps the last drawn data")
}

func TestDashboardModel_FilterEditorApplies(t *testing.T) {
	remote := &fakeRemote{}
	m, _ := loggedInModel(t, remote)

	m = press(t, m, runes("f"))
	require.True(t, m.editing)
	// desde, hasta, farmacia F01, medicamento, solo esenciales
	m = press(t, m, runes("2024-01-05"), tabKey, tabKey, rightKey, tabKey, tabKey, spaceKey)
	m = dispatchKey(t, m, enterKey)

	assert.False(t, m.editing)
	q := remote.lastQuery()
	assert.Equal(t, "2024-01-05", q.DateFrom)
	assert.Equal(t, "F01", q.Pharmacy)
	assert.Equal(t, "", q.Medication)
	assert.True(t, q.EssentialOnly)
	assert.Equal(t, 7.0, q.CriticalThreshold)
}

func TestDashboardModel_FilterEditorCancel(t *testing.T) {
	remote := &fakeRemote{}
	m, _ := loggedInModel(t, remote)

	m = press(t, m, runes("f"), runes("2024"), escKey)

	assert.False(t, m.editing)
	assert.False(t, m.busy)
	assert.Equal(t, 1, remote.summaryCalls())
}

func TestDashboardModel_Reset(t *testing.T) {
	remote := &fakeRemote{}
	m, s := loggedInModel(t, remote)
	s.Page.SetFilterForm(dashboard.FormValues{Pharmacy: "F02", CriticalThreshold: "3"})

	m = dispatchKey(t, m, runes("r"))

	q := remote.lastQuery()
	assert.Equal(t, "", q.Pharmacy)
	assert.Equal(t, 7.0, q.CriticalThreshold)
	assert.Equal(t, "7", s.Page.FilterForm().CriticalThreshold)
}

func TestDashboardModel_Logout(t *testing.T) {
	m, s := loggedInModel(t, &fakeRemote{})

	m = dispatchKey(t, m, runes("l"))

	assert.Equal(t, "login", s.Page.Snapshot(false).View)
	assert.Equal(t, "", m.username.Value())
	assert.Contains(t, m.View(), "Usuario")
}

func TestDashboardModel_SwitchTables(t *testing.T) {
	m, _ := loggedInModel(t, &fakeRemote{})

	m = press(t, m, tabKey)

	assert.True(t, m.focusBreaks)
	assert.True(t, m.breaks.Focused())
	assert.False(t, m.stock.Focused())
}

func TestDashboardModel_Quit(t *testing.T) {
	m, _ := loggedInModel(t, &fakeRemote{})

	next, cmd := m.Update(runes("q"))
	m = next.(DashboardModel)

	assert.True(t, m.quitting)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
