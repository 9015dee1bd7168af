package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pharmacy-dashboard/internal/dashboard"
)

const (
	fieldDateFrom = iota
	fieldDateTo
	fieldPharmacy
	fieldMedication
	fieldEssential
	fieldThreshold
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Desde",
	"Hasta",
	"Farmacia",
	"Medicamento",
	"Solo esenciales",
	"Umbral crítico (días)",
}

// filterEditor edits the six filter controls. Text fields use text inputs,
// the selectors cycle through their options and the flag toggles.
type filterEditor struct {
	from      textinput.Model
	to        textinput.Model
	threshold textinput.Model

	pharmacies  []dashboard.Option
	medications []dashboard.Option
	pharmacy    int
	medication  int
	essential   bool

	focus int
}

func newFilterEditor(form dashboard.FormValues, opts dashboard.FilterOptions) filterEditor {
	e := filterEditor{
		from:        newInput("AAAA-MM-DD", form.DateFrom),
		to:          newInput("AAAA-MM-DD", form.DateTo),
		threshold:   newInput("7", form.CriticalThreshold),
		pharmacies:  opts.Pharmacies,
		medications: opts.Medications,
		pharmacy:    optionIndex(opts.Pharmacies, form.Pharmacy),
		medication:  optionIndex(opts.Medications, form.Medication),
		essential:   form.EssentialOnly,
	}
	e.focusField(fieldDateFrom)
	return e
}

func newInput(placeholder, value string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 32
	in.Width = 20
	in.SetValue(value)
	return in
}

func optionIndex(opts []dashboard.Option, value string) int {
	for i, o := range opts {
		if o.Value == value {
			return i
		}
	}
	return 0
}

// Values returns the controls as form values
func (e filterEditor) Values() dashboard.FormValues {
	return dashboard.FormValues{
		DateFrom:          e.from.Value(),
		DateTo:            e.to.Value(),
		Pharmacy:          optionValue(e.pharmacies, e.pharmacy),
		Medication:        optionValue(e.medications, e.medication),
		EssentialOnly:     e.essential,
		CriticalThreshold: e.threshold.Value(),
	}
}

func optionValue(opts []dashboard.Option, i int) string {
	if i < 0 || i >= len(opts) {
		return ""
	}
	return opts[i].Value
}

func (e *filterEditor) focusField(i int) tea.Cmd {
	e.focus = (i + fieldCount) % fieldCount
	e.from.Blur()
	e.to.Blur()
	e.threshold.Blur()
	if in := e.input(); in != nil {
		return in.Focus()
	}
	return nil
}

// input returns the text input of the focused field, if it has one
func (e *filterEditor) input() *textinput.Model {
	switch e.focus {
	case fieldDateFrom:
		return &e.from
	case fieldDateTo:
		return &e.to
	case fieldThreshold:
		return &e.threshold
	}
	return nil
}

func (e *filterEditor) next() tea.Cmd { return e.focusField(e.focus + 1) }
func (e *filterEditor) prev() tea.Cmd { return e.focusField(e.focus - 1) }

// cycle moves the focused selector by delta options, wrapping around
func (e *filterEditor) cycle(delta int) {
	switch e.focus {
	case fieldPharmacy:
		e.pharmacy = wrap(e.pharmacy+delta, len(e.pharmacies))
	case fieldMedication:
		e.medication = wrap(e.medication+delta, len(e.medications))
	case fieldEssential:
		e.essential = !e.essential
	}
}

func wrap(i, n int) int {
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

func (e *filterEditor) update(msg tea.Msg) tea.Cmd {
	in := e.input()
	if in == nil {
		return nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return cmd
}

func (e filterEditor) view(st styles) string {
	var b strings.Builder
	b.WriteString(st.heading.Render("Filtros"))
	b.WriteString("\n")
	for i := 0; i < fieldCount; i++ {
		cursor := "  "
		if i == e.focus {
			cursor = st.accent.Render("> ")
		}
		var value string
		switch i {
		case fieldDateFrom:
			value = e.from.View()
		case fieldDateTo:
			value = e.to.View()
		case fieldThreshold:
			value = e.threshold.View()
		case fieldPharmacy:
			value = "◂ " + optionLabel(e.pharmacies, e.pharmacy) + " ▸"
		case fieldMedication:
			value = "◂ " + optionLabel(e.medications, e.medication) + " ▸"
		case fieldEssential:
			value = "[ ]"
			if e.essential {
				value = "[x]"
			}
		}
		fmt.Fprintf(&b, "%s%-22s %s\n", cursor, fieldLabels[i], value)
	}
	b.WriteString(st.muted.Render("tab/↑↓ campo • ←/→ opción • espacio marcar • enter aplicar • esc cancelar"))
	return b.String()
}

func optionLabel(opts []dashboard.Option, i int) string {
	if i < 0 || i >= len(opts) {
		return dashboard.Missing
	}
	return opts[i].Label
}
