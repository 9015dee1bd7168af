package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"pharmacy-dashboard/internal/api"
	"pharmacy-dashboard/internal/dashboard"
	"pharmacy-dashboard/internal/page"
)

const chartWidth = 40

// OutputFormatter handles different output formats
type OutputFormatter struct {
	format   string
	quiet    bool
	useColor bool
	out      io.Writer
	errOut   io.Writer
}

// NewOutputFormatter creates a formatter writing to out and errOut. Colors
// are used only when out is a terminal and noColor is unset.
func NewOutputFormatter(format string, quiet, noColor bool, out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{
		format:   format,
		quiet:    quiet,
		useColor: !noColor && IsTerminal(out),
		out:      out,
		errOut:   errOut,
	}
}

// IsTerminal reports whether w is a terminal file
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// PrintSession prints the signed-in user
func (f *OutputFormatter) PrintSession(s dashboard.Session) error {
	if f.quiet {
		fmt.Fprintln(f.out, s.Username)
		return nil
	}

	switch f.format {
	case "json":
		return f.encode(s)
	case "table":
		w := tabwriter.NewWriter(f.out, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Usuario:\t%s\n", s.Username)
		fmt.Fprintf(w, "Nombre:\t%s\n", s.Label())
		fmt.Fprintf(w, "Rol:\t%s\n", s.Role)
		return w.Flush()
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintMetadata prints the pharmacy and medication lookups and the date bounds
func (f *OutputFormatter) PrintMetadata(meta *api.Metadata) error {
	opts := dashboard.BuildFilterOptions(meta)
	if f.quiet {
		for _, o := range opts.Pharmacies[1:] {
			fmt.Fprintln(f.out, o.Value)
		}
		return nil
	}

	switch f.format {
	case "json":
		return f.encode(meta)
	case "table":
		return f.printMetadataTable(meta, opts)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

func (f *OutputFormatter) printMetadataTable(meta *api.Metadata, opts dashboard.FilterOptions) error {
	if meta != nil && meta.Dates != nil {
		label, _ := dashboard.PeriodLabel(meta.Dates)
		fmt.Fprintf(f.out, "%s %s\n\n", f.heading("Datos disponibles:"), label)
	}

	w := tabwriter.NewWriter(f.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FARMACIA\tNOMBRE")
	for _, o := range opts.Pharmacies[1:] {
		fmt.Fprintf(w, "%s\t%s\n", o.Value, truncate(optionName(o), 40))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(f.out)

	w = tabwriter.NewWriter(f.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEDICAMENTO\tNOMBRE")
	for _, o := range opts.Medications[1:] {
		fmt.Fprintf(w, "%s\t%s\n", o.Value, truncate(optionName(o), 40))
	}
	return w.Flush()
}

// PrintState prints a rendered dashboard: KPIs, period, both charts and
// both tables.
func (f *OutputFormatter) PrintState(st page.State) error {
	if f.quiet {
		fmt.Fprintf(f.out, "%s\t%s\t%s\t%s\n", st.KPIs.Prescribed, st.KPIs.Dispensed, st.KPIs.BreakRate, st.KPIs.CriticalItems)
		return nil
	}

	switch f.format {
	case "json":
		return f.encode(st)
	case "table":
		return f.printStateTable(st)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

func (f *OutputFormatter) printStateTable(st page.State) error {
	if st.Period != "" {
		fmt.Fprintf(f.out, "Período: %s\n\n", st.Period)
	}

	w := tabwriter.NewWriter(f.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RECETADO\tDISPENSADO\tTASA DE QUIEBRE\tÍTEMS CRÍTICOS")
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", st.KPIs.Prescribed, st.KPIs.Dispensed, st.KPIs.BreakRate, st.KPIs.CriticalItems)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(f.out, "\n%s\n", f.heading("Recetado vs dispensado"))
	for _, line := range ChartLines(st.Charts.Series, chartWidth) {
		fmt.Fprintln(f.out, line)
	}
	fmt.Fprintf(f.out, "\n%s\n", f.heading("Top medicamentos dispensados"))
	for _, line := range ChartLines(st.Charts.TopMeds, chartWidth) {
		fmt.Fprintln(f.out, line)
	}

	fmt.Fprintf(f.out, "\n%s\n", f.heading("Stock crítico"))
	if err := f.printTable(st.Tables.CriticalStock); err != nil {
		return err
	}
	fmt.Fprintf(f.out, "\n%s\n", f.heading("Quiebre por farmacia"))
	return f.printTable(st.Tables.PharmacyBreaks)
}

// printTable prints every row of a table widget; paging is left to the pager
func (f *OutputFormatter) printTable(t dashboard.TableData) error {
	if len(t.Rows) == 0 {
		fmt.Fprintln(f.out, "Sin datos")
		return nil
	}

	w := tabwriter.NewWriter(f.out, 0, 0, 2, ' ', 0)
	titles := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		titles[i] = strings.ToUpper(c.Title)
	}
	fmt.Fprintln(w, strings.Join(titles, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = truncate(cell, 30)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	return w.Flush()
}

// PrintSuccess prints a success message
func (f *OutputFormatter) PrintSuccess(message string) {
	if !f.quiet {
		fmt.Fprintln(f.out, f.colored("82", "✓ "+message))
	}
}

// PrintError prints an error message
func (f *OutputFormatter) PrintError(err error) {
	if !f.quiet {
		fmt.Fprintln(f.errOut, f.colored("196", "✗ Error: "+err.Error()))
	}
}

// PrintInfo prints an informational message
func (f *OutputFormatter) PrintInfo(message string) {
	if !f.quiet {
		fmt.Fprintln(f.out, f.colored("12", "ℹ "+message))
	}
}

// PrintAlerts prints queued dashboard alerts to stderr
func (f *OutputFormatter) PrintAlerts(alerts []string) {
	for _, a := range alerts {
		fmt.Fprintln(f.errOut, f.colored("208", "! "+a))
	}
}

func (f *OutputFormatter) encode(v interface{}) error {
	enc := json.NewEncoder(f.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (f *OutputFormatter) heading(s string) string {
	if !f.useColor {
		return s
	}
	return lipgloss.NewStyle().Bold(true).Render(s)
}

func (f *OutputFormatter) colored(color, s string) string {
	if !f.useColor {
		return s
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(s)
}

// optionName strips the "code - " prefix from an option label
func optionName(o dashboard.Option) string {
	return strings.TrimPrefix(o.Label, o.Value+" - ")
}

// truncate truncates a string to maxLen runes
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
