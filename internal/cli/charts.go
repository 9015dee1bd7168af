package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pharmacy-dashboard/internal/api"
	"pharmacy-dashboard/internal/dashboard"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as one line of block characters scaled between
// the smallest and largest usable value. Missing values render as a space.
func Sparkline(values []api.Num) string {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if !finite(v) {
			continue
		}
		lo = math.Min(lo, v.Value)
		hi = math.Max(hi, v.Value)
	}

	var b strings.Builder
	for _, v := range values {
		if !finite(v) {
			b.WriteRune(' ')
			continue
		}
		idx := 0
		if hi > lo {
			idx = int(math.Round((v.Value - lo) / (hi - lo) * float64(len(sparkRunes)-1)))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// Bars renders one horizontal bar per label, scaled so the largest value
// fills width cells. Labels are padded to a common width.
func Bars(labels []string, values []api.Num, width int) []string {
	if width < 1 {
		width = 1
	}
	maxVal := 0.0
	labelWidth := 0
	for i, label := range labels {
		labelWidth = max(labelWidth, lipgloss.Width(label))
		if i < len(values) && finite(values[i]) {
			maxVal = math.Max(maxVal, values[i].Value)
		}
	}

	lines := make([]string, 0, len(labels))
	for i, label := range labels {
		var n api.Num
		if i < len(values) {
			n = values[i]
		}
		cells := 0
		if maxVal > 0 && finite(n) && n.Value > 0 {
			cells = int(math.Round(n.Value / maxVal * float64(width)))
		}
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(label))
		lines = append(lines, label+pad+" "+strings.Repeat("█", cells)+" "+dashboard.FormatNumber(n))
	}
	return lines
}

// ChartLines renders a chart widget as text: a sparkline per dataset for
// line charts and a bar per label for bar charts.
func ChartLines(data dashboard.ChartData, width int) []string {
	if data.Kind == dashboard.ChartBar {
		if len(data.Datasets) == 0 {
			return nil
		}
		return Bars(data.Labels, data.Datasets[0].Values, width)
	}

	labelWidth := 0
	for _, ds := range data.Datasets {
		labelWidth = max(labelWidth, lipgloss.Width(ds.Label))
	}
	lines := make([]string, 0, len(data.Datasets)+1)
	for _, ds := range data.Datasets {
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(ds.Label))
		lines = append(lines, ds.Label+pad+" "+Sparkline(ds.Values))
	}
	if n := len(data.Labels); n > 0 {
		lines = append(lines, strings.Repeat(" ", labelWidth+1)+data.Labels[0]+" .. "+data.Labels[n-1])
	}
	return lines
}

func finite(n api.Num) bool {
	return n.Valid && !math.IsNaN(n.Value) && !math.IsInf(n.Value, 0)
}
