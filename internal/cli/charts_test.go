package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy-dashboard/internal/api"
	"pharmacy-dashboard/internal/dashboard"
)

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []api.Num
		want   string
	}{
		{"scaled", []api.Num{api.NewNum(10), api.NewNum(20), api.NewNum(30)}, "▁▅█"},
		{"flat", []api.Num{api.NewNum(4), api.NewNum(4)}, "▁▁"},
		{"missing value", []api.Num{api.NewNum(1), {}, api.NewNum(2)}, "▁ █"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sparkline(tt.values))
		})
	}
}

func TestBars(t *testing.T) {
	lines := Bars([]string{"A", "BB", "C"}, []api.Num{api.NewNum(10), api.NewNum(5), {}}, 4)

	require.Len(t, lines, 3)
	assert.Equal(t, "A  ████ 10", lines[0])
	assert.Equal(t, "BB ██ 5", lines[1])
	assert.Equal(t, "C   -", lines[2])
}

func TestChartLines_Line(t *testing.T) {
	data := dashboard.SeriesChart(&api.Series{
		Dates:      []string{"2024-01-01", "2024-01-02"},
		Prescribed: []api.Num{api.NewNum(1), api.NewNum(2)},
		Dispensed:  []api.Num{api.NewNum(2), api.NewNum(1)},
	})

	lines := ChartLines(data, 10)

	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Recetado")
	assert.Contains(t, lines[0], "▁█")
	assert.Contains(t, lines[1], "█▁")
	assert.Contains(t, lines[2], "2024-01-01 .. 2024-01-02")
}

func TestChartLines_BarWithoutDatasets(t *testing.T) {
	assert.Empty(t, ChartLines(dashboard.ChartData{Kind: dashboard.ChartBar}, 10))
}
