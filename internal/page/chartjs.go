package page

import (
	"encoding/json"

	"pharmacy-dashboard/internal/api"
	"pharmacy-dashboard/internal/dashboard"
)

const (
	tickColor   = "#9ca3af"
	gridColor   = "rgba(31,41,55,0.5)"
	legendColor = "#e5e7eb"
)

type palette struct {
	border     string
	background string
}

var linePalette = []palette{
	{"rgba(248, 250, 252, 0.8)", "rgba(248, 250, 252, 0.1)"},
	{"rgba(56, 189, 248, 0.9)", "rgba(56, 189, 248, 0.15)"},
}

var barPalette = []palette{
	{"", "rgba(34, 197, 94, 0.7)"},
}

// ChartConfig is a Chart.js configuration object
type ChartConfig struct {
	Type    string       `json:"type"`
	Data    chartBody    `json:"data"`
	Options chartOptions `json:"options"`
}

type chartBody struct {
	Labels   []string       `json:"labels"`
	Datasets []chartDataset `json:"datasets"`
}

type chartDataset struct {
	Label           string    `json:"label"`
	Data            []api.Num `json:"data"`
	BorderColor     string    `json:"borderColor,omitempty"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	Tension         float64   `json:"tension,omitempty"`
	BorderRadius    int       `json:"borderRadius,omitempty"`
	Fill            bool      `json:"fill"`
}

type chartOptions struct {
	IndexAxis           string                `json:"indexAxis,omitempty"`
	Responsive          bool                  `json:"responsive"`
	MaintainAspectRatio bool                  `json:"maintainAspectRatio"`
	Scales              map[string]chartScale `json:"scales"`
	Plugins             chartPlugins          `json:"plugins"`
}

type chartScale struct {
	Ticks chartTicks `json:"ticks"`
	Grid  chartGrid  `json:"grid"`
}

type chartTicks struct {
	Color         string `json:"color"`
	MaxTicksLimit int    `json:"maxTicksLimit,omitempty"`
}

type chartGrid struct {
	Color   string `json:"color,omitempty"`
	Display *bool  `json:"display,omitempty"`
}

type chartPlugins struct {
	Legend chartLegend `json:"legend"`
}

type chartLegend struct {
	Display bool              `json:"display"`
	Labels  map[string]string `json:"labels,omitempty"`
}

// NewChartConfig converts widget data into a Chart.js configuration.
// Missing values are emitted as null so Chart.js leaves a gap.
func NewChartConfig(data dashboard.ChartData) ChartConfig {
	kind := data.Kind
	if kind == "" {
		kind = dashboard.ChartLine
	}

	colors := linePalette
	if kind == dashboard.ChartBar {
		colors = barPalette
	}

	labels := data.Labels
	if labels == nil {
		labels = []string{}
	}

	cfg := ChartConfig{
		Type: string(kind),
		Data: chartBody{Labels: labels, Datasets: make([]chartDataset, 0, len(data.Datasets))},
		Options: chartOptions{
			Responsive: true,
			Scales: map[string]chartScale{
				"x": {Ticks: chartTicks{Color: tickColor}, Grid: chartGrid{Color: gridColor}},
				"y": {Ticks: chartTicks{Color: tickColor}, Grid: chartGrid{Color: gridColor}},
			},
			Plugins: chartPlugins{Legend: chartLegend{Display: data.ShowLegend}},
		},
	}

	for i, ds := range data.Datasets {
		values := ds.Values
		if values == nil {
			values = []api.Num{}
		}
		p := colors[i%len(colors)]
		out := chartDataset{
			Label:           ds.Label,
			Data:            values,
			BorderColor:     p.border,
			BackgroundColor: p.background,
			Fill:            ds.Fill,
		}
		if kind == dashboard.ChartLine {
			out.Tension = 0.25
		} else {
			out.BorderRadius = 6
		}
		cfg.Data.Datasets = append(cfg.Data.Datasets, out)
	}

	if data.Horizontal {
		hidden := false
		cfg.Options.IndexAxis = "y"
		cfg.Options.Scales["y"] = chartScale{Ticks: chartTicks{Color: tickColor}, Grid: chartGrid{Display: &hidden}}
	} else {
		x := cfg.Options.Scales["x"]
		x.Ticks.MaxTicksLimit = 8
		cfg.Options.Scales["x"] = x
	}
	if data.ShowLegend {
		cfg.Options.Plugins.Legend.Labels = map[string]string{"color": legendColor}
	}

	return cfg
}

// JSON encodes the configuration for a data attribute
func (c ChartConfig) JSON() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
