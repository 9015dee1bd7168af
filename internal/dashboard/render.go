package dashboard

import (
	"sort"

	"pharmacy-dashboard/internal/api"
)

// TablePageSize is the number of rows each table shows per page
const TablePageSize = 8

// KPITexts renders the headline indicators. Missing indicators count as zero.
func KPITexts(k *api.KPIs) KPIText {
	if k == nil {
		k = &api.KPIs{}
	}
	zero := func(n api.Num) api.Num { return api.NewNum(n.Or(0)) }
	return KPIText{
		Prescribed:    FormatNumber(zero(k.TotalPrescribed)),
		Dispensed:     FormatNumber(zero(k.TotalDispensed)),
		BreakRate:     FormatPct(zero(k.BreakRate)),
		CriticalItems: FormatNumber(zero(k.CriticalItems)),
	}
}

// PeriodLabel renders the covered period. ok is false when the response
// carries no dates and the current label should be kept.
func PeriodLabel(d *api.DateBounds) (label string, ok bool) {
	if d == nil {
		return "", false
	}
	from, to := d.Min, d.Max
	if from == "" {
		from = "?"
	}
	if to == "" {
		to = "?"
	}
	return from + " a " + to, true
}

// SeriesChart builds the prescribed vs dispensed line chart
func SeriesChart(s *api.Series) ChartData {
	data := ChartData{
		Kind:       ChartLine,
		ShowLegend: true,
		Labels:     []string{},
		Datasets: []Dataset{
			{Label: "Recetado", Values: []api.Num{}},
			{Label: "Dispensado", Values: []api.Num{}, Fill: true},
		},
	}
	if s == nil {
		return data
	}
	if s.Dates != nil {
		data.Labels = s.Dates
	}
	if s.Prescribed != nil {
		data.Datasets[0].Values = s.Prescribed
	}
	if s.Dispensed != nil {
		data.Datasets[1].Values = s.Dispensed
	}
	return data
}

// TopMedsChart builds the horizontal bar chart of most dispensed medications
func TopMedsChart(meds []api.TopMedication) ChartData {
	labels := make([]string, 0, len(meds))
	values := make([]api.Num, 0, len(meds))
	for _, m := range meds {
		labels = append(labels, m.Medication.String())
		values = append(values, m.Dispensed)
	}
	return ChartData{
		Kind:       ChartBar,
		Horizontal: true,
		Labels:     labels,
		Datasets:   []Dataset{{Label: "Unidades dispensadas", Values: values}},
	}
}

var criticalStockColumns = []Column{
	{Title: "Farmacia"},
	{Title: "Medicamento"},
	{Title: "Stock", Numeric: true},
	{Title: "Consumo diario", Numeric: true},
	{Title: "Días cobertura", Numeric: true},
	{Title: "Reposición requerida", Numeric: true},
}

// CriticalStockTable formats the critical stock rows, fewest coverage days first
func CriticalStockTable(rows []api.CriticalStockRow) TableData {
	sorted := make([]api.CriticalStockRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return lessNum(sorted[i].CoverageDays, sorted[j].CoverageDays, false)
	})

	out := make([][]string, 0, len(sorted))
	for _, r := range sorted {
		out = append(out, []string{
			r.Pharmacy.String(),
			r.Medication.String(),
			FormatNumber(r.LastStock),
			FormatFixed(r.DailyUsage, 2),
			FormatFixed(r.CoverageDays, 1),
			FormatNumber(r.RequiredRestock),
		})
	}
	return TableData{Columns: criticalStockColumns, Rows: out, PageSize: TablePageSize}
}

var pharmacyBreakColumns = []Column{
	{Title: "Farmacia"},
	{Title: "Días observados", Numeric: true},
	{Title: "Recetado", Numeric: true},
	{Title: "Dispensado", Numeric: true},
	{Title: "Quiebres", Numeric: true},
	{Title: "Tasa quiebre", Numeric: true},
	{Title: "Fill rate", Numeric: true},
}

// PharmacyBreaksTable formats the per-pharmacy stockout rows, highest rate first
func PharmacyBreaksTable(rows []api.PharmacyBreakRow) TableData {
	sorted := make([]api.PharmacyBreakRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return lessNum(sorted[i].BreakRate, sorted[j].BreakRate, true)
	})

	out := make([][]string, 0, len(sorted))
	for _, r := range sorted {
		out = append(out, []string{
			r.Pharmacy.String(),
			FormatNumber(r.ObservedDays),
			FormatNumber(r.Prescribed),
			FormatNumber(r.Dispensed),
			FormatNumber(r.Breaks),
			FormatPct(r.BreakRate),
			FormatPct(r.FillRate),
		})
	}
	return TableData{Columns: pharmacyBreakColumns, Rows: out, PageSize: TablePageSize}
}

// lessNum orders numbers ascending (or descending) with missing values last
func lessNum(a, b api.Num, desc bool) bool {
	switch {
	case !usable(a):
		return false
	case !usable(b):
		return true
	case desc:
		return a.Value > b.Value
	default:
		return a.Value < b.Value
	}
}

// BuildFilterOptions turns metadata lookups into selector options
func BuildFilterOptions(meta *api.Metadata) FilterOptions {
	opts := FilterOptions{
		Pharmacies:  []Option{{Value: "", Label: "Todas"}},
		Medications: []Option{{Value: "", Label: "Todos"}},
	}
	if meta == nil {
		return opts
	}
	for _, f := range meta.Pharmacies {
		opts.Pharmacies = append(opts.Pharmacies, lookupOption(f))
	}
	for _, m := range meta.Medications {
		opts.Medications = append(opts.Medications, lookupOption(m))
	}
	return opts
}

func lookupOption(l api.Lookup) Option {
	return Option{Value: l.Code.String(), Label: l.Code.String() + " - " + l.Name.String()}
}
