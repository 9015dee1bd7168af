package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Num is a numeric field as it comes out of a spreadsheet cell: a JSON
// number, a numeric string, an empty string or null.
type Num struct {
	Value float64
	Valid bool
}

// NewNum returns a valid Num holding v.
func NewNum(v float64) Num {
	return Num{Value: v, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Num) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = Num{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = Num{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// Non-numeric cell text is treated as missing.
			*n = Num{}
			return nil
		}
		*n = NewNum(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid numeric value %s: %w", string(data), err)
	}
	*n = NewNum(v)
	return nil
}

// MarshalJSON implements json.Marshaler
func (n Num) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Or returns the value, or def when the field is missing.
func (n Num) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Value
}

// Text is a label field that may arrive as a string or a number
// (pharmacy codes are frequently numeric cells).
type Text string

// UnmarshalJSON implements json.Unmarshaler
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("invalid text value %s: %w", string(data), err)
	}
	*t = Text(num.String())
	return nil
}

// String returns the label as a plain string
func (t Text) String() string {
	return string(t)
}

// LoginResult is the body returned by action=login
type LoginResult struct {
	OK       bool   `json:"ok"`
	Username Text   `json:"usuario"`
	Name     Text   `json:"nombre"`
	Role     Text   `json:"rol"`
	Message  string `json:"message,omitempty"`
}

// DateBounds is the first and last date covered by the data, as ISO dates.
type DateBounds struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// Lookup is a code/name pair used to populate a filter selector
type Lookup struct {
	Code Text `json:"codigo"`
	Name Text `json:"nombre"`
}

// Metadata is the body returned by action=metadata
type Metadata struct {
	Dates       *DateBounds `json:"fechas"`
	Pharmacies  []Lookup    `json:"farmacias"`
	Medications []Lookup    `json:"medicamentos"`
}

// KPIs are the headline indicators of a summary
type KPIs struct {
	TotalPrescribed Num `json:"total_recetado"`
	TotalDispensed  Num `json:"total_dispensado"`
	BreakRate       Num `json:"tasa_quiebre"`
	CriticalItems   Num `json:"items_criticos"`
}

// Series is the daily prescribed/dispensed time series
type Series struct {
	Dates      []string `json:"fechas"`
	Prescribed []Num    `json:"recetado"`
	Dispensed  []Num    `json:"dispensado"`
}

// TopMedication is one bar of the most dispensed medications chart
type TopMedication struct {
	Medication Text `json:"medicamento"`
	Dispensed  Num  `json:"dispensado"`
}

// CriticalStockRow is one row of the critical stock table
type CriticalStockRow struct {
	Pharmacy        Text `json:"farmacia"`
	Medication      Text `json:"medicamento"`
	LastStock       Num  `json:"stock_ult"`
	DailyUsage      Num  `json:"consumo_diario"`
	CoverageDays    Num  `json:"dias_cobertura"`
	RequiredRestock Num  `json:"reposicion_requerida"`
}

// PharmacyBreakRow is one row of the stockouts-by-pharmacy table
type PharmacyBreakRow struct {
	Pharmacy     Text `json:"farmacia"`
	ObservedDays Num  `json:"dias_observados"`
	Prescribed   Num  `json:"recetado"`
	Dispensed    Num  `json:"dispensado"`
	Breaks       Num  `json:"quiebres"`
	BreakRate    Num  `json:"tasa_quiebre"`
	FillRate     Num  `json:"fill_rate_global"`
}

// Summary is the body returned by action=summary
type Summary struct {
	Dates          *DateBounds        `json:"fechas"`
	KPIs           *KPIs              `json:"kpis"`
	Series         *Series            `json:"series"`
	TopMeds        []TopMedication    `json:"top_meds"`
	CriticalStock  []CriticalStockRow `json:"stock_critico"`
	PharmacyBreaks []PharmacyBreakRow `json:"quiebres_farmacia"`
}

// SummaryQuery holds the filter parameters of a summary request
type SummaryQuery struct {
	DateFrom          string
	DateTo            string
	Pharmacy          string
	Medication        string
	EssentialOnly     bool
	CriticalThreshold float64
}

// Params converts the query into action parameters
func (q SummaryQuery) Params() map[string]string {
	essential := "0"
	if q.EssentialOnly {
		essential = "1"
	}

	params := map[string]string{
		"fechaDesde":     q.DateFrom,
		"fechaHasta":     q.DateTo,
		"farmacia":       q.Pharmacy,
		"medicamento":    q.Medication,
		"soloEsenciales": essential,
	}
	if q.CriticalThreshold > 0 {
		params["umbralCritico"] = strconv.FormatFloat(q.CriticalThreshold, 'f', -1, 64)
	}
	return params
}
