package dashboard

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"pharmacy-dashboard/internal/api"
)

// Missing is rendered in place of absent values
const Missing = "-"

var printer = message.NewPrinter(language.MustParse("es-PY"))

func usable(n api.Num) bool {
	return n.Valid && !math.IsNaN(n.Value) && !math.IsInf(n.Value, 0)
}

// FormatNumber renders n with es-PY digit grouping and up to three
// decimals: 1234567 is "1.234.567", 12.5 is "12,5"
func FormatNumber(n api.Num) string {
	if !usable(n) {
		return Missing
	}
	return printer.Sprint(number.Decimal(n.Value, number.MaxFractionDigits(3)))
}

// FormatPct renders a ratio as a percentage with one decimal: 0.256 is "25.6%"
func FormatPct(n api.Num) string {
	if !usable(n) {
		return Missing
	}
	return strconv.FormatFloat(n.Value*100, 'f', 1, 64) + "%"
}

// FormatFixed renders n with exactly decimals digits after the point
func FormatFixed(n api.Num, decimals int) string {
	if !usable(n) {
		return Missing
	}
	return strconv.FormatFloat(n.Value, 'f', decimals, 64)
}
