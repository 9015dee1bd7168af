package dashboard

import (
	"math"
	"strconv"
	"strings"

	"pharmacy-dashboard/internal/api"
)

// DefaultCriticalThreshold is used when no threshold is configured
const DefaultCriticalThreshold = 7

// DefaultRole is assigned when the login response carries no role
const DefaultRole = "usuario"

// Session is the signed-in user. It lives only in memory.
type Session struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// Label is the name shown in the header
func (s Session) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Username
}

// Filters is the active filter set sent with every summary request
type Filters struct {
	DateFrom          string  `json:"date_from"`
	DateTo            string  `json:"date_to"`
	Pharmacy          string  `json:"pharmacy"`
	Medication        string  `json:"medication"`
	EssentialOnly     bool    `json:"essential_only"`
	CriticalThreshold float64 `json:"critical_threshold"`
}

// DefaultFilters returns the filter set restored by a reset
func DefaultFilters(threshold float64) Filters {
	return Filters{CriticalThreshold: threshold}
}

// Query converts the filters into summary request parameters
func (f Filters) Query() api.SummaryQuery {
	return api.SummaryQuery{
		DateFrom:          f.DateFrom,
		DateTo:            f.DateTo,
		Pharmacy:          f.Pharmacy,
		Medication:        f.Medication,
		EssentialOnly:     f.EssentialOnly,
		CriticalThreshold: f.CriticalThreshold,
	}
}

// Form returns the raw control values that display f
func (f Filters) Form() FormValues {
	return FormValues{
		DateFrom:          f.DateFrom,
		DateTo:            f.DateTo,
		Pharmacy:          f.Pharmacy,
		Medication:        f.Medication,
		EssentialOnly:     f.EssentialOnly,
		CriticalThreshold: strconv.FormatFloat(f.CriticalThreshold, 'f', -1, 64),
	}
}

// FormValues are the filter controls as the user left them
type FormValues struct {
	DateFrom          string `json:"date_from"`
	DateTo            string `json:"date_to"`
	Pharmacy          string `json:"pharmacy"`
	Medication        string `json:"medication"`
	EssentialOnly     bool   `json:"essential_only"`
	CriticalThreshold string `json:"critical_threshold"`
}

// ParseFilters reads form values into a filter set. The threshold falls
// back to defaultThreshold when it is not a positive number.
func ParseFilters(form FormValues, defaultThreshold float64) Filters {
	return Filters{
		DateFrom:          strings.TrimSpace(form.DateFrom),
		DateTo:            strings.TrimSpace(form.DateTo),
		Pharmacy:          strings.TrimSpace(form.Pharmacy),
		Medication:        strings.TrimSpace(form.Medication),
		EssentialOnly:     form.EssentialOnly,
		CriticalThreshold: ParseThreshold(form.CriticalThreshold, defaultThreshold),
	}
}

// ParseThreshold parses a critical-stock threshold
func ParseThreshold(raw string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return def
	}
	return v
}

// AppState is everything the controller owns between events
type AppState struct {
	Session    *Session      `json:"session,omitempty"`
	Filters    Filters       `json:"filters"`
	Metadata   *api.Metadata `json:"-"`
	RefreshSeq uint64        `json:"refresh_seq"`
	LoggingIn  bool          `json:"logging_in"`
}

// LoggedIn reports whether a session is active
func (s AppState) LoggedIn() bool {
	return s.Session != nil
}
