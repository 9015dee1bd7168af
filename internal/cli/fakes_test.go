package cli

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"pharmacy-dashboard/internal/api"
	"pharmacy-dashboard/internal/dashboard"
)

type fakeRemote struct {
	mu         sync.Mutex
	queries    []api.SummaryQuery
	summaryErr error
}

func (f *fakeRemote) Login(ctx context.Context, username, password string) (*api.LoginResult, error) {
	if username != "ana" || password != "secreto" {
		return nil, &api.RemoteError{Action: "login", Message: "Credenciales inválidas"}
	}
	return &api.LoginResult{OK: true, Username: "ana", Name: "Ana Benítez", Role: "admin"}, nil
}

func (f *fakeRemote) Metadata(ctx context.Context) (*api.Metadata, error) {
	return &api.Metadata{
		Dates:       &api.DateBounds{Min: "2024-01-01", Max: "2024-01-31"},
		Pharmacies:  []api.Lookup{{Code: "F01", Name: "Central"}, {Code: "F02", Name: "Norte"}},
		Medications: []api.Lookup{{Code: "101", Name: "Paracetamol"}},
	}, nil
}

func (f *fakeRemote) Summary(ctx context.Context, q api.SummaryQuery) (*api.Summary, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	err := f.summaryErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &api.Summary{
		Dates: &api.DateBounds{Min: q.DateFrom, Max: q.DateTo},
		KPIs: &api.KPIs{
			TotalPrescribed: api.NewNum(1234567),
			TotalDispensed:  api.NewNum(1000000),
			BreakRate:       api.NewNum(0.256),
			CriticalItems:   api.NewNum(2),
		},
		Series: &api.Series{
			Dates:      []string{"2024-01-01", "2024-01-02", "2024-01-03"},
			Prescribed: []api.Num{api.NewNum(10), api.NewNum(20), api.NewNum(30)},
			Dispensed:  []api.Num{api.NewNum(9), api.NewNum(15), api.NewNum(30)},
		},
		TopMeds: []api.TopMedication{
			{Medication: "Paracetamol", Dispensed: api.NewNum(500)},
			{Medication: "Ibuprofeno", Dispensed: api.NewNum(250)},
		},
		CriticalStock: []api.CriticalStockRow{
			{Pharmacy: "F01", Medication: "Insulina", LastStock: api.NewNum(10), DailyUsage: api.NewNum(2), CoverageDays: api.NewNum(5), RequiredRestock: api.NewNum(4)},
		},
		PharmacyBreaks: []api.PharmacyBreakRow{
			{Pharmacy: "F01", BreakRate: api.NewNum(0.1), FillRate: api.NewNum(0.9)},
		},
	}, nil
}

func (f *fakeRemote) lastQuery() api.SummaryQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return api.SummaryQuery{}
	}
	return f.queries[len(f.queries)-1]
}

func (f *fakeRemote) summaryCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

var errUpstream = errors.New("upstream unavailable")

func newTestSession(remote dashboard.Remote) *Session {
	return NewSession(remote, 7, zerolog.Nop())
}
