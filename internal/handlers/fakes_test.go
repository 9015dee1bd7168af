package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"pharmacy-dashboard/internal/api"
	"pharmacy-dashboard/internal/dashboard"
	"pharmacy-dashboard/internal/page"
)

// fakeAPI serves the remote dashboard endpoint
type fakeAPI struct {
	*httptest.Server
	summaryCalls atomic.Int32
	failSummary  atomic.Bool
	lastQuery    atomic.Value
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		switch q.Get("action") {
		case "login":
			if q.Get("usuario") == "ana" && q.Get("clave") == "secreto" {
				json.NewEncoder(w).Encode(map[string]interface{}{
					"ok": true, "usuario": "ana", "nombre": "Ana Benítez", "rol": "admin",
				})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "message": "Usuario o clave incorrectos"})
		case "metadata":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"fechas":       map[string]string{"min": "2024-01-01", "max": "2024-01-31"},
				"farmacias":    []map[string]interface{}{{"codigo": 101, "nombre": "Central"}},
				"medicamentos": []map[string]interface{}{{"codigo": "M1", "nombre": "Insulina"}},
			})
		case "summary":
			f.summaryCalls.Add(1)
			f.lastQuery.Store(q.Encode())
			if f.failSummary.Load() {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			from, to := q.Get("fechaDesde"), q.Get("fechaHasta")
			if from == "" {
				from = "2024-01-01"
			}
			if to == "" {
				to = "2024-01-31"
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"fechas": map[string]string{"min": from, "max": to},
				"kpis": map[string]interface{}{
					"total_recetado": 1234567, "total_dispensado": "1000000",
					"tasa_quiebre": 0.256, "items_criticos": 3,
				},
				"series":   map[string]interface{}{"fechas": []string{"2024-01-01"}, "recetado": []int{10}, "dispensado": []int{9}},
				"top_meds": []map[string]interface{}{{"medicamento": "Insulina", "dispensado": 40}},
				"stock_critico": []map[string]interface{}{
					{"farmacia": "101", "medicamento": "Insulina", "stock_ult": 4, "consumo_diario": 2, "dias_cobertura": 2, "reposicion_requerida": 10},
				},
				"quiebres_farmacia": []map[string]interface{}{},
			})
		default:
			json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": "Acción desconocida"})
		}
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) LastQuery() string {
	v, _ := f.lastQuery.Load().(string)
	return v
}

// singleSession hands the same session to every request
type singleSession struct {
	sess *Session
}

func (s *singleSession) Find(w http.ResponseWriter, r *http.Request) (*Session, error) {
	return s.sess, nil
}

func newTestSession(endpoint string) *Session {
	p := page.New()
	return &Session{
		ID:   "test",
		Page: p,
		Controller: dashboard.New(api.NewClient(endpoint), p, p.Widgets(), dashboard.Config{
			DefaultThreshold: 7,
			Logger:           zerolog.Nop(),
		}),
	}
}

func newTestHandler(t *testing.T, sess *Session) *DashboardHandler {
	t.Helper()
	renderer, err := page.NewRenderer("")
	if err != nil {
		t.Fatalf("Failed to create renderer: %v", err)
	}
	return NewDashboardHandler(&singleSession{sess: sess}, renderer, zerolog.Nop())
}
