package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"pharmacy-dashboard/internal/logger"
)

func TestLoggingMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("test"))
	})

	var buf bytes.Buffer
	middleware := chimw.RequestID(LoggingMiddleware(&logger.Logger{Logger: zerolog.New(&buf)})(handler))

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status 418, got %d", w.Code)
	}
	if w.Body.String() != "test" {
		t.Errorf("Expected body 'test', got '%s'", w.Body.String())
	}

	logged := buf.String()
	if !strings.Contains(logged, `"level":"warn"`) {
		t.Errorf("Expected 4xx request to be logged at warn level, got %s", logged)
	}
	if !strings.Contains(logged, `"status":418`) || !strings.Contains(logged, `"path":"/test"`) {
		t.Errorf("Expected status and path in log entry, got %s", logged)
	}
	if !strings.Contains(logged, `"request_id":"`) || strings.Contains(logged, `"request_id":""`) {
		t.Errorf("Expected request id in log entry, got %s", logged)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})

	var buf bytes.Buffer
	middleware := RecoveryMiddleware(&logger.Logger{Logger: zerolog.New(&buf)})(panicHandler)

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Internal Server Error") {
		t.Error("Expected error message in response body")
	}
	if !strings.Contains(buf.String(), "test panic") {
		t.Errorf("Expected panic value to be logged, got %s", buf.String())
	}
}

func TestContentTypeMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := ContentTypeMiddleware(handler)

	tests := []struct {
		path        string
		expectJSON  bool
		description string
	}{
		{"/api/dashboard", true, "API route should get JSON content type"},
		{"/api/health", true, "API health route should get JSON content type"},
		{"/", false, "Page route should not get JSON content type"},
		{"/static/style.css", false, "Static route should not get JSON content type"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()

			middleware.ServeHTTP(w, req)

			contentType := w.Header().Get("Content-Type")
			if tt.expectJSON && contentType != "application/json" {
				t.Errorf("Expected JSON content type for %s, got '%s'", tt.path, contentType)
			}
			if !tt.expectJSON && contentType == "application/json" {
				t.Errorf("Did not expect JSON content type for %s", tt.path)
			}
		})
	}
}

func TestSecurityMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	middleware := SecurityMiddleware(zerolog.Nop(), false)(handler)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	middleware.ServeHTTP(w, req)

	expectedHeaders := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"X-XSS-Protection":       "1; mode=block",
	}

	for header, expected := range expectedHeaders {
		if actual := w.Header().Get(header); actual != expected {
			t.Errorf("Expected header %s to be '%s', got '%s'", header, expected, actual)
		}
	}

	if csp := w.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "https://cdn.jsdelivr.net") {
		t.Errorf("Expected CSP to allow the chart library CDN, got '%s'", csp)
	}
}

func TestLoginRateLimit(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusSeeOther)
	})

	middleware := LoginRateLimit(2)(handler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		w := httptest.NewRecorder()
		middleware.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusSeeOther || codes[1] != http.StatusSeeOther {
		t.Errorf("Expected first two attempts to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("Expected third attempt to be limited, got %d", codes[2])
	}

	// Another client is unaffected
	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	w := httptest.NewRecorder()
	middleware.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Errorf("Expected other client to pass, got %d", w.Code)
	}
}

func TestChain(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "first,second,handler" {
		t.Errorf("Expected middleware to run in order, got %v", order)
	}
}
