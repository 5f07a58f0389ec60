package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAccessLogging_SetsRequestIDHeaderAndContext(t *testing.T) {
	var sawRequestID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawRequestID = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := AccessLogging(slog.Default())(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/internal/health", nil))

	if sawRequestID == "" {
		t.Error("expected request ID to be set in context")
	}
	if rec.Header().Get("X-Relay-Request-ID") != sawRequestID {
		t.Error("expected response header to echo the request ID")
	}
}

func TestAccessLogging_PreservesClientSuppliedRequestID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := AccessLogging(slog.Default())(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Relay-Request-ID", "fixed-id")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Relay-Request-ID"); got != "fixed-id" {
		t.Errorf("expected client-supplied request ID to be preserved, got %s", got)
	}
}

func TestAccessLogging_PassesThroughStatusAndBody(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hello"))
	})
	handler := AccessLogging(slog.Default())(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", rec.Code)
	}
	if rec.Body.String() != "hello" {
		t.Errorf("expected body 'hello', got %s", rec.Body.String())
	}
}

func TestGetLogger_DefaultsWhenAbsent(t *testing.T) {
	if GetLogger(httptest.NewRequest(http.MethodGet, "/", nil).Context()) == nil {
		t.Error("expected default logger when none set in context")
	}
}
