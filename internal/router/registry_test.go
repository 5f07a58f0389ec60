package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRouteRegistry_WireUpDispatchesToHandler(t *testing.T) {
	reg := NewRouteRegistry(nil)
	called := false
	reg.RegisterWithMethod("/internal/health", func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}, "liveness probe", http.MethodGet)

	mux := http.NewServeMux()
	reg.WireUp(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/internal/health", nil))

	if !called {
		t.Error("expected registered handler to be invoked")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRouteRegistry_GetRoutesReflectsRegistrations(t *testing.T) {
	reg := NewRouteRegistry(nil)
	reg.Register("/stats", func(w http.ResponseWriter, r *http.Request) {}, "stats snapshot")

	routes := reg.GetRoutes()
	info, ok := routes["/stats"]
	if !ok {
		t.Fatal("expected /stats to be registered")
	}
	if info.Method != http.MethodGet {
		t.Errorf("expected default method GET, got %s", info.Method)
	}
}
