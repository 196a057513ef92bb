package httpmetrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func TestRouteLabel(t *testing.T) {
	var got string
	capture := func(w http.ResponseWriter, r *http.Request) { got = RouteLabel(r) }

	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/folders", capture).Methods(http.MethodGet)
	api.HandleFunc("/folders/{id}", capture).Methods(http.MethodGet)
	api.HandleFunc("/folders/{id}/forms", capture).Methods(http.MethodGet)
	api.HandleFunc("/forms/{id}", capture).Methods(http.MethodGet)

	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/folders", "/api/v1/folders"},
		{"/api/v1/folders/xyz-random-1", "/api/v1/folders/{id}"},
		{"/api/v1/folders/3f2b8c1e-9a7d-4b6e-8c5f-1d2e3f4a5b6c/forms", "/api/v1/folders/{id}/forms"},
		{"/api/v1/forms/3F2B8C1E-9A7D-4B6E-8C5F-1D2E3F4A5B6C", "/api/v1/forms/{id}"},
	}

	for _, tt := range tests {
		got = ""
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))
		if got != tt.want {
			t.Errorf("RouteLabel(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRouteLabelOutsideRouter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/wp-admin/foo.php", nil)
	if got := RouteLabel(req); got != UnmatchedRoute {
		t.Errorf("RouteLabel = %q, want %q", got, UnmatchedRoute)
	}
}

func TestUnmatchedPassesThrough(t *testing.T) {
	h := Unmatched(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/wp-admin/foo.php", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
