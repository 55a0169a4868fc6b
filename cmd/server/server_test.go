package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRegisterRoutes(t *testing.T) {
	t.Setenv("STATIC_DIR", "")

	mux := http.NewServeMux()
	registerRoutes(mux, true)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "stylesheet", method: http.MethodGet, path: "/static/css/gallery.css", wantStatus: http.StatusOK},
		{name: "script", method: http.MethodGet, path: "/static/js/gallery.js", wantStatus: http.StatusOK},
		{name: "missing static", method: http.MethodGet, path: "/static/nope.css", wantStatus: http.StatusNotFound},
		{name: "catalog list", method: http.MethodGet, path: "/api/themes.json", wantStatus: http.StatusOK},
		{name: "catalog detail", method: http.MethodGet, path: "/api/themes/aurora.json", wantStatus: http.StatusOK},
		{name: "missing detail", method: http.MethodGet, path: "/api/themes/nope.json", wantStatus: http.StatusNotFound},
		{name: "reload requires post", method: http.MethodGet, path: "/api/v1/gallery/reload", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			mux.ServeHTTP(recorder, httptest.NewRequest(tc.method, tc.path, nil))
			if recorder.Code != tc.wantStatus {
				t.Fatalf("%s %s status = %d, want %d", tc.method, tc.path, recorder.Code, tc.wantStatus)
			}
		})
	}
}

func TestRegisterRoutes_DemoCatalogListing(t *testing.T) {
	mux := http.NewServeMux()
	registerRoutes(mux, true)

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/themes.json", nil))

	var body struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(body.Items) != 7 {
		t.Fatalf("listing items = %d, want 7", len(body.Items))
	}
}

func TestRegisterRoutes_DemoCatalogDisabled(t *testing.T) {
	mux := http.NewServeMux()
	registerRoutes(mux, false)

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/themes.json", nil))
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusNotFound)
	}
}
