package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codr1/themegallery/assets"
	"github.com/codr1/themegallery/internal/config"
)

// TestServerEndToEnd runs the full handler stack against a separately hosted
// demo catalog.
func TestServerEndToEnd(t *testing.T) {
	catalog := httptest.NewServer(http.FileServerFS(assets.Catalog()))
	t.Cleanup(catalog.Close)

	cfg := config.Default()
	cfg.App.Environment = "test"
	cfg.App.BaseURL = "https://gallery.example.com/"
	cfg.Database.Filename = filepath.Join(t.TempDir(), "db", "gallery.db")
	cfg.Gallery.SourceURL = catalog.URL + "/"
	cfg.Gallery.ServeDemoCatalog = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	application, err := newApp(cfg)
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	t.Cleanup(application.Close)

	server := httptest.NewServer(newServer(application).Handler)
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET / status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if !strings.Contains(string(body), `data-id="cobalt-night"`) {
		t.Fatalf("GET / body missing cobalt-night card")
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatalf("GET / missing X-Request-ID header")
	}

	req, _ := http.NewRequest(http.MethodPost, server.URL+"/api/v1/gallery/themes/ember/apply", nil)
	req.Header.Set("Accept", "application/json")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST apply error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST apply status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	resp, err = http.Get(server.URL + "/api/v1/gallery/applied")
	if err != nil {
		t.Fatalf("GET applied error = %v", err)
	}
	defer resp.Body.Close()
	var record struct {
		ThemeID string `json:"themeId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		t.Fatalf("decode applied: %v", err)
	}
	if record.ThemeID != "ember" {
		t.Fatalf("applied theme = %q, want %q", record.ThemeID, "ember")
	}
}
