// cmd/server/server.go
package main

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/themegallery/assets"
	"github.com/codr1/themegallery/internal/api"
	galleryapi "github.com/codr1/themegallery/internal/api/gallery"
)

func newServer(a *app) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	galleryapi.InitHandlers(a.controller, a.limiter, galleryapi.HandlerConfig{
		BaseURL:    a.config.App.BaseURL,
		TrustProxy: a.config.RateLimit.TrustProxy,
	})

	// Register routes
	registerRoutes(router, a.config.Gallery.ServeDemoCatalog)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(a.config.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux, serveDemoCatalog bool) {
	// Main page handler
	mux.HandleFunc("GET /{$}", galleryapi.HandleGalleryPage)

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Gallery routes
	mux.HandleFunc("GET /api/v1/gallery/grid", galleryapi.HandleGrid)
	mux.HandleFunc("POST /api/v1/gallery/reload", galleryapi.HandleReload)
	mux.HandleFunc("GET /api/v1/gallery/applied", galleryapi.HandleAppliedTheme)
	mux.HandleFunc("DELETE /api/v1/gallery/overlay", galleryapi.HandleCloseOverlay)
	mux.HandleFunc("GET /api/v1/gallery/themes/{id}", galleryapi.HandleThemeDetail)
	mux.HandleFunc("GET /api/v1/gallery/themes/{id}/share", galleryapi.HandleShareLink)
	mux.HandleFunc("POST /api/v1/gallery/themes/{id}/apply", galleryapi.HandleApplyTheme)

	// Demo catalog, the default gallery source
	if serveDemoCatalog {
		catalog := http.FileServerFS(assets.Catalog())
		mux.Handle("GET /api/themes.json", catalog)
		mux.Handle("GET /api/themes/", catalog)
	}

	// Static files come from the embedded assets unless STATIC_DIR overrides them
	var static http.Handler
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir != "" {
		static = http.FileServer(http.Dir(staticDir))
	} else {
		static = http.FileServerFS(assets.Static())
	}

	mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Ctx(r.Context()).Debug().
			Str("path", r.URL.Path).
			Str("static_dir", staticDir).
			Msg("Static file request")
		http.StripPrefix("/static/", static).ServeHTTP(w, r)
	}))
}
