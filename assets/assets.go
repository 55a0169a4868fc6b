// Package assets embeds the static page files and the demo gallery catalog.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed catalog
var catalogFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	// CatalogListPath and CatalogDetailPath are relative to Catalog().
	CatalogListPath   = "api/themes.json"
	CatalogDetailPath = "api/themes/{id}.json"
)

// Catalog serves the demo catalog with the same layout as a hosted gallery.
func Catalog() fs.FS {
	sub, err := fs.Sub(catalogFS, "catalog")
	if err != nil {
		panic(err)
	}
	return sub
}

// Static holds the stylesheet and page script served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
