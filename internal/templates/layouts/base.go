package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/codr1/themegallery/internal/models"
)

const htmxScript = "https://unpkg.com/htmx.org@1.9.12"

// Base wraps body in the page shell. The applied theme, when present, sets the
// page palette.
func Base(body templ.Component, applied *models.AppliedThemeRecord) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8" />` +
			`<meta name="viewport" content="width=device-width, initial-scale=1" />` +
			`<title>Theme Gallery</title>` +
			`<link rel="stylesheet" href="/static/css/gallery.css" />` +
			themeStyleTag(applied, false) +
			`<script src="` + htmxScript + `"></script>` +
			`<script src="/static/js/gallery.js" defer></script>` +
			`</head><body>`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// ThemeVars re-renders the palette style element as an out-of-band swap so an
// apply updates the open page.
func ThemeVars(applied *models.AppliedThemeRecord) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, themeStyleTag(applied, true))
		return err
	})
}

func themeStyleTag(applied *models.AppliedThemeRecord, oob bool) string {
	attrs := `id="theme-vars"`
	if oob {
		attrs += ` hx-swap-oob="true"`
	}
	return `<style ` + attrs + `>` + getThemeCssVars(applied) + `</style>`
}
