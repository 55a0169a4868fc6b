package gallery

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/themegallery/internal/gallery"
)

const (
	gridPath    = "/api/v1/gallery/grid"
	themesPath  = "/api/v1/gallery/themes/"
	overlayPath = "/api/v1/gallery/overlay"
)

// ThemePath is the detail endpoint for id, with an optional suffix such as
// "/apply".
func ThemePath(id, suffix string) string {
	return themesPath + gallery.EscapeComponent(id) + suffix
}

func render(build func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		build(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// GalleryPage is the body of the full page.
func GalleryPage(data PageData) templ.Component {
	return render(func(b *strings.Builder) {
		b.WriteString(`<main class="gallery">`)
		b.WriteString(`<header class="gallery-header"><h1>Theme Gallery</h1>`)
		if data.AppliedID != "" {
			b.WriteString(`<span class="applied">Applied: `)
			b.WriteString(EscapeHTMLText(data.AppliedID))
			b.WriteString(`</span>`)
		}
		b.WriteString(`<button class="btn" hx-post="/api/v1/gallery/reload" hx-target="#grid" hx-swap="outerHTML" hx-include="#controls">Reload</button>`)
		b.WriteString(`</header>`)
		writeControls(b, data.Controls)
		if data.LoadError != "" {
			b.WriteString(`<section id="grid" class="grid grid-error"><p class="empty">`)
			b.WriteString(EscapeHTMLText(data.LoadError))
			b.WriteString(`</p></section>`)
		} else {
			writeGrid(b, data.Grid)
		}
		b.WriteString(`<div id="overlay">`)
		if data.Overlay != nil {
			writeOverlay(b, *data.Overlay)
		}
		b.WriteString(`</div>`)
		b.WriteString(`<div id="toast" class="toast hidden" role="status" aria-live="polite"></div>`)
		b.WriteString(`</main>`)
	})
}

func Controls(data ControlsData) templ.Component {
	return render(func(b *strings.Builder) { writeControls(b, data) })
}

func writeControls(b *strings.Builder, data ControlsData) {
	b.WriteString(`<form id="controls" class="controls" hx-get="` + gridPath + `" hx-target="#grid" hx-swap="outerHTML" `)
	b.WriteString(`hx-trigger="input changed delay:200ms from:input[name='q'], change">`)

	b.WriteString(`<input type="search" name="q" placeholder="Search themes" autocomplete="off" value="`)
	b.WriteString(EscapeHTMLAttr(data.Query))
	b.WriteString(`" />`)

	b.WriteString(`<select name="tag"><option value="">All tags</option>`)
	for _, tag := range data.Tags {
		b.WriteString(`<option value="`)
		b.WriteString(EscapeHTMLAttr(tag))
		b.WriteString(`"`)
		if tag == data.Tag {
			b.WriteString(` selected`)
		}
		b.WriteString(`>`)
		b.WriteString(EscapeHTMLText(tag))
		b.WriteString(`</option>`)
	}
	b.WriteString(`</select>`)

	b.WriteString(`<select name="sort">`)
	for _, option := range data.SortOptions {
		b.WriteString(`<option value="`)
		b.WriteString(EscapeHTMLAttr(option.Value))
		b.WriteString(`"`)
		if option.Selected {
			b.WriteString(` selected`)
		}
		b.WriteString(`>`)
		b.WriteString(EscapeHTMLText(option.Label))
		b.WriteString(`</option>`)
	}
	b.WriteString(`</select></form>`)
}

// Grid renders the card grid; it replaces #grid on filter changes.
func Grid(data GridData) templ.Component {
	return render(func(b *strings.Builder) { writeGrid(b, data) })
}

func writeGrid(b *strings.Builder, data GridData) {
	b.WriteString(`<section id="grid" class="grid">`)
	if len(data.Cards) == 0 {
		b.WriteString(`<p class="empty">No themes match.</p>`)
	}
	for _, card := range data.Cards {
		writeCard(b, card)
	}
	b.WriteString(`</section>`)
}

func ThemeCard(card Card) templ.Component {
	return render(func(b *strings.Builder) { writeCard(b, card) })
}

func writeCard(b *strings.Builder, card Card) {
	class := "card"
	if card.IsApplied {
		class += " applied"
	}
	b.WriteString(`<article class="` + class + `" data-id="`)
	b.WriteString(EscapeHTMLAttr(card.ID))
	b.WriteString(`" hx-get="`)
	b.WriteString(EscapeHTMLAttr(ThemePath(card.ID, "")))
	b.WriteString(`" hx-target="#overlay" hx-trigger="click[!event.target.closest('[data-apply]')]">`)

	b.WriteString(`<img class="thumb" src="`)
	b.WriteString(EscapeHTMLAttr(card.PreviewURL))
	b.WriteString(`" alt="preview" loading="lazy" />`)

	b.WriteString(`<div class="card-body"><div class="name">`)
	b.WriteString(EscapeHTMLText(card.DisplayName()))
	b.WriteString(`</div><div class="meta"><span>by `)
	b.WriteString(EscapeHTMLText(card.DisplayAuthor()))
	b.WriteString(`</span><span>`)
	b.WriteString(EscapeHTMLText(card.LikesLabel()))
	b.WriteString(`</span></div><div class="tags">`)
	for _, tag := range card.CardTags() {
		b.WriteString(`<span class="tag">`)
		b.WriteString(EscapeHTMLText(tag))
		b.WriteString(`</span>`)
	}
	b.WriteString(`</div>`)
	writeApplyButton(b, card.ID, "btn primary")
	b.WriteString(`</div></article>`)
}

func writeApplyButton(b *strings.Builder, id, class string) {
	b.WriteString(`<button type="button" class="` + class + `" data-apply="`)
	b.WriteString(EscapeHTMLAttr(id))
	b.WriteString(`" hx-post="`)
	b.WriteString(EscapeHTMLAttr(ThemePath(id, "/apply")))
	b.WriteString(`" hx-swap="none">Apply</button>`)
}

// Overlay renders the inspect dialog into #overlay.
func Overlay(data OverlayData) templ.Component {
	return render(func(b *strings.Builder) { writeOverlay(b, data) })
}

func writeOverlay(b *strings.Builder, data OverlayData) {
	b.WriteString(`<div class="modal" role="dialog" aria-modal="true" data-id="`)
	b.WriteString(EscapeHTMLAttr(data.Summary.ID))
	b.WriteString(`"><div class="modal-card">`)

	b.WriteString(`<h2 class="modal-name">`)
	b.WriteString(EscapeHTMLText(data.Summary.DisplayName()))
	b.WriteString(`</h2><p class="modal-meta">`)
	b.WriteString(EscapeHTMLText(data.MetaLine()))
	b.WriteString(`</p>`)

	b.WriteString(`<img class="modal-img" src="`)
	b.WriteString(EscapeHTMLAttr(data.Summary.PreviewURL))
	b.WriteString(`" alt="preview" />`)

	b.WriteString(`<pre class="modal-json">`)
	if data.Error != "" {
		b.WriteString(EscapeHTMLText(data.Error))
	} else {
		b.WriteString(EscapeHTMLText(data.JSON))
	}
	b.WriteString(`</pre>`)

	b.WriteString(`<div class="modal-actions">`)
	if data.Error == "" {
		writeApplyButton(b, data.Summary.ID, "btn primary")
	}
	if data.ShareURL != "" {
		b.WriteString(`<button type="button" class="btn" data-copy="`)
		b.WriteString(EscapeHTMLAttr(data.ShareURL))
		b.WriteString(`">Copy link</button>`)
	}
	b.WriteString(`<button type="button" class="btn" hx-delete="` + overlayPath + `" hx-target="#overlay">Close</button>`)
	b.WriteString(`</div></div></div>`)
}
