package request

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

var filterKeys = []string{"q", "tag", "sort"}

// Filters are the gallery view filters carried by a request.
type Filters struct {
	Query string
	Tag   string
	Sort  string
}

func filtersFromValues(values url.Values) (Filters, bool) {
	found := false
	for _, key := range filterKeys {
		if values.Has(key) {
			found = true
			break
		}
	}
	return Filters{
		Query: values.Get("q"),
		Tag:   strings.TrimSpace(values.Get("tag")),
		Sort:  strings.TrimSpace(values.Get("sort")),
	}, found
}

// FiltersFromRequest reads q, tag and sort from the query or form. When the
// request names none of them it falls back to the query of HX-Current-URL, so
// a partial refresh keeps the filters of the page it came from. The bool
// reports whether any filter was found.
func FiltersFromRequest(r *http.Request) (Filters, bool) {
	if err := r.ParseForm(); err != nil {
		log.Ctx(r.Context()).
			Debug().
			Err(err).
			Msg("Failed to parse request form")
	}
	if filters, ok := filtersFromValues(r.Form); ok {
		return filters, true
	}

	currentURL := strings.TrimSpace(r.Header.Get("HX-Current-URL"))
	if currentURL == "" {
		return Filters{}, false
	}

	parsed, err := url.Parse(currentURL)
	if err != nil {
		log.Ctx(r.Context()).
			Debug().
			Err(err).
			Str("hx_current_url", currentURL).
			Msg("Failed to parse HX-Current-URL")
		return Filters{}, false
	}

	return filtersFromValues(parsed.Query())
}
