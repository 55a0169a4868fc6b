package htmx

import (
	"encoding/json"
	"net/http"
	"strings"
)

func IsRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

// TriggerHeader builds an HX-Trigger value that raises event with detail on
// the client.
func TriggerHeader(event string, detail any) (string, error) {
	encoded, err := json.Marshal(map[string]any{event: detail})
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// CurrentURL is the page URL htmx reports for the request, if any.
func CurrentURL(r *http.Request) string {
	return r.Header.Get("HX-Current-URL")
}
