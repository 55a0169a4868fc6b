package gallery

import (
	"fmt"
	"net/url"
	"strings"
)

const deepLinkParam = "theme"

// ShareLink builds a link that reopens the gallery page on id: the page's
// origin and path, minus a trailing index.html, plus a #theme=<id> fragment.
func ShareLink(pageURL, id string) (string, error) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	if page.Scheme == "" || page.Host == "" {
		return "", fmt.Errorf("page url %q is not absolute", pageURL)
	}

	path := page.EscapedPath()
	if path == "index.html" || strings.HasSuffix(path, "/index.html") {
		path = strings.TrimSuffix(path, "index.html")
	}
	if path == "" {
		path = "/"
	}

	return page.Scheme + "://" + page.Host + path + "#" + deepLinkParam + "=" + EscapeComponent(id), nil
}

// ParseDeepLink extracts the theme id from a URL fragment such as
// "#theme=neon" or "view=grid&theme=neon".
func ParseDeepLink(fragment string) (string, bool) {
	fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	if fragment == "" {
		return "", false
	}
	values, err := url.ParseQuery(fragment)
	if err != nil {
		return "", false
	}
	id := values.Get(deepLinkParam)
	return id, id != ""
}

// EscapeComponent percent-encodes everything except the characters a URI
// component may carry literally: letters, digits, and -_.!~*'().
func EscapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isComponentSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func isComponentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
