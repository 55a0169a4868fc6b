package gallery

import "strings"

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	attrEscaper = strings.NewReplacer(`"`, "&quot;")
)

// EscapeHTMLText makes s safe to place in an HTML text node.
func EscapeHTMLText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeHTMLAttr makes s safe inside a double-quoted attribute value.
func EscapeHTMLAttr(s string) string {
	return attrEscaper.Replace(s)
}
