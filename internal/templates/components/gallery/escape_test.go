package gallery

import (
	"strings"
	"testing"
)

func TestEscapeHTMLText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "plain", want: "plain"},
		{in: `<b>&"'</b>`, want: "&lt;b&gt;&amp;&quot;&#39;&lt;/b&gt;"},
		{in: "&amp;", want: "&amp;amp;"},
		{in: "naïve ♥", want: "naïve ♥"},
	}

	for _, test := range tests {
		if got := EscapeHTMLText(test.in); got != test.want {
			t.Fatalf("EscapeHTMLText(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestEscapeHTMLText_NoRawSpecials(t *testing.T) {
	got := EscapeHTMLText(`<b>&"'</b>`)
	stripped := strings.NewReplacer("&amp;", "", "&lt;", "", "&gt;", "", "&quot;", "", "&#39;", "").Replace(got)
	if strings.ContainsAny(stripped, `<>&"'`) {
		t.Fatalf("EscapeHTMLText left raw characters: %q", got)
	}
}

func TestEscapeHTMLAttr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: `a"b`, want: "a&quot;b"},
		{in: `" onmouseover="x`, want: "&quot; onmouseover=&quot;x"},
		{in: "it's <fine>", want: "it's <fine>"},
	}

	for _, test := range tests {
		if got := EscapeHTMLAttr(test.in); got != test.want {
			t.Fatalf("EscapeHTMLAttr(%q) = %q, want %q", test.in, got, test.want)
		}
	}
}
