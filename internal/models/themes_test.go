package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestIsHexColor(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "empty", value: "", want: false},
		{name: "whitespace", value: "   ", want: false},
		{name: "missing_hash", value: "AABBCC", want: false},
		{name: "short_hex", value: "#ABC", want: false},
		{name: "long_hex", value: "#AABBCCDD", want: false},
		{name: "invalid_char", value: "#AABBCG", want: false},
		{name: "lowercase_hex", value: "#aabbcc", want: true},
		{name: "uppercase_hex", value: "#AABBCC", want: true},
		{name: "trimmed_hex", value: "  #AABBCC  ", want: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsHexColor(test.value); got != test.want {
				t.Fatalf("IsHexColor(%q) = %t, want %t", test.value, got, test.want)
			}
		})
	}
}

func TestValidateThemePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{name: "meta_only", payload: `{"meta":{}}`},
		{name: "empty_object", payload: `{}`},
		{name: "all_sections", payload: `{"meta":{"v":1},"style":{"accent":"#112233"},"background":{"url":"http://example.com/a.png"},"layout":"grid"}`},
		{name: "https_background", payload: `{"background":{"url":"https://example.com/a.png"}}`},
		{name: "uppercase_scheme", payload: `{"background":{"url":"HTTPS://example.com/a.png"}}`},
		{name: "empty_url", payload: `{"background":{"url":""}}`},
		{name: "null_url", payload: `{"background":{"url":null}}`},
		{name: "zero_url", payload: `{"background":{"url":0}}`},
		{name: "string_background", payload: `{"background":"javascript:alert(1)"}`},
		{name: "null_background", payload: `{"background":null}`},
		{name: "null_payload", payload: `null`, wantErr: "not an object"},
		{name: "array_payload", payload: `[{"meta":{}}]`, wantErr: "not an object"},
		{name: "scalar_payload", payload: `"meta"`, wantErr: "not an object"},
		{name: "number_payload", payload: `42`, wantErr: "not an object"},
		{name: "unexpected_key", payload: `{"malicious":1}`, wantErr: "unexpected key: malicious"},
		{name: "first_unexpected_key_wins", payload: `{"meta":{},"zeta":1,"alpha":2}`, wantErr: "unexpected key: zeta"},
		{name: "key_check_before_url", payload: `{"background":{"url":"javascript:x"},"extra":1}`, wantErr: "unexpected key: extra"},
		{name: "javascript_url", payload: `{"background":{"url":"javascript:alert(1)"}}`, wantErr: "background.url must be http/https"},
		{name: "data_url", payload: `{"background":{"url":"data:image/png;base64,AAAA"}}`, wantErr: "background.url must be http/https"},
		{name: "protocol_relative", payload: `{"background":{"url":"//example.com/a.png"}}`, wantErr: "background.url must be http/https"},
		{name: "numeric_url", payload: `{"background":{"url":5}}`, wantErr: "background.url must be http/https"},
		{name: "object_url", payload: `{"background":{"url":{"href":"https://x"}}}`, wantErr: "background.url must be http/https"},
		{name: "array_url_joins_elements", payload: `{"background":{"url":["https://example.com/a.png"]}}`},
		{name: "array_url_unsafe_element", payload: `{"background":{"url":["javascript:x","https://ok"]}}`, wantErr: "background.url must be http/https"},
		{name: "empty_array_url", payload: `{"background":{"url":[]}}`, wantErr: "background.url must be http/https"},
		{name: "true_url", payload: `{"background":{"url":true}}`, wantErr: "background.url must be http/https"},
		{name: "duplicate_background_last_wins", payload: `{"background":{"url":"https://ok"},"background":{"url":"javascript:x"}}`, wantErr: "background.url must be http/https"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := ValidateThemePayload(ThemePayload(test.payload))
			if test.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateThemePayload(%s) error = %v, want nil", test.payload, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateThemePayload(%s) error = nil, want %q", test.payload, test.wantErr)
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("ValidateThemePayload(%s) error type = %T, want *ValidationError", test.payload, err)
			}
			if err.Error() != test.wantErr {
				t.Fatalf("ValidateThemePayload(%s) error = %q, want %q", test.payload, err.Error(), test.wantErr)
			}
		})
	}
}

func TestDecodeThemeSummary(t *testing.T) {
	raw := json.RawMessage(`{"id":"neon","name":"Neon","author":"ada","tags":["dark",7,"retro"],"likes":"12","updatedAt":"2024-03-01","previewUrl":"https://x/p.png","extra":true}`)
	summary, err := DecodeThemeSummary(raw)
	if err != nil {
		t.Fatalf("DecodeThemeSummary() error = %v", err)
	}
	if summary.ID != "neon" || summary.Name != "Neon" || summary.Author != "ada" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.Tags) != 2 || summary.Tags[0] != "dark" || summary.Tags[1] != "retro" {
		t.Fatalf("tags = %v, want [dark retro]", summary.Tags)
	}
	if summary.Likes != 12 {
		t.Fatalf("likes = %d, want 12", summary.Likes)
	}
}

func TestDecodeThemeSummary_Defaults(t *testing.T) {
	summary, err := DecodeThemeSummary(json.RawMessage(`{"id":"bare","likes":-4,"tags":"dark","name":5}`))
	if err != nil {
		t.Fatalf("DecodeThemeSummary() error = %v", err)
	}
	if summary.Likes != 0 {
		t.Fatalf("likes = %d, want 0", summary.Likes)
	}
	if summary.Tags == nil || len(summary.Tags) != 0 {
		t.Fatalf("tags = %#v, want empty slice", summary.Tags)
	}
	if summary.Name != "" || summary.UpdatedAt != "" {
		t.Fatalf("unexpected defaults: %+v", summary)
	}
	if summary.DisplayName() != "bare" || summary.DisplayAuthor() != "Unknown" {
		t.Fatalf("unexpected display values: %q %q", summary.DisplayName(), summary.DisplayAuthor())
	}
}

func TestDecodeThemeSummary_Rejects(t *testing.T) {
	for _, raw := range []string{`[]`, `"id"`, `null`, `{"name":"no id"}`, `{"id":3}`} {
		if _, err := DecodeThemeSummary(json.RawMessage(raw)); err == nil {
			t.Fatalf("DecodeThemeSummary(%s) error = nil, want error", raw)
		}
	}
}

func TestThemePayloadSectionsKeepOrder(t *testing.T) {
	payload := ThemePayload(`{"style":{"accent":"#ff0000","radius":4},"meta":{"name":"x"},"background":{"url":"https://e/x.png"}}`)
	sections, err := payload.Sections()
	if err != nil {
		t.Fatalf("Sections() error = %v", err)
	}
	got := []string{}
	for _, section := range sections {
		got = append(got, section.Key)
	}
	want := []string{"style", "meta", "background"}
	if len(got) != len(want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys = %v, want %v", got, want)
		}
	}

	style := payload.Style()
	if style["accent"] != "#ff0000" {
		t.Fatalf("style accent = %q", style["accent"])
	}
	if _, ok := style["radius"]; ok {
		t.Fatalf("non-string style entries should be skipped")
	}
	if payload.BackgroundURL() != "https://e/x.png" {
		t.Fatalf("BackgroundURL() = %q", payload.BackgroundURL())
	}
	if ThemePayload(`{"background":{"url":"javascript:x"}}`).BackgroundURL() != "" {
		t.Fatalf("unsafe background url should not be returned")
	}
	if got := ThemePayload(`{"background":{"url":["https://e/y.png",null]}}`).BackgroundURL(); got != "https://e/y.png," {
		t.Fatalf("array BackgroundURL() = %q", got)
	}
}

func TestThemePayloadPretty(t *testing.T) {
	pretty, err := ThemePayload(`{"meta":{"name":"x"}}`).Pretty()
	if err != nil {
		t.Fatalf("Pretty() error = %v", err)
	}
	want := "{\n  \"meta\": {\n    \"name\": \"x\"\n  }\n}"
	if pretty != want {
		t.Fatalf("Pretty() = %q, want %q", pretty, want)
	}
}
