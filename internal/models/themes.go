// internal/models/themes.go
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const defaultThemePrimary = "#1f2937"
const defaultThemeSecondary = "#e5e7eb"
const defaultThemeTertiary = "#f9fafb"
const defaultThemeAccent = "#2563eb"
const defaultThemeHighlight = "#16a34a"

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
var safeURLRegex = regexp.MustCompile(`(?i)^https?://`)

var errNotObject = errors.New("payload is not a JSON object")

// Top-level sections a theme payload may carry.
var allowedPayloadKeys = map[string]bool{
	"meta":       true,
	"style":      true,
	"background": true,
	"layout":     true,
}

func IsHexColor(value string) bool {
	return hexColorRegex.MatchString(strings.TrimSpace(value))
}

// ThemeColors is the palette the page layout exposes as CSS variables.
type ThemeColors struct {
	Primary   string
	Secondary string
	Tertiary  string
	Accent    string
	Highlight string
}

func DefaultThemeColors() ThemeColors {
	return ThemeColors{
		Primary:   defaultThemePrimary,
		Secondary: defaultThemeSecondary,
		Tertiary:  defaultThemeTertiary,
		Accent:    defaultThemeAccent,
		Highlight: defaultThemeHighlight,
	}
}

// ThemeSummary is one gallery listing entry.
type ThemeSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Author     string   `json:"author"`
	Tags       []string `json:"tags"`
	Likes      int      `json:"likes"`
	UpdatedAt  string   `json:"updatedAt"`
	PreviewURL string   `json:"previewUrl"`
}

// DisplayName falls back to the id when the listing has no name.
func (s ThemeSummary) DisplayName() string {
	if s.Name == "" {
		return s.ID
	}
	return s.Name
}

func (s ThemeSummary) DisplayAuthor() string {
	if s.Author == "" {
		return "Unknown"
	}
	return s.Author
}

// MetaLine is the "by <author> • ♥ <likes> • updated <date>" byline.
func (s ThemeSummary) MetaLine() string {
	updated := s.UpdatedAt
	if updated == "" {
		updated = "-"
	}
	return "by " + s.DisplayAuthor() + " • ♥ " + strconv.Itoa(s.Likes) + " • updated " + updated
}

// HasTag reports an exact, case-sensitive tag match.
func (s ThemeSummary) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DecodeThemeSummary decodes one listing entry, defaulting fields that are
// missing or carry the wrong JSON type. It fails only when the entry is not an
// object or has no usable id.
func DecodeThemeSummary(raw json.RawMessage) (ThemeSummary, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return ThemeSummary{}, errNotObject
	}

	summary := ThemeSummary{
		ID:         jsonString(fields["id"]),
		Name:       jsonString(fields["name"]),
		Author:     jsonString(fields["author"]),
		Tags:       jsonStrings(fields["tags"]),
		Likes:      jsonCount(fields["likes"]),
		UpdatedAt:  jsonString(fields["updatedAt"]),
		PreviewURL: jsonString(fields["previewUrl"]),
	}
	if summary.ID == "" {
		return ThemeSummary{}, fmt.Errorf("theme entry has no id")
	}
	return summary, nil
}

func jsonString(raw json.RawMessage) string {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

func jsonStrings(raw json.RawMessage) []string {
	var values []json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return []string{}
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

func jsonCount(raw json.RawMessage) int {
	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0
		}
		number = json.Number(strings.TrimSpace(text))
	}
	value, err := strconv.ParseFloat(number.String(), 64)
	if err != nil || math.IsNaN(value) || value <= 0 {
		return 0
	}
	if value >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(value)
}

// ThemePayload is the raw JSON configuration document of a theme. It keeps the
// original bytes so section order survives validation and display.
type ThemePayload json.RawMessage

// PayloadSection is one top-level key of a payload, in document order.
type PayloadSection struct {
	Key   string
	Value json.RawMessage
}

func (p ThemePayload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

func (p *ThemePayload) UnmarshalJSON(data []byte) error {
	if p == nil {
		return errors.New("models.ThemePayload: UnmarshalJSON on nil pointer")
	}
	*p = append((*p)[0:0], data...)
	return nil
}

// IsObject reports whether the payload is a JSON object.
func (p ThemePayload) IsObject() bool {
	trimmed := bytes.TrimSpace(p)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// Sections returns the top-level keys of the payload in document order.
func (p ThemePayload) Sections() ([]PayloadSection, error) {
	if !p.IsObject() {
		return nil, errNotObject
	}
	dec := json.NewDecoder(bytes.NewReader(p))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	sections := []PayloadSection{}
	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyToken.(string)
		if !ok {
			return nil, errNotObject
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		sections = append(sections, PayloadSection{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return sections, nil
}

// Section returns the value of a top-level key. Later duplicates win.
func (p ThemePayload) Section(key string) (json.RawMessage, bool) {
	sections, err := p.Sections()
	if err != nil {
		return nil, false
	}
	return lastSection(sections, key)
}

// Pretty renders the payload as two-space indented JSON.
func (p ThemePayload) Pretty() (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, p, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Style returns the string-valued entries of the style section.
func (p ThemePayload) Style() map[string]string {
	out := map[string]string{}
	raw, ok := p.Section("style")
	if !ok {
		return out
	}
	sections, err := ThemePayload(raw).Sections()
	if err != nil {
		return out
	}
	for _, section := range sections {
		var value string
		if err := json.Unmarshal(section.Value, &value); err == nil {
			out[section.Key] = value
		}
	}
	return out
}

// BackgroundURL returns background.url when it is set and uses a safe scheme.
func (p ThemePayload) BackgroundURL() string {
	sections, err := p.Sections()
	if err != nil {
		return ""
	}
	value, ok := backgroundURL(sections)
	if !ok || !safeURLRegex.MatchString(value) {
		return ""
	}
	return value
}

// ValidationError reports why a payload cannot be applied.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ValidateThemePayload checks the payload against the top-level whitelist and
// rejects background images that are not plain http(s) URLs. The first failing
// rule wins.
func ValidateThemePayload(p ThemePayload) error {
	sections, err := p.Sections()
	if err != nil {
		return &ValidationError{Reason: "not an object"}
	}

	for _, section := range sections {
		if !allowedPayloadKeys[section.Key] {
			return &ValidationError{Reason: "unexpected key: " + section.Key}
		}
	}

	if value, ok := backgroundURL(sections); ok && !safeURLRegex.MatchString(value) {
		return &ValidationError{Reason: "background.url must be http/https"}
	}

	return nil
}

func lastSection(sections []PayloadSection, key string) (json.RawMessage, bool) {
	for i := len(sections) - 1; i >= 0; i-- {
		if sections[i].Key == key {
			return sections[i].Value, true
		}
	}
	return nil, false
}

// backgroundURL reads background.url. Only object backgrounds are inspected and
// empty values ("", 0, false, null) count as unset.
func backgroundURL(sections []PayloadSection) (string, bool) {
	background, ok := lastSection(sections, "background")
	if !ok {
		return "", false
	}
	fields, err := ThemePayload(background).Sections()
	if err != nil {
		return "", false
	}
	raw, ok := lastSection(fields, "url")
	if !ok {
		return "", false
	}
	return scriptString(raw)
}

// scriptString converts a JSON value to the text a browser script would see
// via String(value), reporting false for falsy values.
func scriptString(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return "", false
	}

	switch v := value.(type) {
	case nil:
		return "", false
	case bool:
		if !v {
			return "", false
		}
		return "true", true
	case string:
		return v, v != ""
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return "", false
		}
		return v.String(), true
	default:
		// Arrays and objects are always truthy.
		return scriptText(v), true
	}
}

// scriptText mirrors String(v): arrays join their elements with commas,
// null elements become empty, and objects print as "[object Object]".
func scriptText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		return v
	case json.Number:
		return v.String()
	case []any:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = scriptText(elem)
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

// IsEmptyJSONValue reports whether raw is absent or one of the values a
// browser script treats as false: null, false, 0, or "".
func IsEmptyJSONValue(raw json.RawMessage) bool {
	if len(bytes.TrimSpace(raw)) == 0 {
		return true
	}
	_, ok := scriptString(raw)
	return !ok
}
