// Package gallery holds the theme gallery core: the catalog client, the
// filter/sort engine, and the controller that owns the view state.
package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/themegallery/internal/config"
	"github.com/codr1/themegallery/internal/models"
)

const (
	maxResponseBytes = 4 << 20
	idPlaceholder    = "{id}"
	// idMarker survives URL resolution, where braces would be escaped.
	idMarker = "__THEME_ID__"
)

// Source fetches the gallery listing and per-theme payloads from static JSON
// endpoints.
type Source struct {
	client    *http.Client
	listURL   string
	detailURL string
	timeout   time.Duration
}

type SourceConfig struct {
	BaseURL    string
	ListPath   string
	DetailPath string
	Timeout    time.Duration
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

func NewSource(cfg SourceConfig) (*Source, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gallery base url: %w", err)
	}
	if !strings.Contains(cfg.DetailPath, idPlaceholder) {
		return nil, fmt.Errorf("detail path %q has no %s placeholder", cfg.DetailPath, idPlaceholder)
	}

	listRef, err := url.Parse(cfg.ListPath)
	if err != nil {
		return nil, fmt.Errorf("parse list path: %w", err)
	}
	detailRef, err := url.Parse(strings.ReplaceAll(cfg.DetailPath, idPlaceholder, idMarker))
	if err != nil {
		return nil, fmt.Errorf("parse detail path: %w", err)
	}

	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}

	return &Source{
		client:    client,
		listURL:   base.ResolveReference(listRef).String(),
		detailURL: base.ResolveReference(detailRef).String(),
		timeout:   cfg.Timeout,
	}, nil
}

// NewSourceFromConfig builds a Source from the gallery section of the config.
func NewSourceFromConfig(cfg config.GalleryConfig) (*Source, error) {
	return NewSource(SourceConfig{
		BaseURL:    cfg.SourceURL,
		ListPath:   cfg.ListPath,
		DetailPath: cfg.DetailPath,
		Timeout:    cfg.RequestTimeout,
	})
}

func (s *Source) ListURL() string {
	return s.listURL
}

// DetailURL returns the detail resource for id, percent-encoding the id.
func (s *Source) DetailURL(id string) string {
	return strings.ReplaceAll(s.detailURL, idMarker, EscapeComponent(id))
}

// FetchList returns the gallery listing. A body without items is an empty
// gallery. Entries that are not objects or have no id are skipped.
func (s *Source) FetchList(ctx context.Context) ([]models.ThemeSummary, error) {
	body, err := s.get(ctx, "list", s.listURL)
	if err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &ParseError{Resource: "list", URL: s.listURL, Err: err}
	}
	if envelope == nil {
		return nil, &ParseError{Resource: "list", URL: s.listURL, Err: errors.New("response is not an object")}
	}

	itemsRaw := bytes.TrimSpace(envelope["items"])
	if len(itemsRaw) == 0 || bytes.Equal(itemsRaw, []byte("null")) {
		return []models.ThemeSummary{}, nil
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal(itemsRaw, &rawItems); err != nil {
		return nil, &ParseError{Resource: "list", URL: s.listURL, Err: errors.New("items is not an array")}
	}

	logger := log.Ctx(ctx)
	items := make([]models.ThemeSummary, 0, len(rawItems))
	for i, raw := range rawItems {
		summary, err := models.DecodeThemeSummary(raw)
		if err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("Skipping malformed gallery entry")
			continue
		}
		items = append(items, summary)
	}
	return items, nil
}

// FetchDetail returns the payload stored under the theme field of the detail
// resource for id.
func (s *Source) FetchDetail(ctx context.Context, id string) (models.ThemePayload, error) {
	target := s.DetailURL(id)
	body, err := s.get(ctx, "theme", target)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &ParseError{Resource: "theme", URL: target, Err: errors.New("invalid JSON")}
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil || envelope == nil {
		return nil, &SchemaError{Resource: "theme", URL: target, Field: "theme"}
	}
	theme := envelope["theme"]
	if models.IsEmptyJSONValue(theme) {
		return nil, &SchemaError{Resource: "theme", URL: target, Field: "theme"}
	}
	return models.ThemePayload(theme), nil
}

func (s *Source) get(ctx context.Context, resource, target string) ([]byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Resource: resource, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &TransportError{Resource: resource, URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, &TransportError{Resource: resource, URL: target, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Resource: resource, URL: target, Err: err}
	}

	log.Ctx(ctx).Debug().
		Str("resource", resource).
		Str("url", target).
		Int("bytes", len(body)).
		Msg("Fetched gallery resource")
	return body, nil
}
