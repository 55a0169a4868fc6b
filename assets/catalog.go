package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/codr1/themegallery/internal/models"
)

// DemoTheme is one entry of the demo catalog with its payload check result.
type DemoTheme struct {
	Summary models.ThemeSummary
	Payload models.ThemePayload
	// Invalid holds the validation failure for payloads that cannot be applied.
	Invalid error
}

// LoadDemoCatalog reads the embedded catalog and pairs every listed theme with
// its detail payload. Structural problems are errors; payloads that fail
// validation are reported per theme since the demo carries some on purpose.
func LoadDemoCatalog() ([]DemoTheme, error) {
	return loadCatalog(Catalog())
}

func loadCatalog(fsys fs.FS) ([]DemoTheme, error) {
	listBody, err := fs.ReadFile(fsys, CatalogListPath)
	if err != nil {
		return nil, fmt.Errorf("open embedded catalog list: %w", err)
	}

	var list struct {
		Items []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(listBody, &list); err != nil {
		return nil, fmt.Errorf("parse catalog list: %w", err)
	}

	themes := make([]DemoTheme, 0, len(list.Items))
	seen := map[string]bool{}
	for i, raw := range list.Items {
		summary, err := models.DecodeThemeSummary(raw)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if seen[summary.ID] {
			return nil, fmt.Errorf("duplicate catalog id %q", summary.ID)
		}
		seen[summary.ID] = true

		payload, err := readPayload(fsys, summary.ID)
		if err != nil {
			return nil, fmt.Errorf("theme %q: %w", summary.ID, err)
		}

		themes = append(themes, DemoTheme{
			Summary: summary,
			Payload: payload,
			Invalid: models.ValidateThemePayload(payload),
		})
	}
	return themes, nil
}

func readPayload(fsys fs.FS, id string) (models.ThemePayload, error) {
	path := strings.ReplaceAll(CatalogDetailPath, "{id}", id)
	body, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("open detail: %w", err)
	}

	var detail map[string]json.RawMessage
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("parse detail: %w", err)
	}
	theme, ok := detail["theme"]
	if !ok || models.IsEmptyJSONValue(theme) {
		return nil, errors.New("detail has no theme")
	}
	return models.ThemePayload(theme), nil
}
