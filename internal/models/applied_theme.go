// internal/models/applied_theme.go
package models

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	dbgen "github.com/codr1/themegallery/internal/db/generated"
)

// DefaultAppliedThemeKey is the storage key holding the applied theme.
const DefaultAppliedThemeKey = "themegallery.appliedTheme"

// AppliedThemeRecord is the most recently applied theme payload.
type AppliedThemeRecord struct {
	Key       string       `json:"key"`
	ThemeID   string       `json:"themeId"`
	Payload   ThemePayload `json:"theme"`
	AppliedAt time.Time    `json:"appliedAt"`
}

type AppliedThemeQueries interface {
	UpsertAppliedTheme(ctx context.Context, arg dbgen.UpsertAppliedThemeParams) (dbgen.AppliedTheme, error)
	GetAppliedTheme(ctx context.Context, storageKey string) (dbgen.AppliedTheme, error)
	DeleteAppliedTheme(ctx context.Context, storageKey string) (int64, error)
}

// AppliedThemeStore keeps a single AppliedThemeRecord under one key. Every
// save overwrites the previous record.
type AppliedThemeStore struct {
	queries AppliedThemeQueries
	key     string
	now     func() time.Time
}

func NewAppliedThemeStore(queries AppliedThemeQueries, key string) *AppliedThemeStore {
	if strings.TrimSpace(key) == "" {
		key = DefaultAppliedThemeKey
	}
	return &AppliedThemeStore{
		queries: queries,
		key:     key,
		now:     time.Now,
	}
}

func (s *AppliedThemeStore) Key() string {
	return s.key
}

// SaveApplied stores payload as the applied theme. Callers validate first.
func (s *AppliedThemeStore) SaveApplied(ctx context.Context, themeID string, payload ThemePayload) (AppliedThemeRecord, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, payload); err != nil {
		return AppliedThemeRecord{}, fmt.Errorf("serialize theme payload: %w", err)
	}

	row, err := s.queries.UpsertAppliedTheme(ctx, dbgen.UpsertAppliedThemeParams{
		StorageKey: s.key,
		ThemeID:    themeID,
		Payload:    compact.String(),
		AppliedAt:  s.now().UTC(),
	})
	if err != nil {
		return AppliedThemeRecord{}, fmt.Errorf("store applied theme: %w", err)
	}
	return AppliedThemeFromDB(row), nil
}

// LoadApplied returns the stored record, or nil when nothing has been applied.
func (s *AppliedThemeStore) LoadApplied(ctx context.Context) (*AppliedThemeRecord, error) {
	row, err := s.queries.GetAppliedTheme(ctx, s.key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load applied theme: %w", err)
	}
	record := AppliedThemeFromDB(row)
	return &record, nil
}

// ClearApplied removes the stored record and reports whether one existed.
func (s *AppliedThemeStore) ClearApplied(ctx context.Context) (bool, error) {
	affected, err := s.queries.DeleteAppliedTheme(ctx, s.key)
	if err != nil {
		return false, fmt.Errorf("clear applied theme: %w", err)
	}
	return affected > 0, nil
}

func AppliedThemeFromDB(row dbgen.AppliedTheme) AppliedThemeRecord {
	return AppliedThemeRecord{
		Key:       row.StorageKey,
		ThemeID:   row.ThemeID,
		Payload:   ThemePayload(row.Payload),
		AppliedAt: row.AppliedAt,
	}
}
