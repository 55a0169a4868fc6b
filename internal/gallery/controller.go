package gallery

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/themegallery/internal/models"
)

// Catalog is the read-only source of listings and payloads.
type Catalog interface {
	FetchList(ctx context.Context) ([]models.ThemeSummary, error)
	FetchDetail(ctx context.Context, id string) (models.ThemePayload, error)
}

// AppliedStore persists the single applied theme.
type AppliedStore interface {
	SaveApplied(ctx context.Context, themeID string, payload models.ThemePayload) (models.AppliedThemeRecord, error)
	LoadApplied(ctx context.Context) (*models.AppliedThemeRecord, error)
	ClearApplied(ctx context.Context) (bool, error)
}

// Controller owns the loaded listing and the view state. State changes only
// through its methods; network calls run outside the lock and their results
// are dropped when a newer request for the same action was issued meanwhile.
type Controller struct {
	catalog  Catalog
	store    AppliedStore
	notifier Notifier
	seq      Sequencer
	now      func() time.Time

	mu       sync.Mutex
	items    []models.ThemeSummary
	loadedAt time.Time
	state    ViewState

	// applyMu serializes the staleness check with the storage write.
	applyMu sync.Mutex
}

// NewController wires a controller. notifier may be nil; a notifier attached
// to the request context always takes precedence.
func NewController(catalog Catalog, store AppliedStore, notifier Notifier) *Controller {
	return &Controller{
		catalog:  catalog,
		store:    store,
		notifier: notifier,
		now:      time.Now,
		state:    ViewState{Sort: SortTrending},
	}
}

// Reload fetches the listing and replaces the loaded items.
func (c *Controller) Reload(ctx context.Context) error {
	logger := log.Ctx(ctx)
	token := c.seq.Issue(SlotList)

	items, err := c.catalog.FetchList(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load gallery listing")
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.seq.IsLatest(SlotList, token) {
		logger.Debug().Msg("Discarding superseded gallery listing")
		return ErrStale
	}
	c.items = items
	c.loadedAt = c.now()
	logger.Info().Int("themes", len(items)).Msg("Gallery listing loaded")
	return nil
}

// Loaded reports when the listing was last loaded; zero if never.
func (c *Controller) Loaded() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadedAt
}

// Items returns a copy of the loaded listing in source order.
func (c *Controller) Items() []models.ThemeSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Summary finds a loaded theme by id.
func (c *Controller) Summary(id string) (models.ThemeSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.ThemeSummary{}, false
}

// Tags returns the tag picker options for the loaded listing.
func (c *Controller) Tags() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Tags(c.items)
}

func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetFilters replaces query, tag, and sort in one step, leaving the selection.
func (c *Controller) SetFilters(query, tag string, mode SortMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Query = query
	c.state.Tag = tag
	c.state.Sort = ParseSortMode(string(mode))
}

// View returns the themes to display for the current state.
func (c *Controller) View() []models.ThemeSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ComputeView(c.items, c.state)
}

// Detail fetches the payload for a listed theme without touching the view
// state. Callers that keep their own per-request state use it instead of
// Inspect.
func (c *Controller) Detail(ctx context.Context, id string) (*Selection, error) {
	summary, ok := c.Summary(id)
	if !ok {
		return nil, ErrUnknownTheme
	}

	payload, err := c.catalog.FetchDetail(ctx, id)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("theme_id", id).Msg("Failed to load theme for inspection")
		return nil, err
	}
	return &Selection{Summary: summary, Payload: payload}, nil
}

// Inspect loads the payload for a listed theme and makes it the selection.
func (c *Controller) Inspect(ctx context.Context, id string) (*Selection, error) {
	if _, ok := c.Summary(id); !ok {
		return nil, ErrUnknownTheme
	}

	token := c.seq.Issue(SlotInspect)
	selection, err := c.Detail(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.seq.IsLatest(SlotInspect, token) {
		return nil, ErrStale
	}
	c.state.Selected = selection
	return selection, nil
}

// CloseInspect discards the selection. In-flight inspections are invalidated
// so a late response cannot reopen the overlay.
func (c *Controller) CloseInspect() {
	c.seq.Issue(SlotInspect)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Selected = nil
}

// OpenDeepLink inspects the theme named by a "theme=<id>" fragment. Every
// failure is swallowed; the result only reports whether the overlay opened.
func (c *Controller) OpenDeepLink(ctx context.Context, fragment string) (*Selection, bool) {
	return c.openDeepLink(ctx, fragment, c.Inspect)
}

// ResolveDeepLink is OpenDeepLink without changing the selection.
func (c *Controller) ResolveDeepLink(ctx context.Context, fragment string) (*Selection, bool) {
	return c.openDeepLink(ctx, fragment, c.Detail)
}

func (c *Controller) openDeepLink(ctx context.Context, fragment string, open func(context.Context, string) (*Selection, error)) (*Selection, bool) {
	id, ok := ParseDeepLink(fragment)
	if !ok {
		return nil, false
	}
	logger := log.Ctx(ctx).With().Str("theme_id", id).Logger()

	if c.Loaded().IsZero() {
		if err := c.Reload(ctx); err != nil {
			logger.Debug().Err(err).Msg("Deep link ignored: listing unavailable")
			return nil, false
		}
	}

	selection, err := open(ctx, id)
	if err != nil {
		logger.Debug().Err(err).Msg("Deep link ignored")
		return nil, false
	}
	return selection, true
}

// Apply fetches, validates, and stores the theme as the applied theme. On any
// failure the stored record is left untouched and a failure notification is
// emitted with the error message.
func (c *Controller) Apply(ctx context.Context, id string) (models.AppliedThemeRecord, error) {
	logger := log.Ctx(ctx).With().Str("theme_id", id).Logger()
	name := id
	if summary, ok := c.Summary(id); ok {
		name = summary.DisplayName()
	}

	token := c.seq.Issue(SlotApply)
	payload, err := c.catalog.FetchDetail(ctx, id)
	if err == nil {
		err = models.ValidateThemePayload(payload)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Theme apply rejected")
		c.notify(ctx, Notification{Kind: NotifyFailure, Message: err.Error()})
		return models.AppliedThemeRecord{}, err
	}

	c.applyMu.Lock()
	defer c.applyMu.Unlock()
	if !c.seq.IsLatest(SlotApply, token) {
		logger.Debug().Msg("Discarding superseded theme apply")
		return models.AppliedThemeRecord{}, ErrStale
	}

	record, err := c.store.SaveApplied(ctx, id, payload)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to store applied theme")
		c.notify(ctx, Notification{Kind: NotifyFailure, Message: err.Error()})
		return models.AppliedThemeRecord{}, err
	}

	logger.Info().Msg("Theme applied")
	c.notify(ctx, Notification{Kind: NotifySuccess, Message: "Applied: " + name})
	return record, nil
}

// Applied returns the stored applied theme, or nil.
func (c *Controller) Applied(ctx context.Context) (*models.AppliedThemeRecord, error) {
	return c.store.LoadApplied(ctx)
}

// ClearApplied removes the stored applied theme.
func (c *Controller) ClearApplied(ctx context.Context) error {
	cleared, err := c.store.ClearApplied(ctx)
	if err != nil {
		c.notify(ctx, Notification{Kind: NotifyFailure, Message: err.Error()})
		return err
	}
	if cleared {
		c.notify(ctx, Notification{Kind: NotifySuccess, Message: "Applied theme cleared"})
	}
	return nil
}

func (c *Controller) notify(ctx context.Context, n Notification) {
	if notifier := NotifierFromContext(ctx); notifier != nil {
		notifier.Notify(ctx, n)
		return
	}
	if c.notifier != nil {
		c.notifier.Notify(ctx, n)
	}
}

// IsUserError reports whether err came from the theme data rather than from
// the gallery itself, which decides how callers present it.
func IsUserError(err error) bool {
	var validationErr *models.ValidationError
	var schemaErr *SchemaError
	return errors.As(err, &validationErr) || errors.As(err, &schemaErr)
}
