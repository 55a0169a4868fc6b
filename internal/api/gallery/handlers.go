// internal/api/gallery/handlers.go
package gallery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/themegallery/internal/api/apiutil"
	"github.com/codr1/themegallery/internal/api/htmx"
	gallerycore "github.com/codr1/themegallery/internal/gallery"
	"github.com/codr1/themegallery/internal/models"
	"github.com/codr1/themegallery/internal/ratelimit"
	"github.com/codr1/themegallery/internal/request"
	gallerytempl "github.com/codr1/themegallery/internal/templates/components/gallery"
	"github.com/codr1/themegallery/internal/templates/layouts"
)

const (
	themeIDParam  = "id"
	storeTimeout  = 5 * time.Second
	toastEvent    = "showToast"
	deepLinkQuery = "deeplink"
)

var (
	controller   galleryController
	limiter      reloadLimiter
	settings     HandlerConfig
	handlersOnce sync.Once
)

type galleryController interface {
	Reload(ctx context.Context) error
	Loaded() time.Time
	Summary(id string) (models.ThemeSummary, bool)
	Tags() []string
	Items() []models.ThemeSummary
	Detail(ctx context.Context, id string) (*gallerycore.Selection, error)
	ResolveDeepLink(ctx context.Context, fragment string) (*gallerycore.Selection, bool)
	Apply(ctx context.Context, id string) (models.AppliedThemeRecord, error)
	Applied(ctx context.Context) (*models.AppliedThemeRecord, error)
}

type reloadLimiter interface {
	CheckReload(ip string) ratelimit.LimitResult
	RecordReload(ip string)
}

type HandlerConfig struct {
	// BaseURL is the public page URL used for share links when the request
	// does not report one.
	BaseURL    string
	TrustProxy bool
}

type applyResponse struct {
	OK      bool                       `json:"ok"`
	Message string                     `json:"message"`
	Applied *models.AppliedThemeRecord `json:"applied,omitempty"`
}

type detailResponse struct {
	Summary models.ThemeSummary `json:"summary"`
	Theme   models.ThemePayload `json:"theme"`
}

type gridResponse struct {
	Items []models.ThemeSummary `json:"items"`
	Query string                `json:"query"`
	Tag   string                `json:"tag"`
	Sort  string                `json:"sort"`
	Total int                   `json:"total"`
}

// InitHandlers must be called during server startup before handling requests.
// rl may be nil to disable reload throttling.
func InitHandlers(c *gallerycore.Controller, rl *ratelimit.Limiter, cfg HandlerConfig) {
	if c == nil {
		return
	}
	handlersOnce.Do(func() {
		controller = c
		if rl != nil {
			limiter = rl
		}
		settings = cfg
	})
}

// GET /
func HandleGalleryPage(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	c := loadController()
	if c == nil {
		logger.Error().Msg("Gallery controller not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	state := viewStateFromRequest(r)
	data := gallerytempl.PageData{}
	if c.Loaded().IsZero() {
		if err := c.Reload(r.Context()); err != nil && !errors.Is(err, gallerycore.ErrStale) {
			data.LoadError = err.Error()
		}
	}

	if id := strings.TrimSpace(r.URL.Query().Get("theme")); id != "" {
		fragment := url.Values{"theme": {id}}.Encode()
		if selection, ok := c.ResolveDeepLink(r.Context(), fragment); ok {
			overlay := overlayData(r, selection.Summary, selection.Payload, nil)
			data.Overlay = &overlay
		}
	}

	applied := loadApplied(r.Context())
	if applied != nil {
		data.AppliedID = applied.ThemeID
	}
	data.Controls = gallerytempl.NewControlsData(state, c.Tags())
	data.Grid = gridData(gallerycore.ComputeView(c.Items(), state), data.AppliedID)

	page := layouts.Base(gallerytempl.GalleryPage(data), applied)
	apiutil.RenderHTMLComponent(r.Context(), w, page, nil, "Failed to render gallery page", "Failed to render page")
}

// GET /api/v1/gallery/grid
func HandleGrid(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	c := loadController()
	if c == nil {
		logger.Error().Msg("Gallery controller not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if c.Loaded().IsZero() {
		if err := c.Reload(r.Context()); err != nil && !errors.Is(err, gallerycore.ErrStale) {
			writeError(w, r, err)
			return
		}
	}

	renderGrid(w, r, c, viewStateFromRequest(r), nil)
}

// GET /api/v1/gallery/themes/{id}
func HandleThemeDetail(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	c := loadController()
	if c == nil {
		logger.Error().Msg("Gallery controller not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	id, ok := themeIDFromRequest(r)
	if !ok {
		http.Error(w, "Invalid theme ID", http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get(deepLinkQuery) == "1" {
		selection, opened := c.ResolveDeepLink(r.Context(), "theme="+gallerycore.EscapeComponent(id))
		if !opened {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeDetail(w, r, selection.Summary, selection.Payload)
		return
	}

	if c.Loaded().IsZero() {
		if err := c.Reload(r.Context()); err != nil && !errors.Is(err, gallerycore.ErrStale) {
			writeError(w, r, err)
			return
		}
	}

	selection, err := c.Detail(r.Context(), id)
	switch {
	case err == nil:
		writeDetail(w, r, selection.Summary, selection.Payload)
	case errors.Is(err, gallerycore.ErrUnknownTheme):
		http.Error(w, "Theme not found", http.StatusNotFound)
	case htmx.IsRequest(r):
		summary, _ := c.Summary(id)
		component := gallerytempl.Overlay(overlayData(r, summary, nil, err))
		apiutil.RenderHTMLComponent(r.Context(), w, component, nil, "Failed to render theme overlay", "Failed to render overlay")
	default:
		writeError(w, r, err)
	}
}

// DELETE /api/v1/gallery/overlay
// The overlay lives only in the response that rendered it, so closing is
// purely client-side.
func HandleCloseOverlay(w http.ResponseWriter, r *http.Request) {
	if htmx.IsRequest(r) {
		// An empty 200 clears #overlay.
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/gallery/themes/{id}/apply
func HandleApplyTheme(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	c := loadController()
	if c == nil {
		logger.Error().Msg("Gallery controller not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	id, ok := themeIDFromRequest(r)
	if !ok {
		http.Error(w, "Invalid theme ID", http.StatusBadRequest)
		return
	}

	var note *gallerycore.Notification
	ctx := gallerycore.WithNotifier(r.Context(), gallerycore.NotifierFunc(func(_ context.Context, n gallerycore.Notification) {
		note = &n
	}))

	record, err := c.Apply(ctx, id)
	if errors.Is(err, gallerycore.ErrStale) {
		// A newer apply answers for this one.
		if htmx.IsRequest(r) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, r, http.StatusConflict, applyResponse{OK: false, Message: err.Error()})
		return
	}

	message := ""
	if note != nil {
		message = note.Message
	} else if err != nil {
		message = err.Error()
	}

	if htmx.IsRequest(r) {
		headers := map[string]string{}
		if note != nil {
			trigger, triggerErr := htmx.TriggerHeader(toastEvent, note)
			if triggerErr != nil {
				logger.Error().Err(triggerErr).Msg("Failed to encode toast trigger")
			} else {
				headers["HX-Trigger"] = trigger
			}
		}
		if err != nil {
			for key, value := range headers {
				w.Header().Set(key, value)
			}
			w.WriteHeader(http.StatusOK)
			return
		}
		apiutil.RenderHTMLComponent(r.Context(), w, layouts.ThemeVars(&record), headers, "Failed to render theme vars", "Failed to render response")
		return
	}

	if err != nil {
		writeJSON(w, r, statusForError(err), applyResponse{OK: false, Message: message})
		return
	}
	writeJSON(w, r, http.StatusOK, applyResponse{OK: true, Message: message, Applied: &record})
}

// GET /api/v1/gallery/applied
func HandleAppliedTheme(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	c := loadController()
	if c == nil {
		logger.Error().Msg("Gallery controller not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	record, err := c.Applied(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load applied theme")
		http.Error(w, "Failed to load applied theme", http.StatusInternalServerError)
		return
	}
	if record == nil {
		http.Error(w, "No theme applied", http.StatusNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, record)
}

// GET /api/v1/gallery/themes/{id}/share
func HandleShareLink(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	id, ok := themeIDFromRequest(r)
	if !ok {
		http.Error(w, "Invalid theme ID", http.StatusBadRequest)
		return
	}

	if c := loadController(); c != nil && !c.Loaded().IsZero() {
		if _, found := c.Summary(id); !found {
			http.Error(w, "Theme not found", http.StatusNotFound)
			return
		}
	}

	link, err := gallerycore.ShareLink(pageURL(r), id)
	if err != nil {
		logger.Error().Err(err).Str("theme_id", id).Msg("Failed to build share link")
		http.Error(w, "Failed to build share link", http.StatusInternalServerError)
		return
	}
	logger.Info().Str("theme_id", id).Str("link", link).Msg("Share link created")

	if htmx.IsRequest(r) || strings.Contains(r.Header.Get("Accept"), "text/plain") {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(link))
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"themeId": id, "link": link})
}

// POST /api/v1/gallery/reload
func HandleReload(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	c := loadController()
	if c == nil {
		logger.Error().Msg("Gallery controller not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if rl := loadLimiter(); rl != nil {
		ip := ratelimit.GetClientIP(r, settings.TrustProxy)
		result := rl.CheckReload(ip)
		if !result.Allowed {
			ratelimit.LogRateLimitExceeded(r.Context(), ip, result)
			retryAfter := int(result.RetryAfter.Round(time.Second) / time.Second)
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			http.Error(w, "Too many reloads, try again later", http.StatusTooManyRequests)
			return
		}
		rl.RecordReload(ip)
	}

	if err := c.Reload(r.Context()); err != nil && !errors.Is(err, gallerycore.ErrStale) {
		if htmx.IsRequest(r) {
			note := gallerycore.Notification{Kind: gallerycore.NotifyFailure, Message: err.Error()}
			if trigger, triggerErr := htmx.TriggerHeader(toastEvent, note); triggerErr == nil {
				w.Header().Set("HX-Trigger", trigger)
			}
			w.Header().Set("HX-Reswap", "none")
			w.WriteHeader(http.StatusOK)
			return
		}
		writeError(w, r, err)
		return
	}

	note := gallerycore.Notification{
		Kind:    gallerycore.NotifySuccess,
		Message: fmt.Sprintf("Gallery reloaded (%d themes)", len(c.Items())),
	}
	renderGrid(w, r, c, viewStateFromRequest(r), &note)
}

// viewStateFromRequest builds the filters for this response. The shared
// controller holds the listing only, never one visitor's filters.
func viewStateFromRequest(r *http.Request) gallerycore.ViewState {
	filters, _ := request.FiltersFromRequest(r)
	return gallerycore.ViewState{
		Query: filters.Query,
		Tag:   filters.Tag,
		Sort:  gallerycore.ParseSortMode(filters.Sort),
	}
}

func renderGrid(w http.ResponseWriter, r *http.Request, c galleryController, state gallerycore.ViewState, note *gallerycore.Notification) {
	logger := log.Ctx(r.Context())
	items := gallerycore.ComputeView(c.Items(), state)

	if htmx.IsRequest(r) {
		appliedID := ""
		if applied := loadApplied(r.Context()); applied != nil {
			appliedID = applied.ThemeID
		}
		var headers map[string]string
		if note != nil {
			if trigger, err := htmx.TriggerHeader(toastEvent, note); err == nil {
				headers = map[string]string{"HX-Trigger": trigger}
			}
		}
		component := gallerytempl.Grid(gridData(items, appliedID))
		apiutil.RenderHTMLComponent(r.Context(), w, component, headers, "Failed to render gallery grid", "Failed to render grid")
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, gridResponse{
		Items: items,
		Query: state.Query,
		Tag:   state.Tag,
		Sort:  string(state.Sort),
		Total: len(items),
	}); err != nil {
		logger.Error().Err(err).Msg("Failed to write gallery grid response")
	}
}

func writeDetail(w http.ResponseWriter, r *http.Request, summary models.ThemeSummary, payload models.ThemePayload) {
	if htmx.IsRequest(r) {
		component := gallerytempl.Overlay(overlayData(r, summary, payload, nil))
		apiutil.RenderHTMLComponent(r.Context(), w, component, nil, "Failed to render theme overlay", "Failed to render overlay")
		return
	}
	writeJSON(w, r, http.StatusOK, detailResponse{Summary: summary, Theme: payload})
}

func overlayData(r *http.Request, summary models.ThemeSummary, payload models.ThemePayload, loadErr error) gallerytempl.OverlayData {
	data := gallerytempl.OverlayData{Summary: summary}
	if loadErr != nil {
		data.Error = loadErr.Error()
		return data
	}

	pretty, err := payload.Pretty()
	if err != nil {
		data.Error = "theme payload is not valid JSON"
		return data
	}
	data.JSON = pretty

	if link, err := gallerycore.ShareLink(pageURL(r), summary.ID); err == nil {
		data.ShareURL = link
	}
	return data
}

func gridData(items []models.ThemeSummary, appliedID string) gallerytempl.GridData {
	return gallerytempl.GridData{
		Cards: gallerytempl.NewCards(items, appliedID),
		Total: len(items),
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Int("status", status).Msg("Gallery request failed")
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write gallery response")
	}
}

func statusForError(err error) int {
	var handlerErr apiutil.HandlerError
	var transportErr *gallerycore.TransportError
	var parseErr *gallerycore.ParseError
	switch {
	case errors.As(err, &handlerErr):
		return handlerErr.Status
	case errors.Is(err, gallerycore.ErrUnknownTheme):
		return http.StatusNotFound
	case errors.Is(err, gallerycore.ErrStale):
		return http.StatusConflict
	case gallerycore.IsUserError(err):
		return http.StatusUnprocessableEntity
	case errors.As(err, &transportErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func loadApplied(ctx context.Context) *models.AppliedThemeRecord {
	c := loadController()
	if c == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	record, err := c.Applied(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to load applied theme")
		return nil
	}
	return record
}

// pageURL is the page the request came from: htmx reports it, otherwise the
// configured base URL.
func pageURL(r *http.Request) string {
	if current := htmx.CurrentURL(r); current != "" {
		return current
	}
	if settings.BaseURL != "" {
		return settings.BaseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/"
}

func themeIDFromRequest(r *http.Request) (string, bool) {
	id := r.PathValue(themeIDParam)
	return id, strings.TrimSpace(id) != ""
}

func loadController() galleryController {
	return controller
}

func loadLimiter() reloadLimiter {
	return limiter
}
