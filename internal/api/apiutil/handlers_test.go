package apiutil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteJSON(rec, http.StatusAccepted, map[string]any{"ok": true}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type = %q", got)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"ok":true}` {
		t.Fatalf("body = %q", got)
	}
}

func TestRenderHTMLComponent(t *testing.T) {
	ok := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>hi</p>")
		return err
	})
	rec := httptest.NewRecorder()
	if !RenderHTMLComponent(context.Background(), rec, ok, map[string]string{"HX-Trigger": "refresh"}, "log", "fail") {
		t.Fatalf("RenderHTMLComponent() = false, want true")
	}
	if rec.Body.String() != "<p>hi</p>" || rec.Header().Get("HX-Trigger") != "refresh" {
		t.Fatalf("unexpected response: %d %q %v", rec.Code, rec.Body.String(), rec.Header())
	}

	broken := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, "<p>partial")
		return errors.New("boom")
	})
	rec = httptest.NewRecorder()
	if RenderHTMLComponent(context.Background(), rec, broken, nil, "log", "Failed to render") {
		t.Fatalf("RenderHTMLComponent() = true, want false")
	}
	if rec.Code != http.StatusInternalServerError || strings.Contains(rec.Body.String(), "partial") {
		t.Fatalf("unexpected response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestHandlerError(t *testing.T) {
	inner := errors.New("inner")
	err := error(HandlerError{Status: http.StatusBadGateway, Message: "upstream failed", Err: inner})
	if err.Error() != "upstream failed" || !errors.Is(err, inner) {
		t.Fatalf("HandlerError = %v", err)
	}
}
