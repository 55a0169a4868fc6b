package gallery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubServer struct {
	mu        sync.Mutex
	responses map[string]stubResponse
	requested []string
	headers   []http.Header
}

type stubResponse struct {
	status int
	body   string
}

func newStubServer(t *testing.T, responses map[string]stubResponse) (*stubServer, *Source) {
	t.Helper()
	stub := &stubServer{responses: responses}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.requested = append(stub.requested, r.URL.EscapedPath())
		stub.headers = append(stub.headers, r.Header.Clone())
		resp, ok := stub.responses[r.URL.EscapedPath()]
		stub.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		status := resp.status
		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp.body))
	}))
	t.Cleanup(server.Close)

	source, err := NewSource(SourceConfig{
		BaseURL:    server.URL + "/gallery/",
		ListPath:   "api/themes.json",
		DetailPath: "api/themes/{id}.json",
		Timeout:    2 * time.Second,
	})
	require.NoError(t, err)
	return stub, source
}

func TestNewSource_ResolvesPaths(t *testing.T) {
	source, err := NewSource(SourceConfig{
		BaseURL:    "https://example.com/gallery/",
		ListPath:   "api/themes.json",
		DetailPath: "api/themes/{id}.json",
	})
	require.NoError(t, err)
	require.Equal(t, "https://example.com/gallery/api/themes.json", source.ListURL())
	require.Equal(t, "https://example.com/gallery/api/themes/neon.json", source.DetailURL("neon"))
	require.Equal(t, "https://example.com/gallery/api/themes/a%20b%2Fc%3F.json", source.DetailURL("a b/c?"))

	_, err = NewSource(SourceConfig{BaseURL: "https://example.com/", ListPath: "a.json", DetailPath: "themes/x.json"})
	require.Error(t, err)
}

func TestFetchList(t *testing.T) {
	stub, source := newStubServer(t, map[string]stubResponse{
		"/gallery/api/themes.json": {body: `{"items":[
			{"id":"a","name":"Aurora","author":"Mia","tags":["dark"],"likes":5,"updatedAt":"2024-01-01"},
			{"name":"no id"},
			"not an object",
			{"id":"b","likes":"7","tags":"light"}
		]}`},
	})

	items, err := source.FetchList(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "a", items[0].ID)
	require.Equal(t, "Aurora", items[0].Name)
	require.Equal(t, []string{"dark"}, items[0].Tags)
	require.Equal(t, 5, items[0].Likes)
	require.Equal(t, "b", items[1].ID)
	require.Equal(t, 7, items[1].Likes)
	require.Empty(t, items[1].Tags)

	require.Len(t, stub.headers, 1)
	require.Equal(t, "no-store", stub.headers[0].Get("Cache-Control"))
}

func TestFetchList_EmptyShapes(t *testing.T) {
	for _, body := range []string{`{}`, `{"items":null}`, `{"items":[]}`} {
		_, source := newStubServer(t, map[string]stubResponse{
			"/gallery/api/themes.json": {body: body},
		})
		items, err := source.FetchList(context.Background())
		require.NoError(t, err, body)
		require.NotNil(t, items, body)
		require.Empty(t, items, body)
	}
}

func TestFetchList_Errors(t *testing.T) {
	tests := []struct {
		name   string
		resp   stubResponse
		assert func(t *testing.T, err error)
	}{
		{
			name: "not_found",
			resp: stubResponse{status: http.StatusNotFound, body: `{}`},
			assert: func(t *testing.T, err error) {
				var transportErr *TransportError
				require.ErrorAs(t, err, &transportErr)
				require.Equal(t, http.StatusNotFound, transportErr.StatusCode)
				require.Equal(t, "list fetch failed: status 404", err.Error())
			},
		},
		{
			name: "invalid_json",
			resp: stubResponse{body: `{"items":[`},
			assert: func(t *testing.T, err error) {
				var parseErr *ParseError
				require.ErrorAs(t, err, &parseErr)
			},
		},
		{
			name: "items_not_array",
			resp: stubResponse{body: `{"items":{"id":"a"}}`},
			assert: func(t *testing.T, err error) {
				var parseErr *ParseError
				require.ErrorAs(t, err, &parseErr)
			},
		},
		{
			name: "top_level_array",
			resp: stubResponse{body: `[{"id":"a"}]`},
			assert: func(t *testing.T, err error) {
				var parseErr *ParseError
				require.ErrorAs(t, err, &parseErr)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, source := newStubServer(t, map[string]stubResponse{
				"/gallery/api/themes.json": test.resp,
			})
			items, err := source.FetchList(context.Background())
			require.Nil(t, items)
			test.assert(t, err)
		})
	}
}

func TestFetchList_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	source, err := NewSource(SourceConfig{BaseURL: baseURL, ListPath: "/api/themes.json", DetailPath: "/api/themes/{id}.json"})
	require.NoError(t, err)

	_, err = source.FetchList(context.Background())
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Zero(t, transportErr.StatusCode)
}

func TestFetchDetail(t *testing.T) {
	stub, source := newStubServer(t, map[string]stubResponse{
		"/gallery/api/themes/neon%20glow.json": {body: `{"theme":{"name":"Neon","tokens":{"accent":"#ff00ff"}}}`},
		"/gallery/api/themes/missing.json":     {body: `{"other":1}`},
		"/gallery/api/themes/falsy.json":       {body: `{"theme":0}`},
		"/gallery/api/themes/nulled.json":      {body: `{"theme":null}`},
		"/gallery/api/themes/broken.json":      {body: `{"theme":`},
		"/gallery/api/themes/array.json":       {body: `[1,2]`},
		"/gallery/api/themes/string.json":      {body: `{"theme":"just text"}`},
	})
	ctx := context.Background()

	payload, err := source.FetchDetail(ctx, "neon glow")
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"Neon","tokens":{"accent":"#ff00ff"}}`, string(payload))
	require.Contains(t, stub.requested, "/gallery/api/themes/neon%20glow.json")

	for _, id := range []string{"missing", "falsy", "nulled", "array"} {
		_, err := source.FetchDetail(ctx, id)
		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr, id)
		require.Equal(t, "bad theme payload: missing theme", err.Error())
	}

	_, err = source.FetchDetail(ctx, "broken")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)

	// A non-object payload is returned as-is; validation rejects it later.
	payload, err = source.FetchDetail(ctx, "string")
	require.NoError(t, err)
	require.False(t, payload.IsObject())

	_, err = source.FetchDetail(ctx, "absent")
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, http.StatusNotFound, transportErr.StatusCode)
}

func TestFetchDetail_ContextCanceled(t *testing.T) {
	_, source := newStubServer(t, map[string]stubResponse{
		"/gallery/api/themes/a.json": {body: `{"theme":{}}`},
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.FetchDetail(ctx, "a")
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled) || strings.Contains(err.Error(), "canceled"))
}
