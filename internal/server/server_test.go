package server

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/fakeos/internal/browser"
	"github.com/1broseidon/fakeos/internal/config"
	"github.com/1broseidon/fakeos/internal/desktop"
	"github.com/1broseidon/fakeos/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, withSession bool) *httptest.Server {
	t.Helper()
	opts := OptionsFromConfig(config.DefaultConfig())
	if withSession {
		d := desktop.New(desktop.Options{Store: store.NewMemory()})
		opts.Session = desktop.NewSession(d)
	}
	srv := httptest.NewServer(New(opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t, false)

	resp, err := http.Get(srv.URL + "/search/?q=" + url.QueryEscape("go lang"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body browser.SearchResponse
	decodeJSON(t, resp, &body)
	require.Len(t, body.Results, 4)
	assert.Equal(t, `Search results for "go lang"`, body.Results[0].Title)
	assert.Equal(t, "https://www.google.com/search?q=go%20lang", body.Results[0].URL)
	assert.Equal(t, "First Result for go lang", body.Results[1].Title)
	assert.Equal(t, "https://example.com/third-result-go lang", body.Results[3].URL)
}

func TestSearch_EmptyQuery(t *testing.T) {
	srv := newTestServer(t, false)

	resp, err := http.Get(srv.URL + "/search/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	decodeJSON(t, resp, &body)
	assert.Equal(t, "No search query provided", body["error"])
}

func TestQuote(t *testing.T) {
	tests := map[string]string{
		"abc":       "abc",
		"a b":       "a%20b",
		"a/b":       "a/b",
		"c++ & go?": "c%2B%2B%20%26%20go%3F",
		"café":      "caf%C3%A9",
		"~_.-":      "~_.-",
	}
	for in, want := range tests {
		assert.Equal(t, want, quote(in), in)
	}
}

func TestProxy_Validation(t *testing.T) {
	srv := newTestServer(t, false)

	resp, err := http.Post(srv.URL+"/proxy/?url=https://example.com", "text/plain", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/proxy/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	decodeJSON(t, resp, &body)
	assert.Equal(t, "No URL provided", body["error"])
}

func TestProxy_CopiesPageAndFiltersHeaders(t *testing.T) {
	var gotUA, gotAccept string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("X-Upstream", "yes")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte("<html><body>hello</body></html>"))
		_ = gz.Close()
	}))
	defer upstream.Close()

	srv := newTestServer(t, false)
	resp, err := http.Get(srv.URL + "/proxy/?url=" + url.QueryEscape(upstream.URL+"/page"))
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<html><body>hello</body></html>", buf.String())
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "yes", resp.Header.Get("X-Upstream"))
	assert.Empty(t, resp.Header.Get("Content-Encoding"))
	assert.Contains(t, gotUA, "Mozilla/5.0")
	assert.Contains(t, gotAccept, "text/html")
}

func TestProxy_UpstreamErrorStatusPassesThroughAsPage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer upstream.Close()

	srv := newTestServer(t, false)
	resp, err := http.Get(srv.URL + "/proxy/?url=" + url.QueryEscape(upstream.URL))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProxy_TransportError(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	srv := newTestServer(t, false)
	resp, err := http.Get(srv.URL + "/proxy/?url=" + url.QueryEscape(deadURL))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body map[string]string
	decodeJSON(t, resp, &body)
	assert.True(t, strings.HasPrefix(body["error"], "Failed to fetch URL: "), body["error"])
}

func TestDesktopAPI(t *testing.T) {
	srv := newTestServer(t, true)

	resp, err := http.Get(srv.URL + "/api/desktop")
	require.NoError(t, err)
	var state map[string]any
	decodeJSON(t, resp, &state)
	assert.Contains(t, state, "windows")

	post := func(body string) *http.Response {
		resp, err := http.Post(srv.URL+"/api/desktop/events", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		return resp
	}

	resp = post(`{"type":"open","target":"notes"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var after desktop.State
	decodeJSON(t, resp, &after)
	assert.Equal(t, "notes-window", after.Focused)
	require.Len(t, after.Taskbar, 1)
	assert.True(t, after.Taskbar[0].Active)

	resp = post(`{"type":"focus","target":"missing"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = post(`{"type":"open","bogus":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = post(`{"type":"teleport"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestDesktopAPI_DisabledWithoutSession(t *testing.T) {
	srv := newTestServer(t, false)

	resp, err := http.Get(srv.URL + "/api/desktop")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServe_StopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(Options{}).Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/search/?q=x")
	require.NoError(t, err)
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
