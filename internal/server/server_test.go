package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adee/portfolio/internal/config"
	"github.com/adee/portfolio/internal/content"
	"github.com/adee/portfolio/internal/locale"
	"github.com/adee/portfolio/internal/store"
	"github.com/adee/portfolio/internal/timeline"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var testEvents = []timeline.Event{
	{Title: "Pinole Players", Category: "Directing", Description: "Music director for Into the Woods.", Date: date(2024, time.June, 1)},
	{Title: "Ray of Light Theatre", Category: "Performance", Description: "Keys 2 for the summer musical.", Date: date(2024, time.June, 15)},
	{Title: "Northeastern University", Category: "Education", Description: "Biology and music.", Date: date(2023, time.May, 1)},
	// No title; dropped from every layout.
	{Category: "Directing", Date: date(2022, time.January, 1)},
}

type testEnv struct {
	srv   *Server
	store *store.Store
	clock *clockwork.FakeClock
	t     *locale.Strings
}

func newTestServer(t *testing.T, opts ...func(*Deps)) *testEnv {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC))

	st, err := store.Open(context.Background(), store.Config{
		Path:  filepath.Join(t.TempDir(), "test.db"),
		Clock: clock,
		Salt:  "pepper",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.DefaultConfig()
	cfg.Server.Mode = "test"
	cfg.Admin.Password = "secret"

	site, err := content.DefaultSite()
	require.NoError(t, err)
	strs := locale.MustLoad(locale.Default)

	d := Deps{
		Config:  cfg,
		Strings: strs,
		Site:    site,
		Events:  testEvents,
		Store:   st,
		Clock:   clock,
		Logger:  zerolog.Nop(),
	}
	for _, o := range opts {
		o(&d)
	}

	srv, err := New(d)
	require.NoError(t, err)
	return &testEnv{srv: srv, store: st, clock: clock, t: strs}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(target string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestDepsValidate(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)
}

func TestPages(t *testing.T) {
	env := newTestServer(t)

	for _, path := range []string{"/", "/music", "/resume", "/events", "/privacy", "/reels", "/contact", "/photos"} {
		t.Run(path, func(t *testing.T) {
			w := env.get(path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), "<nav class=\"navbar\">")
		})
	}
}

func TestHome(t *testing.T) {
	env := newTestServer(t)

	w := env.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Amanda Dee")
	assert.Contains(t, body, "/static/images/headshot.svg")
	assert.Contains(t, body, `<a href="/" class="active">`)
}

func TestNotFound(t *testing.T) {
	env := newTestServer(t)

	w := env.get("/no/such/page")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), env.t.Errors.NotFound)
}

func TestHealth(t *testing.T) {
	env := newTestServer(t)

	w := env.get("/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStaticAndMetrics(t *testing.T) {
	env := newTestServer(t)

	w := env.get("/static/css/site.css")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "--green-dot")

	env.get("/")
	w = env.get("/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portfolio_http_requests_total")
}

func TestVisitorTracking(t *testing.T) {
	env := newTestServer(t)

	env.get("/")
	env.get("/static/css/site.css")
	env.get("/api/timeline")

	dnt := httptest.NewRequest(http.MethodGet, "/music", nil)
	dnt.Header.Set("DNT", "1")
	env.do(dnt)

	frag := httptest.NewRequest(http.MethodGet, "/timeline/view", nil)
	frag.Header.Set("HX-Request", "true")
	env.do(frag)

	env.srv.bg.Wait()

	visitors, err := env.store.RecentVisitors(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, visitors, 1)
	assert.Equal(t, "/", visitors[0].Path)
	assert.Equal(t, env.store.HashIP("192.0.2.1"), visitors[0].HashedIP)
}

func TestScene(t *testing.T) {
	env := newTestServer(t)

	w := env.get("/api/scene?frames=3&notes=5&seed=7&w=800&h=400")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		FPS    int `json:"fps"`
		Frames []struct {
			Width  int               `json:"width"`
			Height int               `json:"height"`
			Notes  []json.RawMessage `json:"notes"`
		} `json:"frames"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 60, resp.FPS)
	require.Len(t, resp.Frames, 4)
	assert.Len(t, resp.Frames[0].Notes, 5)
	assert.Equal(t, 800, resp.Frames[0].Width)
	assert.Equal(t, 400, resp.Frames[0].Height)

	// Same seed, same scene.
	again := env.get("/api/scene?frames=3&notes=5&seed=7&w=800&h=400")
	assert.Equal(t, w.Body.String(), again.Body.String())

	w = env.get("/api/scene?kind=fireworks")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReels(t *testing.T) {
	env := newTestServer(t)

	w := env.get("/reels")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Classical Samples")
	assert.Contains(t, body, "https://www.youtube.com/embed/BeiJyFJ36KM")
	assert.Contains(t, body, "https://www.youtube.com/embed/OMuqP9UwG5M")

	tests := []struct {
		target string
		status int
		want   string
	}{
		{"/reels/0/slides/1", http.StatusOK, "A2uiy_tByd8"},
		{"/reels/1/slides/2", http.StatusOK, "ED9ju8ubvLk"},
		{"/reels/0/slides/99", http.StatusOK, "e4cc8El4bU0"},
		{"/reels/7/slides/0", http.StatusNotFound, ""},
		{"/reels/0/slides/next", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := env.get(tt.target)
			assert.Equal(t, tt.status, w.Code)
			if tt.want != "" {
				assert.Contains(t, w.Body.String(), tt.want)
				assert.NotContains(t, w.Body.String(), "<nav")
			}
		})
	}
}

type fakeLister struct {
	mu    sync.Mutex
	urls  []string
	err   error
	calls int
}

func (f *fakeLister) ListImages(_ context.Context, folderID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if folderID != "folder-1" {
		return nil, errors.New("wrong folder")
	}
	return f.urls, f.err
}

func withPhotos(l PhotoLister) func(*Deps) {
	return func(d *Deps) {
		d.Photos = l
		d.Config.Google.PhotosFolderID = "folder-1"
	}
}

func TestPhotos(t *testing.T) {
	lister := &fakeLister{urls: []string{
		"https://drive.google.com/thumbnail?id=a&sz=w1000",
		"https://drive.google.com/thumbnail?id=b&sz=w1000",
	}}
	env := newTestServer(t, withPhotos(lister))

	w := env.get("/photos")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "id=a")

	w = env.get("/photos/slides/1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "id=b")
	assert.Equal(t, 1, lister.calls)

	// Past the TTL a failing listing falls back to the cached one.
	env.clock.Advance(photoCacheTTL + time.Second)
	lister.err = errors.New("drive unavailable")
	w = env.get("/photos")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "id=a")
	assert.Equal(t, 2, lister.calls)
}

func TestPhotos_Errors(t *testing.T) {
	lister := &fakeLister{err: errors.New("drive unavailable")}
	env := newTestServer(t, withPhotos(lister))

	w := env.get("/photos")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), env.t.Errors.Internal)

	w = env.get("/photos/slides/0")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestPhotos_NotConfigured(t *testing.T) {
	env := newTestServer(t)

	w := env.get("/photos")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), env.t.Slideshow.Empty)

	w = env.get("/photos/slides/0")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDict(t *testing.T) {
	dict := templateFuncs["dict"].(func(...any) (map[string]any, error))

	m, err := dict("a", 1, "b", "two")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": "two"}, m)

	_, err = dict("a")
	assert.Error(t, err)
	_, err = dict(1, 2)
	assert.Error(t, err)
}
