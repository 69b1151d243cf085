package content_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adee/portfolio/internal/content"
	"github.com/adee/portfolio/internal/slideshow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"01/15/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15T10:30:00Z", time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
		{" Mar 2023 ", time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := content.ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}

	zero, err := content.ParseDate("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	_, err = content.ParseDate("next tuesday")
	assert.Error(t, err)
}

func TestLoadEvents_YAML(t *testing.T) {
	path := writeFile(t, "events.yaml", `
- title: Recital
  category: Performance
  date: 2024-03-10
- title: Camp
  category: Teaching
  start_date: 2024-06
  end_date: 2024-08
- title: Broken
  date: someday
`)
	events, err := content.LoadEvents(path)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "Recital", events[0].Title)
	assert.Equal(t, time.March, events[0].Date.Month())
	assert.True(t, events[1].Ranged())
	assert.True(t, events[2].Date.IsZero(), "unparsable dates stay zero")
}

func TestLoadEvents_YAMLUnderEventsKey(t *testing.T) {
	path := writeFile(t, "events.yml", "events:\n  - title: Gig\n    date: 2024-01-02\n")
	events, err := content.LoadEvents(path)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Gig", events[0].Title)
}

func TestLoadEvents_CSV(t *testing.T) {
	path := writeFile(t, "events.csv", strings.Join([]string{
		"Title,Category,Start Date,end_date,Date,Description",
		"Camp,Teaching,2024-06-17,2024-08-09,,Summer",
		",,,,,",
		"Gig,Performance,,,02/21/2025",
	}, "\n"))

	events, err := content.LoadEvents(path)
	require.NoError(t, err)
	require.Len(t, events, 2, "blank rows are skipped")

	assert.Equal(t, "Camp", events[0].Title)
	assert.True(t, events[0].Ranged())
	assert.Equal(t, "Summer", events[0].Description)
	assert.Equal(t, 2025, events[1].Date.Year())
}

func TestLoadEvents_Unsupported(t *testing.T) {
	path := writeFile(t, "events.txt", "hello")
	_, err := content.LoadEvents(path)
	assert.ErrorIs(t, err, content.ErrUnsupportedFormat)

	_, err = content.LoadEvents(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultEvents(t *testing.T) {
	events, err := content.DefaultEvents()
	require.NoError(t, err)
	assert.NotEmpty(t, events)
	for _, e := range events {
		_, err := e.Resolve()
		assert.NoError(t, err, e.Title)
	}
}

func TestSheetsClient_FetchSheet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spreadsheets/sheet-1/values/Sheet1!A:Z", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"values":[["title","date","category"],["Gig","2024-01-02","Performance"],["Short"]]}`))
	}))
	defer srv.Close()

	client := content.NewSheetsClientWithBaseURL(srv.URL, "k")
	rows, err := client.FetchSheet(context.Background(), "sheet-1", "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Gig", rows[0]["title"])
	assert.Equal(t, "", rows[1]["date"], "missing cells are empty")

	events, err := client.FetchEvents(context.Background(), "sheet-1", "")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Performance", events[0].Category)
}

func TestSheetsClient_EmptyAndErrors(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer empty.Close()

	rows, err := content.NewSheetsClientWithBaseURL(empty.URL, "k").FetchSheet(context.Background(), "s", "")
	require.NoError(t, err)
	assert.Empty(t, rows)

	denied := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer denied.Close()

	_, err = content.NewSheetsClientWithBaseURL(denied.URL, "k").FetchSheet(context.Background(), "s", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestDriveClient_ListImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files", r.URL.Path)
		assert.Equal(t, "'folder' in parents", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"files":[
			{"id":"a","name":"a.jpg","mimeType":"image/jpeg"},
			{"id":"b","name":"notes.pdf","mimeType":"application/pdf"},
			{"id":"c","name":"c.png","mimeType":"image/png"}
		]}`))
	}))
	defer srv.Close()

	client := content.NewDriveClientWithBaseURL(srv.URL, "k")
	urls, err := client.ListImages(context.Background(), "folder")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://drive.google.com/thumbnail?id=a&sz=w1000",
		"https://drive.google.com/thumbnail?id=c&sz=w1000",
	}, urls)

	assert.Equal(t, srv.URL+"/files/a?alt=media&key=k", client.StreamURL("a"))
}

func TestDriveClient_ListImagesEscapesFolderID(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`{"files":[]}`))
	}))
	defer srv.Close()

	client := content.NewDriveClientWithBaseURL(srv.URL, "k")
	_, err := client.ListImages(context.Background(), `it's\here`)
	require.NoError(t, err)
	assert.Equal(t, `'it\'s\\here' in parents`, got)
}

func TestSite_DefaultAndOverride(t *testing.T) {
	site, err := content.DefaultSite()
	require.NoError(t, err)
	assert.Equal(t, "Amanda Dee", site.Name)
	reels, ok := site.Reel("Reels")
	require.True(t, ok)
	assert.Equal(t, slideshow.KindYouTube, reels.Entries[0].Kind)
	assert.NotEmpty(t, site.Embeds.Calendar)

	path := writeFile(t, "site.yaml", "embeds:\n  resume: https://example.com/cv\n")
	site, err = content.LoadSite(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/cv", site.Embeds.Resume)
	assert.Equal(t, "Amanda Dee", site.Name, "unset fields keep defaults")
	assert.NotEmpty(t, site.Embeds.Calendar)
}
