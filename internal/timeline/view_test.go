package timeline_test

import (
	"strings"
	"testing"
	"time"

	"github.com/adee/portfolio/internal/timeline"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvents() []timeline.Event {
	return []timeline.Event{
		{Title: "Great Comet", Category: "Music Direction", Date: day(2022, time.March, 4)},
		{Title: "YouthStage", Category: "Teaching Experience", Date: day(2023, time.September, 1)},
		{Title: "Pit keys", Category: "Performance", Date: day(2023, time.September, 20)},
		{Title: "Summer camp", Category: "Teaching Experience", StartDate: day(2024, time.June, 1), EndDate: day(2024, time.August, 1)},
	}
}

func TestApplyFilter(t *testing.T) {
	events := sampleEvents()
	before := append([]timeline.Event(nil), events...)

	got := timeline.ApplyFilter(events, timeline.ByCategory("teaching experience"))

	require.Len(t, got, 2)
	assert.Equal(t, "YouthStage", got[0].Title)
	assert.Equal(t, "Summer camp", got[1].Title)
	assert.Equal(t, before, events)

	assert.Len(t, timeline.ApplyFilter(events, nil), 4)
	assert.Len(t, timeline.ApplyFilter(events, timeline.ByCategory("")), 4)
	assert.Empty(t, timeline.ApplyFilter(events, timeline.ByCategory("Opera")))
}

func TestCategories(t *testing.T) {
	events := append(sampleEvents(), timeline.Event{Title: "x", Category: "performance"}, timeline.Event{Title: "y"})

	assert.Equal(t, []string{"Music Direction", "Teaching Experience", "Performance"}, timeline.Categories(events))
}

func TestView_FilterChangeResetsSelection(t *testing.T) {
	v := timeline.NewView(sampleEvents(), timeline.DefaultOptions())
	v.State().Click(1)
	v.State().Enter(0)

	changed := v.SetFilter("Teaching Experience", timeline.ByCategory("Teaching Experience"))

	assert.True(t, changed)
	_, sel := v.State().Selected()
	assert.False(t, sel)
	assert.Equal(t, []int{0}, v.State().History())
	assert.Len(t, v.Layout().Placements, 2)
}

func TestView_SameFilterKeepsSelection(t *testing.T) {
	v := timeline.NewView(sampleEvents(), timeline.DefaultOptions())
	v.SetFilter("Performance", timeline.ByCategory("Performance"))
	v.State().Click(0)

	changed := v.SetFilter("Performance", timeline.ByCategory("Performance"))

	assert.False(t, changed)
	assert.True(t, v.State().IsSelected(0))
}

func TestView_ClearingFilterResetsSelection(t *testing.T) {
	v := timeline.NewView(sampleEvents(), timeline.DefaultOptions())
	v.SetFilter("Performance", timeline.ByCategory("Performance"))
	v.State().Click(0)

	v.SetFilter("", nil)

	assert.False(t, v.State().IsSelected(0))
	assert.Len(t, v.Filtered(), 4)
	assert.Equal(t, "", v.FilterKey())
}

func TestView_Contains(t *testing.T) {
	v := timeline.NewView(sampleEvents(), timeline.DefaultOptions())

	assert.True(t, v.Contains(0))
	assert.True(t, v.Contains(3))
	assert.False(t, v.Contains(4))
	assert.False(t, v.Contains(-1))

	v.SetFilter("Performance", timeline.ByCategory("Performance"))
	assert.True(t, v.Contains(0))
	assert.False(t, v.Contains(1))
}

func TestLogDiagnostics(t *testing.T) {
	var buf strings.Builder
	log := zerolog.New(&buf)
	opts := timeline.DefaultOptions()
	opts.Diagnostics = timeline.MultiDiagnostics(timeline.LogDiagnostics(log), nil)

	timeline.Layout([]timeline.Event{{Title: "undated"}}, opts)

	assert.Contains(t, buf.String(), `"title":"undated"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), timeline.ErrNoDate.Error())
}

func TestLogDiagnosticsAt(t *testing.T) {
	var buf strings.Builder
	log := zerolog.New(&buf).Level(zerolog.InfoLevel)
	opts := timeline.DefaultOptions()
	opts.Diagnostics = timeline.LogDiagnosticsAt(log, zerolog.DebugLevel)

	timeline.Layout([]timeline.Event{{Title: "undated"}}, opts)
	assert.Empty(t, buf.String())

	opts.Diagnostics = timeline.LogDiagnosticsAt(log.Level(zerolog.DebugLevel), zerolog.DebugLevel)
	timeline.Layout([]timeline.Event{{Title: "undated"}}, opts)
	assert.Contains(t, buf.String(), `"level":"debug"`)
}
