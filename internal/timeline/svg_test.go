package timeline_test

import (
	"strings"
	"testing"
	"time"

	"github.com/adee/portfolio/internal/timeline"
	"github.com/stretchr/testify/assert"
)

func TestRenderSVG(t *testing.T) {
	events := []timeline.Event{
		{Title: "Into the Woods <Jr>", Description: "Keys & conducting", Date: day(2024, time.April, 2)},
		{Title: "Recital", Date: day(2024, time.April, 9)},
	}
	res := timeline.Layout(events, timeline.DefaultOptions())
	st := timeline.NewState()
	st.Click(0)
	st.Enter(1)

	svg := timeline.RenderSVG(res, st, timeline.DisplayDefault, timeline.DefaultSVGOptions())

	assert.True(t, strings.HasPrefix(svg, `<?xml version="1.0"`))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Contains(t, svg, "Into the Woods &lt;Jr&gt;")
	assert.Contains(t, svg, "Keys &amp; conducting")
	assert.Contains(t, svg, "Apr 2024")
	assert.Contains(t, svg, timeline.ColorSelected.Hex())
	assert.Contains(t, svg, timeline.ColorHovered.Hex())

	// The hovered node has the highest z-index and is drawn last.
	assert.Greater(t, strings.Index(svg, ">Recital<"), strings.Index(svg, "Into the Woods"))
}

func TestRenderSVG_MinimalHidesIdleNodes(t *testing.T) {
	res := timeline.Layout([]timeline.Event{
		{Title: "Hidden", Date: day(2021, time.May, 1)},
		{Title: "Shown", Date: day(2021, time.May, 2)},
	}, timeline.DefaultOptions())
	st := timeline.NewState()
	st.Enter(1)

	svg := timeline.RenderSVG(res, st, timeline.DisplayMinimalLeft, timeline.DefaultSVGOptions())

	assert.NotContains(t, svg, "Hidden")
	assert.Contains(t, svg, "Shown")
}

func TestRenderSVG_Empty(t *testing.T) {
	svg := timeline.RenderSVG(timeline.Layout(nil, timeline.DefaultOptions()), nil, timeline.DisplayDefault, timeline.SVGOptions{})

	assert.Contains(t, svg, "<svg")
	assert.NotContains(t, svg, "<circle")
}
