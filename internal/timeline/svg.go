package timeline

import (
	"fmt"
	"slices"
	"strings"
)

// SVGOptions controls the static SVG export of a layout.
type SVGOptions struct {
	Width      int     // canvas width in pixels
	UnitPixels float64 // pixels per TickSize unit (one vh on screen)
	FontFamily string
	FontSize   int
	Background string
	AxisColor  string
	TextColor  string
	DotRadius  int
}

// DefaultSVGOptions renders at 800px wide with 8px per vh.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:      800,
		UnitPixels: 8,
		FontFamily: "Arial, sans-serif",
		FontSize:   12,
		Background: "#ffffff",
		AxisColor:  "#333333",
		TextColor:  "#333333",
		DotRadius:  6,
	}
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// RenderSVG draws a layout as a standalone SVG document. Dots are coloured
// from st, and nodes are drawn in z-order so hovered nodes end up on top.
// A nil st renders every node in its default state.
func RenderSVG(res Result, st *State, mode DisplayMode, opts SVGOptions) string {
	if st == nil {
		st = NewState()
	}
	if opts.Width <= 0 {
		opts = DefaultSVGOptions()
	}

	height := int(res.Height*opts.UnitPixels) + 2*opts.FontSize
	axisX := opts.Width / 2
	if mode == DisplayMinimalLeft {
		axisX = 3 + opts.DotRadius
	}

	var svg strings.Builder
	fmt.Fprintf(&svg, `<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<style>
.tick-label { font-family: %s; font-size: %dpx; fill: %s; }
.node-title { font-family: %s; font-size: %dpx; font-weight: bold; fill: %s; }
.node-description { font-family: %s; font-size: %dpx; fill: %s; }
</style>
`, opts.Width, height, opts.Background,
		opts.FontFamily, opts.FontSize-1, opts.TextColor,
		opts.FontFamily, opts.FontSize+2, opts.TextColor,
		opts.FontFamily, opts.FontSize-2, opts.TextColor)

	fmt.Fprintf(&svg, `<line x1="%d" y1="0" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
		axisX, axisX, height, opts.AxisColor)

	var y float64
	for _, t := range res.Ticks {
		py := int(y * opts.UnitPixels)
		fmt.Fprintf(&svg, `<circle cx="%d" cy="%d" r="3" fill="%s"/>`+"\n", axisX, py, opts.AxisColor)
		fmt.Fprintf(&svg, `<text class="tick-label" x="%d" y="%d">%s</text>`+"\n",
			axisX+8, py+opts.FontSize/2, escapeXML(t.Label()))
		y += t.Height
	}

	placements := slices.Clone(res.Placements)
	slices.SortStableFunc(placements, func(a, b Placement) int {
		return st.ZIndex(a.Index) - st.ZIndex(b.Index)
	})
	for _, p := range placements {
		x := nodeX(p, opts.Width, axisX, mode)
		py := int(p.Top * opts.UnitPixels)
		fmt.Fprintf(&svg, `<circle cx="%d" cy="%d" r="%d" fill="%s"/>`+"\n",
			x, py, opts.DotRadius, st.DotColor(p.Index).Hex())
		if !st.ContentVisible(p.Index, mode) {
			continue
		}
		fmt.Fprintf(&svg, `<text class="node-title" x="%d" y="%d">%s</text>`+"\n",
			x+opts.DotRadius+4, py+opts.FontSize/2, escapeXML(p.Event.Title))
		if st.DescriptionVisible(p.Index) && p.Event.Description != "" {
			fmt.Fprintf(&svg, `<text class="node-description" x="%d" y="%d">%s</text>`+"\n",
				x+opts.DotRadius+4, py+opts.FontSize*2, escapeXML(p.Event.Description))
		}
	}

	svg.WriteString("</svg>")
	return svg.String()
}

// nodeX mirrors the HTML columns: left nodes start at 10% of the width, right
// nodes at 60%, both shifted right by the stack offset. Minimal modes keep
// nodes on the axis.
func nodeX(p Placement, width, axisX int, mode DisplayMode) int {
	if mode.Minimal() {
		return axisX
	}
	col := 0.6
	if p.Side == SideLeft {
		col = 0.1
	}
	return int(col*float64(width) + p.HorizontalOffset)
}
