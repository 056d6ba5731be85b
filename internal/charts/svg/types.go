// Package svg renders small static charts as inline SVG for pages that must work without JavaScript.
package svg

import "github.com/brightsteps/brightsteps/internal/theme"

// Colors are the theme colours applied to a chart.
type Colors struct {
	Stroke string
	Fill   string
	Axis   string
	Grid   string
	Text   string
	// Series colours for multi-series charts.
	Series []string
}

// ColorsFor derives chart colours from a theme palette.
func ColorsFor(p theme.Palette) Colors {
	return Colors{
		Stroke: p.Color(0),
		Fill:   "none",
		Axis:   p.Axis,
		Grid:   p.Grid,
		Text:   p.Text,
		Series: p.Series,
	}
}

// LineOpts customises the line chart renderer.
type LineOpts struct {
	Title       string
	Description string
	Colors      Colors
	Padding     float64
	ShowDots    bool
	ShowArea    bool
	TickCount   int
	// Headroom adds a fraction of the maximum above the top of the data, e.g. 0.1 for 10%.
	Headroom float64
}

// BarOpts customises the grouped bar renderer.
type BarOpts struct {
	Title        string
	Description  string
	SeriesLabels []string
	Colors       Colors
	Padding      float64
	TickCount    int
}

// Defaults for dashboard and article charts.
const (
	DefaultWidth   = 600
	DefaultHeight  = 300
	DefaultPadding = 50.0
	DefaultTicks   = 5
)
