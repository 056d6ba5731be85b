// Package theme models the light/dark display preference.
package theme

import "strings"

// Preference is the persisted display theme.
type Preference string

// Supported preferences.
const (
	Dark  Preference = "dark"
	Light Preference = "light"

	// Default applies when no preference has been stored.
	Default = Dark
)

// Parse reads a stored value, falling back to Default for anything unrecognised.
func Parse(value string) Preference {
	switch Preference(strings.ToLower(strings.TrimSpace(value))) {
	case Light:
		return Light
	case Dark:
		return Dark
	default:
		return Default
	}
}

// Toggle flips between dark and light.
func (p Preference) Toggle() Preference {
	if p == Light {
		return Dark
	}
	return Light
}

// String implements fmt.Stringer.
func (p Preference) String() string { return string(p) }

// Palette carries the colours charts use under a theme.
type Palette struct {
	Background string
	Text       string
	Axis       string
	Grid       string
	Series     []string
	// Heat runs from low to high intensity.
	Heat []string
}

var palettes = map[Preference]Palette{
	Dark: {
		Background: "#0f172a",
		Text:       "#e2e8f0",
		Axis:       "#94a3b8",
		Grid:       "#334155",
		Series:     []string{"#38bdf8", "#f472b6", "#a3e635", "#fbbf24", "#c084fc"},
		Heat:       []string{"#1e293b", "#0369a1", "#38bdf8"},
	},
	Light: {
		Background: "#ffffff",
		Text:       "#1e293b",
		Axis:       "#475569",
		Grid:       "#cbd5f5",
		Series:     []string{"#2563eb", "#db2777", "#65a30d", "#d97706", "#7c3aed"},
		Heat:       []string{"#eff6ff", "#60a5fa", "#1d4ed8"},
	},
}

// PaletteFor returns the chart colours for a preference.
func PaletteFor(p Preference) Palette {
	pal, ok := palettes[Parse(string(p))]
	if !ok {
		return palettes[Default]
	}
	return pal
}

// Color returns the i-th series colour, cycling through the palette.
func (p Palette) Color(i int) string {
	if len(p.Series) == 0 {
		return ""
	}
	if i < 0 {
		i = -i
	}
	return p.Series[i%len(p.Series)]
}
