package svg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsteps/brightsteps/internal/theme"
)

func TestLineProducesSVG(t *testing.T) {
	html, err := Line(600, 300, []float64{100, 200, 350, 550, 800, 1100}, []string{"2019", "2020", "2021", "2022", "2023", "2024"}, LineOpts{
		Title:    "AI publications",
		ShowDots: true,
		Headroom: 0.1,
		Colors:   ColorsFor(theme.PaletteFor(theme.Light)),
	})
	require.NoError(t, err)
	out := string(html)
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, "<path")
	assert.Contains(t, out, "aria-labelledby")
	assert.Equal(t, 6, strings.Count(out, "<circle"))
	// 1100 * 1.1 headroom gives a rounded top tick of 1210.
	assert.Contains(t, out, ">1210<")
	assert.Contains(t, out, theme.PaletteFor(theme.Light).Series[0])
}

func TestLineSinglePoint(t *testing.T) {
	html, err := Line(0, 0, []float64{5}, []string{"w1"}, LineOpts{})
	require.NoError(t, err)
	assert.Contains(t, string(html), "viewBox=\"0 0 600 300\"")
}

func TestLineValidation(t *testing.T) {
	_, err := Line(600, 300, nil, nil, LineOpts{})
	assert.Error(t, err)
	_, err = Line(600, 300, []float64{1, 2}, []string{"a"}, LineOpts{})
	assert.Error(t, err)
	_, err = Line(60, 60, []float64{1}, []string{"a"}, LineOpts{})
	assert.Error(t, err)
}

func TestBarsProducesSVG(t *testing.T) {
	html, err := Bars(600, 300, [][]float64{{8, 6}, {2, 3}}, []string{"Week 1", "Week 13"}, BarOpts{
		Title:        "Behavior",
		SeriesLabels: []string{"Baseline", "Latest"},
	})
	require.NoError(t, err)
	out := string(html)
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, "<rect")
	assert.Contains(t, out, "Baseline")
	assert.Contains(t, out, "Week 13")
}

func TestBarsValidation(t *testing.T) {
	_, err := Bars(600, 300, nil, []string{"a"}, BarOpts{})
	assert.Error(t, err)
	_, err = Bars(600, 300, [][]float64{{1}}, nil, BarOpts{})
	assert.Error(t, err)
	_, err = Bars(600, 300, [][]float64{{1, 2}}, []string{"a"}, BarOpts{})
	assert.Error(t, err)
}
