package charts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsteps/brightsteps/internal/kpi"
	"github.com/brightsteps/brightsteps/internal/roster"
	"github.com/brightsteps/brightsteps/internal/theme"
)

type fakeSpec struct{}

func (fakeSpec) Kind() Kind { return "fake" }
func (fakeSpec) spec()      {}

func sampleSpecs() []Named {
	return []Named{
		{ID: "l", Spec: Line{Title: "line chart", Labels: []string{"a", "b"}, Series: []Series{{Name: "s", Values: []float64{1, 2}}}, Smooth: true}},
		{ID: "b", Spec: Bar{Title: "bar chart", Labels: []string{"a"}, Series: []Series{{Name: "s", Values: []float64{3}}}}},
		{ID: "s", Spec: Scatter{Title: "scatter chart", Groups: []ScatterGroup{{Name: "g", Points: []Point{{X: 1, Y: 2}}}}}},
		{ID: "d", Spec: Doughnut{Title: "doughnut chart", Slices: []Slice{{Name: "x", Value: 1}, {Name: "y", Value: 2}}}},
		{ID: "r", Spec: Radar{Title: "radar chart", Indicators: []Indicator{{Name: "i", Max: 10}}, Series: []Series{{Name: "s", Values: []float64{5}}}}},
		{ID: "h", Spec: Heatmap{Title: "heatmap chart", XLabels: []string{"a"}, YLabels: []string{"b"}, Cells: []Cell{{X: 0, Y: 0, Value: 4}}, Max: 10}},
		{ID: "g", Spec: Geo{Title: "geo chart", Locations: Clinics}},
	}
}

func TestRenderEveryKind(t *testing.T) {
	seen := map[Kind]int{}
	r := NewRenderer(theme.PaletteFor(theme.Dark), func(k Kind) { seen[k]++ })
	for _, n := range sampleSpecs() {
		h, err := r.Render(n.ID, n.Spec)
		require.NoError(t, err, n.ID)
		assert.Equal(t, n.ID, h.ID)
		assert.Equal(t, n.Spec.Kind(), h.Kind)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(h.Options, &decoded), n.ID)
		assert.Contains(t, decoded, "series", n.ID)
		assert.Contains(t, string(h.Options), string(n.Spec.Kind())+" chart")
	}
	assert.Len(t, seen, 7)
}

func TestRenderRejectsUnknownSpec(t *testing.T) {
	r := NewRenderer(theme.PaletteFor(theme.Light), nil)
	_, err := r.Render("x", fakeSpec{})
	assert.ErrorIs(t, err, ErrUnsupportedSpec)
	_, err = r.Render("x", nil)
	assert.ErrorIs(t, err, ErrUnsupportedSpec)
}

func TestRegistryDisposesReplacedHandle(t *testing.T) {
	reg := NewRegistry()
	first := &Handle{ID: "a", Kind: KindLine, Options: json.RawMessage(`{}`)}
	second := &Handle{ID: "a", Kind: KindLine, Options: json.RawMessage(`{}`)}

	assert.False(t, reg.Replace(first))
	assert.True(t, reg.Replace(second))
	assert.True(t, first.Disposed())
	assert.Nil(t, first.Options)
	assert.False(t, second.Disposed())

	got, ok := reg.Get("a")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryOrderAndRemove(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []string{"c", "a", "b"} {
		reg.Replace(&Handle{ID: id})
	}
	reg.Replace(&Handle{ID: "a"})
	ids := []string{}
	for _, h := range reg.Handles() {
		ids = append(ids, h.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)

	a, _ := reg.Get("a")
	reg.Remove("a")
	assert.True(t, a.Disposed())
	assert.Equal(t, 2, reg.Len())

	b, _ := reg.Get("b")
	assert.Equal(t, 2, reg.DisposeAll())
	assert.True(t, b.Disposed())
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.Handles())
	assert.Zero(t, reg.DisposeAll())
}

func TestDashboardSpecs(t *testing.T) {
	r := roster.New(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), roster.NewSeededRand(3))
	summaries := map[int64]kpi.Summary{}
	for _, c := range r.Clients {
		s, err := kpi.Compute(c.Records, roster.NewSeededRand(1))
		require.NoError(t, err)
		summaries[c.ID] = s
	}

	active := r.Clients[1]
	specs := DashboardSpecs(r, &active, summaries)
	require.Len(t, specs, 7)
	kinds := map[Kind]bool{}
	for _, n := range specs {
		kinds[n.Spec.Kind()] = true
	}
	assert.Len(t, kinds, 7)

	heat := specs[5].Spec.(Heatmap)
	assert.Len(t, heat.Cells, 3*roster.Weeks)
	assert.Equal(t, r.WeekLabels(), heat.XLabels)

	radar := specs[4].Spec.(Radar)
	assert.Len(t, radar.Series, 3)

	withoutActive := DashboardSpecs(r, nil, summaries)
	assert.Len(t, withoutActive, 4)
}
