// Package charts describes dashboard charts as typed specs and renders them to ECharts options.
package charts

// Kind names a chart type.
type Kind string

// Supported chart kinds.
const (
	KindLine     Kind = "line"
	KindBar      Kind = "bar"
	KindScatter  Kind = "scatter"
	KindDoughnut Kind = "doughnut"
	KindRadar    Kind = "radar"
	KindHeatmap  Kind = "heatmap"
	KindGeo      Kind = "geo"
)

// Spec is a chart description. The set of implementations is closed to this package.
type Spec interface {
	Kind() Kind
	spec()
}

// Series is a named list of values aligned with the chart's labels.
type Series struct {
	Name   string
	Values []float64
}

// Line is a category-axis line chart.
type Line struct {
	Title  string
	Labels []string
	Series []Series
	YName  string
	Smooth bool
}

// Bar is a category-axis bar chart.
type Bar struct {
	Title  string
	Labels []string
	Series []Series
	YName  string
}

// Point is an (x, y) pair.
type Point struct {
	X, Y float64
}

// ScatterGroup is one named set of points.
type ScatterGroup struct {
	Name   string
	Points []Point
}

// Scatter plots value pairs on two numeric axes.
type Scatter struct {
	Title  string
	XName  string
	YName  string
	Groups []ScatterGroup
}

// Slice is one segment of a doughnut.
type Slice struct {
	Name  string
	Value float64
}

// Doughnut is a ring-shaped pie chart.
type Doughnut struct {
	Title  string
	Slices []Slice
}

// Indicator is one radar axis.
type Indicator struct {
	Name string
	Max  float64
}

// Radar compares series across several indicators. Series values align with Indicators.
type Radar struct {
	Title      string
	Indicators []Indicator
	Series     []Series
}

// Cell is a heatmap value at column X and row Y.
type Cell struct {
	X, Y  int
	Value float64
}

// Heatmap colours a grid of cells.
type Heatmap struct {
	Title   string
	XLabels []string
	YLabels []string
	Cells   []Cell
	Min     float64
	Max     float64
}

// Location is a point on a map. Value scales the marker.
type Location struct {
	Name  string
	Lng   float64
	Lat   float64
	Value float64
}

// Geo places markers on a registered map.
type Geo struct {
	Title     string
	Map       string
	Locations []Location
}

func (Line) Kind() Kind     { return KindLine }
func (Bar) Kind() Kind      { return KindBar }
func (Scatter) Kind() Kind  { return KindScatter }
func (Doughnut) Kind() Kind { return KindDoughnut }
func (Radar) Kind() Kind    { return KindRadar }
func (Heatmap) Kind() Kind  { return KindHeatmap }
func (Geo) Kind() Kind      { return KindGeo }

func (Line) spec()     {}
func (Bar) spec()      {}
func (Scatter) spec()  {}
func (Doughnut) spec() {}
func (Radar) spec()    {}
func (Heatmap) spec()  {}
func (Geo) spec()      {}
