package charts

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/brightsteps/brightsteps/internal/theme"
)

// ErrUnsupportedSpec is returned for a nil or foreign Spec.
var ErrUnsupportedSpec = errors.New("charts: unsupported spec")

// echart is the subset of the go-echarts chart API the renderer relies on.
type echart interface {
	Validate()
	JSON() map[string]interface{}
}

// Renderer turns specs into ECharts option payloads using a theme palette.
type Renderer struct {
	palette theme.Palette
	observe func(Kind)
}

// NewRenderer builds a renderer. observe, when set, is called once per rendered chart.
func NewRenderer(palette theme.Palette, observe func(Kind)) *Renderer {
	return &Renderer{palette: palette, observe: observe}
}

// Render dispatches on the spec variant and returns an owned handle for the chart id.
func (r *Renderer) Render(id string, spec Spec) (*Handle, error) {
	var chart echart
	switch s := spec.(type) {
	case Line:
		chart = r.line(id, s)
	case Bar:
		chart = r.bar(id, s)
	case Scatter:
		chart = r.scatter(id, s)
	case Doughnut:
		chart = r.doughnut(id, s)
	case Radar:
		chart = r.radar(id, s)
	case Heatmap:
		chart = r.heatmap(id, s)
	case Geo:
		chart = r.geo(id, s)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedSpec, spec)
	}
	chart.Validate()
	payload, err := json.Marshal(chart.JSON())
	if err != nil {
		return nil, fmt.Errorf("charts: encode %s: %w", id, err)
	}
	if r.observe != nil {
		r.observe(spec.Kind())
	}
	return &Handle{ID: id, Kind: spec.Kind(), Options: payload}, nil
}

func (r *Renderer) common(id, title, trigger string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			ChartID:         id,
			BackgroundColor: r.palette.Background,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      title,
			TitleStyle: &opts.TextStyle{Color: r.palette.Text},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: trigger,
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Bottom:    "0",
			TextStyle: &opts.TextStyle{Color: r.palette.Text},
		}),
	}
}

func (r *Renderer) axes(xName, yName, xType string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithXAxisOpts(opts.XAxis{
			Name:      xName,
			Type:      xType,
			AxisLabel: &opts.AxisLabel{Color: r.palette.Axis},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      yName,
			Type:      "value",
			AxisLabel: &opts.AxisLabel{Color: r.palette.Axis},
		}),
	}
}

func (r *Renderer) seriesStyle(i int) charts.SeriesOpts {
	return charts.WithItemStyleOpts(opts.ItemStyle{Color: r.palette.Color(i)})
}

func (r *Renderer) line(id string, s Line) *charts.Line {
	c := charts.NewLine()
	c.SetGlobalOptions(append(r.common(id, s.Title, "axis"), r.axes("", s.YName, "category")...)...)
	c.SetXAxis(s.Labels)
	for i, series := range s.Series {
		data := make([]opts.LineData, 0, len(series.Values))
		for _, v := range series.Values {
			data = append(data, opts.LineData{Value: v})
		}
		c.AddSeries(series.Name, data, r.seriesStyle(i))
	}
	if s.Smooth {
		c.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	}
	return c
}

func (r *Renderer) bar(id string, s Bar) *charts.Bar {
	c := charts.NewBar()
	c.SetGlobalOptions(append(r.common(id, s.Title, "axis"), r.axes("", s.YName, "category")...)...)
	c.SetXAxis(s.Labels)
	for i, series := range s.Series {
		data := make([]opts.BarData, 0, len(series.Values))
		for _, v := range series.Values {
			data = append(data, opts.BarData{Value: v})
		}
		c.AddSeries(series.Name, data, r.seriesStyle(i))
	}
	return c
}

func (r *Renderer) scatter(id string, s Scatter) *charts.Scatter {
	c := charts.NewScatter()
	c.SetGlobalOptions(append(r.common(id, s.Title, "item"), r.axes(s.XName, s.YName, "value")...)...)
	for i, g := range s.Groups {
		data := make([]opts.ScatterData, 0, len(g.Points))
		for _, p := range g.Points {
			data = append(data, opts.ScatterData{Value: []float64{p.X, p.Y}, SymbolSize: 10})
		}
		c.AddSeries(g.Name, data, r.seriesStyle(i))
	}
	return c
}

func (r *Renderer) doughnut(id string, s Doughnut) *charts.Pie {
	c := charts.NewPie()
	c.SetGlobalOptions(r.common(id, s.Title, "item")...)
	data := make([]opts.PieData, 0, len(s.Slices))
	for i, slice := range s.Slices {
		data = append(data, opts.PieData{
			Name:      slice.Name,
			Value:     slice.Value,
			ItemStyle: &opts.ItemStyle{Color: r.palette.Color(i)},
		})
	}
	c.AddSeries(s.Title, data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"45%", "70%"}}),
	)
	return c
}

func (r *Renderer) radar(id string, s Radar) *charts.Radar {
	indicators := make([]*opts.Indicator, 0, len(s.Indicators))
	for _, ind := range s.Indicators {
		indicators = append(indicators, &opts.Indicator{Name: ind.Name, Max: float32(ind.Max)})
	}
	c := charts.NewRadar()
	c.SetGlobalOptions(append(r.common(id, s.Title, "item"),
		charts.WithRadarComponentOpts(opts.RadarComponent{
			Indicator:   indicators,
			Shape:       "polygon",
			SplitNumber: 5,
		}),
	)...)
	for i, series := range s.Series {
		c.AddSeries(series.Name, []opts.RadarData{{Name: series.Name, Value: series.Values}}, r.seriesStyle(i))
	}
	return c
}

func (r *Renderer) heatmap(id string, s Heatmap) *charts.HeatMap {
	c := charts.NewHeatMap()
	c.SetGlobalOptions(append(r.common(id, s.Title, "item"),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Data:      s.XLabels,
			AxisLabel: &opts.AxisLabel{Color: r.palette.Axis},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      s.YLabels,
			AxisLabel: &opts.AxisLabel{Color: r.palette.Axis},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min:     float32(s.Min),
			Max:     float32(s.Max),
			InRange: &opts.VisualMapInRange{Color: r.palette.Heat},
		}),
	)...)
	c.SetXAxis(s.XLabels)
	data := make([]opts.HeatMapData, 0, len(s.Cells))
	for _, cell := range s.Cells {
		data = append(data, opts.HeatMapData{Value: [3]interface{}{cell.X, cell.Y, cell.Value}})
	}
	c.AddSeries(s.Title, data)
	return c
}

func (r *Renderer) geo(id string, s Geo) *charts.Geo {
	mapName := s.Map
	if mapName == "" {
		mapName = "world"
	}
	c := charts.NewGeo()
	c.SetGlobalOptions(append(r.common(id, s.Title, "item"),
		charts.WithGeoComponentOpts(opts.GeoComponent{
			Map:       mapName,
			ItemStyle: &opts.ItemStyle{Color: r.palette.Grid, BorderColor: r.palette.Axis},
		}),
	)...)
	data := make([]opts.GeoData, 0, len(s.Locations))
	for _, loc := range s.Locations {
		data = append(data, opts.GeoData{Name: loc.Name, Value: []float64{loc.Lng, loc.Lat, loc.Value}})
	}
	c.AddSeries(s.Title, types.ChartScatter, data, r.seriesStyle(0))
	return c
}
