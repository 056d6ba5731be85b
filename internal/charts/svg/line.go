package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Line renders a line chart for the given series and labels.
func Line(width, height int, series []float64, labels []string, opts LineOpts) (template.HTML, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("svg: series required")
	}
	if len(series) != len(labels) {
		return "", fmt.Errorf("svg: labels length must match series")
	}
	f, err := newFrame(width, height, opts.Padding, opts.TickCount, opts.Colors)
	if err != nil {
		return "", err
	}
	minVal, maxVal := bounds(series)
	if opts.Headroom > 0 && maxVal > 0 {
		maxVal *= 1 + opts.Headroom
	}
	f.setRange(minVal, maxVal)

	stroke := fallback(opts.Colors.Stroke, "#35a2eb")

	var path strings.Builder
	points := make([][2]float64, len(series))
	for i, value := range series {
		x := f.xAt(i, len(series))
		y := f.yAt(value)
		points[i] = [2]float64{x, y}
		if i == 0 {
			path.WriteString(fmt.Sprintf("M%.2f %.2f", x, y))
		} else {
			path.WriteString(fmt.Sprintf(" L%.2f %.2f", x, y))
		}
	}

	var b strings.Builder
	f.open(&b, opts.Title, opts.Description, "line")
	f.grid(&b)
	for i, label := range labels {
		x := f.xAt(i, len(labels))
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" aria-hidden=\"true\"></line>", x, f.padding, x, f.bottom(), f.colors.Grid))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"12\" text-anchor=\"middle\">%s</text>", x, f.bottom()+20, f.colors.Text, template.HTMLEscapeString(label)))
	}
	f.axes(&b)

	if opts.ShowArea {
		area := fmt.Sprintf("%s L%.2f %.2f L%.2f %.2f Z", path.String(), points[len(points)-1][0], f.bottom(), points[0][0], f.bottom())
		b.WriteString(fmt.Sprintf("<path d=\"%s\" fill=\"%s\" fill-opacity=\"0.15\" stroke=\"none\" aria-hidden=\"true\"></path>", area, stroke))
	}
	b.WriteString(fmt.Sprintf("<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"2\" stroke-linejoin=\"round\" stroke-linecap=\"round\"></path>", path.String(), stroke))
	if opts.ShowDots {
		for i, p := range points {
			b.WriteString(fmt.Sprintf("<circle cx=\"%.2f\" cy=\"%.2f\" r=\"4\" fill=\"%s\"><title>%s: %s</title></circle>", p[0], p[1], stroke, template.HTMLEscapeString(labels[i]), formatTick(series[i])))
		}
	}
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

// frame holds the shared geometry of a cartesian chart.
type frame struct {
	width, height int
	padding       float64
	ticks         int
	colors        Colors
	chartWidth    float64
	chartHeight   float64
	minVal        float64
	maxVal        float64
	scale         float64
}

func newFrame(width, height int, padding float64, ticks int, colors Colors) (*frame, error) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if padding <= 0 {
		padding = DefaultPadding
	}
	if ticks <= 0 {
		ticks = DefaultTicks
	}
	colors.Axis = fallback(colors.Axis, "#cccccc")
	colors.Grid = fallback(colors.Grid, "#eeeeee")
	colors.Text = fallback(colors.Text, "#666666")
	f := &frame{
		width:       width,
		height:      height,
		padding:     padding,
		ticks:       ticks,
		colors:      colors,
		chartWidth:  float64(width) - 2*padding,
		chartHeight: float64(height) - 2*padding,
	}
	if f.chartWidth <= 0 || f.chartHeight <= 0 {
		return nil, fmt.Errorf("svg: viewport too small")
	}
	return f, nil
}

// setRange fixes the value axis; zero is always included.
func (f *frame) setRange(minVal, maxVal float64) {
	if minVal > 0 {
		minVal = 0
	}
	if maxVal < 0 {
		maxVal = 0
	}
	if almostEqual(maxVal, minVal) {
		maxVal = minVal + 1
	}
	f.minVal, f.maxVal = minVal, maxVal
	f.scale = f.chartHeight / (maxVal - minVal)
}

func (f *frame) bottom() float64 { return f.padding + f.chartHeight }

func (f *frame) xAt(i, n int) float64 {
	if n <= 1 {
		return f.padding + f.chartWidth/2
	}
	return f.padding + float64(i)*f.chartWidth/float64(n-1)
}

func (f *frame) yAt(v float64) float64 {
	return f.bottom() - (v-f.minVal)*f.scale
}

func (f *frame) open(b *strings.Builder, title, desc, kind string) {
	titleID := makeID(title, kind+"-title")
	descID := makeID(title, kind+"-desc")
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", f.width, f.height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(title, kind+" chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(desc, "Chart data"))))
}

// grid draws horizontal grid lines with value labels from top to bottom.
func (f *frame) grid(b *strings.Builder) {
	for i := 0; i <= f.ticks; i++ {
		y := f.padding + f.chartHeight*float64(i)/float64(f.ticks)
		value := f.maxVal - (f.maxVal-f.minVal)*float64(i)/float64(f.ticks)
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" aria-hidden=\"true\"></line>", f.padding, y, f.padding+f.chartWidth, y, f.colors.Grid))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"12\" text-anchor=\"end\">%s</text>", f.padding-6, y+4, f.colors.Text, template.HTMLEscapeString(formatTick(math.Round(value)))))
	}
}

func (f *frame) axes(b *strings.Builder) {
	b.WriteString(fmt.Sprintf("<g stroke=\"%s\" aria-label=\"Axes\">", f.colors.Axis))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", f.padding, f.padding, f.padding, f.bottom()))
	zeroY := f.yAt(0)
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", f.padding, zeroY, f.padding+f.chartWidth, zeroY))
	b.WriteString("</g>")
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func bounds(series []float64) (float64, float64) {
	minVal := series[0]
	maxVal := series[0]
	for _, v := range series[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return cleaned + "-" + suffix
}

func formatTick(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 10_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		if almostEqual(v, math.Round(v)) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.1f", v)
	}
}
