package svg

import (
	"fmt"
	"html/template"
	"strings"
)

// Bars renders a grouped bar chart with one bar per series in each label group.
func Bars(width, height int, series [][]float64, labels []string, opts BarOpts) (template.HTML, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("svg: at least one series required")
	}
	if len(labels) == 0 {
		return "", fmt.Errorf("svg: labels required")
	}
	minVal, maxVal := 0.0, 0.0
	for i, s := range series {
		if len(s) != len(labels) {
			return "", fmt.Errorf("svg: series %d length must match labels", i)
		}
		lo, hi := bounds(s)
		if i == 0 || lo < minVal {
			minVal = lo
		}
		if i == 0 || hi > maxVal {
			maxVal = hi
		}
	}
	f, err := newFrame(width, height, opts.Padding, opts.TickCount, opts.Colors)
	if err != nil {
		return "", err
	}
	f.setRange(minVal, maxVal)

	groupWidth := f.chartWidth / float64(len(labels))
	barWidth := groupWidth * 0.8 / float64(len(series))
	zeroY := f.yAt(0)

	var b strings.Builder
	f.open(&b, opts.Title, opts.Description, "bar")
	f.grid(&b)
	f.axes(&b)

	for i, label := range labels {
		baseX := f.padding + float64(i)*groupWidth + groupWidth*0.1
		for s, values := range series {
			y := f.yAt(values[i])
			top, h := y, zeroY-y
			if h < 0 {
				top, h = zeroY, -h
			}
			b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s %s\"></rect>",
				baseX+float64(s)*barWidth, top, barWidth, h, seriesColor(opts.Colors, s), template.HTMLEscapeString(seriesLabel(opts.SeriesLabels, s)), template.HTMLEscapeString(label)))
		}
		center := f.padding + float64(i)*groupWidth + groupWidth/2
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"12\" text-anchor=\"middle\">%s</text>", center, f.bottom()+20, f.colors.Text, template.HTMLEscapeString(label)))
	}

	legendX := f.padding
	legendY := f.padding - 16
	for s := range series {
		if s >= len(opts.SeriesLabels) {
			break
		}
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", legendX, legendY-8, seriesColor(opts.Colors, s)))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"12\">%s</text>", legendX+14, legendY, f.colors.Text, template.HTMLEscapeString(opts.SeriesLabels[s])))
		legendX += 120
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func seriesColor(c Colors, i int) string {
	if len(c.Series) > 0 {
		return c.Series[i%len(c.Series)]
	}
	defaults := []string{"#0ea5e9", "#f97316", "#22c55e"}
	return defaults[i%len(defaults)]
}

func seriesLabel(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("Series %d", i+1)
}
