package web

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	DefaultChartWidth  = 800
	DefaultChartHeight = 300

	maxChartSize = 4000
	labelEvery   = 10 // X轴每隔多少个样本标一次时间
)

// ErrNotEnoughData 有效样本少于两个，无法绘制
var ErrNotEnoughData = errors.New("not enough samples to render a chart")

var (
	gridColor      = drawing.ColorFromHex("374151").WithAlpha(77)
	referenceColor = drawing.ColorFromHex("6B7280")
)

// point 图表上的一个点，x为样本在缓冲区中的位置
type point struct {
	x      float64
	y      float64
	label  string
	status core.Quality
}

// RenderChart 按快照中的图表设置把缓冲区渲染为PNG
func RenderChart(w io.Writer, snap core.Snapshot, width, height int) error {
	width = clampSize(width, DefaultChartWidth)
	height = clampSize(height, DefaultChartHeight)

	points := chartPoints(snap)
	if len(points) < 2 {
		return ErrNotEnoughData
	}

	if snap.Settings.ChartType == core.ChartBar {
		return renderBars(w, snap, points, width, height)
	}
	return renderLine(w, snap, points, width, height)
}

// chartPoints 取出有效样本，取值方式与统计一致
func chartPoints(snap core.Snapshot) []point {
	points := make([]point, 0, len(snap.Samples))
	for i, s := range snap.Samples {
		if s.Failed() {
			continue
		}
		points = append(points, point{
			x:      float64(i),
			y:      s.Value(snap.Settings.Smoothing),
			label:  s.Time,
			status: s.Status,
		})
	}
	return points
}

func renderLine(w io.Writer, snap core.Snapshot, points []point, width, height int) error {
	settings := snap.Settings
	colors := settings.Theme.Colors()
	primary := drawing.ColorFromHex(colors.Primary)

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.x
		ys[i] = p.y
	}

	style := chart.Style{
		StrokeColor: primary,
		StrokeWidth: 2,
	}
	if settings.ChartType == core.ChartArea {
		style.FillColor = drawing.ColorFromHex(colors.Secondary).WithAlpha(64)
	}
	if settings.ColorCodedPoints {
		style.DotWidth = 3
		style.DotColorProvider = func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
			return drawing.ColorFromHex(points[index].status.Color())
		}
	}

	xr := &chart.ContinuousRange{Min: points[0].x, Max: points[len(points)-1].x}
	series := []chart.Series{
		chart.ContinuousSeries{Name: "latency", XValues: xs, YValues: ys, Style: style},
	}

	if settings.ShowReferenceLine {
		series = append(series, chart.ContinuousSeries{
			Name:    "average",
			XValues: []float64{xr.Min, xr.Max},
			YValues: []float64{snap.Stats.Avg, snap.Stats.Avg},
			Style: chart.Style{
				StrokeColor:     referenceColor,
				StrokeWidth:     1,
				StrokeDashArray: []float64{5, 5},
			},
		})
	}

	if settings.ShowDataLabels {
		annotations := make([]chart.Value2, len(points))
		for i, p := range points {
			annotations[i] = chart.Value2{XValue: p.x, YValue: p.y, Label: formatMs(p.y)}
		}
		series = append(series, chart.AnnotationSeries{Annotations: annotations})
	}

	graph := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 12}},
		XAxis: chart.XAxis{
			Range: xr,
			Ticks: timeTicks(points),
		},
		YAxis: chart.YAxis{
			Name:           "ms",
			Range:          yRange(points),
			GridMajorStyle: gridStyle(settings.ShowGrid),
			GridMinorStyle: chart.Style{Hidden: true},
		},
		Series: series,
	}

	return graph.Render(chart.PNG, w)
}

func renderBars(w io.Writer, snap core.Snapshot, points []point, width, height int) error {
	settings := snap.Settings
	primary := drawing.ColorFromHex(settings.Theme.Colors().Primary)

	bars := make([]chart.Value, len(points))
	for i, p := range points {
		fill := primary
		if settings.ColorCodedPoints && p.status != "" {
			fill = drawing.ColorFromHex(p.status.Color())
		}

		label := ""
		if i%labelEvery == 0 {
			label = p.label
		}
		if settings.ShowDataLabels {
			label = formatMs(p.y)
		}

		bars[i] = chart.Value{
			Value: p.y,
			Label: label,
			Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1},
		}
	}

	spacing := 2
	barWidth := (width-80)/len(bars) - spacing
	if barWidth < 1 {
		barWidth = 1
	}

	graph := chart.BarChart{
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 12}},
		YAxis: chart.YAxis{
			Name:           "ms",
			Range:          yRange(points),
			GridMajorStyle: gridStyle(settings.ShowGrid),
			GridMinorStyle: chart.Style{Hidden: true},
		},
		Bars: bars,
	}

	return graph.Render(chart.PNG, w)
}

// yRange 从0开始并留出顶部余量，所有值相同时也不会得到零宽度的区间
func yRange(points []point) *chart.ContinuousRange {
	top := 0.0
	for _, p := range points {
		top = math.Max(top, p.y)
	}
	return &chart.ContinuousRange{Min: 0, Max: math.Max(math.Ceil(top*1.2), 1)}
}

func timeTicks(points []point) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(points)/labelEvery+1)
	for i, p := range points {
		if i%labelEvery == 0 {
			ticks = append(ticks, chart.Tick{Value: p.x, Label: p.label})
		}
	}
	return ticks
}

func gridStyle(show bool) chart.Style {
	if !show {
		return chart.Style{Hidden: true}
	}
	return chart.Style{
		StrokeColor:     gridColor,
		StrokeWidth:     1,
		StrokeDashArray: []float64{3, 3},
	}
}

func formatMs(v float64) string {
	return fmt.Sprintf("%.0fms", v)
}

func clampSize(v, def int) int {
	if v <= 0 {
		return def
	}
	if v > maxChartSize {
		return maxChartSize
	}
	return v
}
