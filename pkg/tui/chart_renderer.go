// Package tui 图表渲染模块
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
)

// 定义盲文点阵的映射关系 (2x4 grid)
var brailleDotMap = [4][2]int{
	{0b00000001, 0b00001000}, // (y:0, x:0), (y:0, x:1)
	{0b00000010, 0b00010000}, // (y:1, x:0), (y:1, x:1)
	{0b00000100, 0b00100000}, // (y:2, x:0), (y:2, x:1)
	{0b01000000, 0b10000000}, // (y:3, x:0), (y:3, x:1)
}

// 柱状图使用的八分之一方块字符
var barBlocks = []rune("▁▂▃▄▅▆▇█")

const (
	failureColor = "[red]"
	gridTag      = "[#374151]"
	referenceTag = "[#6B7280]"
)

// chartCell 画布上的一个字符单元
// glyph非零时直接输出该字符，否则按盲文点阵输出
type chartCell struct {
	dots  int
	glyph rune
	color string
}

// chartCanvas 以字符单元为单位的画布，盲文子像素为每单元2x4
type chartCanvas struct {
	cells  [][]chartCell // [x][y]
	width  int
	height int
}

func newChartCanvas(width, height int) *chartCanvas {
	cells := make([][]chartCell, width)
	for i := range cells {
		cells[i] = make([]chartCell, height)
	}
	return &chartCanvas{cells: cells, width: width, height: height}
}

// setDot 在子像素坐标上点亮一个盲文点
func (c *chartCanvas) setDot(x, y int, color string) {
	canvasX, canvasY := x/2, y/4
	if x < 0 || y < 0 || canvasX >= c.width || canvasY >= c.height {
		return
	}
	cell := &c.cells[canvasX][canvasY]
	cell.dots |= brailleDotMap[y%4][x%2]
	cell.color = color
}

// fillBelow 点亮子像素(x, y)下方的整列，已着色的单元保持原色
func (c *chartCanvas) fillBelow(x, y int, color string) {
	for yy := y + 1; yy < c.height*4; yy++ {
		canvasX, canvasY := x/2, yy/4
		if x < 0 || canvasX >= c.width || yy < 0 {
			return
		}
		cell := &c.cells[canvasX][canvasY]
		cell.dots |= brailleDotMap[yy%4][x%2]
		if cell.color == "" {
			cell.color = color
		}
	}
}

// setGlyph 在字符坐标上放置一个字符
func (c *chartCanvas) setGlyph(col, row int, r rune, color string) {
	if col < 0 || row < 0 || col >= c.width || row >= c.height {
		return
	}
	c.cells[col][row] = chartCell{glyph: r, color: color}
}

// colorAt 修改子像素所在单元的颜色
func (c *chartCanvas) colorAt(x, y int, color string) {
	canvasX, canvasY := x/2, y/4
	if x < 0 || y < 0 || canvasX >= c.width || canvasY >= c.height {
		return
	}
	c.cells[canvasX][canvasY].color = color
}

// validateChartSize 验证图表尺寸是否合理
func (t *TUI) validateChartSize(width, height int) string {
	if height < t.tuiConfig.MinChartHeight || width < t.tuiConfig.MinChartWidth {
		return "终端尺寸过小"
	}
	if width > t.tuiConfig.MaxChartSize || height > t.tuiConfig.MaxChartSize {
		return "终端尺寸过大"
	}
	return ""
}

// chartValues 取出每个样本用于绘图的值，失败样本为NaN
func chartValues(snap core.Snapshot) []float64 {
	values := make([]float64, len(snap.Samples))
	for i, s := range snap.Samples {
		values[i] = s.Value(snap.Settings.Smoothing)
	}
	return values
}

// calculateValueRange 计算数据的值范围，extra中的值（例如参考线）也会被包含
func (t *TUI) calculateValueRange(values []float64, fromZero bool, extra ...float64) (minVal, maxVal, valueRange float64, errMsg string) {
	var valid []float64
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			valid = append(valid, v)
		}
	}

	if len(valid) == 0 {
		return 0, 0, 0, "等待有效数据..."
	}

	valid = append(valid, extra...)

	minVal, maxVal = valid[0], valid[0]
	for _, v := range valid {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	// 如果所有值都一样，特殊处理
	if maxVal == minVal {
		maxVal++
		minVal--
	}

	// 采用缓冲算法
	maxVal = maxVal + maxVal*t.tuiConfig.ValueBufferRatio
	minVal = minVal - minVal*t.tuiConfig.ValueBufferRatio
	if minVal < 0 || fromZero {
		minVal = 0
	}

	valueRange = maxVal - minVal
	if valueRange == 0 {
		valueRange = 1
	}

	return minVal, maxVal, valueRange, ""
}

// drawChart 按快照中的图表类型绘制缓冲区
func (t *TUI) drawChart(snap core.Snapshot, width, height int) string {
	// 检查图表尺寸是否合理
	if sizeErr := t.validateChartSize(width, height); sizeErr != "" {
		return sizeErr
	}

	if len(snap.Samples) == 0 {
		if snap.Running {
			return "[yellow]等待第一个样本...[white]"
		}
		return "[yellow]按空格键开始监控[white]"
	}

	settings := snap.Settings
	values := chartValues(snap)
	isBar := settings.ChartType == core.ChartBar

	var extra []float64
	if settings.ShowReferenceLine {
		extra = append(extra, snap.Stats.Avg)
	}

	// 1. 计算值范围
	minVal, maxVal, valueRange, errMsg := t.calculateValueRange(values, isBar, extra...)
	if errMsg != "" {
		return errMsg
	}

	// 2. 动态计算Y轴标签宽度
	topLabel := formatLatency(maxVal)
	bottomLabel := formatLatency(minVal)
	maxLabelLen := len([]rune(topLabel))
	if n := len([]rune(bottomLabel)); n > maxLabelLen {
		maxLabelLen = n
	}
	yAxisLabelWidth := maxLabelLen + 2 // +2 为│分隔符和右侧空格留出缓冲

	// 3. 准备画布尺寸
	chartBodyHeight := height - 2 // 为X轴和时间戳留出2行空间
	chartWidth := width - yAxisLabelWidth

	// 确保画布尺寸合理
	if chartBodyHeight <= 0 || chartWidth <= 0 {
		return "可绘制区域过小"
	}

	canvas := newChartCanvas(chartWidth, chartBodyHeight)
	scale := valueScale{min: minVal, rng: valueRange, rows: chartBodyHeight}

	// 4. 绘制数据
	if isBar {
		t.drawBars(canvas, snap, values, scale)
	} else {
		t.drawLine(canvas, snap, values, scale)
	}

	// 5. 背景：网格和参考线
	gridRows, yAxisLabels := yAxisLayout(chartBodyHeight, maxVal, valueRange)
	refRow := -1
	if settings.ShowReferenceLine {
		refRow = scale.y(snap.Stats.Avg) / 4
	}

	// 6. 构建输出字符串
	var lines []string
	for i := 0; i < chartBodyHeight; i++ {
		var line strings.Builder
		fmt.Fprintf(&line, "[gray]%*s[white] [gray]│[white]", yAxisLabelWidth-2, yAxisLabels[i])

		for j := 0; j < chartWidth; j++ {
			cell := canvas.cells[j][i]
			switch {
			case cell.glyph != 0:
				line.WriteString(cell.color + string(cell.glyph) + "[white]")
			case cell.dots != 0:
				line.WriteString(cell.color + string(rune(0x2800+cell.dots)) + "[white]")
			case i == refRow:
				line.WriteString(referenceTag + "╌[white]")
			case settings.ShowGrid && gridRows[i]:
				line.WriteString(gridTag + "┈[white]")
			default:
				line.WriteByte(' ')
			}
		}
		lines = append(lines, line.String())
	}

	// 7. 绘制X轴
	xAxisLine := fmt.Sprintf("%-*s└%s", yAxisLabelWidth-1, "", strings.Repeat("─", chartWidth))
	lines = append(lines, "[gray]"+xAxisLine+"[white]")

	// X轴时间刻度：最早和最新样本的时间
	startTimeStr := snap.Samples[0].Time
	endTimeStr := snap.Samples[len(snap.Samples)-1].Time

	spaceCount := chartWidth - len(startTimeStr) - len(endTimeStr)
	if spaceCount < 1 {
		spaceCount = 1
	}
	timeLine := fmt.Sprintf("%-*s%s%*s%s", yAxisLabelWidth, "", startTimeStr, spaceCount, "", endTimeStr)
	lines = append(lines, "[gray]"+timeLine+"[white]")

	// 保护性检查：确保输出不会超过可用高度，保证X轴总是可见
	if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

// valueScale 值到子像素行的映射
type valueScale struct {
	min  float64
	rng  float64
	rows int
}

// y 返回值对应的子像素行号，0为顶部
func (s valueScale) y(v float64) int {
	normalized := (v - s.min) / s.rng
	if math.IsNaN(normalized) || math.IsInf(normalized, 0) {
		return 0
	}
	y := int((1.0 - normalized) * float64(s.rows*4-1))
	if y < 0 {
		return 0
	}
	if y >= s.rows*4 {
		return s.rows*4 - 1
	}
	return y
}

// eighths 返回柱高，以八分之一字符为单位
func (s valueScale) eighths(v float64) int {
	h := int(math.Round((v - s.min) / s.rng * float64(s.rows*8)))
	if h < 1 {
		return 1
	}
	if h > s.rows*8 {
		return s.rows * 8
	}
	return h
}

// drawLine 绘制折线图或面积图，失败样本处断开并在顶部标记
func (t *TUI) drawLine(canvas *chartCanvas, snap core.Snapshot, values []float64, scale valueScale) {
	settings := snap.Settings
	colors := settings.Theme.Colors()
	lineColor := colorTag(colors.Primary)
	fillColor := colorTag(colors.Secondary)
	isArea := settings.ChartType == core.ChartArea

	subWidth := canvas.width * 2
	toX := func(i int) int {
		if len(values) == 1 {
			return 0
		}
		return i * (subWidth - 1) / (len(values) - 1)
	}

	type plotted struct {
		x, y   int
		status core.Quality
	}
	var points []plotted
	lastX, lastY := -1, -1
	lastValid := -1

	for i, v := range values {
		x := toX(i)
		if math.IsNaN(v) {
			canvas.setGlyph(x/2, 0, '×', failureColor)
			lastX, lastY = -1, -1
			continue
		}

		y := scale.y(v)
		if isArea {
			if lastX != -1 {
				plotLine(lastX, lastY, x, y, func(px, py int) {
					canvas.fillBelow(px, py, fillColor)
				})
			} else {
				canvas.fillBelow(x, y, fillColor)
			}
		}

		if lastX != -1 {
			plotLine(lastX, lastY, x, y, func(px, py int) {
				canvas.setDot(px, py, lineColor)
			})
		} else {
			// 如果这是线条的第一个点，直接在画布上标记
			canvas.setDot(x, y, lineColor)
		}

		points = append(points, plotted{x: x, y: y, status: snap.Samples[i].Status})
		lastX, lastY = x, y
		lastValid = i
	}

	// 按单点质量着色
	if settings.ColorCodedPoints {
		for _, p := range points {
			canvas.colorAt(p.x, p.y, colorTag(p.status.Color()))
		}
	}

	if settings.ShowDataLabels && lastValid >= 0 {
		p := points[len(points)-1]
		placeLabel(canvas, formatLatency(values[lastValid]), p.x/2, p.y/4-1, lineColor)
	}
}

// drawBars 绘制柱状图，样本多于列数时只显示最新的部分
func (t *TUI) drawBars(canvas *chartCanvas, snap core.Snapshot, values []float64, scale valueScale) {
	settings := snap.Settings
	barColor := colorTag(settings.Theme.Colors().Primary)

	samples := snap.Samples
	if len(values) > canvas.width {
		offset := len(values) - canvas.width
		values = values[offset:]
		samples = samples[offset:]
	}

	colWidth := canvas.width / len(values)
	if colWidth < 1 {
		colWidth = 1
	}
	barWidth := colWidth
	if colWidth >= 3 {
		barWidth = colWidth - 1 // 留出柱间距
	}

	for i, v := range values {
		col0 := i * colWidth
		if math.IsNaN(v) {
			canvas.setGlyph(col0, canvas.height-1, '×', failureColor)
			continue
		}

		color := barColor
		if settings.ColorCodedPoints && samples[i].Status != "" {
			color = colorTag(samples[i].Status.Color())
		}

		h := scale.eighths(v)
		for col := col0; col < col0+barWidth; col++ {
			remaining := h
			for row := canvas.height - 1; row >= 0 && remaining > 0; row-- {
				if remaining >= 8 {
					canvas.setGlyph(col, row, barBlocks[7], color)
					remaining -= 8
					continue
				}
				canvas.setGlyph(col, row, barBlocks[remaining-1], color)
				remaining = 0
			}
		}

		if settings.ShowDataLabels && i == len(values)-1 {
			top := canvas.height - 1 - (h-1)/8
			placeLabel(canvas, formatLatency(v), col0, top-1, color)
		}
	}
}

// placeLabel 在指定行写入文字，右端不超出画布
func placeLabel(canvas *chartCanvas, label string, col, row int, color string) {
	if row < 0 {
		row = 0
	}
	runes := []rune(label)
	if col+len(runes) > canvas.width {
		col = canvas.width - len(runes)
	}
	for i, r := range runes {
		canvas.setGlyph(col+i, row, r, color)
	}
}

// yAxisLayout 计算Y轴标签及其所在的行
func yAxisLayout(rows int, maxVal, valueRange float64) (map[int]bool, map[int]string) {
	gridRows := make(map[int]bool)
	labels := make(map[int]string)

	yAxisLabelCount := 5
	if rows < yAxisLabelCount {
		yAxisLabelCount = rows
	}
	if yAxisLabelCount <= 1 {
		return gridRows, labels
	}

	for i := 0; i < yAxisLabelCount; i++ {
		// 在数值上均匀分布
		normalized := float64(i) / float64(yAxisLabelCount-1) // 0.0 到 1.0
		value := maxVal - normalized*valueRange               // 从最大值到最小值
		// 计算对应的像素行号
		row := int(normalized * float64(rows-1))
		labels[row] = formatLatency(value)
		gridRows[row] = true
	}
	return gridRows, labels
}

// plotLine 使用布雷森汉姆算法遍历线段上的每个子像素
func plotLine(x1, y1, x2, y2 int, plot func(x, y int)) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	x, y := x1, y1
	for {
		plot(x, y)

		// 检查是否到达终点
		if x == x2 && y == y2 {
			break
		}

		// 计算下一个位置
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}
