// Package tui 数据处理模块：把快照整理成界面文本
package tui

import (
	"fmt"
	"strings"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
)

// summaryItem 统计栏中的一项
type summaryItem struct {
	label string
	value string
	color string
}

// summaryItems 按固定顺序生成统计项
func summaryItems(snap core.Snapshot) []summaryItem {
	items := []summaryItem{
		{label: "当前", value: formatLatency(snap.Current), color: colorTag(snap.Quality.Color())},
	}

	// 缓冲区为空时其余统计没有意义
	if len(snap.Samples) == 0 {
		for _, label := range []string{"平均", "最小", "最大", "抖动", "丢包率"} {
			items = append(items, summaryItem{label: label, value: "N/A", color: "[white]"})
		}
		return items
	}

	stats := snap.Stats
	items = append(items,
		summaryItem{label: "平均", value: formatLatency(stats.Avg), color: "[white]"},
		summaryItem{label: "最小", value: formatLatency(stats.Min), color: "[white]"},
		summaryItem{label: "最大", value: formatLatency(stats.Max), color: "[white]"},
		summaryItem{label: "抖动", value: formatLatency(stats.Jitter), color: "[white]"},
		summaryItem{label: "丢包率", value: fmt.Sprintf("%.0f%%", stats.PacketLoss), color: lossColor(stats.PacketLoss)},
	)
	return items
}

// headerText 生成标题行和统计行
func headerText(snap core.Snapshot, description string) string {
	var b strings.Builder

	state := "[gray]已停止[white]"
	if snap.Running {
		state = "[green]运行中[white]"
	}

	mode := "网络"
	if snap.Settings.LocalMode {
		mode = "本地模拟"
	}

	fmt.Fprintf(&b, "[::b]Pingboard[::-]  %s  模式: [yellow]%s[white]  [gray]%s[white]", state, mode, description)
	if snap.SessionID != "" {
		fmt.Fprintf(&b, "  [gray]会话 %s[white]", shortID(snap.SessionID))
	}
	b.WriteString("\n")

	for i, item := range summaryItems(snap) {
		if i > 0 {
			b.WriteString("  [gray]│[white]  ")
		}
		fmt.Fprintf(&b, "[yellow]%s[white] %s%s[white]", item.label, item.color, item.value)
	}
	b.WriteString("\n")

	q := snap.Quality
	fmt.Fprintf(&b, "[yellow]质量[white] %s%s[white]  [yellow]趋势[white] %s  [gray]发送 %d  失败 %d  跳过 %d  缓冲 %d/%d[white]",
		colorTag(q.Color()), qualityLabel(q), trendLabel(snap.Stats.Trend),
		snap.ProbesSent, snap.ProbesFailed, snap.ProbesSkipped,
		len(snap.Samples), snap.Settings.MaxDataPoints)

	return b.String()
}

// statusText 生成设置行和提示行
func statusText(s core.Settings, message string) string {
	smoothing := "关"
	if s.Smoothing {
		smoothing = fmt.Sprintf("开 (%.1f)", s.SmoothingFactor)
	}

	settings := fmt.Sprintf("[gray]间隔[white] %v  [gray]平滑[white] %s  [gray]图表[white] %s  [gray]主题[white] %s%s[white]  [gray]网格[white] %s  [gray]参考线[white] %s  [gray]着色[white] %s  [gray]标签[white] %s",
		s.Interval, smoothing, s.ChartType, colorTag(s.Theme.Colors().Primary), s.Theme,
		onOff(s.ShowGrid), onOff(s.ShowReferenceLine), onOff(s.ColorCodedPoints), onOff(s.ShowDataLabels))

	if message == "" {
		message = "[gray]空格 开始/停止  l 模式  c 图表  s 平滑  +/- 间隔  [/] 容量  t 主题  g 网格  r 参考线  p 着色  d 标签  x 清空  q 退出[white]"
	}

	return settings + "\n" + message
}

// lossColor 丢包率的颜色
func lossColor(loss float64) string {
	switch {
	case loss == 0:
		return "[green]"
	case loss < 10:
		return "[yellow]"
	default:
		return "[red]"
	}
}

func onOff(b bool) string {
	if b {
		return "开"
	}
	return "关"
}

// shortID 会话ID只显示前8位
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
