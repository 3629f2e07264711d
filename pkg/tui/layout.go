// Package tui 布局管理模块
package tui

import (
	"github.com/rivo/tview"
)

// setupUI 设置用户界面布局
func (t *TUI) setupUI() {
	t.header.SetDynamicColors(true)
	t.header.SetWrap(false)
	t.header.SetText("[green]Pingboard 已启动[white] - [yellow]等待数据...[white]")

	// 设置图表属性
	t.chart.SetWordWrap(false)
	t.chart.SetDynamicColors(true)
	t.chart.SetText("[yellow]正在初始化，等待数据...[white]")

	t.status.SetDynamicColors(true)
	t.status.SetWrap(false)

	// 创建主垂直布局：标题与统计、图表、设置与提示
	t.flex = tview.NewFlex()
	t.flex.SetDirection(tview.FlexRow)
	t.flex.AddItem(t.header, 3, 0, false)
	t.flex.AddItem(t.chart, 0, 1, false)
	t.flex.AddItem(t.status, 2, 0, false)

	t.app.SetRoot(t.flex, true)
}

// updateHeader 更新标题与统计区域
func (t *TUI) updateHeader() {
	if t.testMode || t.header == nil {
		return
	}
	t.header.SetText(headerText(t.currentSnapshot(), t.description))
}

// updateStatus 更新设置与提示区域
func (t *TUI) updateStatus() {
	if t.testMode || t.status == nil {
		return
	}

	t.snapMu.RLock()
	settings := t.snap.Settings
	message := t.message
	t.snapMu.RUnlock()

	t.status.SetText(statusText(settings, message))
}

// updateChart 更新图表显示
func (t *TUI) updateChart() {
	if t.testMode || t.chart == nil {
		return
	}

	// 获取图表视图的实际可绘制尺寸
	_, _, width, height := t.chart.GetInnerRect()

	// 确保有合理的最小尺寸
	if width < 20 {
		width = 80
	}
	if height < 10 {
		height = 15
	}

	t.chart.SetText(t.drawChart(t.currentSnapshot(), width, height))
}

// safeUIUpdate 安全地执行UI更新操作
func (t *TUI) safeUIUpdate(updateFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			// 如果应用已经停止，忽略panic
		}
	}()
	t.app.QueueUpdateDraw(updateFunc)
}
