// Package tui 交互控制模块
package tui

import (
	"fmt"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
	"github.com/gdamore/tcell/v2"
)

// setupKeyBindings 设置键盘绑定
func (t *TUI) setupKeyBindings() {
	t.app.SetInputCapture(t.handleKey)
}

// handleKey 处理按键，已处理的按键返回nil
func (t *TUI) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyCtrlC {
		t.Stop()
		return nil
	}
	if event.Key() != tcell.KeyRune {
		return event
	}

	step := t.tuiConfig.IntervalStep
	bufferStep := t.tuiConfig.BufferStep

	switch event.Rune() {
	case 'q', 'Q':
		t.Stop()
	case ' ':
		t.session.Toggle()
		t.setMessage("")
	case 'x', 'X':
		t.session.Clear()
		t.setMessage("[yellow]缓冲区已清空[white]")
	case 'l', 'L':
		local := !t.currentSnapshot().Settings.LocalMode
		t.report(t.session.SetLocalMode(local), fmt.Sprintf("本地模拟: %s", onOff(local)))
	case 'c', 'C':
		t.updateSettings("切换图表类型", func(s *core.Settings) { s.ChartType = core.NextChartType(s.ChartType) })
	case 't', 'T':
		t.updateSettings("切换主题", func(s *core.Settings) { s.Theme = core.NextTheme(s.Theme) })
	case 's', 'S':
		t.updateSettings("切换平滑", func(s *core.Settings) { s.Smoothing = !s.Smoothing })
	case '+', '=':
		t.updateSettings("增加间隔", func(s *core.Settings) { s.Interval += step })
	case '-', '_':
		t.updateSettings("减少间隔", func(s *core.Settings) { s.Interval -= step })
	case ']':
		t.updateSettings("增加容量", func(s *core.Settings) { s.MaxDataPoints += bufferStep })
	case '[':
		t.updateSettings("减少容量", func(s *core.Settings) { s.MaxDataPoints -= bufferStep })
	case 'g', 'G':
		t.updateSettings("切换网格", func(s *core.Settings) { s.ShowGrid = !s.ShowGrid })
	case 'r', 'R':
		t.updateSettings("切换参考线", func(s *core.Settings) { s.ShowReferenceLine = !s.ShowReferenceLine })
	case 'p', 'P':
		t.updateSettings("切换着色", func(s *core.Settings) { s.ColorCodedPoints = !s.ColorCodedPoints })
	case 'd', 'D':
		t.updateSettings("切换标签", func(s *core.Settings) { s.ShowDataLabels = !s.ShowDataLabels })
	default:
		return event
	}

	t.handleSnapshot(t.session.Snapshot())
	return nil
}

// updateSettings 通过会话修改设置，被拒绝时在状态栏提示原因
func (t *TUI) updateSettings(action string, fn func(*core.Settings)) {
	t.report(t.session.UpdateSettings(fn), action)
}

func (t *TUI) report(err error, action string) {
	if err != nil {
		t.log.WithError(err).Debugf("%s被拒绝", action)
		t.setMessage("[red]" + err.Error() + "[white]")
		return
	}
	t.setMessage("[green]" + action + "[white]")
}
