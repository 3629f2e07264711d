// Package tui 工具函数和辅助类型
package tui

import (
	"fmt"
	"math"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
)

// formatLatency 提供自适应的延迟格式化
func formatLatency(latency float64) string {
	if math.IsNaN(latency) {
		return "N/A"
	}

	if latency < 1.0 {
		// 小于1ms，显示为微秒
		return fmt.Sprintf("%.0fµs", latency*1000)
	} else if latency < 1000.0 {
		// 1ms到1000ms之间，显示为毫秒
		return fmt.Sprintf("%.1fms", latency)
	} else {
		// 大于等于1000ms，显示为秒
		return fmt.Sprintf("%.2fs", latency/1000)
	}
}

// colorTag 把十六进制颜色转换为tview颜色标签
func colorTag(hex string) string {
	return "[#" + hex + "]"
}

// qualityLabel 连接质量的显示名称
func qualityLabel(q core.Quality) string {
	switch q {
	case core.QualityExcellent:
		return "优秀"
	case core.QualityGood:
		return "良好"
	case core.QualityFair:
		return "一般"
	case core.QualityPoor:
		return "较差"
	case core.QualityDisconnected:
		return "断开"
	default:
		return "未知"
	}
}

// trendLabel 趋势的显示名称，延迟下降为改善
func trendLabel(trend core.Trend) string {
	switch trend {
	case core.TrendImproving:
		return "[green]↓ 改善[white]"
	case core.TrendDegrading:
		return "[red]↑ 恶化[white]"
	default:
		return "[gray]→ 稳定[white]"
	}
}

// abs 返回整数的绝对值
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
