package stats

import "github.com/Kevin-Rudy/pingboard/pkg/core"

// 趋势窗口参数
const (
	TrendWindowSize = 10  // 保留最近10个平均值
	TrendSpan       = 5   // 比较最新5个与最早5个
	ImprovingRatio  = 0.9 // 最新均值不超过旧均值的90%视为改善
	DegradingRatio  = 1.1 // 最新均值不低于旧均值的110%视为恶化
)

// TrendWindow 保存最近若干次计算得到的平均延迟
type TrendWindow struct {
	averages []float64
}

// NewTrendWindow 创建空的趋势窗口
func NewTrendWindow() *TrendWindow {
	return &TrendWindow{averages: make([]float64, 0, TrendWindowSize+1)}
}

// Push 加入一个平均值并返回当前趋势
func (w *TrendWindow) Push(avg float64) core.Trend {
	w.averages = append(w.averages, avg)
	if len(w.averages) > TrendWindowSize {
		w.averages = w.averages[1:]
	}
	return w.Trend()
}

// Trend 根据窗口内容判断趋势，不足TrendSpan个值时为stable
func (w *TrendWindow) Trend() core.Trend {
	n := len(w.averages)
	if n < TrendSpan {
		return core.TrendStable
	}

	recent := Mean(w.averages[n-TrendSpan:])
	old := Mean(w.averages[:TrendSpan])
	if old <= 0 {
		return core.TrendStable
	}

	// 恰好等于阈值也算越界
	ratio := recent / old
	switch {
	case ratio <= ImprovingRatio:
		return core.TrendImproving
	case ratio >= DegradingRatio:
		return core.TrendDegrading
	default:
		return core.TrendStable
	}
}

// Len 窗口内的平均值个数
func (w *TrendWindow) Len() int {
	return len(w.averages)
}

// Reset 清空窗口
func (w *TrendWindow) Reset() {
	w.averages = w.averages[:0]
}
