package stats

import "github.com/Kevin-Rudy/pingboard/pkg/core"

// Engine 有状态的统计引擎
// 每次更新都整体重算缓冲区，并把平均值送入趋势窗口
type Engine struct {
	trend *TrendWindow
}

// NewEngine 创建统计引擎
func NewEngine() *Engine {
	return &Engine{trend: NewTrendWindow()}
}

// Update 计算统计信息，没有有效样本时不更新趋势窗口
func (e *Engine) Update(samples []core.Sample, useSmoothed bool) core.Stats {
	sum := compute(samples, useSmoothed)
	if sum.valid == 0 {
		return sum.stats
	}

	sum.stats.Trend = e.trend.Push(sum.rawAvg)
	return sum.stats
}

// Reset 清空趋势窗口
func (e *Engine) Reset() {
	e.trend.Reset()
}

// TrendLen 趋势窗口中的平均值个数
func (e *Engine) TrendLen() int {
	return e.trend.Len()
}
