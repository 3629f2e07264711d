// Package stats 从滚动缓冲区计算延迟统计、变化趋势和连接质量
package stats

import (
	"math"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
)

// validValues 过滤掉失败样本，返回用于统计的数值
func validValues(samples []core.Sample, useSmoothed bool) []float64 {
	values := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s.Failed() {
			continue
		}
		values = append(values, s.Value(useSmoothed))
	}
	return values
}

// Jitter 相邻有效值差的绝对值的平均，少于2个值时为0
func Jitter(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	var sum float64
	for i := 1; i < len(values); i++ {
		sum += math.Abs(values[i] - values[i-1])
	}
	return sum / float64(len(values)-1)
}

// PacketLoss 丢包率（百分比，未取整）
func PacketLoss(total, valid int) float64 {
	if total == 0 {
		return 100
	}
	return float64(total-valid) / float64(total) * 100
}

// Mean 算术平均
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// summary 一次计算的中间结果，Avg保留未取整的值供趋势窗口使用
type summary struct {
	stats  core.Stats
	rawAvg float64
	valid  int
}

// compute 整体重算缓冲区统计，不涉及趋势
func compute(samples []core.Sample, useSmoothed bool) summary {
	values := validValues(samples, useSmoothed)
	if len(values) == 0 {
		return summary{
			stats: core.Stats{PacketLoss: 100, Trend: core.TrendStable},
		}
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	avg := Mean(values)

	return summary{
		stats: core.Stats{
			Min:        minVal,
			Max:        maxVal,
			Avg:        math.Round(avg),
			Jitter:     math.Round(Jitter(values)),
			PacketLoss: math.Round(PacketLoss(len(samples), len(values))),
			Trend:      core.TrendStable,
		},
		rawAvg: avg,
		valid:  len(values),
	}
}

// Compute 计算缓冲区的统计信息，趋势固定为stable
// 需要趋势时使用Engine
func Compute(samples []core.Sample, useSmoothed bool) core.Stats {
	return compute(samples, useSmoothed).stats
}
