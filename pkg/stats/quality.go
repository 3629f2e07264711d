package stats

import (
	"math"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
)

// Classify 根据延迟和抖动判断连接质量，延迟为NaN表示断开
func Classify(latency, jitter float64) core.Quality {
	switch {
	case math.IsNaN(latency):
		return core.QualityDisconnected
	case latency < 50 && jitter < 10:
		return core.QualityExcellent
	case latency < 100 && jitter < 20:
		return core.QualityGood
	case latency < 200 && jitter < 50:
		return core.QualityFair
	default:
		return core.QualityPoor
	}
}

// ClassifyLatency 仅根据延迟判断单个样本的质量
func ClassifyLatency(latency float64) core.Quality {
	switch {
	case math.IsNaN(latency):
		return core.QualityDisconnected
	case latency < 50:
		return core.QualityExcellent
	case latency < 100:
		return core.QualityGood
	case latency < 200:
		return core.QualityFair
	default:
		return core.QualityPoor
	}
}
