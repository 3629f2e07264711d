// Package core 定义了延迟监控的核心数据结构和接口
// 这些类型保证了展示层（TUI、Web、指标导出）与采样核心的完全解耦
package core

import (
	"context"
	"encoding/json"
	"math"
	"time"
)

// Quality 连接质量等级
type Quality string

const (
	QualityExcellent    Quality = "excellent"
	QualityGood         Quality = "good"
	QualityFair         Quality = "fair"
	QualityPoor         Quality = "poor"
	QualityDisconnected Quality = "disconnected"
)

// Color 质量等级对应的颜色（十六进制，不含#），未知等级按good处理
func (q Quality) Color() string {
	switch q {
	case QualityExcellent:
		return "10B981"
	case QualityFair:
		return "F59E0B"
	case QualityPoor:
		return "EF4444"
	case QualityDisconnected:
		return "6B7280"
	default:
		return "3B82F6"
	}
}

// Trend 平均延迟的变化趋势
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDegrading Trend = "degrading"
)

// TimeFormat 样本展示时间的格式（24小时制）
const TimeFormat = "15:04:05"

// Measurement 表示单次探测的原始结果
// 由Prober产生，交给调度器加工成Sample
type Measurement struct {
	Latency float64   // 延迟(ms)，已取整。失败时为 math.NaN()
	At      time.Time // 探测完成时间
	Err     error     // 失败原因，仅用于日志
}

// Failed 判断探测是否失败
func (m Measurement) Failed() bool {
	return math.IsNaN(m.Latency)
}

// Sample 表示滚动缓冲区中的一个数据点，追加后不再修改
type Sample struct {
	ID        uint64    // 会话内单调递增的编号
	Time      string    // 展示用时间字符串
	Latency   float64   // 原始延迟(ms)，NaN表示探测失败
	Timestamp time.Time // 采样时间
	Smoothed  float64   // 平滑后的延迟，失败时为NaN
	Status    Quality   // 单点质量等级，失败时为空
}

// Failed 判断样本是否为失败探测
func (s Sample) Failed() bool {
	return math.IsNaN(s.Latency)
}

// Value 返回用于统计的数值
// 开启平滑时取平滑值，否则取原始值
func (s Sample) Value(useSmoothed bool) float64 {
	if useSmoothed && !math.IsNaN(s.Smoothed) {
		return s.Smoothed
	}
	return s.Latency
}

type sampleJSON struct {
	ID        uint64   `json:"id"`
	Time      string   `json:"time"`
	Latency   *float64 `json:"latency"`
	Timestamp int64    `json:"timestamp"`
	Smoothed  *float64 `json:"smoothed,omitempty"`
	Status    Quality  `json:"status,omitempty"`
}

// MarshalJSON 失败样本的latency编码为null，时间戳编码为毫秒
func (s Sample) MarshalJSON() ([]byte, error) {
	return json.Marshal(sampleJSON{
		ID:        s.ID,
		Time:      s.Time,
		Latency:   nullable(s.Latency),
		Timestamp: s.Timestamp.UnixMilli(),
		Smoothed:  nullable(s.Smoothed),
		Status:    s.Status,
	})
}

// UnmarshalJSON 与MarshalJSON对称
func (s *Sample) UnmarshalJSON(data []byte) error {
	var raw sampleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Sample{
		ID:        raw.ID,
		Time:      raw.Time,
		Latency:   math.NaN(),
		Timestamp: time.UnixMilli(raw.Timestamp),
		Smoothed:  math.NaN(),
		Status:    raw.Status,
	}
	if raw.Latency != nil {
		s.Latency = *raw.Latency
	}
	if raw.Smoothed != nil {
		s.Smoothed = *raw.Smoothed
	}
	return nil
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Stats 由缓冲区整体重算得到的汇总统计
type Stats struct {
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Avg        float64 `json:"avg"`
	Jitter     float64 `json:"jitter"`
	PacketLoss float64 `json:"packetLoss"`
	Trend      Trend   `json:"trend"`
}

// Prober 定义了单次延迟测量的标准接口
// 任何测量手段（本地模拟、HTTP探测等）都应该实现这个接口
type Prober interface {
	// Probe 执行一次测量。失败不返回error，而是以NaN延迟表示
	Probe(ctx context.Context) Measurement

	// Mode 返回测量方式的简短描述，如 "local"、"network"
	Mode() string
}
