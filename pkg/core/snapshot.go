package core

import (
	"encoding/json"
	"time"
)

// Snapshot 是提供给展示层的只读快照
// 展示层只能读取快照，修改设置必须通过调度器的显式操作
type Snapshot struct {
	SessionID     string
	Running       bool
	Settings      Settings
	Samples       []Sample
	Stats         Stats
	Quality       Quality
	Current       float64 // 当前延迟，开启平滑时为平滑值，失败时为NaN
	ReplayKey     int     // 缓冲区满后每次淘汰递增，供图表重放动画使用
	ProbesSent    int
	ProbesFailed  int
	ProbesSkipped int
	StartedAt     time.Time
}

// Last 返回最新的样本
func (s Snapshot) Last() (Sample, bool) {
	if len(s.Samples) == 0 {
		return Sample{}, false
	}
	return s.Samples[len(s.Samples)-1], true
}

type settingsJSON struct {
	IntervalMs        int64     `json:"interval"`
	Smoothing         bool      `json:"smoothing"`
	SmoothingFactor   float64   `json:"smoothingFactor"`
	ChartType         ChartType `json:"chartType"`
	ShowGrid          bool      `json:"showGrid"`
	ShowReferenceLine bool      `json:"showReferenceLine"`
	AnimateChart      bool      `json:"animateChart"`
	MaxDataPoints     int       `json:"maxDataPoints"`
	Theme             Theme     `json:"theme"`
	ColorCodedPoints  bool      `json:"colorCodedPoints"`
	ShowDataLabels    bool      `json:"showDataLabels"`
	LocalMode         bool      `json:"localMode"`
}

// MarshalJSON 探测间隔以毫秒编码
func (s Settings) MarshalJSON() ([]byte, error) {
	return json.Marshal(settingsJSON{
		IntervalMs:        s.Interval.Milliseconds(),
		Smoothing:         s.Smoothing,
		SmoothingFactor:   s.SmoothingFactor,
		ChartType:         s.ChartType,
		ShowGrid:          s.ShowGrid,
		ShowReferenceLine: s.ShowReferenceLine,
		AnimateChart:      s.AnimateChart,
		MaxDataPoints:     s.MaxDataPoints,
		Theme:             s.Theme,
		ColorCodedPoints:  s.ColorCodedPoints,
		ShowDataLabels:    s.ShowDataLabels,
		LocalMode:         s.LocalMode,
	})
}

// MarshalJSON 快照的JSON形式
func (s Snapshot) MarshalJSON() ([]byte, error) {
	samples := s.Samples
	if samples == nil {
		samples = []Sample{}
	}
	return json.Marshal(struct {
		SessionID     string    `json:"sessionId"`
		Running       bool      `json:"running"`
		Settings      Settings  `json:"settings"`
		Samples       []Sample  `json:"samples"`
		Stats         Stats     `json:"stats"`
		Quality       Quality   `json:"quality"`
		Current       *float64  `json:"current"`
		ReplayKey     int       `json:"replayKey"`
		ProbesSent    int       `json:"probesSent"`
		ProbesFailed  int       `json:"probesFailed"`
		ProbesSkipped int       `json:"probesSkipped"`
		StartedAt     time.Time `json:"startedAt"`
	}{
		SessionID:     s.SessionID,
		Running:       s.Running,
		Settings:      s.Settings,
		Samples:       samples,
		Stats:         s.Stats,
		Quality:       s.Quality,
		Current:       nullable(s.Current),
		ReplayKey:     s.ReplayKey,
		ProbesSent:    s.ProbesSent,
		ProbesFailed:  s.ProbesFailed,
		ProbesSkipped: s.ProbesSkipped,
		StartedAt:     s.StartedAt,
	})
}
