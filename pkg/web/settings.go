package web

import (
	"fmt"
	"strings"
	"time"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
)

// SettingsPatch 设置的部分更新，字段与GET /api/settings的编码一致，间隔以毫秒表示
type SettingsPatch struct {
	Interval          *int64          `json:"interval,omitempty"`
	Smoothing         *bool           `json:"smoothing,omitempty"`
	SmoothingFactor   *float64        `json:"smoothingFactor,omitempty"`
	ChartType         *core.ChartType `json:"chartType,omitempty"`
	ShowGrid          *bool           `json:"showGrid,omitempty"`
	ShowReferenceLine *bool           `json:"showReferenceLine,omitempty"`
	AnimateChart      *bool           `json:"animateChart,omitempty"`
	MaxDataPoints     *int            `json:"maxDataPoints,omitempty"`
	Theme             *core.Theme     `json:"theme,omitempty"`
	ColorCodedPoints  *bool           `json:"colorCodedPoints,omitempty"`
	ShowDataLabels    *bool           `json:"showDataLabels,omitempty"`
	LocalMode         *bool           `json:"localMode,omitempty"`
}

// Apply 把出现的字段写入设置，验证由调用方负责
func (p SettingsPatch) Apply(s *core.Settings) {
	if p.Interval != nil {
		s.Interval = time.Duration(*p.Interval) * time.Millisecond
	}
	if p.Smoothing != nil {
		s.Smoothing = *p.Smoothing
	}
	if p.SmoothingFactor != nil {
		s.SmoothingFactor = *p.SmoothingFactor
	}
	if p.ChartType != nil {
		s.ChartType = *p.ChartType
	}
	if p.ShowGrid != nil {
		s.ShowGrid = *p.ShowGrid
	}
	if p.ShowReferenceLine != nil {
		s.ShowReferenceLine = *p.ShowReferenceLine
	}
	if p.AnimateChart != nil {
		s.AnimateChart = *p.AnimateChart
	}
	if p.MaxDataPoints != nil {
		s.MaxDataPoints = *p.MaxDataPoints
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.ColorCodedPoints != nil {
		s.ColorCodedPoints = *p.ColorCodedPoints
	}
	if p.ShowDataLabels != nil {
		s.ShowDataLabels = *p.ShowDataLabels
	}
	if p.LocalMode != nil {
		s.LocalMode = *p.LocalMode
	}
}

// String 列出补丁中出现的字段，用于日志
func (p SettingsPatch) String() string {
	var fields []string
	add := func(name string, v interface{}) {
		fields = append(fields, fmt.Sprintf("%s=%v", name, v))
	}

	if p.Interval != nil {
		add("interval", time.Duration(*p.Interval)*time.Millisecond)
	}
	if p.Smoothing != nil {
		add("smoothing", *p.Smoothing)
	}
	if p.SmoothingFactor != nil {
		add("smoothingFactor", *p.SmoothingFactor)
	}
	if p.ChartType != nil {
		add("chartType", *p.ChartType)
	}
	if p.ShowGrid != nil {
		add("showGrid", *p.ShowGrid)
	}
	if p.ShowReferenceLine != nil {
		add("showReferenceLine", *p.ShowReferenceLine)
	}
	if p.AnimateChart != nil {
		add("animateChart", *p.AnimateChart)
	}
	if p.MaxDataPoints != nil {
		add("maxDataPoints", *p.MaxDataPoints)
	}
	if p.Theme != nil {
		add("theme", *p.Theme)
	}
	if p.ColorCodedPoints != nil {
		add("colorCodedPoints", *p.ColorCodedPoints)
	}
	if p.ShowDataLabels != nil {
		add("showDataLabels", *p.ShowDataLabels)
	}
	if p.LocalMode != nil {
		add("localMode", *p.LocalMode)
	}

	return strings.Join(fields, " ")
}
