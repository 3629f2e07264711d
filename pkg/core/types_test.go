package core

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"
)

// TestSampleFailed 测试失败样本的判定
func TestSampleFailed(t *testing.T) {
	ok := Sample{Latency: 12, Smoothed: 12}
	if ok.Failed() {
		t.Error("Sample with latency 12 should not be failed")
	}

	failed := Sample{Latency: math.NaN(), Smoothed: math.NaN()}
	if !failed.Failed() {
		t.Error("Sample with NaN latency should be failed")
	}
}

// TestSampleValue 测试统计取值
func TestSampleValue(t *testing.T) {
	s := Sample{Latency: 20, Smoothed: 17}

	if v := s.Value(false); v != 20 {
		t.Errorf("Expected raw value 20, got %f", v)
	}

	if v := s.Value(true); v != 17 {
		t.Errorf("Expected smoothed value 17, got %f", v)
	}

	// 没有平滑值时回退到原始值
	s.Smoothed = math.NaN()
	if v := s.Value(true); v != 20 {
		t.Errorf("Expected fallback to raw value 20, got %f", v)
	}
}

// TestSampleJSON 测试样本的JSON编码
func TestSampleJSON(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	failed := Sample{ID: 3, Time: "10:00:00", Latency: math.NaN(), Smoothed: math.NaN(), Timestamp: ts}

	data, err := json.Marshal(failed)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, `"latency":null`) {
		t.Errorf("Expected null latency in %s", text)
	}
	if !strings.Contains(text, `"timestamp":1700000000123`) {
		t.Errorf("Expected epoch millis timestamp in %s", text)
	}
	if strings.Contains(text, "smoothed") {
		t.Errorf("Failed sample should omit smoothed, got %s", text)
	}

	var decoded Sample
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !decoded.Failed() {
		t.Error("Decoded sample should still be failed")
	}
	if !decoded.Timestamp.Equal(ts) {
		t.Errorf("Expected timestamp %v, got %v", ts, decoded.Timestamp)
	}
}

// TestDefaultSettings 测试默认设置
func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.Interval != 500*time.Millisecond {
		t.Errorf("Expected default interval 500ms, got %v", s.Interval)
	}
	if s.MaxDataPoints != 60 {
		t.Errorf("Expected default capacity 60, got %d", s.MaxDataPoints)
	}
	if s.SmoothingFactor != 0.3 {
		t.Errorf("Expected default smoothing factor 0.3, got %f", s.SmoothingFactor)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Default settings should be valid: %v", err)
	}
}

// TestSettingsValidate 测试设置验证
func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"interval too small", func(s *Settings) { s.Interval = 50 * time.Millisecond }},
		{"interval too large", func(s *Settings) { s.Interval = 3 * time.Second }},
		{"factor too small", func(s *Settings) { s.SmoothingFactor = 0.05 }},
		{"factor too large", func(s *Settings) { s.SmoothingFactor = 0.95 }},
		{"capacity too small", func(s *Settings) { s.MaxDataPoints = 29 }},
		{"capacity too large", func(s *Settings) { s.MaxDataPoints = 121 }},
		{"unknown chart", func(s *Settings) { s.ChartType = "pie" }},
		{"unknown theme", func(s *Settings) { s.Theme = "red" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			if err := s.Validate(); err == nil {
				t.Errorf("Expected validation error for %s", tt.name)
			}
		})
	}

	// 边界值应当合法
	s := DefaultSettings()
	s.Interval = MinInterval
	s.SmoothingFactor = MaxSmoothingFactor
	s.MaxDataPoints = MinDataPoints
	if err := s.Validate(); err != nil {
		t.Errorf("Boundary settings should be valid: %v", err)
	}
}

// TestCycling 测试图表类型与主题的循环切换
func TestCycling(t *testing.T) {
	if got := NextChartType(ChartLine); got != ChartArea {
		t.Errorf("Expected area after line, got %s", got)
	}
	if got := NextChartType(ChartBar); got != ChartLine {
		t.Errorf("Expected line after bar, got %s", got)
	}
	if got := NextTheme(ThemeOrange); got != ThemeBlue {
		t.Errorf("Expected blue after orange, got %s", got)
	}
	if c := Theme("unknown").Colors(); c.Primary != "3B82F6" {
		t.Errorf("Unknown theme should fall back to blue, got %s", c.Primary)
	}
}

// TestSnapshotJSON 测试快照编码
func TestSnapshotJSON(t *testing.T) {
	snap := Snapshot{
		Settings: DefaultSettings(),
		Current:  math.NaN(),
		Quality:  QualityDisconnected,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	text := string(data)
	for _, want := range []string{`"samples":[]`, `"current":null`, `"interval":500`, `"quality":"disconnected"`} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %s in %s", want, text)
		}
	}
}

// mockProber 模拟探测器，用于测试
type mockProber struct {
	latencies []float64
	calls     int
}

func (m *mockProber) Probe(ctx context.Context) Measurement {
	v := m.latencies[m.calls%len(m.latencies)]
	m.calls++
	return Measurement{Latency: v, At: time.Now()}
}

func (m *mockProber) Mode() string { return "mock" }

// TestProberInterface 测试Prober接口
func TestProberInterface(t *testing.T) {
	var p Prober = &mockProber{latencies: []float64{10, math.NaN()}}

	first := p.Probe(context.Background())
	if first.Failed() {
		t.Error("First measurement should succeed")
	}

	second := p.Probe(context.Background())
	if !second.Failed() {
		t.Error("Second measurement should fail")
	}

	if p.Mode() != "mock" {
		t.Errorf("Expected mode 'mock', got '%s'", p.Mode())
	}
}

// TestQualityColor 测试质量等级颜色
func TestQualityColor(t *testing.T) {
	if c := QualityExcellent.Color(); c != "10B981" {
		t.Errorf("Expected excellent color 10B981, got %s", c)
	}
	if c := QualityDisconnected.Color(); c != "6B7280" {
		t.Errorf("Expected disconnected color 6B7280, got %s", c)
	}
	if c := Quality("").Color(); c != QualityGood.Color() {
		t.Errorf("Empty quality should fall back to good color, got %s", c)
	}
}
