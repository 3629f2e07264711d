package stats

import (
	"math"
	"testing"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
	"github.com/stretchr/testify/assert"
)

func samplesOf(latencies ...float64) []core.Sample {
	out := make([]core.Sample, len(latencies))
	for i, l := range latencies {
		out[i] = core.Sample{ID: uint64(i), Latency: l, Smoothed: l}
	}
	return out
}

func TestJitter(t *testing.T) {
	assert.EqualValues(t, 0, Jitter([]float64{100, 100, 100}))
	assert.EqualValues(t, 100, Jitter([]float64{50, 150}))
	assert.EqualValues(t, 0, Jitter([]float64{42}))
	assert.EqualValues(t, 0, Jitter(nil))
	// |20-10| + |10-20| + |40-10| = 50, 3个差值
	assert.InDelta(t, 50.0/3, Jitter([]float64{10, 20, 10, 40}), 1e-9)
}

func TestComputePacketLoss(t *testing.T) {
	stats := Compute(samplesOf(10, math.NaN(), 20, 30), false)
	assert.EqualValues(t, 25, stats.PacketLoss)
	assert.EqualValues(t, 10, stats.Min)
	assert.EqualValues(t, 30, stats.Max)
	assert.EqualValues(t, 20, stats.Avg)
}

func TestComputeSkipsFailedForJitter(t *testing.T) {
	// 失败样本被过滤后，50 与 150 成为相邻值
	stats := Compute(samplesOf(50, math.NaN(), 150), false)
	assert.EqualValues(t, 100, stats.Jitter)
	assert.EqualValues(t, 33, stats.PacketLoss)
}

func TestComputeNoValidSamples(t *testing.T) {
	stats := Compute(samplesOf(math.NaN(), math.NaN()), false)
	assert.Equal(t, core.Stats{PacketLoss: 100, Trend: core.TrendStable}, stats)

	empty := Compute(nil, false)
	assert.EqualValues(t, 100, empty.PacketLoss)
}

func TestComputeRounding(t *testing.T) {
	stats := Compute(samplesOf(10, 11), false)
	assert.EqualValues(t, 11, stats.Avg) // 10.5 -> 11
	assert.EqualValues(t, 1, stats.Jitter)
}

func TestComputeUsesSmoothed(t *testing.T) {
	samples := []core.Sample{
		{Latency: 100, Smoothed: 100},
		{Latency: 200, Smoothed: 130},
	}

	raw := Compute(samples, false)
	assert.EqualValues(t, 200, raw.Max)
	assert.EqualValues(t, 100, raw.Jitter)

	smoothed := Compute(samples, true)
	assert.EqualValues(t, 130, smoothed.Max)
	assert.EqualValues(t, 30, smoothed.Jitter)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		latency, jitter float64
		want            core.Quality
	}{
		{49, 9, core.QualityExcellent},
		{50, 9, core.QualityGood},
		{49, 10, core.QualityGood},
		{99, 19, core.QualityGood},
		{100, 5, core.QualityFair},
		{80, 20, core.QualityFair},
		{199, 49, core.QualityFair},
		{200, 0, core.QualityPoor},
		{10, 50, core.QualityPoor},
		{math.NaN(), 0, core.QualityDisconnected},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.latency, tt.jitter), "latency=%v jitter=%v", tt.latency, tt.jitter)
	}
}

func TestClassifyLatency(t *testing.T) {
	assert.Equal(t, core.QualityExcellent, ClassifyLatency(49))
	assert.Equal(t, core.QualityGood, ClassifyLatency(50))
	assert.Equal(t, core.QualityFair, ClassifyLatency(150))
	assert.Equal(t, core.QualityPoor, ClassifyLatency(200))
	assert.Equal(t, core.QualityDisconnected, ClassifyLatency(math.NaN()))
}
