package series

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmootherSeed(t *testing.T) {
	s := NewSmoother()
	assert.False(t, s.Seeded())
	assert.True(t, math.IsNaN(s.Value()))

	// 第一个观测值原样返回
	assert.EqualValues(t, 100, s.Observe(100, 0.3))
	assert.True(t, s.Seeded())
	assert.EqualValues(t, 100, s.Value())
}

func TestSmootherFormula(t *testing.T) {
	tests := []struct {
		v0, v1, factor float64
	}{
		{100, 50, 0.3},
		{15, 17, 0.1},
		{40, 200, 0.9},
		{33, 34, 0.5},
	}

	for _, tt := range tests {
		s := NewSmoother()
		s.Observe(tt.v0, tt.factor)
		want := math.Round(tt.v0*(1-tt.factor) + tt.v1*tt.factor)
		assert.Equal(t, want, s.Observe(tt.v1, tt.factor))
	}
}

func TestSmootherKeepsUnroundedState(t *testing.T) {
	s := NewSmoother()
	s.Observe(10, 0.5)
	assert.EqualValues(t, 11, s.Observe(11, 0.5)) // 10.5 -> 11
	assert.InDelta(t, 10.5, s.Value(), 1e-9)

	// 内部值不取整：10.5*0.5 + 11*0.5 = 10.75
	assert.EqualValues(t, 11, s.Observe(11, 0.5))
	assert.InDelta(t, 10.75, s.Value(), 1e-9)
}

func TestSmootherReset(t *testing.T) {
	s := NewSmoother()
	s.Observe(100, 0.3)
	s.Observe(200, 0.3)
	s.Reset()

	assert.False(t, s.Seeded())
	// 重置后重新以第一个值为初始值
	assert.EqualValues(t, 42, s.Observe(42, 0.3))
}
