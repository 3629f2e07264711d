package series

import "math"

// Smoother 指数移动平均滤波器
// 第一个观测值作为初始值，之后 s = s*(1-α) + x*α
type Smoother struct {
	value  float64
	seeded bool
}

// NewSmoother 创建未初始化的滤波器
func NewSmoother() *Smoother {
	return &Smoother{}
}

// Observe 输入一个原始值，返回取整后的平滑值
// 第一个观测值原样返回
func (s *Smoother) Observe(latency, factor float64) float64 {
	if !s.seeded {
		s.value = latency
		s.seeded = true
		return latency
	}

	s.value = s.value*(1-factor) + latency*factor
	return math.Round(s.value)
}

// Value 返回未取整的当前值，未初始化时返回NaN
func (s *Smoother) Value() float64 {
	if !s.seeded {
		return math.NaN()
	}
	return s.value
}

// Seeded 是否已经有观测值
func (s *Smoother) Seeded() bool {
	return s.seeded
}

// Reset 恢复到未初始化状态
func (s *Smoother) Reset() {
	s.value = 0
	s.seeded = false
}
