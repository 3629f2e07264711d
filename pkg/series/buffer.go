// Package series 提供采样序列的存储与预处理：容量受限的滚动缓冲区和指数平滑滤波器
package series

import (
	"sync"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
)

// Buffer 容量受限的滚动缓冲区
// 插入顺序即时间顺序，超出容量时淘汰最旧的样本
type Buffer struct {
	mu       sync.RWMutex
	samples  []core.Sample
	capacity int
}

// NewBuffer 创建指定容量的缓冲区
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		samples:  make([]core.Sample, 0, capacity),
		capacity: capacity,
	}
}

// Append 追加样本，超出容量时移除最旧的一个，返回是否发生了淘汰
func (b *Buffer) Append(s core.Sample) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.samples = append(b.samples, s)
	if len(b.samples) <= b.capacity {
		return false
	}

	b.trimLocked()
	return true
}

// Resize 调整容量，缩小时立即丢弃多余的旧样本
func (b *Buffer) Resize(capacity int) {
	if capacity < 1 {
		capacity = 1
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.capacity = capacity
	b.trimLocked()
}

// trimLocked 保留最新的capacity个样本
func (b *Buffer) trimLocked() {
	if extra := len(b.samples) - b.capacity; extra > 0 {
		// 复制到新切片，避免底层数组无限增长
		kept := make([]core.Sample, b.capacity, b.capacity+1)
		copy(kept, b.samples[extra:])
		b.samples = kept
	}
}

// Samples 返回样本的副本
func (b *Buffer) Samples() []core.Sample {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]core.Sample, len(b.samples))
	copy(out, b.samples)
	return out
}

// Len 当前样本数
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples)
}

// Cap 当前容量
func (b *Buffer) Cap() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.capacity
}

// Full 缓冲区是否已满
func (b *Buffer) Full() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples) >= b.capacity
}

// Reset 清空缓冲区
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples = make([]core.Sample, 0, b.capacity)
}
