// Package probe - 本地模拟实现
// 不访问网络，以固定基础延迟加随机抖动生成测量结果
package probe

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
)

// LocalProber 本地模拟的测量实现
type LocalProber struct {
	config *Config

	mu  sync.Mutex // 保护rng
	rng *rand.Rand
}

// NewLocalProber 创建本地模拟测量器
func NewLocalProber(config *Config) *LocalProber {
	seed := uint64(time.Now().UnixNano())
	return NewLocalProberWithSource(config, rand.NewPCG(seed, seed>>1))
}

// NewLocalProberWithSource 使用指定随机源创建本地模拟测量器，便于测试复现
func NewLocalProberWithSource(config *Config, src rand.Source) *LocalProber {
	return &LocalProber{
		config: config,
		rng:    rand.New(src),
	}
}

// Probe 实现core.Prober接口
func (p *LocalProber) Probe(ctx context.Context) core.Measurement {
	// 模拟一次往返的耗时
	if err := sleepContext(ctx, p.config.BaseLatency); err != nil {
		return failed(err)
	}

	p.mu.Lock()
	unit := p.rng.Float64()*2 - 1 // [-1, 1)
	p.mu.Unlock()

	base := float64(p.config.BaseLatency) / float64(time.Millisecond)
	variation := unit * float64(p.config.Variation) / float64(time.Millisecond)

	return core.Measurement{
		Latency: math.Round(base + variation),
		At:      time.Now(),
	}
}

// Mode 实现core.Prober接口
func (p *LocalProber) Mode() string {
	return ModeLocal
}
