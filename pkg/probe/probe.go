// Package probe 实现了core.Prober接口，提供延迟测量功能
// 支持本地模拟和基于HTTP HEAD请求的网络测量两种方式
package probe

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
)

// 测量方式名称
const (
	ModeLocal   = "local"
	ModeNetwork = "network"
)

// New 根据模式创建Prober实例
func New(config *Config, local bool) (core.Prober, error) {
	// 验证配置
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if local {
		return NewLocalProber(config), nil
	}
	return NewNetworkProber(config)
}

// failed 构造失败的测量结果
func failed(err error) core.Measurement {
	return core.Measurement{
		Latency: math.NaN(),
		At:      time.Now(),
		Err:     err,
	}
}

// toMillis 将时长转换为取整后的毫秒数
func toMillis(d time.Duration) float64 {
	return math.Round(float64(d) / float64(time.Millisecond))
}

// sleepContext 可被取消的等待
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// GetOSName 获取操作系统名称
func GetOSName() string {
	switch runtime.GOOS {
	case "windows":
		return "Windows"
	case "linux":
		return "Linux"
	case "darwin":
		return "macOS"
	default:
		return runtime.GOOS
	}
}

// GetImplementationType 获取测量实现类型描述
func GetImplementationType(config *Config, local bool) string {
	if local {
		return fmt.Sprintf("本地模拟 (基础延迟 %v ±%v)", config.BaseLatency, config.Variation)
	}
	proto := "HTTP/1.1+HTTP/2"
	if config.DisableHTTP2 {
		proto = "HTTP/1.1"
	}
	return fmt.Sprintf("HTTP HEAD %s (%s)", config.URL, proto)
}
