// Package probe 选项模式支持
package probe

import (
	"time"
)

// Option 配置选项函数类型
type Option func(*Config)

// WithURL 设置探测地址
func WithURL(u string) Option {
	return func(c *Config) {
		c.URL = u
	}
}

// WithTimeout 设置超时时间
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithBaseLatency 设置本地模式基础延迟
func WithBaseLatency(base time.Duration) Option {
	return func(c *Config) {
		c.BaseLatency = base
	}
}

// WithVariation 设置本地模式抖动幅度
func WithVariation(v time.Duration) Option {
	return func(c *Config) {
		c.Variation = v
	}
}

// WithHTTP2 控制是否启用HTTP/2
func WithHTTP2(enabled bool) Option {
	return func(c *Config) {
		c.DisableHTTP2 = !enabled
	}
}

// NewConfigWithOptions 使用选项模式创建配置
func NewConfigWithOptions(opts ...Option) *Config {
	config := DefaultConfig()

	// 应用所有选项
	for _, opt := range opts {
		opt(config)
	}

	return config
}
