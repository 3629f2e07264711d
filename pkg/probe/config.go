// Package probe 配置定义
package probe

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// DefaultURL 网络模式下默认的探测地址
const DefaultURL = "https://cloudflare-dns.com/dns-query?name=example.com"

// Config probe组件的配置结构
type Config struct {
	URL          string        // 网络模式探测地址
	Timeout      time.Duration // 网络探测超时时间
	BaseLatency  time.Duration // 本地模式基础延迟
	Variation    time.Duration // 本地模式随机抖动幅度（±）
	DisableHTTP2 bool          // 禁用HTTP/2
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		URL:         DefaultURL,            // 公共DNS服务器
		Timeout:     10 * time.Second,      // 默认10秒超时
		BaseLatency: 15 * time.Millisecond, // 本地模式基础延迟15ms
		Variation:   2 * time.Millisecond,  // ±2ms抖动
	}
}

// Validate 验证配置的合理性
func (c *Config) Validate() error {
	if c.URL == "" {
		return errors.New("探测地址不能为空")
	}

	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("无法解析探测地址 '%s': %w", c.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("探测地址必须是http或https，当前为'%s'", u.Scheme)
	}

	if c.Timeout <= 0 {
		return errors.New("超时时间必须大于0")
	}

	if c.Timeout < 100*time.Millisecond {
		return errors.New("超时时间不能小于100ms")
	}

	if c.BaseLatency < 0 {
		return errors.New("本地模式基础延迟不能为负数")
	}

	if c.Variation < 0 {
		return errors.New("本地模式抖动幅度不能为负数")
	}

	return nil
}
