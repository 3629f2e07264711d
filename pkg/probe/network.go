// Package probe - 网络测量实现
// 向固定地址发送HEAD请求，以往返耗时作为延迟的近似
package probe

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
	"golang.org/x/net/http2"
)

// NetworkProber 基于HTTP HEAD请求的测量实现
type NetworkProber struct {
	config *Config
	client *http.Client
}

// NewNetworkProber 创建网络测量器
func NewNetworkProber(config *Config) (*NetworkProber, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   config.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   config.Timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if !config.DisableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, fmt.Errorf("无法启用HTTP/2: %w", err)
		}
	}

	return &NetworkProber{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
	}, nil
}

// Probe 实现core.Prober接口
// 响应内容和状态码都不关心，只要收到响应即视为成功
func (p *NetworkProber) Probe(ctx context.Context) core.Measurement {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.config.URL, nil)
	if err != nil {
		return failed(err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return failed(err)
	}
	elapsed := time.Since(start)

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return core.Measurement{
		Latency: toMillis(elapsed),
		At:      time.Now(),
	}
}

// Mode 实现core.Prober接口
func (p *NetworkProber) Mode() string {
	return ModeNetwork
}

// CloseIdleConnections 释放空闲连接
func (p *NetworkProber) CloseIdleConnections() {
	p.client.CloseIdleConnections()
}
