package probe

import (
	"context"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// TestDefaultConfig 测试默认配置
func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.URL != DefaultURL {
		t.Errorf("Expected default URL %s, got %s", DefaultURL, config.URL)
	}

	if config.BaseLatency != 15*time.Millisecond {
		t.Errorf("Expected base latency 15ms, got %v", config.BaseLatency)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

// TestConfigValidate 测试配置验证
func TestConfigValidate(t *testing.T) {
	bad := []*Config{
		NewConfigWithOptions(WithURL("")),
		NewConfigWithOptions(WithURL("ftp://example.com")),
		NewConfigWithOptions(WithTimeout(0)),
		NewConfigWithOptions(WithTimeout(50 * time.Millisecond)),
		NewConfigWithOptions(WithBaseLatency(-time.Millisecond)),
		NewConfigWithOptions(WithVariation(-time.Millisecond)),
	}

	for i, config := range bad {
		if err := config.Validate(); err == nil {
			t.Errorf("Expected validation error for config #%d", i)
		}
	}
}

// TestNewValidation 测试New的参数验证
func TestNewValidation(t *testing.T) {
	_, err := New(NewConfigWithOptions(WithTimeout(0)), true)
	if err == nil {
		t.Error("Expected error for invalid config")
	}

	p, err := New(DefaultConfig(), true)
	if err != nil {
		t.Fatalf("New local prober failed: %v", err)
	}
	if p.Mode() != ModeLocal {
		t.Errorf("Expected mode %s, got %s", ModeLocal, p.Mode())
	}

	p, err = New(DefaultConfig(), false)
	if err != nil {
		t.Fatalf("New network prober failed: %v", err)
	}
	if p.Mode() != ModeNetwork {
		t.Errorf("Expected mode %s, got %s", ModeNetwork, p.Mode())
	}
}

// TestLocalProberRange 测试本地模拟的取值范围
func TestLocalProberRange(t *testing.T) {
	config := NewConfigWithOptions(WithBaseLatency(time.Millisecond), WithVariation(2*time.Millisecond))
	p := NewLocalProberWithSource(config, rand.NewPCG(1, 2))

	for i := 0; i < 50; i++ {
		m := p.Probe(context.Background())
		if m.Failed() {
			t.Fatalf("Local probe should never fail, got error %v", m.Err)
		}
		// 1 ± 2 取整后落在 [-1, 3]
		if m.Latency < -1 || m.Latency > 3 {
			t.Errorf("Latency %f out of expected range", m.Latency)
		}
		if m.Latency != float64(int(m.Latency)) {
			t.Errorf("Latency should be rounded, got %f", m.Latency)
		}
	}
}

// TestLocalProberDefaultValues 测试默认配置下的取值
func TestLocalProberDefaultValues(t *testing.T) {
	p := NewLocalProberWithSource(DefaultConfig(), rand.NewPCG(7, 7))

	m := p.Probe(context.Background())
	if m.Latency < 13 || m.Latency > 17 {
		t.Errorf("Expected latency in [13, 17], got %f", m.Latency)
	}
}

// TestLocalProberCancel 测试取消时返回失败
func TestLocalProberCancel(t *testing.T) {
	config := NewConfigWithOptions(WithBaseLatency(time.Second))
	p := NewLocalProber(config)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := p.Probe(ctx)
	if !m.Failed() {
		t.Error("Probe with cancelled context should fail")
	}
	if m.Err == nil {
		t.Error("Failed measurement should carry the error")
	}
}

// TestNetworkProber 测试网络测量
func TestNetworkProber(t *testing.T) {
	var method atomic.Value
	var cacheControl atomic.Value

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method.Store(r.Method)
		cacheControl.Store(r.Header.Get("Cache-Control"))
		time.Sleep(5 * time.Millisecond)
		// 状态码不影响结果
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p, err := NewNetworkProber(NewConfigWithOptions(WithURL(server.URL)))
	if err != nil {
		t.Fatalf("NewNetworkProber failed: %v", err)
	}
	defer p.CloseIdleConnections()

	m := p.Probe(context.Background())
	if m.Failed() {
		t.Fatalf("Probe should succeed, got error %v", m.Err)
	}

	if m.Latency < 5 {
		t.Errorf("Expected latency >= 5ms, got %f", m.Latency)
	}

	if got := method.Load(); got != http.MethodHead {
		t.Errorf("Expected HEAD request, got %v", got)
	}

	if got := cacheControl.Load(); got != "no-cache" {
		t.Errorf("Expected Cache-Control no-cache, got %v", got)
	}
}

// TestNetworkProberFailure 测试网络错误被吞掉并表示为NaN
func TestNetworkProberFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	p, err := NewNetworkProber(NewConfigWithOptions(WithURL(url), WithTimeout(500*time.Millisecond)))
	if err != nil {
		t.Fatalf("NewNetworkProber failed: %v", err)
	}

	m := p.Probe(context.Background())
	if !m.Failed() {
		t.Errorf("Probe against closed server should fail, got %f", m.Latency)
	}
	if m.Err == nil {
		t.Error("Failed measurement should carry the error")
	}
}

// TestGetImplementationType 测试实现描述
func TestGetImplementationType(t *testing.T) {
	config := DefaultConfig()

	if got := GetImplementationType(config, true); got == "" {
		t.Error("Local implementation type should not be empty")
	}

	config.DisableHTTP2 = true
	if got := GetImplementationType(config, false); got != "HTTP HEAD "+DefaultURL+" (HTTP/1.1)" {
		t.Errorf("Unexpected implementation type: %s", got)
	}
}
