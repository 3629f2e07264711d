// Package monitor 实现监控会话：周期性调度探测，维护滚动缓冲区、平滑滤波器和趋势窗口，
// 并以只读快照的形式把结果提供给展示层
package monitor

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
	"github.com/Kevin-Rudy/pingboard/pkg/series"
	"github.com/Kevin-Rudy/pingboard/pkg/stats"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// State 调度器状态
type State int

const (
	StateIdle State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}

// Monitor 监控会话，拥有全部可变状态
// 所有状态只在mu保护下修改，展示层通过Snapshot读取
type Monitor struct {
	network core.Prober
	local   core.Prober
	log     logrus.FieldLogger
	newID   func() string

	// opMu 串行化Start/Stop/UpdateSettings等控制操作
	opMu sync.Mutex

	mu         sync.Mutex
	settings   core.Settings
	state      State
	sessionID  string
	startedAt  time.Time
	buffer     *series.Buffer
	smoother   *series.Smoother
	engine     *stats.Engine
	stats      core.Stats
	quality    core.Quality
	current    float64
	replayKey  int
	nextID     uint64
	sent       int
	failed     int
	skipped    int
	generation uint64 // 每次启动或停止调度循环时递增，旧循环的结果据此丢弃
	inFlight   bool
	cancel     context.CancelFunc
	done       chan struct{}

	subsMu  sync.Mutex
	subs    map[int]chan core.Snapshot
	nextSub int
	closed  bool
}

// New 创建监控会话，初始状态为Idle
func New(network, local core.Prober, settings core.Settings, opts ...Option) (*Monitor, error) {
	if network == nil || local == nil {
		return nil, errors.New("必须同时提供网络和本地探测器")
	}

	// 验证设置
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	m := &Monitor{
		network:  network,
		local:    local,
		log:      logrus.StandardLogger(),
		newID:    uuid.NewString,
		settings: settings,
		buffer:   series.NewBuffer(settings.MaxDataPoints),
		smoother: series.NewSmoother(),
		engine:   stats.NewEngine(),
		stats:    core.Stats{Trend: core.TrendStable},
		quality:  core.QualityExcellent,
		current:  math.NaN(),
		subs:     make(map[int]chan core.Snapshot),
	}

	// 应用所有选项
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Start 从Idle进入Running：立即探测一次，然后按固定间隔重复
func (m *Monitor) Start() {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	if m.state == StateRunning {
		m.mu.Unlock()
		return
	}
	m.state = StateRunning
	m.sessionID = m.newID()
	m.startedAt = time.Now()
	m.sent, m.failed, m.skipped = 0, 0, 0
	m.startLoopLocked()
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{
		"session":  snap.SessionID,
		"interval": snap.Settings.Interval,
		"mode":     m.modeName(snap.Settings.LocalMode),
	}).Info("开始监控")
	m.publish(snap)
}

// Stop 从Running回到Idle：停止定时器，重置平滑滤波器、趋势窗口和重放键
// 缓冲区内容保留
func (m *Monitor) Stop() {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	if m.state != StateRunning {
		m.mu.Unlock()
		return
	}
	m.state = StateIdle
	cancel, done := m.detachLoopLocked()
	m.smoother.Reset()
	m.engine.Reset()
	m.replayKey = 0
	snap := m.snapshotLocked()
	m.mu.Unlock()

	waitLoop(cancel, done)

	m.log.WithFields(logrus.Fields{
		"session": snap.SessionID,
		"sent":    snap.ProbesSent,
		"failed":  snap.ProbesFailed,
		"skipped": snap.ProbesSkipped,
	}).Info("停止监控")
	m.publish(snap)
}

// Toggle 切换运行状态
func (m *Monitor) Toggle() {
	if m.State() == StateRunning {
		m.Stop()
		return
	}
	m.Start()
}

// State 当前状态
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Settings 当前设置的副本
func (m *Monitor) Settings() core.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// UpdateSettings 修改设置
// 设置非法时返回错误且不做任何修改；运行中修改间隔或探测模式会重启调度循环，
// 但不重置平滑滤波器和趋势窗口
func (m *Monitor) UpdateSettings(fn func(*core.Settings)) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	next := m.settings
	fn(&next)
	if err := next.Validate(); err != nil {
		m.mu.Unlock()
		return err
	}

	prev := m.settings
	m.settings = next
	m.buffer.Resize(next.MaxDataPoints)

	// 缓冲区或取值方式变化后重算汇总，趋势保持不变
	trend := m.stats.Trend
	m.stats = stats.Compute(m.buffer.Samples(), next.Smoothing)
	m.stats.Trend = trend

	restart := m.state == StateRunning &&
		(prev.Interval != next.Interval || prev.LocalMode != next.LocalMode)
	var cancel context.CancelFunc
	var done chan struct{}
	if restart {
		cancel, done = m.detachLoopLocked()
	}
	m.mu.Unlock()

	if restart {
		waitLoop(cancel, done)

		m.mu.Lock()
		if m.state == StateRunning {
			m.startLoopLocked()
		}
		m.mu.Unlock()

		m.log.WithFields(logrus.Fields{
			"interval": next.Interval,
			"mode":     m.modeName(next.LocalMode),
		}).Info("设置变更，重启调度")
	}

	m.publish(m.Snapshot())
	return nil
}

// SetLocalMode 切换本地模拟/网络探测
func (m *Monitor) SetLocalMode(local bool) error {
	return m.UpdateSettings(func(s *core.Settings) {
		s.LocalMode = local
	})
}

// Clear 清空缓冲区和汇总统计
func (m *Monitor) Clear() {
	m.mu.Lock()
	m.buffer.Reset()
	m.stats = core.Stats{Trend: core.TrendStable}
	m.current = math.NaN()
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.publish(snap)
}

// Snapshot 返回当前状态的只读快照
func (m *Monitor) Snapshot() core.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe 订阅快照更新
// 发送不阻塞，订阅者来不及接收时丢弃，返回的函数用于取消订阅
func (m *Monitor) Subscribe(size int) (<-chan core.Snapshot, func()) {
	if size < 1 {
		size = 1
	}
	ch := make(chan core.Snapshot, size)

	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	if m.closed {
		close(ch)
		return ch, func() {}
	}

	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.subsMu.Lock()
			defer m.subsMu.Unlock()
			if c, ok := m.subs[id]; ok {
				delete(m.subs, id)
				close(c)
			}
		})
	}
}

// Close 停止监控并关闭所有订阅
func (m *Monitor) Close() {
	m.Stop()

	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	m.closed = true
	for id, ch := range m.subs {
		delete(m.subs, id)
		close(ch)
	}
}

// publish 把快照分发给所有订阅者
func (m *Monitor) publish(snap core.Snapshot) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	for _, ch := range m.subs {
		select {
		case ch <- snap:
		default:
			// 订阅者处理不过来，丢弃这个快照
		}
	}
}

// snapshotLocked 在持有mu时构造快照
func (m *Monitor) snapshotLocked() core.Snapshot {
	return core.Snapshot{
		SessionID:     m.sessionID,
		Running:       m.state == StateRunning,
		Settings:      m.settings,
		Samples:       m.buffer.Samples(),
		Stats:         m.stats,
		Quality:       m.quality,
		Current:       m.current,
		ReplayKey:     m.replayKey,
		ProbesSent:    m.sent,
		ProbesFailed:  m.failed,
		ProbesSkipped: m.skipped,
		StartedAt:     m.startedAt,
	}
}

func (m *Monitor) modeName(local bool) string {
	if local {
		return m.local.Mode()
	}
	return m.network.Mode()
}

// waitLoop 取消调度循环并等待其退出
func waitLoop(cancel context.CancelFunc, done chan struct{}) {
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
