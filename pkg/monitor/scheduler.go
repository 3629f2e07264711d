// Package monitor 调度循环与结果记录
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
	"github.com/Kevin-Rudy/pingboard/pkg/stats"
	"github.com/sirupsen/logrus"
)

// startLoopLocked 启动新的调度循环，已有循环在运行时什么都不做
func (m *Monitor) startLoopLocked() {
	if m.cancel != nil {
		return
	}

	m.generation++
	m.inFlight = false

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	m.cancel = cancel
	m.done = done

	go m.loop(ctx, done, m.generation, m.settings.Interval)
}

// detachLoopLocked 使当前循环失效并返回其取消函数，调用方在释放mu后等待循环退出
func (m *Monitor) detachLoopLocked() (context.CancelFunc, chan struct{}) {
	cancel, done := m.cancel, m.done
	m.cancel = nil
	m.done = nil
	m.generation++
	m.inFlight = false
	return cancel, done
}

// loop 调度循环：立即探测一次，之后每个间隔触发一次
func (m *Monitor) loop(ctx context.Context, done chan struct{}, gen uint64, interval time.Duration) {
	defer close(done)

	var wg sync.WaitGroup
	defer wg.Wait()

	m.tick(ctx, &wg, gen)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick(ctx, &wg, gen)
		}
	}
}

// tick 发起一次探测；上一次探测尚未完成时跳过本次
func (m *Monitor) tick(ctx context.Context, wg *sync.WaitGroup, gen uint64) {
	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		return
	}
	if m.inFlight {
		m.skipped++
		m.mu.Unlock()
		m.log.Debug("上一次探测尚未完成，跳过本次调度")
		return
	}
	m.inFlight = true
	prober := m.network
	if m.settings.LocalMode {
		prober = m.local
	}
	m.mu.Unlock()

	wg.Add(1)
	go func() {
		defer wg.Done()
		m.record(gen, prober.Probe(ctx))
	}()
}

// record 把测量结果加工成样本并更新全部派生状态
func (m *Monitor) record(gen uint64, meas core.Measurement) {
	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		m.log.Debug("调度已停止或重启，丢弃过期的探测结果")
		return
	}
	m.inFlight = false

	sample := m.buildSampleLocked(meas)
	if m.buffer.Append(sample) && m.settings.AnimateChart {
		m.replayKey++
	}

	samples := m.buffer.Samples()
	m.stats = m.engine.Update(samples, m.settings.Smoothing)
	m.quality = stats.Classify(meas.Latency, m.stats.Jitter)
	m.current = sample.Value(m.settings.Smoothing)

	snap := m.snapshotLocked()
	m.mu.Unlock()

	if meas.Failed() {
		m.log.WithFields(logrus.Fields{
			"session": snap.SessionID,
			"error":   meas.Err,
		}).Debug("探测失败")
	}

	m.publish(snap)
}

// buildSampleLocked 根据测量结果生成样本，成功时更新平滑滤波器
func (m *Monitor) buildSampleLocked(meas core.Measurement) core.Sample {
	at := meas.At
	if at.IsZero() {
		at = time.Now()
	}

	m.nextID++
	m.sent++

	sample := core.Sample{
		ID:        m.nextID,
		Time:      at.Format(core.TimeFormat),
		Latency:   meas.Latency,
		Timestamp: at,
		Smoothed:  meas.Latency,
	}

	if meas.Failed() {
		m.failed++
		return sample
	}

	if m.settings.Smoothing {
		sample.Smoothed = m.smoother.Observe(meas.Latency, m.settings.SmoothingFactor)
	}
	sample.Status = stats.ClassifyLatency(sample.Smoothed)

	return sample
}
