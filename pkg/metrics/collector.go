// Package metrics 以Prometheus格式导出监控会话的当前状态
package metrics

import (
	"math"

	"github.com/Kevin-Rudy/pingboard/pkg/core"
	"github.com/prometheus/client_golang/prometheus"
)

const prefix = "pingboard_"

var (
	labelNames = []string{"mode"}

	latencyDesc  = prometheus.NewDesc(prefix+"latency_ms", "Latency statistics over the rolling buffer in millis", append(labelNames, "type"), nil)
	lossDesc     = prometheus.NewDesc(prefix+"loss_percent", "Packet loss over the rolling buffer in percent", labelNames, nil)
	probesDesc   = prometheus.NewDesc(prefix+"probes_total", "Probes of the current session by result", append(labelNames, "result"), nil)
	runningDesc  = prometheus.NewDesc(prefix+"running", "Whether monitoring is running", nil, nil)
	qualityDesc  = prometheus.NewDesc(prefix+"quality", "Current connection quality, 1 for the active class", []string{"quality"}, nil)
	trendDesc    = prometheus.NewDesc(prefix+"trend", "Latency trend: -1 improving, 0 stable, 1 degrading", labelNames, nil)
	samplesDesc  = prometheus.NewDesc(prefix+"buffer_samples", "Samples held in the rolling buffer", nil, nil)
	capacityDesc = prometheus.NewDesc(prefix+"buffer_capacity", "Capacity of the rolling buffer", nil, nil)
)

var qualities = []core.Quality{
	core.QualityExcellent,
	core.QualityGood,
	core.QualityFair,
	core.QualityPoor,
	core.QualityDisconnected,
}

// SnapshotSource 快照来源，monitor.Monitor实现了该接口
type SnapshotSource interface {
	Snapshot() core.Snapshot
}

// Collector 每次抓取时读取一次快照并生成常量指标
type Collector struct {
	source SnapshotSource
}

// NewCollector 创建收集器
func NewCollector(source SnapshotSource) *Collector {
	return &Collector{source: source}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- latencyDesc
	ch <- lossDesc
	ch <- probesDesc
	ch <- runningDesc
	ch <- qualityDesc
	ch <- trendDesc
	ch <- samplesDesc
	ch <- capacityDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.source.Snapshot()

	mode := "network"
	if snap.Settings.LocalMode {
		mode = "local"
	}

	ch <- prometheus.MustNewConstMetric(runningDesc, prometheus.GaugeValue, boolValue(snap.Running))
	ch <- prometheus.MustNewConstMetric(samplesDesc, prometheus.GaugeValue, float64(len(snap.Samples)))
	ch <- prometheus.MustNewConstMetric(capacityDesc, prometheus.GaugeValue, float64(snap.Settings.MaxDataPoints))

	ch <- prometheus.MustNewConstMetric(probesDesc, prometheus.CounterValue, float64(snap.ProbesSent), mode, "sent")
	ch <- prometheus.MustNewConstMetric(probesDesc, prometheus.CounterValue, float64(snap.ProbesFailed), mode, "failed")
	ch <- prometheus.MustNewConstMetric(probesDesc, prometheus.CounterValue, float64(snap.ProbesSkipped), mode, "skipped")

	for _, q := range qualities {
		ch <- prometheus.MustNewConstMetric(qualityDesc, prometheus.GaugeValue, boolValue(snap.Quality == q), string(q))
	}

	// 缓冲区为空时不导出统计
	if len(snap.Samples) == 0 {
		return
	}

	ch <- prometheus.MustNewConstMetric(latencyDesc, prometheus.GaugeValue, snap.Stats.Min, mode, "min")
	ch <- prometheus.MustNewConstMetric(latencyDesc, prometheus.GaugeValue, snap.Stats.Max, mode, "max")
	ch <- prometheus.MustNewConstMetric(latencyDesc, prometheus.GaugeValue, snap.Stats.Avg, mode, "avg")
	ch <- prometheus.MustNewConstMetric(latencyDesc, prometheus.GaugeValue, snap.Stats.Jitter, mode, "jitter")
	if !math.IsNaN(snap.Current) {
		ch <- prometheus.MustNewConstMetric(latencyDesc, prometheus.GaugeValue, snap.Current, mode, "current")
	}

	ch <- prometheus.MustNewConstMetric(lossDesc, prometheus.GaugeValue, snap.Stats.PacketLoss, mode)
	ch <- prometheus.MustNewConstMetric(trendDesc, prometheus.GaugeValue, trendValue(snap.Stats.Trend), mode)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func trendValue(t core.Trend) float64 {
	switch t {
	case core.TrendImproving:
		return -1
	case core.TrendDegrading:
		return 1
	default:
		return 0
	}
}
