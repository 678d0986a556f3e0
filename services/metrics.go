package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StatsCollector exposes the aggregator, gate and job registry to
// Prometheus without keeping any metric state of its own: every scrape
// reads the live values.
type StatsCollector struct {
	stats  *StatsAggregator
	replay *ReplayService
	gate   *MonitoringGate

	predictions *prometheus.Desc
	recentSize  *prometheus.Desc
	monitoring  *prometheus.Desc
	jobs        *prometheus.Desc
}

func NewStatsCollector(stats *StatsAggregator, replay *ReplayService, gate *MonitoringGate) *StatsCollector {
	return &StatsCollector{
		stats:  stats,
		replay: replay,
		gate:   gate,
		predictions: prometheus.NewDesc(
			"ids_predictions_total",
			"Predictions recorded since start or last reset, by outcome.",
			[]string{"outcome"}, nil,
		),
		recentSize: prometheus.NewDesc(
			"ids_recent_events",
			"Occupancy of the recent-events ring buffer.",
			nil, nil,
		),
		monitoring: prometheus.NewDesc(
			"ids_monitoring_enabled",
			"Whether the monitoring gate is open (1) or closed (0).",
			nil, nil,
		),
		jobs: prometheus.NewDesc(
			"ids_replay_jobs",
			"Replay jobs in the registry, by status.",
			[]string{"status"}, nil,
		),
	}
}

func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.predictions
	ch <- c.recentSize
	ch <- c.monitoring
	ch <- c.jobs
}

func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	snap := c.stats.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.predictions, prometheus.GaugeValue, float64(snap.Benign), "benign")
	ch <- prometheus.MustNewConstMetric(c.predictions, prometheus.GaugeValue, float64(snap.Attack), "attack")
	ch <- prometheus.MustNewConstMetric(c.recentSize, prometheus.GaugeValue, float64(c.stats.RecentCount()))

	running := 0.0
	if c.gate.Status().Running {
		running = 1.0
	}
	ch <- prometheus.MustNewConstMetric(c.monitoring, prometheus.GaugeValue, running)

	counts := c.replay.JobCounts()
	for _, status := range []JobStatus{JobQueued, JobRunning, JobDone, JobFailed} {
		ch <- prometheus.MustNewConstMetric(c.jobs, prometheus.GaugeValue, float64(counts[status]), string(status))
	}
}
