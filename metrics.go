package qcircuit

import (
	"sort"
	"sync"
	"time"
)

type Metrics struct {
	mu                 sync.RWMutex
	WorkerCount        int
	JobQueueSize       int
	JobCount           int64
	FailedJobs         int64
	SchedulingFailures int64
	ShotsSampled       int64
	TotalJobTime       time.Duration

	AverageJobLatency time.Duration
	P95JobLatency     time.Duration
	P99JobLatency     time.Duration
	JobSuccessRate    float64

	latencies  []time.Duration
	windowSize int
}

func NewMetrics() *Metrics {
	return &Metrics{
		latencies:  make([]time.Duration, 0, 1000),
		windowSize: 1000, // last 1000 jobs
	}
}

func (m *Metrics) recordJobExecution(startTime time.Time, shots int, success bool) {
	duration := time.Since(startTime)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalJobTime += duration
	m.JobCount++
	if success {
		m.ShotsSampled += int64(shots)
	} else {
		m.FailedJobs++
	}
	m.JobSuccessRate = float64(m.JobCount-m.FailedJobs) / float64(m.JobCount)

	m.updateLatencyPercentiles(duration)
}

func (m *Metrics) recordSchedulingFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SchedulingFailures++
}

func (m *Metrics) updateLatencyPercentiles(duration time.Duration) {
	m.AverageJobLatency = m.TotalJobTime / time.Duration(m.JobCount)

	m.latencies = append(m.latencies, duration)
	if len(m.latencies) > m.windowSize {
		m.latencies = m.latencies[1:]
	}

	sorted := make([]time.Duration, len(m.latencies))
	copy(sorted, m.latencies)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	m.P95JobLatency = sorted[percentileIndex(len(sorted), 0.95)]
	m.P99JobLatency = sorted[percentileIndex(len(sorted), 0.99)]
}

func percentileIndex(n int, p float64) int {
	i := int(float64(n) * p)
	if i >= n {
		i = n - 1
	}
	return i
}

// ExportMetrics returns a flat snapshot suitable for printing.
func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"worker_count":        m.WorkerCount,
		"queue_size":          m.JobQueueSize,
		"job_count":           m.JobCount,
		"failed_jobs":         m.FailedJobs,
		"scheduling_failures": m.SchedulingFailures,
		"shots_sampled":       m.ShotsSampled,
		"success_rate":        m.JobSuccessRate,
		"avg_latency_ms":      m.AverageJobLatency.Milliseconds(),
		"p95_latency_ms":      m.P95JobLatency.Milliseconds(),
		"p99_latency_ms":      m.P99JobLatency.Milliseconds(),
	}
}
