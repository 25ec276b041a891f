package qcircuit

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMetrics(t *testing.T) {
	Convey("Given fresh metrics", t, func() {
		metrics := NewMetrics()

		Convey("Success rate counts only successful jobs", func() {
			start := time.Now()
			metrics.recordJobExecution(start, 100, true)
			metrics.recordJobExecution(start, 100, true)
			metrics.recordJobExecution(start, 100, true)
			metrics.recordJobExecution(start, 100, false)

			exported := metrics.ExportMetrics()
			So(exported["job_count"], ShouldEqual, int64(4))
			So(exported["failed_jobs"], ShouldEqual, int64(1))
			So(exported["shots_sampled"], ShouldEqual, int64(300))
			So(exported["success_rate"], ShouldAlmostEqual, 0.75)
		})

		Convey("Latencies are kept in a bounded window", func() {
			metrics.windowSize = 10
			for i := 0; i < 25; i++ {
				metrics.recordJobExecution(time.Now(), 1, true)
			}

			So(metrics.latencies, ShouldHaveLength, 10)
			So(metrics.P99JobLatency, ShouldBeGreaterThanOrEqualTo, metrics.P95JobLatency)
		})

		Convey("Percentile indexes stay inside the window", func() {
			So(percentileIndex(1, 0.99), ShouldEqual, 0)
			So(percentileIndex(100, 0.95), ShouldEqual, 95)
			So(percentileIndex(100, 0.99), ShouldEqual, 99)
		})

		Convey("Scheduling failures are counted separately", func() {
			metrics.recordSchedulingFailure()
			So(metrics.ExportMetrics()["scheduling_failures"], ShouldEqual, int64(1))
			So(metrics.ExportMetrics()["job_count"], ShouldEqual, int64(0))
		})
	})
}
