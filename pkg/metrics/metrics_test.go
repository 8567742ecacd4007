package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options", func() {
			reg := prometheus.NewRegistry()
			m := NewManager(
				WithNamespace("test"),
				WithMetricPrefix("pre"),
				WithDurationBuckets([]float64{5, 0.5}),
				WithRefreshInterval(3*time.Second),
				WithConstLabels(map[string]string{"env": "test", "": "x", "host": ""}),
				WithPrometheusRegistry(reg),
			)

			Convey("Then names carry namespace, subsystem and prefix", func() {
				m.RecordPipelineRun("split", "ok")
				n, err := testutil.GatherAndCount(reg, "test_pipeline_pre_runs_total")
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
				So(m.RefreshInterval(), ShouldEqual, 3*time.Second)
			})

			Convey("Then duration buckets are sorted", func() {
				So(m.durationBuckets, ShouldResemble, []float64{0.5, 5})
			})

			Convey("Then only complete constant labels are attached", func() {
				m.RecordPipelineRun("split", "ok")
				expected := `
# HELP test_pipeline_pre_runs_total Pipeline invocations by pipeline and outcome
# TYPE test_pipeline_pre_runs_total counter
test_pipeline_pre_runs_total{env="test",pipeline="split",status="ok"} 1
`
				So(testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_pipeline_pre_runs_total"), ShouldBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording a rank run", func() {
			m.RecordPipelineRun("rank", "ok")
			m.RecordPipelineDuration("rank", 250*time.Millisecond)
			m.RecordRowsRead("rank", 42)
			m.RecordFilesWritten("rank", 3)
			m.UpdateMergedEntries(40)
			m.UpdatePagesWritten(1)

			Convey("Then the collectors hold the values", func() {
				So(testutil.ToFloat64(m.pipelineRuns.WithLabelValues("rank", "ok")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.rowsRead.WithLabelValues("rank")), ShouldEqual, 42)
				So(testutil.ToFloat64(m.filesWritten.WithLabelValues("rank")), ShouldEqual, 3)
				So(testutil.ToFloat64(m.mergedEntries), ShouldEqual, 40)
				So(testutil.ToFloat64(m.pagesWritten), ShouldEqual, 1)
			})
		})

		Convey("When recording failures and HTTP traffic", func() {
			m.RecordPipelineError("split", "empty_input")
			m.RecordHTTPRequest("/split", "POST", "422")
			m.RecordHTTPRequestDuration("/split", "POST", "422", 3)
			m.RecordErrorByEndpoint("/split", "POST", "empty_input")

			Convey("Then they are counted by label", func() {
				So(testutil.ToFloat64(m.pipelineErrors.WithLabelValues("split", "empty_input")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.httpRequests.WithLabelValues("/split", "POST", "422")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.errorRateByEndpoint.WithLabelValues("/split", "POST", "empty_input")), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))

		Convey("Then recording is a no-op", func() {
			m.RecordPipelineRun("split", "ok")
			m.UpdateSystemGoroutineCount(7)
			So(m.Enabled(), ShouldBeFalse)
			So(testutil.ToFloat64(m.pipelineRuns.WithLabelValues("split", "ok")), ShouldEqual, 0)
			So(testutil.ToFloat64(m.systemGoroutineCount), ShouldEqual, 0)
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager reconfigured", t, func() {
		Configure(WithNamespace("glob"))

		Convey("When using the package helpers", func() {
			So(func() {
				RecordPipelineRun("split", "ok")
				RecordPipelineDuration("split", time.Second)
				RecordPipelineError("rank", "io")
				RecordRowsRead("split", 10)
				RecordFilesWritten("split", 10)
				UpdateMergedEntries(5)
				UpdatePagesWritten(1)
				RecordHTTPRequest("/healthz", "GET", "200")
				RecordHTTPRequestDuration("/healthz", "GET", "200", 1)
				RecordErrorByEndpoint("/rankings", "POST", "internal")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(3)
				RecordSystemGCPauseTime(0.5)
			}, ShouldNotPanic)

			Convey("Then the handler exposes them", func() {
				rec := httptest.NewRecorder()
				Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
				body, err := io.ReadAll(rec.Body)
				So(err, ShouldBeNil)
				So(string(body), ShouldContainSubstring, `glob_pipeline_runs_total{pipeline="split",status="ok"}`)
				So(Global(), ShouldNotBeNil)
			})
		})
	})
}
