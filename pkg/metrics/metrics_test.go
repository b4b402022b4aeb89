package metrics

import (
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then metrics are registered under the biostat namespace", func() {
				So(manager, ShouldNotBeNil)
				manager.analysisCalls.WithLabelValues("survival", "ok").Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "biostat_analysis_calls_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("teach"),
				WithSubsystem("lab"),
				WithMetricPrefix("v2"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithSizeBuckets([]float64{10, 100}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then names and constant labels follow the options", func() {
				manager.analysisCalls.WithLabelValues("pca", "ok").Inc()
				n, err := testutil.GatherAndCount(registry, "teach_lab_v2_calls_total")
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				for _, f := range families {
					if f.GetName() == "teach_lab_v2_calls_total" {
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "analysis")
						hasEnv := false
						for _, l := range f.GetMetric()[0].GetLabel() {
							if l.GetName() == "env" && l.GetValue() == "test" {
								hasEnv = true
							}
						}
						So(hasEnv, ShouldBeTrue)
					}
				}
			})
		})

		Convey("When creating with empty options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithMetricPrefix(""),
				WithHistogramBuckets(nil),
				WithSizeBuckets([]float64{}),
				WithCustomLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "biostat")
				So(manager.subsystem, ShouldEqual, "analysis")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
				So(manager.sizeBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording an analysis", func() {
			before := testutil.ToFloat64(globalManager.analysisCalls.WithLabelValues("mle", "ok"))
			RecordAnalysis("mle", "ok", 1.5)
			RecordInputSize("mle", 5)

			Convey("Then the call counter increases", func() {
				after := testutil.ToFloat64(globalManager.analysisCalls.WithLabelValues("mle", "ok"))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When recording the remaining series", func() {
			So(func() {
				RecordSurvivalPoints(12)
				RecordPlotRender("png")
				RecordREDCapFetch("ok", 120, 40)
				RecordREDCapFetch("upstream_error", 80, -1)
				RecordHTTPRequest("/v1/survival", "POST", "200")
				RecordHTTPRequestDuration("/v1/survival", "POST", "200", 3)
				RecordErrorByComponent("survival", "invalid_input")
				RecordErrorByType("invalid_input", "medium")
				RecordErrorByEndpoint("/v1/survival", "POST", "invalid_input")
				RecordErrorLatency("http", "invalid_input", 2)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)
		})

		Convey("When scraping the custom registry", func() {
			RecordPlotRender("svg")
			families, err := GetRegistry().Gather()

			Convey("Then only biostat series are exposed", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "biostat_"), ShouldBeTrue)
				}
			})
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordAnalysis("survival", "ok", float64(j))
					RecordHTTPRequest("/test", "GET", "200")
				}
			}()
		}
		wg.Wait()

		Convey("Then no panics occurred", func() {
			So(true, ShouldBeTrue)
		})
	})
}
