package service_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/biostat/internal/adapters/kmplot"
	"github.com/okian/biostat/internal/adapters/redcap"
	service "github.com/okian/biostat/internal/app"
	"github.com/okian/biostat/internal/domain/mle"
	"github.com/okian/biostat/internal/domain/samplesize"
	"github.com/okian/biostat/internal/domain/survival"
	"github.com/okian/biostat/internal/domain/types"
	"github.com/okian/biostat/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

type stubReporter struct {
	table *redcap.Table
	err   error
	ids   []string
}

func (r *stubReporter) ExportReport(_ context.Context, reportID string) (*redcap.Table, error) {
	r.ids = append(r.ids, reportID)
	if r.err != nil {
		return nil, r.err
	}
	return r.table, nil
}

func calls(svc *service.Service, analysis string) int64 {
	return svc.GetStats()["calls"].(map[string]int64)[analysis]
}

func failures(svc *service.Service, analysis string) int64 {
	return svc.GetStats()["errors"].(map[string]int64)[analysis]
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			stats := svc.GetStats()
			So(stats["gridStep"], ShouldEqual, mle.DefaultGridStep)
			So(stats["maxObservations"], ShouldEqual, 1_000_000)
			So(stats["redcapEnabled"], ShouldBeFalse)
			So(svc.REDCapEnabled(), ShouldBeFalse)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithGridStep(0.01),
			service.WithMaxObservations(10),
			service.WithPlotSize(3, 2),
			service.WithREDCap(&stubReporter{}),
			service.WithLogger(logger.Named("test")),
		)

		Convey("Then the options should be applied", func() {
			stats := svc.GetStats()
			So(stats["gridStep"], ShouldEqual, 0.01)
			So(stats["maxObservations"], ShouldEqual, 10)
			So(svc.REDCapEnabled(), ShouldBeTrue)
		})
	})

	Convey("Given out-of-range options", t, func() {
		svc := service.New(service.WithGridStep(0), service.WithMaxObservations(-1))

		Convey("Then the defaults should be kept", func() {
			stats := svc.GetStats()
			So(stats["gridStep"], ShouldEqual, mle.DefaultGridStep)
			So(stats["maxObservations"], ShouldEqual, 1_000_000)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		defer svc.Stop()

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then it should be marked as started", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats, ShouldContainKey, "uptimeSeconds")
			})

			Convey("And starting twice should be a no-op", func() {
				So(svc.Start(context.Background()), ShouldBeNil)
			})

			Convey("And stopping should mark it as stopped", func() {
				svc.Stop()
				So(svc.GetStats()["started"], ShouldEqual, false)

				// Stopping twice is safe.
				svc.Stop()
			})
		})
	})
}

func TestService_EstimateSurvival(t *testing.T) {
	Convey("Given a service", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithMaxObservations(5))

		Convey("When estimating a curve with ties", func() {
			curve, err := svc.EstimateSurvival(ctx, []float64{1, 1, 0, 0}, []float64{1, 1, 2, 2})

			Convey("Then it should return the Kaplan-Meier table", func() {
				So(err, ShouldBeNil)
				So(curve.NStart, ShouldEqual, 4)
				So(curve.Len(), ShouldEqual, 2)
				So(curve.Points[0].Survival, ShouldAlmostEqual, 0.5)
				So(calls(svc, service.AnalysisSurvival), ShouldEqual, 1)
				So(failures(svc, service.AnalysisSurvival), ShouldEqual, 0)
			})
		})

		Convey("When the input is invalid", func() {
			_, err := svc.EstimateSurvival(ctx, []float64{2}, []float64{1})

			Convey("Then the domain error should propagate and be counted", func() {
				So(errors.Is(err, survival.ErrInvalidInput), ShouldBeTrue)
				So(failures(svc, service.AnalysisSurvival), ShouldEqual, 1)
			})
		})

		Convey("When the input exceeds the size limit", func() {
			_, err := svc.EstimateSurvival(ctx, make([]float64, 6), make([]float64, 6))

			Convey("Then it should return ErrTooLarge", func() {
				So(errors.Is(err, service.ErrTooLarge), ShouldBeTrue)
			})
		})
	})
}

func TestService_RenderSurvival(t *testing.T) {
	Convey("Given an estimated curve", t, func() {
		ctx := context.Background()
		svc := service.New(service.WithPlotSize(2, 2))
		curve, err := svc.EstimateSurvival(ctx, []float64{1, 0, 1}, []float64{1, 2, 3})
		So(err, ShouldBeNil)

		Convey("When rendering as svg", func() {
			var buf bytes.Buffer
			err := svc.RenderSurvival(ctx, &buf, curve, "svg", "KM")

			Convey("Then it should write an svg document", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "<svg")
				So(calls(svc, service.AnalysisPlot), ShouldEqual, 1)
			})
		})

		Convey("When rendering an unsupported format", func() {
			err := svc.RenderSurvival(ctx, &bytes.Buffer{}, curve, "bmp", "")

			Convey("Then it should return a format error", func() {
				So(errors.Is(err, kmplot.ErrFormat), ShouldBeTrue)
			})
		})

		Convey("When rendering a nil curve", func() {
			err := svc.RenderSurvival(ctx, &bytes.Buffer{}, nil, "png", "")

			Convey("Then it should return ErrEmptyCurve", func() {
				So(errors.Is(err, kmplot.ErrEmptyCurve), ShouldBeTrue)
			})
		})
	})
}

func TestService_Approximate(t *testing.T) {
	Convey("Given a small data matrix", t, func() {
		ctx := context.Background()
		svc := service.New()
		x := types.Matrix{{1, 2}, {2, 4.1}, {3, 5.9}, {4, 8.2}}

		Convey("When approximating with all components", func() {
			out, err := svc.Approximate(ctx, x, 2)

			Convey("Then it should reproduce the input", func() {
				So(err, ShouldBeNil)
				for i := range x {
					for j := range x[i] {
						So(out[i][j], ShouldAlmostEqual, x[i][j], 1e-9)
					}
				}
			})
		})

		Convey("When rows are ragged", func() {
			_, err := svc.Approximate(ctx, types.Matrix{{1, 2}, {3}}, 1)

			Convey("Then it should return a dimension error", func() {
				So(errors.Is(err, types.ErrDimension), ShouldBeTrue)
			})
		})
	})
}

func TestService_FitBernoulli(t *testing.T) {
	Convey("Given a service with the default grid", t, func() {
		ctx := context.Background()
		svc := service.New()

		Convey("When fitting four successes out of five", func() {
			p, err := svc.FitBernoulli(ctx, []float64{1, 1, 1, 1, 0}, 0)

			Convey("Then p should be close to 0.8", func() {
				So(err, ShouldBeNil)
				So(p, ShouldAlmostEqual, 0.8, 1e-9)
			})
		})

		Convey("When fitting with a coarser explicit step", func() {
			p, err := svc.FitBernoulli(ctx, []float64{1, 0, 0}, 0.25)

			Convey("Then p should land on the coarse grid", func() {
				So(err, ShouldBeNil)
				So(p, ShouldAlmostEqual, 0.25, 1e-9)
			})
		})

		Convey("When all observations are identical", func() {
			_, err := svc.FitBernoulli(ctx, []float64{1, 1, 1}, 0)

			Convey("Then it should return a degenerate input error", func() {
				So(errors.Is(err, mle.ErrDegenerateInput), ShouldBeTrue)
			})
		})

		Convey("When the step is outside (0,1] or too fine", func() {
			for _, step := range []float64{2, -0.5, 1e-12, 1e-300} {
				p, err := svc.FitBernoulli(ctx, []float64{1, 1, 1, 1, 0}, step)

				So(errors.Is(err, mle.ErrInvalidGrid), ShouldBeTrue)
				So(p, ShouldEqual, 0)
			}
		})

		Convey("When the step is exactly one", func() {
			_, err := svc.FitBernoulli(ctx, []float64{1, 1, 1, 1, 0}, 1)

			Convey("Then both grid points have zero likelihood", func() {
				So(errors.Is(err, mle.ErrInvalidGrid), ShouldBeTrue)
			})
		})
	})
}

func TestService_SmallAnalyses(t *testing.T) {
	Convey("Given a service", t, func() {
		ctx := context.Background()
		svc := service.New()

		Convey("When computing a two-sample sample size", func() {
			res, err := svc.SampleSize(ctx, samplesize.Params{
				Delta: 1, SD: 1, Alpha: 0.05, Power: 0.8,
				Design: samplesize.TwoSample, Sides: 2,
			})

			Convey("Then it should match the published value", func() {
				So(err, ShouldBeNil)
				So(res.PerGroup, ShouldBeBetweenOrEqual, 17, 18)
				So(res.Total, ShouldEqual, 2*res.PerGroup)
			})
		})

		Convey("When reversing a 1-5 scale", func() {
			out, err := svc.ReverseScale(ctx, []float64{1, 2, math.NaN(), 5}, 1, 5)

			Convey("Then values should be mirrored and NaN kept", func() {
				So(err, ShouldBeNil)
				So(out[0], ShouldEqual, 5.0)
				So(out[1], ShouldEqual, 4.0)
				So(math.IsNaN(out[2]), ShouldBeTrue)
				So(out[3], ShouldEqual, 1.0)
			})
		})

		Convey("When standardizing names", func() {
			out := svc.StandardizeNames(ctx, []string{"Patient ID", "patientId", "1st Visit"})

			Convey("Then they should be cleaned and unique", func() {
				So(out, ShouldResemble, []string{"patient_id", "patient_id_2", "x1st_visit"})
				So(calls(svc, service.AnalysisNames), ShouldEqual, 1)
			})
		})
	})
}

func TestService_FetchReport(t *testing.T) {
	Convey("Given a service without REDCap", t, func() {
		svc := service.New()

		Convey("When fetching a report", func() {
			_, err := svc.FetchReport(context.Background(), "42")

			Convey("Then it should return ErrREDCapDisabled", func() {
				So(errors.Is(err, service.ErrREDCapDisabled), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service with a REDCap reporter", t, func() {
		rep := &stubReporter{table: &redcap.Table{
			Header: []string{"record_id", "status"},
			Rows:   [][]string{{"1", "1"}, {"2", "0"}},
		}}
		svc := service.New(service.WithREDCap(rep))

		Convey("When fetching a report", func() {
			table, err := svc.FetchReport(context.Background(), "42")

			Convey("Then it should return the table", func() {
				So(err, ShouldBeNil)
				So(table.Rows, ShouldHaveLength, 2)
				So(rep.ids, ShouldResemble, []string{"42"})
			})
		})

		Convey("When the upstream fails", func() {
			rep.err = redcap.ErrUpstream
			_, err := svc.FetchReport(context.Background(), "42")

			Convey("Then the error should propagate", func() {
				So(errors.Is(err, redcap.ErrUpstream), ShouldBeTrue)
				So(failures(svc, service.AnalysisREDCap), ShouldEqual, 1)
			})
		})
	})
}
