package service_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/biostat/internal/adapters/redcap"
	service "github.com/okian/biostat/internal/app"
	. "github.com/smartystreets/goconvey/convey"
)

const reportCSV = `record_id,os_status,os_months
1,1,3
2,0,5
3,1,5
4,1,8
5,0,12
`

func TestIntegration_REDCapToSurvivalPlot(t *testing.T) {
	Convey("Given a REDCap endpoint serving a survival report", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil || r.PostForm.Get("report_id") != "7" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte(reportCSV))
		}))
		defer srv.Close()

		ctx := context.Background()
		svc := service.New(
			service.WithREDCap(redcap.NewClient(srv.URL, "TOKEN")),
			service.WithPlotSize(3, 2),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When the report is fetched, estimated and rendered", func() {
			table, err := svc.FetchReport(ctx, "7")
			So(err, ShouldBeNil)

			status, err := table.Float64Column("os_status")
			So(err, ShouldBeNil)
			months, err := table.Float64Column("os_months")
			So(err, ShouldBeNil)

			curve, err := svc.EstimateSurvival(ctx, status, months)
			So(err, ShouldBeNil)

			var buf bytes.Buffer
			err = svc.RenderSurvival(ctx, &buf, curve, "svg", "Overall survival")

			Convey("Then every stage should succeed", func() {
				So(err, ShouldBeNil)
				So(curve.NStart, ShouldEqual, 5)
				So(curve.Len(), ShouldEqual, 4)
				So(curve.Points[0].Survival, ShouldAlmostEqual, 0.8)
				// t=5: one event among four at risk.
				So(curve.Points[1].Survival, ShouldAlmostEqual, 0.6)
				So(buf.Len(), ShouldBeGreaterThan, 0)

				stats := svc.GetStats()
				calls := stats["calls"].(map[string]int64)
				So(calls[service.AnalysisREDCap], ShouldEqual, 1)
				So(calls[service.AnalysisSurvival], ShouldEqual, 1)
				So(calls[service.AnalysisPlot], ShouldEqual, 1)
			})
		})
	})
}
