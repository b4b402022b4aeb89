package redcap_test

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/okian/biostat/internal/adapters/redcap"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClient_ExportReport(t *testing.T) {
	Convey("Given a REDCap endpoint", t, func() {
		var got url.Values
		var method, contentType string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			contentType = r.Header.Get("Content-Type")
			_ = r.ParseForm()
			got = r.PostForm
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte("record_id;status;time\n1;1;5.5\n2;0;\n"))
		}))
		defer srv.Close()

		client := redcap.NewClient(srv.URL, "SECRET", redcap.WithDelimiter(';'))

		Convey("When exporting a report", func() {
			table, err := client.ExportReport(context.Background(), "42")

			Convey("Then the request carries the export-report form", func() {
				So(err, ShouldBeNil)
				So(method, ShouldEqual, http.MethodPost)
				So(contentType, ShouldEqual, "application/x-www-form-urlencoded")
				So(got.Get("token"), ShouldEqual, "SECRET")
				So(got.Get("content"), ShouldEqual, "report")
				So(got.Get("format"), ShouldEqual, "csv")
				So(got.Get("report_id"), ShouldEqual, "42")
				So(got.Get("csvDelimiter"), ShouldEqual, ";")
				So(got.Get("rawOrLabel"), ShouldEqual, "raw")
				So(got.Get("rawOrLabelHeaders"), ShouldEqual, "raw")
				So(got.Get("exportCheckboxLabel"), ShouldEqual, "false")
				So(got.Get("returnFormat"), ShouldEqual, "csv")
				So(len(got), ShouldEqual, 9)
			})

			Convey("And the CSV is parsed into a table", func() {
				So(err, ShouldBeNil)
				So(table.Header, ShouldResemble, []string{"record_id", "status", "time"})
				So(len(table.Rows), ShouldEqual, 2)

				status, err := table.Float64Column("status")
				So(err, ShouldBeNil)
				So(status, ShouldResemble, []float64{1, 0})

				times, err := table.Float64Column("time")
				So(err, ShouldBeNil)
				So(times[0], ShouldEqual, 5.5)
				So(math.IsNaN(times[1]), ShouldBeTrue)
			})
		})
	})

	Convey("Given an endpoint that rejects the token", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"You do not have permissions to use the API"}`, http.StatusForbidden)
		}))
		defer srv.Close()

		_, err := redcap.NewClient(srv.URL, "BAD").ExportReport(context.Background(), "1")

		Convey("Then it fails with ErrUpstream including the status", func() {
			So(errors.Is(err, redcap.ErrUpstream), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "403")
		})
	})

	Convey("Given an endpoint returning malformed CSV", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("a,b\n1,2,3\n"))
		}))
		defer srv.Close()

		_, err := redcap.NewClient(srv.URL, "T").ExportReport(context.Background(), "1")
		So(errors.Is(err, redcap.ErrDecode), ShouldBeTrue)
	})

	Convey("Given incomplete client settings", t, func() {
		ctx := context.Background()
		_, errURL := redcap.NewClient("", "T").ExportReport(ctx, "1")
		_, errToken := redcap.NewClient("http://example.invalid", " ").ExportReport(ctx, "1")
		_, errReport := redcap.NewClient("http://example.invalid", "T").ExportReport(ctx, "")

		Convey("Then the request is rejected before any I/O", func() {
			So(errors.Is(errURL, redcap.ErrInvalidRequest), ShouldBeTrue)
			So(errors.Is(errToken, redcap.ErrInvalidRequest), ShouldBeTrue)
			So(errors.Is(errReport, redcap.ErrInvalidRequest), ShouldBeTrue)
		})
	})
}

func TestTable(t *testing.T) {
	Convey("Given a parsed table", t, func() {
		table, err := redcap.ParseCSV(strings.NewReader("id,score\n1,x\n"), ',')
		So(err, ShouldBeNil)

		Convey("Then unknown columns are reported", func() {
			_, err := table.Column("age")
			So(errors.Is(err, redcap.ErrColumnNotFound), ShouldBeTrue)
		})

		Convey("And non-numeric cells fail to parse", func() {
			_, err := table.Float64Column("score")
			So(errors.Is(err, redcap.ErrDecode), ShouldBeTrue)
		})
	})

	Convey("Given an empty body", t, func() {
		_, err := redcap.ParseCSV(strings.NewReader(""), ',')
		So(errors.Is(err, redcap.ErrDecode), ShouldBeTrue)
	})
}

type countingTransport struct{ calls int }

func (t *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.calls++
	return http.DefaultTransport.RoundTrip(r)
}

func TestClient_Options(t *testing.T) {
	Convey("Given a REDCap endpoint", t, func() {
		var got url.Values
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = r.ParseForm()
			got = r.PostForm
			_, _ = w.Write([]byte("record_id\tstatus\n1\t1\n"))
		}))
		defer srv.Close()

		Convey("When the delimiter is a tab", func() {
			client := redcap.NewClient(srv.URL, "SECRET", redcap.WithDelimiter('\t'))
			table, err := client.ExportReport(context.Background(), "7")

			Convey("Then csvDelimiter is sent as the tab keyword", func() {
				So(err, ShouldBeNil)
				So(got.Get("csvDelimiter"), ShouldEqual, "tab")
				So(table.Header, ShouldResemble, []string{"record_id", "status"})
			})
		})

		Convey("When a timeout follows a custom HTTP client", func() {
			tr := &countingTransport{}
			hc := &http.Client{Transport: tr}
			client := redcap.NewClient(srv.URL, "SECRET",
				redcap.WithHTTPClient(hc),
				redcap.WithTimeout(5*time.Second),
				redcap.WithDelimiter('\t'))
			_, err := client.ExportReport(context.Background(), "7")

			Convey("Then the custom client is kept and carries the timeout", func() {
				So(err, ShouldBeNil)
				So(tr.calls, ShouldEqual, 1)
				So(hc.Timeout, ShouldEqual, 5*time.Second)
			})
		})
	})
}
