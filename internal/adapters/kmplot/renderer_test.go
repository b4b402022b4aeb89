package kmplot

import (
	"bytes"
	"errors"
	"testing"

	"github.com/okian/biostat/internal/domain/survival"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRenderer_Render(t *testing.T) {
	Convey("Given a curve with censoring", t, func() {
		curve, err := survival.Estimate([]float64{1, 0, 1, 1, 0}, []float64{1, 2, 3, 4, 5})
		So(err, ShouldBeNil)

		Convey("When rendering as PNG", func() {
			var buf bytes.Buffer
			err := NewRenderer(WithTitle("Cohort A"), WithSize(3, 2)).Render(&buf, curve)

			Convey("Then a PNG image is written", func() {
				So(err, ShouldBeNil)
				So(buf.Len(), ShouldBeGreaterThan, 0)
				So(bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")), ShouldBeTrue)
			})
		})

		Convey("When rendering as SVG", func() {
			var buf bytes.Buffer
			err := NewRenderer(WithFormat("svg")).Render(&buf, curve)

			Convey("Then an SVG document is written", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "<svg")
			})
		})

		Convey("When the format is unknown", func() {
			var buf bytes.Buffer
			err := NewRenderer(WithFormat("bmp")).Render(&buf, curve)

			Convey("Then it fails with ErrFormat", func() {
				So(errors.Is(err, ErrFormat), ShouldBeTrue)
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given no curve", t, func() {
		var buf bytes.Buffer
		err := NewRenderer().Render(&buf, nil)
		So(errors.Is(err, ErrEmptyCurve), ShouldBeTrue)
	})
}

func TestStepXYs(t *testing.T) {
	Convey("Given curve rows", t, func() {
		rows := []survival.PlotPoint{{X: 2, Y: 0.5}, {X: 4, Y: 0.25, Marker: true}}
		pts := stepXYs(rows)

		Convey("Then the step function starts at (0,1) and drops at each time", func() {
			So(len(pts), ShouldEqual, 5)
			So(pts[0].X, ShouldEqual, 0)
			So(pts[0].Y, ShouldEqual, 1)
			So(pts[1].X, ShouldEqual, 2)
			So(pts[1].Y, ShouldEqual, 1)
			So(pts[2].Y, ShouldEqual, 0.5)
			So(pts[3].X, ShouldEqual, 4)
			So(pts[3].Y, ShouldEqual, 0.5)
			So(pts[4].Y, ShouldEqual, 0.25)
		})

		Convey("And only censored rows get markers", func() {
			marks := censoredXYs(rows)
			So(len(marks), ShouldEqual, 1)
			So(marks[0].X, ShouldEqual, 4)
		})
	})
}

func TestContentType(t *testing.T) {
	Convey("Given known and unknown formats", t, func() {
		ct, err := ContentType("PNG")
		So(err, ShouldBeNil)
		So(ct, ShouldEqual, "image/png")

		_, err = ContentType("gif")
		So(errors.Is(err, ErrFormat), ShouldBeTrue)
	})
}
