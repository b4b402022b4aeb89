package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the default initializer", t, func() {
		So(Init(), ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()

		Convey("Then a global logger is available", func() {
			So(Get(), ShouldNotBeNil)
			So(func() { Get().Info(context.Background(), "test message", String("k", "v")) }, ShouldNotPanic)
		})
	})

	Convey("Given a nil writer", t, func() {
		So(InitWithWriter(nil, false), ShouldNotBeNil)
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a JSON logger on a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf, true), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Named("survival").With(Int("n", 3)).Info(ctx, "estimated", Float64("median", 2.5), Bool("censored", true))

			Convey("Then the record carries the component, fields and caller", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "estimated")
				So(rec["component"], ShouldEqual, "survival")
				So(rec["n"], ShouldEqual, float64(3))
				So(rec["median"], ShouldEqual, 2.5)
				So(rec["censored"], ShouldEqual, true)
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level filters a record", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			defer SetLevelString("info")
			Get().Info(ctx, "hidden")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		for _, lvl := range []string{"debug", "INFO", "", "warning", "warn", " error "} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
		_ = SetLevelString("info")
	})
}
