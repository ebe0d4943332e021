package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then Get returns a usable logger", func() {
			So(Get(), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})

		Convey("Then a nil writer is rejected", func() {
			So(InitWithWriter(nil), ShouldNotBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Get().Info(ctx, "lookup finished",
				String("subject", "Zezima"),
				Int("achievements", 3),
				Bool("truncated", false),
				Duration("latency", 120*time.Millisecond),
				Error(errors.New("boom")),
			)

			Convey("Then the fields and caller are rendered", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "lookup finished")
				So(out, ShouldContainSubstring, "subject=Zezima")
				So(out, ShouldContainSubstring, "achievements=3")
				So(out, ShouldContainSubstring, "truncated=false")
				So(out, ShouldContainSubstring, "error=boom")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised to warn", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "visible")

			Convey("Then only warn records are written", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "visible")
			})
		})

		Convey("When a named logger is used", func() {
			Named("dispatcher").Info(ctx, "tick", Int("queue", 2))

			Convey("Then the group prefixes the fields", func() {
				So(buf.String(), ShouldContainSubstring, "dispatcher.queue=2")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		for _, lvl := range []string{"debug", "info", "", "warn", "warning", "error", " INFO "} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		So(SetLevelString("verbose"), ShouldNotBeNil)
		_ = SetLevelString("info")
	})
}

func TestNop(t *testing.T) {
	Convey("Given a nop logger", t, func() {
		l := Nop()
		So(func() { l.Info(context.Background(), "ignored") }, ShouldNotPanic)
		So(GetOr(l), ShouldNotBeNil)
	})
}
