package hiscores_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/hiscorewatch/internal/adapters/hiscores"
	"github.com/okian/hiscorewatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLookup(t *testing.T) {
	Convey("Given a hiscore service", t, func() {
		var lastPlayer atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			player := r.URL.Query().Get("player")
			lastPlayer.Store(player)
			switch player {
			case "Lynx Titan":
				fmt.Fprint(w, "1,2277,4600000000\n1,99,200000000\n")
			case "teapot":
				w.WriteHeader(http.StatusTeapot)
				fmt.Fprint(w, "short and stout")
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		c := hiscores.NewClient(
			hiscores.WithBaseURL(srv.URL+"/index_lite.ws?player="),
			hiscores.WithRequestsPerSecond(0),
			hiscores.WithLogger(logger.Nop()),
		)
		ctx := context.Background()

		Convey("When the subject is ranked", func() {
			body, err := c.Lookup(ctx, "Lynx Titan")

			Convey("Then the raw body is returned and the name is query-escaped", func() {
				So(err, ShouldBeNil)
				So(body, ShouldStartWith, "1,2277,4600000000\n")
				So(lastPlayer.Load(), ShouldEqual, "Lynx Titan")
				So(c.URL("Lynx Titan"), ShouldEndWith, "player=Lynx+Titan")
			})
		})

		Convey("When the subject is unranked", func() {
			_, err := c.Lookup(ctx, "nobody")

			Convey("Then the error is no data", func() {
				So(errors.Is(err, hiscores.ErrNoData), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "404")
			})
		})

		Convey("When the service answers with any other non-2xx status", func() {
			_, err := c.Lookup(ctx, "teapot")

			Convey("Then it is also no data", func() {
				So(errors.Is(err, hiscores.ErrNoData), ShouldBeTrue)
				So(errors.Is(err, hiscores.ErrTransport), ShouldBeFalse)
			})
		})

		Convey("When the subject is blank", func() {
			_, err := c.Lookup(ctx, "  ")
			So(err, ShouldEqual, hiscores.ErrEmptySubject)
		})
	})

	Convey("Given an unreachable service", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL + "/?player="
		srv.Close()

		c := hiscores.NewClient(hiscores.WithBaseURL(base), hiscores.WithLogger(logger.Nop()))

		Convey("Then the error is a transport failure", func() {
			_, err := c.Lookup(context.Background(), "Zezima")
			So(errors.Is(err, hiscores.ErrTransport), ShouldBeTrue)
			So(errors.Is(err, hiscores.ErrNoData), ShouldBeFalse)
		})
	})

	Convey("Given a slow service and a short timeout", t, func() {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		c := hiscores.NewClient(
			hiscores.WithBaseURL(srv.URL+"/?player="),
			hiscores.WithTimeout(50*time.Millisecond),
			hiscores.WithLogger(logger.Nop()),
		)

		Convey("Then the lookup fails as a transport failure", func() {
			_, err := c.Lookup(context.Background(), "Zezima")
			So(errors.Is(err, hiscores.ErrTransport), ShouldBeTrue)
		})
	})
}

func TestLookupRateLimit(t *testing.T) {
	Convey("Given a client limited to 20 requests per second", t, func() {
		var hits atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			fmt.Fprint(w, "1,1,1\n")
		}))
		defer srv.Close()

		c := hiscores.NewClient(
			hiscores.WithBaseURL(srv.URL+"/?player="),
			hiscores.WithRequestsPerSecond(20),
			hiscores.WithLogger(logger.Nop()),
		)

		Convey("When five lookups run back to back", func() {
			start := time.Now()
			for i := 0; i < 5; i++ {
				_, err := c.Lookup(context.Background(), "p")
				So(err, ShouldBeNil)
			}
			elapsed := time.Since(start)

			Convey("Then they are spaced by the limiter", func() {
				So(hits.Load(), ShouldEqual, 5)
				So(elapsed, ShouldBeGreaterThanOrEqualTo, 190*time.Millisecond)
			})
		})

		Convey("When the context is already cancelled", func() {
			_, _ = c.Lookup(context.Background(), "warm")
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := c.Lookup(ctx, "p")

			Convey("Then the wait fails as a transport failure", func() {
				So(errors.Is(err, hiscores.ErrTransport), ShouldBeTrue)
			})
		})
	})
}
