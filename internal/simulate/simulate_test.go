package simulate_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/hiscorewatch/internal/adapters/hiscores"
	"github.com/okian/hiscorewatch/internal/domain/achievement"
	"github.com/okian/hiscorewatch/internal/domain/catalog"
	"github.com/okian/hiscorewatch/internal/simulate"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecord(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		cat := catalog.Default()
		opts := achievement.Options{RankThreshold: 25, AlertForExperienceCap: true}

		Convey("When a record is generated", func() {
			rec := simulate.Record(cat, "Sim 1a2b3c4d", 0.1)

			Convey("Then it is deterministic and case-insensitive", func() {
				So(simulate.Record(cat, "sim 1A2B3C4D", 0.1), ShouldEqual, rec)
				So(simulate.Record(cat, "Sim 9f9f9f9f", 0.1), ShouldNotEqual, rec)
			})

			Convey("Then it has one parseable line per category", func() {
				So(strings.Count(rec, "\n"), ShouldEqual, cat.Len())
				res, err := achievement.Aggregate(context.Background(), rec, cat, opts)
				So(err, ShouldBeNil)
				So(res.Truncated, ShouldBeFalse)
				So(res.Failures, ShouldBeEmpty)
			})
		})

		Convey("When nothing is notable", func() {
			res, err := achievement.Aggregate(context.Background(), simulate.Record(cat, "Nobody", 0), cat, opts)

			Convey("Then no achievements are found", func() {
				So(err, ShouldBeNil)
				So(res.Empty(), ShouldBeTrue)
			})
		})

		Convey("When everything is notable", func() {
			res, err := achievement.Aggregate(context.Background(), simulate.Record(cat, "Somebody", 1), cat, opts)

			Convey("Then every category qualifies", func() {
				So(err, ShouldBeNil)
				So(res.Achievements, ShouldHaveLength, cat.Len())
			})
		})
	})
}

func TestHiscoresHandler(t *testing.T) {
	Convey("Given the fake hiscore service behind the lookup client", t, func() {
		cat := catalog.Default()
		srv := httptest.NewServer(simulate.HiscoresHandler(cat, simulate.HiscoresConfig{NotFoundRatio: 0, NotableRatio: 0.5}))
		defer srv.Close()
		client := hiscores.NewClient(hiscores.WithBaseURL(srv.URL+"/index_lite.ws?player="), hiscores.WithRequestsPerSecond(0))

		Convey("When a name is looked up", func() {
			body, err := client.Lookup(context.Background(), "Sim 1a2b3c4d")

			Convey("Then the generated record is returned", func() {
				So(err, ShouldBeNil)
				So(body, ShouldEqual, simulate.Record(cat, "Sim 1a2b3c4d", 0.5))
			})
		})

		Convey("When every name is unranked", func() {
			srv404 := httptest.NewServer(simulate.HiscoresHandler(cat, simulate.HiscoresConfig{NotFoundRatio: 1}))
			defer srv404.Close()
			c404 := hiscores.NewClient(hiscores.WithBaseURL(srv404.URL+"/?player="), hiscores.WithRequestsPerSecond(0))
			_, err := c404.Lookup(context.Background(), "Anyone")

			Convey("Then the client reports no data", func() {
				So(errors.Is(err, hiscores.ErrNoData), ShouldBeTrue)
				So(simulate.Unranked("Anyone", 1), ShouldBeTrue)
				So(simulate.Unranked("Anyone", 0), ShouldBeFalse)
			})
		})
	})
}

// stubDaemon answers every ingress route the simulator uses.
func stubDaemon(posts *atomic.Int64) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	accept := func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"status":"accepted","outcome":"accepted"}`))
	}
	mux.HandleFunc("/events/observed", accept)
	mux.HandleFunc("/events/channel/join", accept)
	mux.HandleFunc("/events/channel/members", func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		var req struct {
			Members []string `json:"members"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		type det struct {
			Name    string `json:"name"`
			Outcome string `json:"outcome"`
		}
		out := struct {
			Detections []det `json:"detections"`
		}{Detections: []det{}}
		for _, m := range req.Members {
			out.Detections = append(out.Detections, det{Name: m, Outcome: "rejected_suppressed"})
		}
		_ = json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("/alerts", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"alerts":[{"subject":"Sim 1","source":"nearby","message":"Sim 1 is nearby and is notable for: rank 1 in Overall.","color":"#FF0000"}]}`))
	})
	return mux
}

func TestRun(t *testing.T) {
	Convey("Given a daemon that accepts everything", t, func() {
		var posts atomic.Int64
		srv := httptest.NewServer(stubDaemon(&posts))
		defer srv.Close()

		cfg := &simulate.Config{
			BaseURL:    srv.URL,
			NumEvents:  60,
			Players:    10,
			Workers:    4,
			Timeout:    5 * time.Second,
			AlertLimit: 5,
		}

		Convey("When a run completes", func() {
			var out bytes.Buffer
			stats, err := simulate.Run(context.Background(), cfg, &out)

			Convey("Then every event is submitted and alerts are printed", func() {
				So(err, ShouldBeNil)
				So(stats.EventsGenerated, ShouldEqual, 60)
				So(stats.Submitted, ShouldEqual, 60)
				So(posts.Load(), ShouldEqual, 60)
				So(stats.Failed, ShouldEqual, 0)
				So(stats.Accepted+stats.Rejected, ShouldBeGreaterThanOrEqualTo, 60)
				So(stats.Alerts, ShouldEqual, 1)
				So(out.String(), ShouldContainSubstring, "Sim 1 is nearby and is notable for: rank 1 in Overall.")
			})
		})

		Convey("When the name pool is empty", func() {
			cfg.Players = 0
			_, err := simulate.Run(context.Background(), cfg, &bytes.Buffer{})

			Convey("Then the run fails before submitting", func() {
				So(err, ShouldNotBeNil)
				So(posts.Load(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given no daemon", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		cfg := &simulate.Config{BaseURL: srv.URL, NumEvents: 1, Players: 1, Workers: 1, Timeout: time.Second}

		Convey("Then the health check fails", func() {
			_, err := simulate.Run(context.Background(), cfg, &bytes.Buffer{})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "health check")
		})
	})
}
