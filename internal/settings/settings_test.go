package settings_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/okian/hiscorewatch/internal/settings"
	"github.com/okian/hiscorewatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

type recorder struct {
	mu      sync.Mutex
	changes []settings.Change
}

func (r *recorder) listen(ctx context.Context, c settings.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.changes))
	for i, c := range r.changes {
		out[i] = c.Key
	}
	return out
}

func TestSettingsValues(t *testing.T) {
	Convey("Given the default settings", t, func() {
		s := settings.Defaults()

		Convey("Then they match the documented defaults", func() {
			So(s.RankThreshold, ShouldEqual, 25)
			So(s.AlertForExperienceCap, ShouldBeTrue)
			So(s.AlertColor, ShouldEqual, "#FF0000")
			So(s.CheckNearby && s.CheckFriendsChat && s.CheckClanChat, ShouldBeTrue)
			So(s.IgnoreList, ShouldEqual, "")
		})

		Convey("When the rank threshold is set out of range", func() {
			low, err := s.With(settings.KeyRankThreshold, "0")
			So(err, ShouldBeNil)
			high, err := s.With(settings.KeyRankThreshold, "50000")
			So(err, ShouldBeNil)

			Convey("Then it is clamped", func() {
				So(low.RankThreshold, ShouldEqual, 1)
				So(high.RankThreshold, ShouldEqual, 10000)
			})
		})

		Convey("When values are malformed", func() {
			_, err1 := s.With(settings.KeyRankThreshold, "many")
			_, err2 := s.With(settings.KeyCheckNearby, "maybe")
			_, err3 := s.With(settings.KeyAlertColor, "#GG0000")
			_, err4 := s.With("volume", "11")

			Convey("Then the sentinel errors are returned", func() {
				So(errors.Is(err1, settings.ErrInvalidValue), ShouldBeTrue)
				So(errors.Is(err2, settings.ErrInvalidValue), ShouldBeTrue)
				So(errors.Is(err3, settings.ErrInvalidValue), ShouldBeTrue)
				So(errors.Is(err4, settings.ErrUnknownKey), ShouldBeTrue)
			})
		})

		Convey("When a short color is set", func() {
			next, err := s.With(settings.KeyAlertColor, "0f0")
			So(err, ShouldBeNil)
			So(next.AlertColor, ShouldEqual, "#00FF00")
		})

		Convey("When two keys change", func() {
			next, _ := s.With(settings.KeyCheckClanChat, "false")
			next, _ = next.With(settings.KeyRankThreshold, "100")

			Convey("Then Diff reports them in file order", func() {
				So(settings.Diff(s, next), ShouldResemble, []string{settings.KeyRankThreshold, settings.KeyCheckClanChat})
				So(settings.Diff(s, s), ShouldBeEmpty)
			})
		})
	})
}

func TestStore(t *testing.T) {
	Convey("Given a file-backed store", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "settings.yaml")
		store := settings.NewStore(settings.WithPath(path), settings.WithLogger(logger.Nop()))
		rec := &recorder{}
		unsubscribe := store.Subscribe(rec.listen)

		Convey("When the file does not exist", func() {
			So(store.Load(ctx), ShouldBeNil)

			Convey("Then defaults are kept", func() {
				So(store.Current(), ShouldResemble, settings.Defaults())
			})
		})

		Convey("When the file holds some keys", func() {
			So(os.WriteFile(path, []byte("rank_threshold: 100\ncheck_nearby_players: false\nalert_color: \"#00ff00\"\n"), 0o600), ShouldBeNil)
			So(store.Load(ctx), ShouldBeNil)

			Convey("Then they are layered over the defaults without notifications", func() {
				cur := store.Current()
				So(cur.RankThreshold, ShouldEqual, 100)
				So(cur.CheckNearby, ShouldBeFalse)
				So(cur.CheckFriendsChat, ShouldBeTrue)
				So(cur.AlertColor, ShouldEqual, "#00FF00")
				So(rec.keys(), ShouldBeEmpty)
			})
		})

		Convey("When a key is set", func() {
			So(store.Set(ctx, settings.KeyIgnoreList, "zezima,lynx titan"), ShouldBeNil)

			Convey("Then listeners hear the key and the file is written", func() {
				So(rec.keys(), ShouldResemble, []string{settings.KeyIgnoreList})
				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "zezima,lynx titan")
			})

			Convey("Then a fresh store loads the same value", func() {
				other := settings.NewStore(settings.WithPath(path), settings.WithLogger(logger.Nop()))
				So(other.Load(ctx), ShouldBeNil)
				So(other.Current(), ShouldResemble, store.Current())
			})

			Convey("Then setting the same value again is silent", func() {
				So(store.Set(ctx, settings.KeyIgnoreList, "zezima,lynx titan"), ShouldBeNil)
				So(rec.keys(), ShouldHaveLength, 1)
			})
		})

		Convey("When an invalid value is set", func() {
			err := store.Set(ctx, settings.KeyRankThreshold, "lots")

			Convey("Then nothing changes", func() {
				So(errors.Is(err, settings.ErrInvalidValue), ShouldBeTrue)
				So(rec.keys(), ShouldBeEmpty)
				_, statErr := os.Stat(path)
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})

		Convey("When the file is edited and reloaded", func() {
			So(store.Set(ctx, settings.KeyRankThreshold, "50"), ShouldBeNil)
			So(os.WriteFile(path, []byte("rank_threshold: 50\nignore_list: woox\ncheck_clan_chat: false\n"), 0o600), ShouldBeNil)
			So(store.Reload(ctx), ShouldBeNil)

			Convey("Then one change per differing key is delivered", func() {
				So(rec.keys(), ShouldResemble, []string{
					settings.KeyRankThreshold,
					settings.KeyIgnoreList,
					settings.KeyCheckClanChat,
				})
				So(store.Current().IgnoreList, ShouldEqual, "woox")
			})
		})

		Convey("When the file is not valid YAML", func() {
			So(os.WriteFile(path, []byte("rank_threshold: [oops"), 0o600), ShouldBeNil)

			Convey("Then Load fails with ErrLoad", func() {
				So(errors.Is(store.Load(ctx), settings.ErrLoad), ShouldBeTrue)
			})
		})

		Convey("When unsubscribed", func() {
			unsubscribe()
			unsubscribe()
			So(store.Set(ctx, settings.KeyCheckNearby, "false"), ShouldBeNil)

			Convey("Then the listener hears nothing", func() {
				So(rec.keys(), ShouldBeEmpty)
			})
		})
	})

	Convey("Given a memory-only store", t, func() {
		store := settings.NewStore(settings.WithLogger(logger.Nop()))

		Convey("Then Set works without a file", func() {
			So(store.Set(context.Background(), settings.KeyAlertForExperienceCap, "false"), ShouldBeNil)
			So(store.Current().AlertForExperienceCap, ShouldBeFalse)
			So(store.Watch(context.Background()), ShouldBeNil)
			So(store.Close(), ShouldBeNil)
		})
	})
}

func TestStoreWatch(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	Convey("Given a watched settings file", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "settings.yaml")
		So(os.WriteFile(path, []byte("rank_threshold: 10\n"), 0o600), ShouldBeNil)

		store := settings.NewStore(
			settings.WithPath(path),
			settings.WithDebounce(20*time.Millisecond),
			settings.WithLogger(logger.Nop()),
		)
		So(store.Load(ctx), ShouldBeNil)

		changed := make(chan settings.Change, 8)
		store.Subscribe(func(ctx context.Context, c settings.Change) { changed <- c })
		So(store.Watch(ctx), ShouldBeNil)

		Convey("When another process rewrites it", func() {
			So(os.WriteFile(path, []byte("rank_threshold: 10\nignore_list: b0aty\n"), 0o600), ShouldBeNil)

			var got settings.Change
			select {
			case got = <-changed:
			case <-time.After(3 * time.Second):
			}
			So(store.Close(), ShouldBeNil)

			Convey("Then listeners hear about it", func() {
				So(got.Key, ShouldEqual, settings.KeyIgnoreList)
				So(got.Settings.IgnoreList, ShouldEqual, "b0aty")
			})
		})
	})
}
