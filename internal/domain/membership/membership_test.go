package membership_test

import (
	"testing"

	"github.com/okian/hiscorewatch/internal/domain/membership"
	"github.com/smartystreets/goconvey/convey"
)

func TestTracker(t *testing.T) {
	convey.Convey("Given an empty tracker", t, func() {
		tr := membership.NewTracker()

		convey.Convey("When the first snapshot arrives", func() {
			joined := tr.Diff([]string{"Zezima", "Lynx_Titan", "zezima", ""})

			convey.Convey("Then every distinct member is new", func() {
				convey.So(joined, convey.ShouldResemble, []string{"Zezima", "Lynx Titan"})
				convey.So(tr.Len(), convey.ShouldEqual, 2)
			})

			convey.Convey("And a later snapshot adds one member and drops another", func() {
				joined = tr.Diff([]string{"LYNX TITAN", "Woox"})

				convey.So(joined, convey.ShouldResemble, []string{"Woox"})
				convey.So(tr.Len(), convey.ShouldEqual, 2)

				convey.Convey("Then a returning member counts as new again", func() {
					convey.So(tr.Diff([]string{"Woox", "Zezima"}), convey.ShouldResemble, []string{"Zezima"})
				})
			})

			convey.Convey("And the channel is cleared", func() {
				tr.Reset()

				convey.Convey("Then the same members are new again", func() {
					convey.So(tr.Len(), convey.ShouldEqual, 0)
					convey.So(tr.Diff([]string{"Zezima"}), convey.ShouldResemble, []string{"Zezima"})
				})
			})
		})

		convey.Convey("When an empty snapshot arrives", func() {
			convey.So(tr.Diff(nil), convey.ShouldBeEmpty)
		})
	})
}
