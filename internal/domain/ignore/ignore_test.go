package ignore_test

import (
	"testing"

	"github.com/okian/hiscorewatch/internal/domain/ignore"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSet(t *testing.T) {
	Convey("Given an ignore set built from mixed-case names", t, func() {
		s := ignore.New("Zezima", "lynx_titan", "")

		Convey("Then lookups are case-insensitive and blanks are dropped", func() {
			So(s.Len(), ShouldEqual, 2)
			So(s.IsIgnored("ZEZIMA"), ShouldBeTrue)
			So(s.IsIgnored("Lynx Titan"), ShouldBeTrue)
			So(s.IsIgnored(""), ShouldBeFalse)
			So(s.IsIgnored("Woox"), ShouldBeFalse)
		})

		Convey("When adding and removing", func() {
			So(s.Add("Woox"), ShouldBeTrue)
			So(s.Add("woox"), ShouldBeFalse)
			So(s.Remove("ZEZIMA"), ShouldBeTrue)
			So(s.Remove("zezima"), ShouldBeFalse)

			Convey("Then the list reflects both changes", func() {
				So(s.List(), ShouldResemble, []string{"lynx titan", "woox"})
			})
		})

		Convey("When toggling a name twice", func() {
			first := s.Toggle("Woox")
			second := s.Toggle("WOOX")

			Convey("Then it is ignored then released", func() {
				So(first, ShouldBeTrue)
				So(second, ShouldBeFalse)
				So(s.IsIgnored("woox"), ShouldBeFalse)
			})
		})

		Convey("When replaced wholesale", func() {
			s.Replace([]string{"B0aty"})

			Convey("Then only the new content remains", func() {
				So(s.List(), ShouldResemble, []string{"b0aty"})
			})
		})

		Convey("When cleared", func() {
			s.Clear()
			So(s.Len(), ShouldEqual, 0)
		})
	})
}

func TestParseJoin(t *testing.T) {
	Convey("Given a comma-delimited settings value", t, func() {
		ids := ignore.Parse(" Zezima, ,Lynx_Titan,,B0aty ")

		Convey("Then it splits, trims and lower-cases", func() {
			So(ids, ShouldResemble, []string{"zezima", "lynx titan", "b0aty"})
		})

		Convey("Then Join renders it back", func() {
			So(ignore.Join(ids), ShouldEqual, "zezima,lynx titan,b0aty")
		})

		Convey("Then an empty value parses to nothing", func() {
			So(ignore.Parse(""), ShouldBeEmpty)
		})
	})
}
