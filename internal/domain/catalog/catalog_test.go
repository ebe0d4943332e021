package catalog_test

import (
	"errors"
	"testing"

	"github.com/okian/hiscorewatch/internal/domain/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultCatalog(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		c := catalog.Default()

		Convey("Then indices are contiguous from zero", func() {
			for i, cat := range c.All() {
				So(cat.APIIndex, ShouldEqual, i)
			}
		})

		Convey("Then Overall is the aggregate entry at index 0", func() {
			agg, ok := c.Aggregate()
			So(ok, ShouldBeTrue)
			So(agg.Name, ShouldEqual, "Overall")
			So(agg.APIIndex, ShouldEqual, 0)
		})

		Convey("Then exactly the 24 skills bear experience", func() {
			count := 0
			for _, cat := range c.All() {
				if cat.ExperienceBearing {
					count++
				}
			}
			So(count, ShouldEqual, 24)
			construction, ok := c.ByName("construction")
			So(ok, ShouldBeTrue)
			So(construction.ExperienceBearing, ShouldBeTrue)
			leagues, _ := c.ByName("League Points")
			So(leagues.ExperienceBearing, ShouldBeFalse)
		})

		Convey("Then Woodcutting sits at index 9", func() {
			wc, ok := c.ByName("Woodcutting")
			So(ok, ShouldBeTrue)
			So(wc.APIIndex, ShouldEqual, 9)
		})

		Convey("Then All returns a copy", func() {
			all := c.All()
			all[0].Name = "changed"
			first, _ := c.At(0)
			So(first.Name, ShouldEqual, "Overall")
		})

		Convey("Then At rejects out-of-range positions", func() {
			_, ok := c.At(-1)
			So(ok, ShouldBeFalse)
			_, ok = c.At(c.Len())
			So(ok, ShouldBeFalse)
		})
	})
}

func TestNewCatalogValidation(t *testing.T) {
	Convey("Given hand-built categories", t, func() {
		Convey("When indices have a gap", func() {
			_, err := catalog.New(
				catalog.Category{Name: "A", APIIndex: 0},
				catalog.Category{Name: "B", APIIndex: 2},
			)
			Convey("Then construction fails", func() {
				So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
			})
		})

		Convey("When two entries are aggregates", func() {
			_, err := catalog.New(
				catalog.Category{Name: "A", APIIndex: 0, Aggregate: true},
				catalog.Category{Name: "B", APIIndex: 1, Aggregate: true},
			)
			Convey("Then construction fails", func() {
				So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
			})
		})

		Convey("When a name repeats", func() {
			_, err := catalog.New(
				catalog.Category{Name: "A", APIIndex: 0},
				catalog.Category{Name: "a", APIIndex: 1},
			)
			Convey("Then construction fails", func() {
				So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
			})
		})

		Convey("When the catalog has no aggregate", func() {
			c, err := catalog.New(catalog.Category{Name: "Zulrah", APIIndex: 0})
			Convey("Then Aggregate reports none", func() {
				So(err, ShouldBeNil)
				_, ok := c.Aggregate()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When MustNew gets invalid input", func() {
			Convey("Then it panics", func() {
				So(func() { catalog.MustNew(catalog.Category{Name: "A", APIIndex: 1}) }, ShouldPanic)
			})
		})
	})
}
