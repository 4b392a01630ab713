package series_test

import (
	"testing"

	"github.com/okian/runscope/internal/domain/series"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCalculateRange(t *testing.T) {
	Convey("Given sample sequences", t, func() {
		Convey("When the series varies", func() {
			r := series.CalculateRange([]int64{30, -10, 20})
			So(r.Min, ShouldEqual, -10)
			So(r.Max, ShouldEqual, 30)
			So(r.Span, ShouldEqual, 40)
		})

		Convey("When the series is flat or a single point", func() {
			So(series.CalculateRange([]int64{7, 7, 7}).Span, ShouldEqual, 1)
			So(series.CalculateRange([]int64{7}).Span, ShouldEqual, 1)
		})

		Convey("Then no non-empty sequence yields a zero divisor", func() {
			inputs := [][]int64{
				{0}, {-1, -1}, {1 << 40, 1 << 40}, {5, 4, 3, 2, 1}, {-5, 5},
			}
			for _, in := range inputs {
				So(series.CalculateRange(in).Span, ShouldNotEqual, 0)
			}
		})
	})
}

func TestLayout(t *testing.T) {
	Convey("Given a three point history in a 104x54 region", t, func() {
		values := []int64{100000, 200000, 300000}
		bounds := series.Rect{W: 104, H: 54}
		points := series.Layout(values, bounds, series.DefaultGeometry())

		Convey("Then x spreads evenly across the drawable width", func() {
			So(len(points), ShouldEqual, 3)
			So(points[0].X, ShouldEqual, 2)
			So(points[1].X, ShouldEqual, 52)
			So(points[2].X, ShouldEqual, 102)
		})

		Convey("Then larger values sit higher", func() {
			So(points[0].Y, ShouldEqual, 52)
			So(points[1].Y, ShouldEqual, 27)
			So(points[2].Y, ShouldEqual, 2)
		})

		Convey("Then layout is pure", func() {
			So(series.Layout(values, bounds, series.DefaultGeometry()), ShouldResemble, points)
		})
	})

	Convey("Given a flat history", t, func() {
		points := series.Layout([]int64{5, 5}, series.Rect{W: 20, H: 20}, series.DefaultGeometry())

		Convey("Then every point rests on the baseline", func() {
			So(points[0].Y, ShouldEqual, 18)
			So(points[1].Y, ShouldEqual, 18)
		})
	})

	Convey("Given fewer than two samples", t, func() {
		So(series.Layout([]int64{1}, series.Rect{W: 20, H: 20}, series.DefaultGeometry()), ShouldBeNil)
		So(series.Layout(nil, series.Rect{W: 20, H: 20}, series.DefaultGeometry()), ShouldBeNil)
	})

	Convey("Given a reused buffer", t, func() {
		buf := make([]series.Point, 0, 20)
		out := series.AppendLayout(buf, []int64{1, 2, 3}, series.Rect{W: 24, H: 24}, series.DefaultGeometry())

		Convey("Then the buffer backs the result", func() {
			So(len(out), ShouldEqual, 3)
			So(cap(out), ShouldEqual, 20)
		})
	})
}

func TestIndicator(t *testing.T) {
	Convey("Given mapped points", t, func() {
		points := []series.Point{{X: 0, Y: 100}, {X: 100, Y: 0}, {X: 200, Y: 100}}

		Convey("When the index is on a sample", func() {
			So(series.Indicator(points, 1000), ShouldResemble, series.Point{X: 100, Y: 0})
			So(series.Indicator(points, 2000), ShouldResemble, series.Point{X: 200, Y: 100})
		})

		Convey("When the index is between samples", func() {
			So(series.Indicator(points, 500), ShouldResemble, series.Point{X: 50, Y: 50})
		})

		Convey("When the index overshoots the first sample", func() {
			p := series.Indicator(points, -333)
			So(p.X, ShouldEqual, -33)
			So(p.Y, ShouldEqual, 133)
		})

		Convey("When the index overshoots the last sample", func() {
			p := series.Indicator(points, 2333)
			So(p.X, ShouldEqual, 233)
			So(p.Y, ShouldEqual, 133)
		})

		Convey("When not scrubbing the indicator sits on the newest point", func() {
			last, ok := series.Last(points)
			So(ok, ShouldBeTrue)
			So(last, ShouldResemble, series.Point{X: 200, Y: 100})
		})
	})
}
