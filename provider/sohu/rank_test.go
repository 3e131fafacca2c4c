package sohu

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidresolve/vidresolve/source"
)

func TestRank(t *testing.T) {
	Convey("Rank", t, func() {
		Convey("Orders by area, then frame rate", func() {
			formats := []*source.SegmentFormat{
				{FormatID: source.FormatHigh, Width: 1920, Height: 1080, FPS: 30},
				{FormatID: source.FormatHigh, Width: 1920, Height: 1080, FPS: 60},
				{FormatID: source.FormatOrigin, Width: 1280, Height: 720, FPS: 60},
			}

			Rank(formats)

			So(formats[0].FPS, ShouldEqual, 60)
			So(formats[0].Height, ShouldEqual, 1080)
			So(formats[1].FPS, ShouldEqual, 30)
			So(formats[1].Height, ShouldEqual, 1080)
			So(formats[2].FormatID, ShouldEqual, source.FormatOrigin)
		})

		Convey("Breaks full ties by tag priority", func() {
			var formats []*source.SegmentFormat
			for _, tag := range source.AllFormatTags() {
				formats = append(formats, &source.SegmentFormat{FormatID: tag, Width: 640, Height: 360, FPS: 25})
			}

			Rank(formats)

			want := []source.FormatTag{
				source.FormatOrigin, source.FormatH2654K, source.FormatH2644K,
				source.FormatSuper, source.FormatHigh, source.FormatNormal,
			}
			for i, f := range formats {
				So(f.FormatID, ShouldEqual, want[i])
			}
		})

		Convey("Is deterministic regardless of input order", func() {
			a := []*source.SegmentFormat{
				{FormatID: source.FormatNormal, Width: 640, Height: 360},
				{FormatID: source.FormatSuper, Width: 1280, Height: 720},
				{FormatID: source.FormatHigh, Width: 960, Height: 540},
			}
			b := []*source.SegmentFormat{a[2], a[0], a[1]}

			Rank(a)
			Rank(b)
			So(b, ShouldResemble, a)
		})
	})
}
