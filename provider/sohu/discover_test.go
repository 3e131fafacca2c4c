package sohu

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidresolve/vidresolve/source"
)

func TestDiscover(t *testing.T) {
	Convey("Discovery", t, func() {
		b := newBackend()
		ctx := context.Background()
		d := &Discovery{Client: b.testClient(), Workers: 2, Strict: true}

		fetchRoot := func(id string) *source.FormatMetadata {
			root, err := d.Client.Fetch(ctx, id, false)
			So(err, ShouldBeNil)
			return root
		}

		Convey("Without sibling ids the root is the only format, registered as nor", func() {
			b.serve("1", video{name: "nor", blocks: 1})

			formats, err := d.Discover(ctx, fetchRoot("1"), "1", false)
			So(err, ShouldBeNil)
			So(formats, ShouldHaveLength, 1)
			So(formats[source.FormatNormal].ID, ShouldEqual, "1")
			So(formats[source.FormatNormal].Tag, ShouldEqual, source.FormatNormal)
			So(b.requestsTo(testGeneralEndpoint), ShouldHaveLength, 1)
		})

		Convey("The tag whose id equals the internal id reuses the root", func() {
			b.serve("1", video{name: "high", blocks: 2, vids: map[string]any{
				"norVid":    2,
				"highVid":   1,
				"superVid":  "3",
				"oriVid":    0,
				"h2644kVid": "",
			}})
			b.serve("2", video{name: "nor", blocks: 2})
			b.serve("3", video{name: "super", blocks: 2})

			formats, err := d.Discover(ctx, fetchRoot("1"), "1", false)
			So(err, ShouldBeNil)
			So(formats, ShouldHaveLength, 3)
			So(formats[source.FormatHigh].ID, ShouldEqual, "1")
			So(formats[source.FormatHigh].Tag, ShouldEqual, source.FormatHigh)
			So(formats[source.FormatNormal].ID, ShouldEqual, "2")
			So(formats[source.FormatSuper].ID, ShouldEqual, "3")

			// root once, then one fetch per distinct sibling
			So(b.requestsTo(testGeneralEndpoint), ShouldHaveLength, 3)

			Convey("Every key is a known tag", func() {
				for tag := range formats {
					_, err := source.ParseFormatTag(string(tag))
					So(err, ShouldBeNil)
				}
			})
		})

		Convey("The root is not registered as nor when nor has its own id", func() {
			b.serve("1", video{name: "x", blocks: 1, vids: map[string]any{"norVid": 2}})
			b.serve("2", video{name: "nor", blocks: 1})

			formats, err := d.Discover(ctx, fetchRoot("1"), "1", false)
			So(err, ShouldBeNil)
			So(formats, ShouldHaveLength, 1)
			So(formats[source.FormatNormal].ID, ShouldEqual, "2")
		})

		Convey("Sibling failures", func() {
			b.serve("1", video{name: "nor", blocks: 1, vids: map[string]any{"norVid": 1, "highVid": 5, "superVid": 6}})
			b.serve("6", video{name: "super", blocks: 1})
			b.down["5"] = true

			Convey("abort in strict mode with the failing format named", func() {
				_, err := d.Discover(ctx, fetchRoot("1"), "1", false)
				So(errors.Is(err, source.ErrTransport), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "format high")
				So(err.Error(), ShouldContainSubstring, "vid 5")
			})

			Convey("are dropped in lenient mode", func() {
				d.Strict = false
				formats, err := d.Discover(ctx, fetchRoot("1"), "1", false)
				So(err, ShouldBeNil)
				So(formats, ShouldHaveLength, 2)
				So(formats, ShouldContainKey, source.FormatNormal)
				So(formats, ShouldContainKey, source.FormatSuper)
				So(formats, ShouldNotContainKey, source.FormatHigh)

				So(d.Skipped, ShouldHaveLength, 1)
				So(errors.Is(d.Skipped[0], source.ErrTransport), ShouldBeTrue)
				So(d.Skipped[0].Error(), ShouldContainSubstring, "format high")
			})
		})

		Convey("Divergent totalBlocks", func() {
			b.serve("1", video{name: "nor", blocks: 2, vids: map[string]any{"norVid": 1, "oriVid": 9}})
			b.serve("9", video{name: "ori", blocks: 3})

			Convey("is malformed in strict mode", func() {
				_, err := d.Discover(ctx, fetchRoot("1"), "1", false)
				So(errors.Is(err, source.ErrMalformedResponse), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "format ori")
			})

			Convey("drops the sibling in lenient mode and keeps the root", func() {
				d.Strict = false
				formats, err := d.Discover(ctx, fetchRoot("1"), "1", false)
				So(err, ShouldBeNil)
				So(formats, ShouldHaveLength, 1)
				So(formats[source.FormatNormal].TotalSegments, ShouldEqual, 2)
				So(d.Skipped, ShouldHaveLength, 1)
				So(errors.Is(d.Skipped[0], source.ErrMalformedResponse), ShouldBeTrue)
			})
		})
	})
}
