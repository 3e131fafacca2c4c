package sohu

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidresolve/vidresolve/source"
)

func TestMetadataFetch(t *testing.T) {
	Convey("MetadataClient.Fetch", t, func() {
		b := newBackend()
		client := b.testClient()
		ctx := context.Background()

		Convey("Hydrates allot and prot from the top level and the rest from data", func() {
			b.serve("100", video{name: "nor", blocks: 2, width: 640, height: 360, fps: 25})

			meta, err := client.Fetch(ctx, "100", false)
			So(err, ShouldBeNil)
			So(meta.ID, ShouldEqual, "100")
			So(meta.DistributionHost, ShouldEqual, testAllot)
			So(meta.ProtocolToken, ShouldEqual, "9")
			So(meta.TotalSegments, ShouldEqual, 2)
			So(meta.ClipPaths, ShouldResemble, []string{"/clip/nor/0.mp4", "/clip/nor/1.mp4"})
			So(meta.KeyTokens, ShouldResemble, []string{"/su-nor-0", "/su-nor-1"})
			So(meta.ClipBytes, ShouldResemble, []int64{1000, 2000})
			So(meta.ClipDurations, ShouldResemble, []float64{10, 20})
			So(meta.Width, ShouldEqual, 640)
			So(meta.Height, ShouldEqual, 360)
			So(meta.FrameRate, ShouldEqual, 25)
			So(meta.Raw.Get("totalBlocks").Int(), ShouldEqual, 2)
		})

		Convey("Selects the endpoint by channel kind", func() {
			b.serve("100", video{name: "nor", blocks: 1})

			_, err := client.Fetch(ctx, "100", true)
			So(err, ShouldBeNil)
			So(b.requestsTo(testUserChannelEndpoint), ShouldHaveLength, 1)
			So(b.requestsTo(testGeneralEndpoint), ShouldBeEmpty)
		})

		Convey("Sends the proxy header only when configured", func() {
			b.serve("100", video{name: "nor", blocks: 1})

			_, err := client.Fetch(ctx, "100", false)
			So(err, ShouldBeNil)
			So(b.requestsTo(testGeneralEndpoint)[0].header.Get(ProxyHeader), ShouldBeEmpty)

			client.Proxy = mo.Some("proxy.example:8888")
			_, err = client.Fetch(ctx, "100", false)
			So(err, ShouldBeNil)
			sent := b.requestsTo(testGeneralEndpoint)[1].header
			So(sent.Get(ProxyHeader), ShouldEqual, "proxy.example:8888")
			So(sent, ShouldContainKey, "Ytdl-Request-Proxy")
			So(sent, ShouldHaveLength, 1)
		})

		Convey("A non-2xx status is BackendUnavailable", func() {
			_, err := client.Fetch(ctx, "404", false)
			So(errors.Is(err, source.ErrBackendUnavailable), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "vid 404")
		})

		Convey("A transport failure is both retryable and BackendUnavailable", func() {
			b.down["100"] = true

			_, err := client.Fetch(ctx, "100", false)
			So(errors.Is(err, source.ErrTransport), ShouldBeTrue)
			So(errors.Is(err, source.ErrBackendUnavailable), ShouldBeTrue)
			So(source.IsRetryable(err), ShouldBeTrue)
		})

		Convey("Shape errors", func() {
			cases := []struct {
				body string
				kind error
			}{
				{`<html>`, source.ErrMalformedResponse},
				{`[1, 2]`, source.ErrMalformedResponse},
				{`{"allot": "a:80"}`, source.ErrMalformedResponse},
				{`{"allot": "a:80", "data": "x"}`, source.ErrMalformedResponse},
				{`{"allot": "a:80", "data": null}`, source.ErrBackendUnavailable},
				{`{"data": {"totalBlocks": 0}}`, source.ErrMalformedResponse},
				{`{"allot": "a:80", "data": {"totalBlocks": 1, "clipsURL": "x", "su": [], "clipsBytes": [], "clipsDuration": []}}`, source.ErrMalformedResponse},
			}

			for _, c := range cases {
				b.metadata["bad"] = c.body
				_, err := client.Fetch(ctx, "bad", false)
				So(errors.Is(err, c.kind), ShouldBeTrue)
			}
		})

		Convey("Sequences shorter than totalBlocks are malformed", func() {
			b.metadata["short"] = `{"allot":"a:80","prot":1,"data":{"totalBlocks":3,"clipsURL":["a","b"],"su":["a","b"],"clipsBytes":[1,2],"clipsDuration":[1,2]}}`

			_, err := client.Fetch(ctx, "short", false)
			So(errors.Is(err, source.ErrMalformedResponse), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "totalBlocks is 3")
		})
	})
}
