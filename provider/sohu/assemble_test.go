package sohu

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/vidresolve/vidresolve/network"
	"github.com/vidresolve/vidresolve/source"
)

func TestAssembleSegments(t *testing.T) {
	Convey("Assembler", t, func() {
		b := newBackend()
		ctx := context.Background()
		a := &Assembler{Resolver: &ClipResolver{Fetcher: b}, Workers: 4, Strict: true}
		ref := source.VideoRef{PageID: "55", InternalID: "5"}

		resolve := func(blocks int) *source.Result {
			b.serve("5", video{name: "nor", blocks: blocks})
			root, err := b.testClient().Fetch(ctx, "5", false)
			So(err, ShouldBeNil)

			formats := map[source.FormatTag]*source.FormatMetadata{source.FormatNormal: withTag(root, source.FormatNormal)}
			result, err := a.Assemble(ctx, ref, "t", root, formats)
			So(err, ShouldBeNil)
			return result
		}

		Convey("One segment keeps the bare page id", func() {
			result := resolve(1)
			So(result.IsPlaylist(), ShouldBeFalse)
			So(result.Entries[0].ID, ShouldEqual, "55")
		})

		Convey("Three segments are numbered from one", func() {
			result := resolve(3)
			So(result.IsPlaylist(), ShouldBeTrue)
			So(result.Entries[0].ID, ShouldEqual, "55_part1")
			So(result.Entries[1].ID, ShouldEqual, "55_part2")
			So(result.Entries[2].ID, ShouldEqual, "55_part3")
		})
	})
}

// TestOverHTTP runs metadata discovery and key exchange against a real HTTP server
// through the production fetcher.
func TestOverHTTP(t *testing.T) {
	Convey("Discovery and key exchange over HTTP", t, func() {
		var (
			mu      sync.Mutex
			proxied = map[string]int{}
		)

		var allot string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			if r.Header.Get(ProxyHeader) != "" {
				proxied[r.URL.Path]++
			}
			mu.Unlock()

			switch r.URL.Path {
			case "/vrs":
				v := video{name: "nor", blocks: 2, width: 640, height: 360, vids: map[string]any{"norVid": 10, "highVid": 11}}
				if r.URL.Query().Get("vid") == "11" {
					v = video{name: "high", blocks: 2, width: 1280, height: 720}
				}
				_, _ = w.Write([]byte(strings.ReplaceAll(v.json(), testAllot, allot)))
			case "/":
				file := r.URL.Query().Get("file")
				_, _ = fmt.Fprintf(w, "http://media.test/|1|2|sig%s\n", strings.ReplaceAll(file, "/", "."))
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()
		allot = strings.TrimPrefix(srv.URL, "http://")

		fetcher := network.New(network.Options{Timeout: 5 * time.Second})
		client := NewMetadataClient(fetcher, mo.Some("10.1.1.1:3128"))
		client.GeneralEndpoint = srv.URL + "/vrs?vid="

		ctx := context.Background()
		root, err := client.Fetch(ctx, "10", false)
		So(err, ShouldBeNil)
		So(root.DistributionHost, ShouldEqual, allot)

		formats, err := (&Discovery{Client: client, Workers: 2, Strict: true}).Discover(ctx, root, "10", false)
		So(err, ShouldBeNil)
		So(formats, ShouldHaveLength, 2)

		a := &Assembler{Resolver: &ClipResolver{Fetcher: fetcher}, Workers: 4, Strict: true}
		result, err := a.Assemble(ctx, source.VideoRef{PageID: "p", InternalID: "10"}, "Title", root, formats)
		So(err, ShouldBeNil)
		So(result.Entries, ShouldHaveLength, 2)

		best := result.Entries[1].Best()
		So(best.FormatID, ShouldEqual, source.FormatHigh)
		So(best.URL, ShouldEqual, "http://media.test/su-high-1?key=sig.clip.high.1.mp4")

		mu.Lock()
		defer mu.Unlock()
		So(proxied["/vrs"], ShouldEqual, 2)
		So(proxied["/"], ShouldEqual, 0)
	})
}
