package version

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidresolve/vidresolve/key"
	"github.com/vidresolve/vidresolve/network"
)

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		cases := []struct {
			a, b string
			want int
		}{
			{"0.3.1", "0.3.1", 0},
			{"v0.4.0", "0.3.9", 1},
			{"0.3.1", "1.0.0", -1},
			{"1.2", "1.2.0", 0},
			{"1.10.0", "1.9.9", 1},
			{"2.0.0-rc1", "2.0.0", 0},
		}

		for _, c := range cases {
			got, err := Compare(c.a, c.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, c.want)
		}

		Convey("Rejects garbage", func() {
			_, err := Compare("latest", "1.0.0")
			So(err, ShouldNotBeNil)
			_, err = Compare("1.0.0", "1.2.3.4")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFetchLatest(t *testing.T) {
	Convey("fetchLatest", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"tag_name": "v9.9.9"}`))
		}))
		defer srv.Close()

		old := ReleasesURL
		ReleasesURL = srv.URL
		defer func() { ReleasesURL = old }()

		fetcher := network.New(network.Options{Timeout: 5 * time.Second})

		Convey("Strips the v prefix", func() {
			v, err := fetchLatest(context.Background(), fetcher)
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "9.9.9")
		})

		Convey("Notify stays silent when disabled", func() {
			viper.Set(key.CliVersionCheck, false)
			defer viper.Set(key.CliVersionCheck, true)

			var buf bytes.Buffer
			Notify(context.Background(), &buf, fetcher)
			So(buf.Len(), ShouldEqual, 0)
		})
	})
}
