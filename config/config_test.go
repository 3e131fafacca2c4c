package config

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidresolve/vidresolve/filesystem"
	"github.com/vidresolve/vidresolve/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without a config file", func() {
			So(Setup(), ShouldBeNil)
		})

		Convey("Should populate defaults", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
			So(viper.GetBool(key.ResolveStrict), ShouldBeTrue)
			So(viper.GetInt(key.ResolveWorkers), ShouldEqual, 4)
			So(viper.GetString(key.ProxyCNVerification), ShouldBeEmpty)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("proxy.cn_verification"), ShouldEqual, "proxy_cn_verification")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Field", t, func() {
		f := Default[key.ProxyCNVerification]

		Convey("Env carries the application prefix", func() {
			So(f.Env(), ShouldEqual, "VIDRESOLVE_PROXY_CN_VERIFICATION")
		})

		Convey("Pretty mentions the key", func() {
			So(f.Pretty(), ShouldContainSubstring, key.ProxyCNVerification)
		})

		Convey("MarshalJSON reports the type", func() {
			data, err := f.MarshalJSON()
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"type":"string"`)
		})
	})
}
