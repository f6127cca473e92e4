package storagefactory

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"fabula/internal/config"
)

func TestNewStorage(t *testing.T) {
	Convey("type 为 none 或空时不创建存储", t, func() {
		for _, typ := range []string{"", "none"} {
			s, err := NewStorage(&config.StorageConfig{Type: typ})
			So(err, ShouldBeNil)
			So(s, ShouldBeNil)
		}
	})

	Convey("local 类型缺少配置时报错", t, func() {
		s, err := NewStorage(&config.StorageConfig{Type: "local"})
		So(err, ShouldNotBeNil)
		So(s, ShouldBeNil)
	})

	Convey("local 类型创建本地存储", t, func() {
		s, err := NewStorage(&config.StorageConfig{
			Type: "local",
			Local: &config.LocalConfig{
				BasePath: t.TempDir(),
				BaseURL:  "http://localhost:3000/files",
			},
		})
		So(err, ShouldBeNil)
		So(s, ShouldNotBeNil)
		So(s.GetStorageType(), ShouldEqual, "local")
	})

	Convey("不支持的类型报错", t, func() {
		s, err := NewStorage(&config.StorageConfig{Type: "s3"})
		So(err, ShouldNotBeNil)
		So(s, ShouldBeNil)
	})
}
