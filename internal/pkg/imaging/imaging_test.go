package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// encodeTestImage 生成指定尺寸的测试图片
func encodeTestImage(t *testing.T, width, height int, format string) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestOptimizer_Optimize(t *testing.T) {
	Convey("Optimizer.Optimize 限宽并重压缩为 JPEG", t, func() {
		opt := NewOptimizer(800, 80)

		Convey("超宽图片应缩放到最大宽度，保持比例", func() {
			data := encodeTestImage(t, 1600, 1200, "jpeg")

			out, err := opt.Optimize(data)
			So(err, ShouldBeNil)

			img, format, err := image.Decode(bytes.NewReader(out))
			So(err, ShouldBeNil)
			So(format, ShouldEqual, "jpeg")
			So(img.Bounds().Dx(), ShouldEqual, 800)
			So(img.Bounds().Dy(), ShouldEqual, 600)
		})

		Convey("小图不放大", func() {
			data := encodeTestImage(t, 200, 150, "jpeg")

			out, err := opt.Optimize(data)
			So(err, ShouldBeNil)

			img, _, err := image.Decode(bytes.NewReader(out))
			So(err, ShouldBeNil)
			So(img.Bounds().Dx(), ShouldEqual, 200)
			So(img.Bounds().Dy(), ShouldEqual, 150)
		})

		Convey("png 输入也转为 jpeg 输出", func() {
			data := encodeTestImage(t, 100, 100, "png")

			out, err := opt.Optimize(data)
			So(err, ShouldBeNil)

			_, format, err := image.Decode(bytes.NewReader(out))
			So(err, ShouldBeNil)
			So(format, ShouldEqual, "jpeg")
		})

		Convey("非图片内容返回错误", func() {
			_, err := opt.Optimize([]byte("not an image"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestOptimizer_OptimizeToDataURL(t *testing.T) {
	Convey("OptimizeToDataURL 生成 jpeg data URL", t, func() {
		opt := NewOptimizer(800, 80)
		data := encodeTestImage(t, 100, 100, "jpeg")

		url, err := opt.OptimizeToDataURL(data)
		So(err, ShouldBeNil)
		So(strings.HasPrefix(url, "data:image/jpeg;base64,"), ShouldBeTrue)
	})
}

func TestDataURL(t *testing.T) {
	Convey("DataURL 编码任意二进制内容", t, func() {
		url := DataURL([]byte{0x1, 0x2}, "image/png")
		So(url, ShouldEqual, "data:image/png;base64,AQI=")
	})
}
