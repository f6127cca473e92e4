package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

// Optimizer 图片压缩流水线
// 限宽（保持比例、不放大）后重压缩为 JPEG，用于控制入库体积
type Optimizer struct {
	maxWidth uint
	quality  int
}

// NewOptimizer 创建 Optimizer
func NewOptimizer(maxWidth uint, quality int) *Optimizer {
	if maxWidth == 0 {
		maxWidth = 800
	}
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	return &Optimizer{
		maxWidth: maxWidth,
		quality:  quality,
	}
}

// Optimize 压缩图片并返回 JPEG 字节
// 支持 jpeg/png/gif/webp 输入，超宽时按 Lanczos3 缩放
func (o *Optimizer) Optimize(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// 不放大
	if uint(img.Bounds().Dx()) > o.maxWidth {
		img = resize.Resize(o.maxWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: o.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}

// OptimizeToDataURL 压缩图片并编码为 data URL
func (o *Optimizer) OptimizeToDataURL(data []byte) (string, error) {
	optimized, err := o.Optimize(data)
	if err != nil {
		return "", err
	}
	return DataURL(optimized, "image/jpeg"), nil
}

// DataURL 将二进制内容编码为 data URL
func DataURL(data []byte, mimeType string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
