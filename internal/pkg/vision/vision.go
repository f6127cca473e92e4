package vision

import (
	"context"
)

// Annotation 单张图片的标注结果
type Annotation struct {
	Labels  []string // 场景/内容标签
	Objects []string // 定位到的物体名称
}

// Annotator 图片标注服务
// 外部标注服务的统一抽象，按张调用
type Annotator interface {
	// Annotate 标注一张图片，返回标签与物体列表
	Annotate(ctx context.Context, image []byte, mimeType string) (*Annotation, error)
}
