// Package storytools 提供照片故事的文本组装工具
// 包含图片描述聚合与叙事提示词构建，均为纯函数
package storytools

import (
	"fmt"
	"strings"

	"fabula/internal/pkg/vision"
)

// DescribeImages 将每张图片的标注聚合为多行描述
// 第 i 张图片对应一行 "Image {i+1}: Labels: ... Objects: ..."
// 行顺序与输入顺序一致
func DescribeImages(annotations []*vision.Annotation) string {
	lines := make([]string, 0, len(annotations))
	for i, ann := range annotations {
		lines = append(lines, describeImage(i, ann))
	}
	return strings.Join(lines, "\n")
}

// describeImage 生成单张图片的描述行
func describeImage(index int, ann *vision.Annotation) string {
	return fmt.Sprintf("Image %d: Labels: %s. Objects: %s.",
		index+1,
		strings.Join(ann.Labels, ", "),
		strings.Join(ann.Objects, ", "))
}
