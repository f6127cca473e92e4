package ai

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"fabula/internal/service"
)

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// collectImages 从 multipart 表单收集图片
// 兼容复数字段 images 与单数字段 image，统一成一个有序列表
func collectImages(c *gin.Context, maxImages int) ([]service.NarrativeImage, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	files := form.File["images"]
	if len(files) == 0 {
		files = form.File["image"]
	}
	if len(files) == 0 {
		return nil, nil
	}
	if maxImages > 0 && len(files) > maxImages {
		return nil, fmt.Errorf("too many images: %d (max %d)", len(files), maxImages)
	}

	images := make([]service.NarrativeImage, 0, len(files))
	for _, fh := range files {
		img, err := readImage(fh)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

// readImage 读取一个上传文件的内容与 MIME 类型
func readImage(fh *multipart.FileHeader) (service.NarrativeImage, error) {
	file, err := fh.Open()
	if err != nil {
		return service.NarrativeImage{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return service.NarrativeImage{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	return service.NarrativeImage{
		Data:     data,
		MimeType: mimeType,
	}, nil
}
