package ai

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fabula/internal/service"
)

// GenerateNarrativeResponse 叙事生成响应
type GenerateNarrativeResponse struct {
	Narrative   string `json:"narrative"`
	ImageURL    string `json:"imageUrl"` // 首图 data URL（兼容字段）
	LineCount   int    `json:"lineCount"`
	Perspective string `json:"perspective"`
	Tone        string `json:"tone"`
}

// GenerateNarrative 生成照片故事
// @Summary      生成照片故事
// @Description  上传 1-5 张图片，标注后生成指定行数、语气与视角的叙事
// @Tags         AI
// @Accept       multipart/form-data
// @Produce      json
// @Param        images       formData  file    true   "图片（可多张，兼容单数字段 image）"
// @Param        lineCount    formData  int     true   "叙事行数"
// @Param        perspective  formData  string  true   "视角：first/third"
// @Param        tone         formData  string  true   "语气：formal/poetic"
// @Param        context      formData  string  false  "补充上下文"
// @Success      200  {object}  GenerateNarrativeResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /ai/generate-narrative [post]
func (h *Handler) GenerateNarrative(c *gin.Context) {
	images, err := collectImages(c, h.maxImages)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid upload", Details: err.Error()})
		return
	}
	if len(images) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No image uploaded"})
		return
	}

	lineCount, err := strconv.Atoi(strings.TrimSpace(c.PostForm("lineCount")))
	if err != nil || lineCount <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "lineCount must be a positive integer"})
		return
	}

	req := &service.GenerateRequest{
		Images:      images,
		LineCount:   lineCount,
		Perspective: c.PostForm("perspective"),
		Tone:        c.PostForm("tone"),
		Context:     c.PostForm("context"),
	}

	result, err := h.narrativeService.Generate(c.Request.Context(), req)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Generation failed", Details: err.Error()})
		return
	}

	h.analytics.LogEvent("narrative_generated", map[string]any{
		"image_count": len(images),
		"line_count":  lineCount,
		"tone":        result.Tone,
	})

	c.JSON(http.StatusOK, GenerateNarrativeResponse{
		Narrative:   result.Narrative,
		ImageURL:    result.ImageURL,
		LineCount:   result.LineCount,
		Perspective: result.Perspective,
		Tone:        result.Tone,
	})
}

// isValidationError 判断是否为参数校验错误
func isValidationError(err error) bool {
	return errors.Is(err, service.ErrNoImages) ||
		errors.Is(err, service.ErrTooManyImages) ||
		errors.Is(err, service.ErrInvalidLines) ||
		errors.Is(err, service.ErrBadPerspective) ||
		errors.Is(err, service.ErrBadTone)
}
