package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"fabula/internal/config"
	"fabula/internal/pkg/retry"
)

// GeminiGenerator Gemini 叙事生成客户端
// 直接调用 generateContent REST 接口（无官方 Go SDK 依赖）
// 参考: https://ai.google.dev/api/generate-content
type GeminiGenerator struct {
	client *resty.Client
	apiKey string
	model  string
}

// NewGeminiGenerator 创建 Gemini 生成客户端
func NewGeminiGenerator(cfg *config.GenerationConfig) *GeminiGenerator {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-1.5-flash-latest"
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(120 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &GeminiGenerator{
		client: client,
		apiKey: cfg.APIKey,
		model:  modelName,
	}
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiRequest struct {
	Contents []struct {
		Parts []geminiPart `json:"parts"`
	} `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateNarrative 调用 generateContent 生成叙事
// 提示词作为首个 part，图片按顺序内联其后
func (g *GeminiGenerator) GenerateNarrative(ctx context.Context, prompt string, images []ImagePart) (string, error) {
	parts := make([]geminiPart, 0, len(images)+1)
	parts = append(parts, geminiPart{Text: prompt})
	for _, img := range images {
		parts = append(parts, geminiPart{
			InlineData: &geminiInlineData{
				MimeType: img.MimeType,
				Data:     base64.StdEncoding.EncodeToString(img.Data),
			},
		})
	}

	var reqBody geminiRequest
	reqBody.Contents = append(reqBody.Contents, struct {
		Parts []geminiPart `json:"parts"`
	}{Parts: parts})

	var result geminiResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetBody(&reqBody).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/models/%s:generateContent", g.model))
	if err != nil {
		return "", fmt.Errorf("%w: Gemini request failed: %v", retry.ErrRetryable, err)
	}

	if resp.StatusCode() != http.StatusOK {
		msg := resp.String()
		if result.Error != nil {
			msg = result.Error.Message
		}
		log.Error().Int("status", resp.StatusCode()).Str("message", msg).Msg("Gemini API returned error")
		if isRetryableStatus(resp.StatusCode()) {
			return "", fmt.Errorf("%w: Gemini API status %d: %s", retry.ErrRetryable, resp.StatusCode(), msg)
		}
		return "", fmt.Errorf("Gemini API status %d: %s", resp.StatusCode(), msg)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in Gemini response")
	}

	text := result.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("empty text in Gemini response")
	}

	return text, nil
}

// isRetryableStatus 判断是否为瞬时错误
// 限流与服务端错误可重试，客户端错误不重试
func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
