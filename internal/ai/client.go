package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"fabula/internal/ai/component"
	"fabula/internal/config"
)

// ImagePart 多模态请求中的一张图片
type ImagePart struct {
	Data     []byte
	MimeType string
}

// Generator 叙事生成接口
// 输入提示词与按顺序排列的图片，输出完整叙事文本
type Generator interface {
	GenerateNarrative(ctx context.Context, prompt string, images []ImagePart) (string, error)
}

// NewGenerator 根据配置创建叙事生成客户端
// 支持多种 Provider: gemini, openai, ark
func NewGenerator(ctx context.Context, cfg *config.GenerationConfig) (Generator, error) {
	if cfg.APIKey == "" {
		log.Warn().Str("provider", cfg.Provider).Msg("generation API key not configured")
	}

	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiGenerator(cfg), nil
	case "openai", "ark":
		chatModel, err := component.NewChatModel(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		return NewEinoGenerator(chatModel), nil
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", cfg.Provider)
	}
}
