package ai

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// EinoGenerator Eino 封装的叙事生成客户端
// 使用 ai/component 封装的 ChatModel（openai 或 ark）
// 实现了 Generator 接口
type EinoGenerator struct {
	chatModel model.ChatModel
}

// NewEinoGenerator 创建基于 Eino 的叙事生成客户端
func NewEinoGenerator(chatModel model.ChatModel) *EinoGenerator {
	return &EinoGenerator{
		chatModel: chatModel,
	}
}

// GenerateNarrative 通过 ChatModel 生成叙事
// 实现了 Generator 接口
func (g *EinoGenerator) GenerateNarrative(ctx context.Context, prompt string, images []ImagePart) (string, error) {
	if g.chatModel == nil {
		return "", fmt.Errorf("chatModel is required")
	}

	// 构建多模态消息: 文本 part 在前，图片 part 按顺序在后
	parts := make([]schema.ChatMessagePart, 0, len(images)+1)
	parts = append(parts, schema.ChatMessagePart{
		Type: schema.ChatMessagePartTypeText,
		Text: prompt,
	})
	for _, img := range images {
		dataURL := fmt.Sprintf("data:%s;base64,%s", img.MimeType, base64.StdEncoding.EncodeToString(img.Data))
		parts = append(parts, schema.ChatMessagePart{
			Type: schema.ChatMessagePartTypeImageURL,
			ImageURL: &schema.ChatMessageImageURL{
				URL: dataURL,
			},
		})
	}

	messages := []*schema.Message{
		{
			Role:         schema.User,
			MultiContent: parts,
		},
	}

	response, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate narrative: %w", err)
	}

	content := response.Content
	if content == "" {
		return "", fmt.Errorf("empty response from chat model")
	}

	return content, nil
}
