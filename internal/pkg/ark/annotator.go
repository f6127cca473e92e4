package ark

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime"
	"github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"

	"fabula/internal/config"
	"fabula/internal/pkg/vision"
)

// Annotator 豆包 VLM 标注客户端
// 没有 Google Vision 凭证时的备用标注方案：
// 让视觉大模型按固定 JSON 格式返回标签与物体列表
// 参考: https://github.com/volcengine/volcengine-go-sdk
type Annotator struct {
	client *arkruntime.Client
	model  string
}

// NewAnnotator 创建豆包 VLM 标注客户端
func NewAnnotator(cfg *config.ArkConfig) (*Annotator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Ark API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://ark.cn-beijing.volces.com/api/v3"
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "doubao-seed-1-6-flash-250615"
	}

	arkClient := arkruntime.NewClientWithApiKey(cfg.APIKey, arkruntime.WithBaseUrl(baseURL))

	return &Annotator{
		client: arkClient,
		model:  modelName,
	}, nil
}

const annotatePrompt = `识别这张图片，输出 JSON 对象，格式：{"labels": ["标签1", ...], "objects": ["物体1", ...]}。
labels 为不超过10个的英文场景/内容标签，objects 为图中可见物体的英文名称。
只输出 JSON，不要使用 markdown 代码块标记。`

// Annotate 标注一张图片
// 实现 vision.Annotator 接口
func (a *Annotator) Annotate(ctx context.Context, image []byte, mimeType string) (*vision.Annotation, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	prompt := annotatePrompt

	req := &model.ChatCompletionRequest{
		Model: a.model,
		Messages: []*model.ChatCompletionMessage{
			{
				Role: model.ChatMessageRoleUser,
				Content: &model.ChatCompletionMessageContent{
					ListValue: []*model.ChatCompletionMessageContentPart{
						{
							Type: model.ChatCompletionMessageContentPartTypeText,
							Text: prompt,
						},
						{
							Type: model.ChatCompletionMessageContentPartTypeImageURL,
							ImageURL: &model.ChatMessageImageURL{
								URL: dataURL,
							},
						},
					},
				},
			},
		},
	}

	output, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("failed to call Ark ChatCompletion API")
		return nil, fmt.Errorf("Ark API call failed: %w", err)
	}

	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in Ark response")
	}

	var content string
	if output.Choices[0].Message.Content != nil && output.Choices[0].Message.Content.StringValue != nil {
		content = *output.Choices[0].Message.Content.StringValue
	}
	if content == "" {
		return nil, fmt.Errorf("empty content in Ark response")
	}

	return parseAnnotation(content)
}

// parseAnnotation 解析模型输出的标注 JSON
// 容忍模型偶尔包上 markdown 代码块
func parseAnnotation(content string) (*vision.Annotation, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var parsed struct {
		Labels  []string `json:"labels"`
		Objects []string `json:"objects"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse annotation JSON: %w", err)
	}

	return &vision.Annotation{
		Labels:  parsed.Labels,
		Objects: parsed.Objects,
	}, nil
}
