package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"fabula/internal/config"
)

// GoogleClient Google Vision API 标注客户端
// 调用 images:annotate REST 接口做标签检测与物体定位
type GoogleClient struct {
	client    *resty.Client
	endpoint  string
	apiKey    string
	maxLabels int
}

// NewGoogleClient 创建 Google Vision 标注客户端
func NewGoogleClient(cfg *config.VisionConfig) *GoogleClient {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(60 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://vision.googleapis.com/v1"
	}

	maxLabels := cfg.MaxLabels
	if maxLabels <= 0 {
		maxLabels = 10
	}

	return &GoogleClient{
		client:    client,
		endpoint:  baseURL + "/images:annotate",
		apiKey:    cfg.APIKey,
		maxLabels: maxLabels,
	}
}

// Vision API 请求/响应结构（只保留用到的字段）
type annotateRequest struct {
	Requests []annotateRequestItem `json:"requests"`
}

type annotateRequestItem struct {
	Image    annotateImage     `json:"image"`
	Features []annotateFeature `json:"features"`
}

type annotateImage struct {
	Content string `json:"content"` // base64 编码的图片内容
}

type annotateFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults,omitempty"`
}

type annotateResponse struct {
	Responses []struct {
		LabelAnnotations []struct {
			Description string `json:"description"`
		} `json:"labelAnnotations"`
		LocalizedObjectAnnotations []struct {
			Name string `json:"name"`
		} `json:"localizedObjectAnnotations"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error,omitempty"`
	} `json:"responses"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Annotate 标注一张图片
// 实现 vision.Annotator 接口
func (c *GoogleClient) Annotate(ctx context.Context, image []byte, mimeType string) (*Annotation, error) {
	req := annotateRequest{
		Requests: []annotateRequestItem{
			{
				Image: annotateImage{
					Content: base64.StdEncoding.EncodeToString(image),
				},
				Features: []annotateFeature{
					{Type: "LABEL_DETECTION", MaxResults: c.maxLabels},
					{Type: "OBJECT_LOCALIZATION"},
				},
			},
		},
	}

	var resp annotateResponse
	httpResp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(req).
		SetResult(&resp).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to call Vision API: %w", err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		errorMsg := fmt.Sprintf("HTTP %d", httpResp.StatusCode())
		if resp.Error != nil {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		} else if len(httpResp.Body()) > 0 {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
		}
		return nil, fmt.Errorf("Vision API returned error: %s", errorMsg)
	}

	if len(resp.Responses) == 0 {
		return nil, fmt.Errorf("empty response from Vision API")
	}

	r := resp.Responses[0]
	if r.Error != nil {
		return nil, fmt.Errorf("Vision API error: %s", r.Error.Message)
	}

	ann := &Annotation{}
	for _, l := range r.LabelAnnotations {
		ann.Labels = append(ann.Labels, l.Description)
	}
	for _, o := range r.LocalizedObjectAnnotations {
		ann.Objects = append(ann.Objects, o.Name)
	}

	return ann, nil
}
