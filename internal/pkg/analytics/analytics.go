// Package analytics 封装 GA4 Measurement Protocol 服务端事件上报
package analytics

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"fabula/internal/config"
)

const collectURL = "https://www.google-analytics.com/mp/collect"

// Client GA4 事件上报客户端
// 未启用时所有方法为空操作
type Client struct {
	client        *resty.Client
	measurementID string
	apiSecret     string
	enabled       bool
}

// NewClient 创建 GA4 客户端
func NewClient(cfg *config.AnalyticsConfig) *Client {
	enabled := cfg.Enabled && cfg.MeasurementID != "" && cfg.APISecret != ""
	return &Client{
		client:        resty.New().SetTimeout(5 * time.Second),
		measurementID: cfg.MeasurementID,
		apiSecret:     cfg.APISecret,
		enabled:       enabled,
	}
}

type event struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

type payload struct {
	ClientID string  `json:"client_id"`
	Events   []event `json:"events"`
}

// LogEvent 异步上报一个服务端事件
// 上报失败只记录日志，不影响业务请求
func (c *Client) LogEvent(name string, params map[string]any) {
	if !c.enabled {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		body := payload{
			ClientID: "server-event",
			Events:   []event{{Name: name, Params: params}},
		}

		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParam("measurement_id", c.measurementID).
			SetQueryParam("api_secret", c.apiSecret).
			SetBody(&body).
			Post(collectURL)
		if err != nil {
			log.Warn().Err(err).Str("event", name).Msg("failed to send GA4 event")
			return
		}
		if resp.StatusCode() >= http.StatusBadRequest {
			log.Warn().Int("status", resp.StatusCode()).Str("event", name).Msg("GA4 event rejected")
		}
	}()
}
