package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"connector/tools/httpclient"
)

// Sender 发送告警文本
type Sender interface {
	Send(ctx context.Context, text string) error
}

// NopSender 未配置 webhook 时使用
type NopSender struct{}

func (NopSender) Send(context.Context, string) error { return nil }

// WebhookSender 飞书自定义机器人 webhook
type WebhookSender struct {
	httpClient *http.Client
	url        string
}

// NewWebhookSender url 为空时返回 NopSender
func NewWebhookSender(url string, client *http.Client) Sender {
	if url == "" {
		return NopSender{}
	}
	if client == nil {
		client = httpclient.CreateClient()
	}
	return &WebhookSender{httpClient: client, url: url}
}

type webhookResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (s *WebhookSender) Send(ctx context.Context, text string) error {
	payload := map[string]interface{}{
		"msg_type": "text",
		"content":  map[string]string{"text": text},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	body, status, err := httpclient.RequestC(ctx, s.httpClient, http.MethodPost, s.url, bytes.NewReader(data), nil)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	if !httpclient.IsSuccess(status) {
		return fmt.Errorf("webhook failed: status=%d, body=%s", status, string(body))
	}

	// 飞书 webhook 在 HTTP 200 下通过 code 返回业务错误
	var resp webhookResponse
	if err := json.Unmarshal(body, &resp); err == nil && resp.Code != 0 {
		return fmt.Errorf("webhook error: code=%d, msg=%s", resp.Code, resp.Msg)
	}
	return nil
}
