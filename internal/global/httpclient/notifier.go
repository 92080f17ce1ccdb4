package httpclient

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Event 推送到 webhook 的事件
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// Notifier 把业务事件推送给外部系统
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// WebhookNotifier 以 JSON POST 推送事件，配置了 secret 时附带 HMAC-SHA256 签名
type WebhookNotifier struct {
	client *resty.Client
	url    string
	secret string
}

func NewWebhookNotifier(client *resty.Client, url, secret string) *WebhookNotifier {
	return &WebhookNotifier{client: client, url: url, secret: secret}
}

func (n *WebhookNotifier) Notify(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Event-Type", event.Type).
		SetBody(body)
	if n.secret != "" {
		req.SetHeader("X-Signature", Sign(n.secret, body))
	}

	resp, err := req.Post(n.url)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("webhook 返回 %d", resp.StatusCode())
	}
	return nil
}

// Sign 计算 body 的 HMAC-SHA256
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
