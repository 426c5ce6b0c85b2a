package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/slack-go/slack"

	"github-slack-bot/project/domain"
	"github-slack-bot/project/dto"
)

// DefaultTimeout は Slack 呼び出し 1 回あたりのタイムアウトです
const DefaultTimeout = 10 * time.Second

// WebhookClient は service.SlackPort の Incoming Webhook 実装です
type WebhookClient struct {
	webhookURL string
	httpClient *http.Client
}

// NewWebhookClient は Incoming Webhook クライアントを初期化します
// timeout が 0 以下の場合は DefaultTimeout を使用します
func NewWebhookClient(webhookURL string, timeout time.Duration) *WebhookClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &WebhookClient{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// PostMessage は {text, link_names, channel} を JSON で POST します
// 2xx 以外の応答は slack.StatusCodeError として返します
func (wc *WebhookClient) PostMessage(ctx context.Context, msg *domain.OutboundMessage) error {
	payload, err := json.Marshal(dto.SlackWebhookMessage{
		Text:      msg.Text,
		LinkNames: msg.LinkNames,
		Channel:   msg.Channel,
	})
	if err != nil {
		return fmt.Errorf("slack: ペイロード JSON 化失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, wc.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("slack: リクエスト作成失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := wc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("slack: Webhook 送信失敗 (channel=%s): %w", msg.Channel, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Slack はエラー理由を本文のプレーンテキストで返す（例: channel_not_found）
		reason, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("slack: Webhook 応答エラー (channel=%s, body=%q): %w",
			msg.Channel, string(reason), slack.StatusCodeError{Code: resp.StatusCode, Status: resp.Status})
	}

	// コネクション再利用のため本文を読み捨てる
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
