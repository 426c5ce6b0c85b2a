package dto

// SlackWebhookMessage は Slack Incoming Webhook へ POST するリクエストボディです
type SlackWebhookMessage struct {
	Text      string `json:"text"`
	LinkNames int    `json:"link_names"` // 1 で @name をリンク化
	Channel   string `json:"channel"`
}
