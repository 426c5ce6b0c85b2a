package service

import (
	"context"

	"github-slack-bot/project/domain"
)

// SlackPort は Slack への通知送信のポートです
type SlackPort interface {
	// PostMessage は通知を 1 回だけ送信します（再試行しない）
	// 送信失敗時はエラーを返します
	PostMessage(ctx context.Context, msg *domain.OutboundMessage) error
}
