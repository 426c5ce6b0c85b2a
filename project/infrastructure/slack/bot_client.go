package slack

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/slack-go/slack"

	"github-slack-bot/project/domain"
)

// BotClient は service.SlackPort の chat.postMessage 実装です
// SLACK_BOT_TOKEN が設定されている場合に Incoming Webhook の代わりに使用します
type BotClient struct {
	cli *slack.Client
}

// NewBotClient は Bot トークンで Slack API クライアントを初期化します
// apiURL が空でなければ API のベース URL を差し替えます（テスト用）
func NewBotClient(token string, timeout time.Duration, apiURL string) *BotClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	opts := []slack.Option{
		slack.OptionHTTPClient(&http.Client{Timeout: timeout}),
	}
	if apiURL != "" {
		opts = append(opts, slack.OptionAPIURL(apiURL))
	}

	return &BotClient{cli: slack.New(token, opts...)}
}

// PostMessage はチャンネルにメッセージを投稿します
func (bc *BotClient) PostMessage(ctx context.Context, msg *domain.OutboundMessage) error {
	params := slack.NewPostMessageParameters()
	params.LinkNames = msg.LinkNames

	_, _, err := bc.cli.PostMessageContext(
		ctx,
		msg.Channel,
		slack.MsgOptionText(msg.Text, false),
		slack.MsgOptionPostMessageParameters(params),
	)
	if err != nil {
		return fmt.Errorf("slack: メッセージ投稿失敗 (channel=%s): %w", msg.Channel, err)
	}

	return nil
}
