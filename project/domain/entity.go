package domain

import (
	"fmt"
	"strings"
)

// DefaultChannel は ChannelMap に登録のないリポジトリの通知先チャンネルです
const DefaultChannel = "#notification_test"

// AccountMap は GitHub のメンション（@付き）から Slack のメンションへの対応表です
type AccountMap map[string]string

// Resolve はメンションを Slack 側の表記に変換します
// 対応表に存在しない場合は元のメンションをそのまま返します
func (m AccountMap) Resolve(mention string) string {
	if slackName, ok := m[mention]; ok && slackName != "" {
		return slackName
	}
	return mention
}

// ChannelMap はリポジトリ名から通知先 Slack チャンネルへの対応表です
type ChannelMap struct {
	// Channels はリポジトリ名 -> チャンネル
	Channels map[string]string

	// Default は対応がない場合の通知先
	Default string
}

// Lookup はリポジトリ名に対応するチャンネルを返します
func (c ChannelMap) Lookup(repository string) string {
	if ch, ok := c.Channels[repository]; ok && ch != "" {
		return ch
	}
	if c.Default != "" {
		return c.Default
	}
	return DefaultChannel
}

// Mapping はプロセス起動時に一度だけ読み込まれる読み取り専用の対応表一式です
// 読み込み後は変更しないため、リクエスト間で同期なしに共有できます
type Mapping struct {
	Accounts AccountMap
	Channels ChannelMap
}

// NewMapping は nil の map を空の map に置き換えた Mapping を作成します
func NewMapping(accounts, channels map[string]string, defaultChannel string) *Mapping {
	if accounts == nil {
		accounts = map[string]string{}
	}
	if channels == nil {
		channels = map[string]string{}
	}
	if strings.TrimSpace(defaultChannel) == "" {
		defaultChannel = DefaultChannel
	}
	return &Mapping{
		Accounts: AccountMap(accounts),
		Channels: ChannelMap{Channels: channels, Default: defaultChannel},
	}
}

// Validate は対応表の内容を検証します
func (m Mapping) Validate() error {
	for gh := range m.Accounts {
		if !strings.HasPrefix(gh, "@") {
			return fmt.Errorf("%w: account_map のキーは @ で始まる必要があります (key=%s)", ErrInvalid, gh)
		}
	}
	for repo, ch := range m.Channels.Channels {
		if strings.TrimSpace(ch) == "" {
			return fmt.Errorf("%w: channel_map の値が空です (repository=%s)", ErrInvalid, repo)
		}
	}
	return nil
}

// OutboundMessage は Slack に送信する通知です
type OutboundMessage struct {
	// Text は変換済みメンションを改行区切りで連結したもの
	Text string

	// Channel は通知先チャンネル
	Channel string

	// LinkNames は Slack 側で @name をリンク化するかどうか（常に 1）
	LinkNames int
}
