package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	env "github.com/netflix/go-env"

	"github-slack-bot/project/domain"
	"github-slack-bot/project/infrastructure/secret"
)

// Secret Manager 上のシークレット名
const (
	secretGitHub       = "github-secret"
	secretSlackWebhook = "slack-webhook-url"
	secretSlackBot     = "slack-bot-token"
)

// Config は環境変数から読み込まれるアプリケーション設定を表します
// 起動時に一度だけ構築し、以降は変更しません
type Config struct {
	// 基本設定
	Port     string `env:"PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	// GCP設定（空の場合は Secret Manager / Firestore を使用しない）
	GcpProject      string `env:"GCP_PROJECT"`
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS_FILE"`

	// 対応表の読み込み元
	// FIRESTORE_PROJECT_ID が設定されていれば Firestore、なければ MAPPING_FILE
	MappingFile        string `env:"MAPPING_FILE,default=config.json"`
	FirestoreProjectID string `env:"FIRESTORE_PROJECT_ID"`
	CollectionMappings string `env:"FS_COLLECTION_MAPPINGS,default=github_slack_mappings"`

	// Slack設定
	DefaultChannel string        `env:"DEFAULT_CHANNEL,default=#notification_test"`
	SlackTimeout   time.Duration `env:"SLACK_TIMEOUT,default=10s"`
	SlackAPIURL    string        `env:"SLACK_API_URL"`

	// シークレット（ResolveSecrets で設定）
	GitHubSecret    string
	SlackWebhookURL string
	SlackBotToken   string
}

// NewConfig は環境変数から設定を読み込み、Config構造体を返します
// シークレットは含まないため、続けて ResolveSecrets を呼び出してください
func NewConfig() (*Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("config: 環境変数の読み込み失敗: %w", err)
	}
	if cfg.DefaultChannel == "" {
		cfg.DefaultChannel = domain.DefaultChannel
	}
	if cfg.SlackTimeout <= 0 {
		return nil, fmt.Errorf("%w: SLACK_TIMEOUT は正の値である必要があります (value=%s)", domain.ErrInvalid, cfg.SlackTimeout)
	}
	return &cfg, nil
}

// ResolveSecrets は GitHub シークレットと Slack の送信先を取得します
// 環境変数が優先され、未設定のものは src から取得します
func (c *Config) ResolveSecrets(ctx context.Context, src secret.Source) error {
	ghSecret, err := src.GetWithEnvOverride(ctx, "GITHUB_SECRET", secretGitHub)
	if err != nil {
		return fmt.Errorf("GITHUB_SECRET 取得失敗: %w", err)
	}
	c.GitHubSecret = ghSecret

	// Bot トークンは任意。未設定以外のエラー（権限不足・通信失敗）は起動失敗とする
	token, err := src.GetWithEnvOverride(ctx, "SLACK_BOT_TOKEN", secretSlackBot)
	switch {
	case err == nil:
		c.SlackBotToken = token
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("SLACK_BOT_TOKEN 取得失敗: %w", err)
	}

	webhookURL, err := src.GetWithEnvOverride(ctx, "SLACK_WEBHOOK_URL", secretSlackWebhook)
	if err != nil && c.SlackBotToken == "" {
		return fmt.Errorf("SLACK_WEBHOOK_URL 取得失敗: %w", err)
	}
	c.SlackWebhookURL = webhookURL

	return nil
}

// UseFirestore は対応表を Firestore から読み込むかどうかを返します
func (c *Config) UseFirestore() bool {
	return c.FirestoreProjectID != ""
}

// UseSecretManager は Secret Manager を使用するかどうかを返します
func (c *Config) UseSecretManager() bool {
	return c.GcpProject != ""
}
