package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github-slack-bot/project/domain"
	"github-slack-bot/project/handler"
	"github-slack-bot/project/infrastructure/config"
	"github-slack-bot/project/infrastructure/logger"
	"github-slack-bot/project/infrastructure/secret"
	"github-slack-bot/project/infrastructure/slack"
	"github-slack-bot/project/infrastructure/store"
	"github-slack-bot/project/service"
)

func main() {
	ctx := context.Background()

	// 0. ローカル開発用の .env（存在しなければ無視）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf(".env 読み込み失敗: %v", err)
	}

	// 1. 設定を読み込む
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("設定読み込み失敗: %v", err)
	}
	logger.SetDefault(logger.New(log.Writer(), logger.ParseLevel(cfg.LogLevel)))

	// 2. シークレット（GCP_PROJECT 未設定時は環境変数のみ）
	var secrets secret.Source = secret.EnvSource{}
	if cfg.UseSecretManager() {
		secretMgr, err := secret.NewManager(ctx, cfg.GcpProject, cfg.CredentialsFile)
		if err != nil {
			log.Fatalf("Secret Manager 初期化失敗: %v", err)
		}
		defer secretMgr.Close()
		secrets = secretMgr
	}
	if err := cfg.ResolveSecrets(ctx, secrets); err != nil {
		log.Fatalf("シークレット取得失敗: %v", err)
	}

	// 3. 対応表（起動時に一度だけ読み込む）
	mapping, err := loadMapping(ctx, cfg)
	if err != nil {
		log.Fatalf("対応表読み込み失敗: %v", err)
	}

	// 4. Slack ポート実装
	var slackPort service.SlackPort
	if cfg.SlackBotToken != "" {
		slackPort = slack.NewBotClient(cfg.SlackBotToken, cfg.SlackTimeout, cfg.SlackAPIURL)
	} else {
		slackPort = slack.NewWebhookClient(cfg.SlackWebhookURL, cfg.SlackTimeout)
	}

	// 5. サービス層・HTTP ハンドラー
	notifyService := service.NewNotifyService(mapping, slackPort)

	mux := http.NewServeMux()
	mux.Handle("/github/webhook", handler.NewWebhookHandler(cfg.GitHubSecret, notifyService, cfg.SlackTimeout))
	mux.HandleFunc("/health", handler.HealthHandler)

	// 6. サーバー起動
	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("サーバー起動", logger.Fields{
		"addr":            addr,
		"bot_mode":        cfg.SlackBotToken != "",
		"accounts":        len(mapping.Accounts),
		"channels":        len(mapping.Channels.Channels),
		"default_channel": mapping.Channels.Default,
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("サーバーエラー: %v", err)
	}
}

// loadMapping は設定に応じて Firestore またはファイルから対応表を読み込みます
func loadMapping(ctx context.Context, cfg *config.Config) (*domain.Mapping, error) {
	if cfg.UseFirestore() {
		repo, err := store.NewFirestoreMappingRepo(ctx, cfg.FirestoreProjectID, cfg.CollectionMappings, cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		defer repo.Close()
		return repo.LoadMapping(ctx, cfg.DefaultChannel)
	}

	return config.LoadFileMapping(ctx, cfg.MappingFile, cfg.DefaultChannel)
}
