package secret

import (
	"context"
	"fmt"
	"os"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github-slack-bot/project/domain"
	"github-slack-bot/project/infrastructure/logger"
)

// accessTimeout は Secret Manager へのアクセス 1 回あたりのタイムアウトです
const accessTimeout = 10 * time.Second

// Source はシークレットの取得元です
type Source interface {
	// GetWithEnvOverride は envVar が設定されていればその値を、
	// なければ secretName のシークレット値を返します
	// どちらにも存在しない場合は domain.ErrNotFound をラップして返します
	GetWithEnvOverride(ctx context.Context, envVar, secretName string) (string, error)
}

// Manager は Secret Manager を通じてシークレットを取得するクライアントです
type Manager struct {
	client    *secretmanager.Client
	projectID string
}

// NewManager は Secret Manager のマネージャーを初期化します
// credentialsPath が空の場合は Application Default Credentials を使用します
func NewManager(ctx context.Context, projectID, credentialsPath string) (*Manager, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("secret manager: クライアント初期化失敗: %w", err)
	}

	return &Manager{
		client:    client,
		projectID: projectID,
	}, nil
}

// GetSecret は指定されたシークレット名から最新版のシークレット値を取得します
func (m *Manager) GetSecret(ctx context.Context, secretName string) (string, error) {
	// リソース名形式: projects/{project_id}/secrets/{secret_name}/versions/latest
	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", m.projectID, secretName)

	ctx, cancel := context.WithTimeout(ctx, accessTimeout)
	defer cancel()

	result, err := m.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("secret manager: シークレットが存在しません (name=%s): %w", secretName, domain.ErrNotFound)
		}
		return "", fmt.Errorf("secret manager: シークレット取得失敗 (name=%s): %w", secretName, err)
	}

	secret := string(result.GetPayload().GetData())
	if secret == "" {
		return "", fmt.Errorf("secret manager: シークレット値が空です (name=%s)", secretName)
	}

	return secret, nil
}

// GetWithEnvOverride は環境変数を優先し、未設定の場合のみ Secret Manager から取得します
func (m *Manager) GetWithEnvOverride(ctx context.Context, envVar, secretName string) (string, error) {
	if value := os.Getenv(envVar); value != "" {
		logger.Debug("環境変数のシークレットを使用", logger.Fields{"env_var": envVar})
		return value, nil
	}

	value, err := m.GetSecret(ctx, secretName)
	if err != nil {
		return "", err
	}
	logger.Info("Secret Manager からシークレットを取得", logger.Fields{
		"env_var":     envVar,
		"secret_name": secretName,
		"project_id":  m.projectID,
	})
	return value, nil
}

// Close は Secret Manager クライアントを閉じます
func (m *Manager) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

// EnvSource は GCP を使わない環境（ローカル・テスト）向けの Source です
type EnvSource struct{}

// GetWithEnvOverride は環境変数のみを参照します
func (EnvSource) GetWithEnvOverride(_ context.Context, envVar, secretName string) (string, error) {
	if value := os.Getenv(envVar); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("secret: 環境変数 %s が未設定です (secret=%s): %w", envVar, secretName, domain.ErrNotFound)
}

// isNotFound は Secret Manager の NotFound エラーを判定します
func isNotFound(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.NotFound
}
