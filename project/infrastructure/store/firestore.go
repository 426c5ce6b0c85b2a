package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github-slack-bot/project/domain"
)

// 対応表のドキュメントID
const (
	docChannelMap = "channel_map"
	docAccountMap = "account_map"
)

// isNotFound は Firestore の NotFound エラーを判定するヘルパー関数です
func isNotFound(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.NotFound
}

// FirestoreMappingRepo は domain.MappingRepository の Firestore 実装です
// コレクション内の channel_map / account_map ドキュメントのフィールドを対応表として読み込みます
type FirestoreMappingRepo struct {
	cli        *firestore.Client
	collection string
}

// NewFirestoreMappingRepo は Firestore リポジトリを初期化します
func NewFirestoreMappingRepo(ctx context.Context, projectID, collection, credentialsPath string) (*FirestoreMappingRepo, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore: クライアント初期化失敗: %w", err)
	}

	return &FirestoreMappingRepo{
		cli:        client,
		collection: collection,
	}, nil
}

// LoadMapping は channel_map / account_map ドキュメントを読み込みます
// 片方のみ存在する場合は、もう片方を空として扱います
func (repo *FirestoreMappingRepo) LoadMapping(ctx context.Context, defaultChannel string) (*domain.Mapping, error) {
	channels, foundChannels, err := repo.loadDoc(ctx, docChannelMap)
	if err != nil {
		return nil, err
	}
	accounts, foundAccounts, err := repo.loadDoc(ctx, docAccountMap)
	if err != nil {
		return nil, err
	}
	if !foundChannels && !foundAccounts {
		return nil, fmt.Errorf("firestore: 対応表が存在しません (collection=%s): %w", repo.collection, domain.ErrNotFound)
	}

	m := domain.NewMapping(accounts, channels, defaultChannel)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("firestore: 対応表検証失敗 (collection=%s): %w", repo.collection, err)
	}
	return m, nil
}

// loadDoc はドキュメントを文字列 map として取得します
func (repo *FirestoreMappingRepo) loadDoc(ctx context.Context, docID string) (map[string]string, bool, error) {
	snapshot, err := repo.cli.Collection(repo.collection).Doc(docID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("firestore: 対応表取得失敗 (docID=%s): %w", docID, err)
	}

	m, err := toStringMap(snapshot.Data(), docID)
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

// Close は Firestore クライアントを閉じます
func (repo *FirestoreMappingRepo) Close() error {
	if repo.cli != nil {
		return repo.cli.Close()
	}
	return nil
}

// toStringMap は Firestore のフィールドを文字列 map に変換します
// 文字列以外の値が含まれる場合は domain.ErrInvalid を返します
func toStringMap(data map[string]interface{}, docID string) (map[string]string, error) {
	result := make(map[string]string, len(data))
	for k, v := range data {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("firestore: %w: 文字列以外の値です (docID=%s, key=%s, type=%T)", domain.ErrInvalid, docID, k, v)
		}
		result[k] = s
	}
	return result, nil
}
