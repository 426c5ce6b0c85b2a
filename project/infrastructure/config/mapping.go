package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github-slack-bot/project/domain"
	"github-slack-bot/project/infrastructure/logger"
)

// mappingFile は対応表ファイルの形式です
// 既存の config.json（channel_map / account_map）をそのまま読めます
type mappingFile struct {
	ChannelMap map[string]string `json:"channel_map" yaml:"channel_map"`
	AccountMap map[string]string `json:"account_map" yaml:"account_map"`
}

// FileMappingRepo は domain.MappingRepository のファイル実装です
// 拡張子が .yaml / .yml なら YAML、それ以外は JSON として読み込みます
type FileMappingRepo struct {
	Path string
}

// NewFileMappingRepo はファイルから対応表を読み込むリポジトリを作成します
func NewFileMappingRepo(path string) *FileMappingRepo {
	return &FileMappingRepo{Path: path}
}

// LoadMapping は対応表ファイルを読み込み、検証済みの Mapping を返します
func (r *FileMappingRepo) LoadMapping(_ context.Context, defaultChannel string) (*domain.Mapping, error) {
	raw, err := os.ReadFile(r.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: 対応表ファイルがありません (path=%s): %w", r.Path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("config: 対応表ファイル読み込み失敗 (path=%s): %w", r.Path, err)
	}

	var mf mappingFile
	switch strings.ToLower(filepath.Ext(r.Path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &mf)
	default:
		err = json.Unmarshal(raw, &mf)
	}
	if err != nil {
		return nil, fmt.Errorf("config: 対応表ファイル解析失敗 (path=%s): %w: %v", r.Path, domain.ErrInvalid, err)
	}

	m := domain.NewMapping(mf.AccountMap, mf.ChannelMap, defaultChannel)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("config: 対応表検証失敗 (path=%s): %w", r.Path, err)
	}
	return m, nil
}

// LoadFileMapping はファイルから対応表を読み込みます
// ファイルが存在しない場合は空の対応表（全メンション素通し・デフォルトチャンネル送信）を返します
func LoadFileMapping(ctx context.Context, path, defaultChannel string) (*domain.Mapping, error) {
	m, err := NewFileMappingRepo(path).LoadMapping(ctx, defaultChannel)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Warn("対応表ファイルがないため空の対応表を使用", logger.Fields{"path": path})
		return domain.NewMapping(nil, nil, defaultChannel), nil
	}
	return m, err
}
