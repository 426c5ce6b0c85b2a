package domain

import (
	"context"
)

// MappingRepository は AccountMap / ChannelMap の読み込み元です
type MappingRepository interface {
	// LoadMapping は対応表を読み込みます
	// 起動時に一度だけ呼ばれ、結果はプロセス終了まで変更されません
	// 対応表が一つも存在しない場合は domain.ErrNotFound を返します
	LoadMapping(ctx context.Context, defaultChannel string) (*Mapping, error)
}
