package domain

import "errors"

// ドメインエラー定義
var (
	// ErrInvalid は不正な値が設定された場合のエラー
	ErrInvalid = errors.New("ドメイン: 不正な値です")

	// ErrNotFound は要求されたリソースが見つからない場合のエラー
	ErrNotFound = errors.New("ドメイン: リソースが見つかりません")

	// ErrSignatureMismatch は x-hub-signature が一致しない場合のエラー
	ErrSignatureMismatch = errors.New("ドメイン: 署名が一致しません")

	// ErrInvalidPayload は Webhook のペイロードを解釈できない場合のエラー
	ErrInvalidPayload = errors.New("ドメイン: ペイロードが不正です")

	// ErrDispatch は Slack への送信に失敗した場合のエラー
	ErrDispatch = errors.New("ドメイン: Slack への送信に失敗しました")
)
