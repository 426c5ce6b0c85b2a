package httpsec

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // GitHub の X-Hub-Signature は HMAC-SHA1
	"encoding/hex"
	"fmt"

	"github-slack-bot/project/domain"
)

// SignaturePrefix は X-Hub-Signature ヘッダのアルゴリズム接頭辞です
const SignaturePrefix = "sha1="

// VerifyGitHubSignature は GitHub からのリクエストの署名を検証します
// X-Hub-Signature ヘッダの値と、リクエストボディから計算した
// "sha1=" + hex(HMAC-SHA1(secret, body)) を定時間比較します
// 一致しない場合は domain.ErrSignatureMismatch をラップして返します
func VerifyGitHubSignature(secret, signature string, body []byte) error {
	// シークレット未設定では常に拒否
	if secret == "" {
		return fmt.Errorf("%w: secret が設定されていません", domain.ErrSignatureMismatch)
	}

	expected := ComputeGitHubSignature(secret, body)

	// 定時間比較（タイミング攻撃対策）
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return &MismatchError{Received: signature, Expected: expected}
	}

	return nil
}

// ComputeGitHubSignature は GitHub 署名を計算します
func ComputeGitHubSignature(secret string, body []byte) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	return SignaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// MismatchError は署名不一致の詳細（受信値と期待値）を保持します
// 期待値はログ出力専用で、レスポンスには含めません
type MismatchError struct {
	Received string
	Expected string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("x-hub-signature %q did not match %q", e.Received, e.Expected)
}

// Unwrap により errors.Is(err, domain.ErrSignatureMismatch) が成立します
func (e *MismatchError) Unwrap() error {
	return domain.ErrSignatureMismatch
}
