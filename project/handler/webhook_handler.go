package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github-slack-bot/project/domain"
	"github-slack-bot/project/infrastructure/httpsec"
	"github-slack-bot/project/infrastructure/logger"
	"github-slack-bot/project/service"
)

// maxPayloadSize は GitHub の Webhook ペイロード上限（25MB）です
const maxPayloadSize = 25 << 20

// レスポンス本文（固定文言）
const (
	msgBadSignature   = "Your x-hub-signature's bad and you should feel bad!"
	msgDispatchFailed = "Something went wrong while posting the message to Slack."
)

// WebhookHandler は GitHub Webhook を受信して Slack に通知します
type WebhookHandler struct {
	secret        string
	notifyService service.NotifyService
	timeout       time.Duration
}

// NewWebhookHandler は Webhook ハンドラーを作成します
// timeout は Slack 送信 1 回に許容する時間です
func NewWebhookHandler(secret string, notifyService service.NotifyService, timeout time.Duration) *WebhookHandler {
	return &WebhookHandler{
		secret:        secret,
		notifyService: notifyService,
		timeout:       timeout,
	}
}

// ServeHTTP は GitHub Webhook 受信エンドポイントです
// 署名検証 → イベント分類 → メンション抽出 → Slack 送信 の順に処理します
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	eventType := r.Header.Get("X-GitHub-Event")     //nolint:canonicalheader // GitHub webhook header
	deliveryID := r.Header.Get("X-GitHub-Delivery") //nolint:canonicalheader // GitHub webhook header
	if deliveryID == "" {
		deliveryID = uuid.NewString()
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.ContentLength > maxPayloadSize {
		logger.Warn("webhook 拒否: ペイロードが大きすぎます", logger.Fields{
			"content_length": r.ContentLength,
			"delivery_id":    deliveryID,
		})
		http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
		return
	}

	// リクエスト本体を読み込む（署名は受信したバイト列そのものに対して計算する）
	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadSize+1))
	if err != nil {
		logger.Error("リクエスト本体の読み込み失敗", err, logger.Fields{"delivery_id": deliveryID})
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	if len(body) > maxPayloadSize {
		http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
		return
	}

	// 署名検証はイベント種別に関係なく必ず最初に行う
	signature := r.Header.Get("X-Hub-Signature")
	if err := httpsec.VerifyGitHubSignature(h.secret, signature, body); err != nil {
		fields := logger.Fields{
			"delivery_id": deliveryID,
			"event_type":  eventType,
			"remote_addr": r.RemoteAddr,
			"received":    signature,
		}
		var mismatch *httpsec.MismatchError
		if errors.As(err, &mismatch) {
			fields["expected"] = mismatch.Expected
		}
		logger.Warn("x-hub-signature 不一致", fields)
		writeText(w, http.StatusForbidden, msgBadSignature)
		return
	}

	// 呼び出し元の切断では Slack 送信を中断しない
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	dispatched, err := h.notifyService.Notify(ctx, eventType, body)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPayload) {
			logger.Warn("webhook 拒否: ペイロード解析失敗", logger.Fields{
				"delivery_id": deliveryID,
				"event_type":  eventType,
				"error":       err.Error(),
			})
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		logger.Error("Slack 送信失敗", err, logger.Fields{
			"delivery_id": deliveryID,
			"event_type":  eventType,
		})
		writeText(w, http.StatusInternalServerError, msgDispatchFailed)
		return
	}

	logger.Info("webhook 処理完了", logger.Fields{
		"delivery_id":  deliveryID,
		"event_type":   eventType,
		"dispatched":   dispatched,
		"payload_size": len(body),
	})
	w.WriteHeader(http.StatusOK)
}

// writeText は固定文言をそのまま本文として返します
func writeText(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	if _, err := io.WriteString(w, msg); err != nil {
		logger.Error("レスポンス書き込み失敗", err, nil)
	}
}
