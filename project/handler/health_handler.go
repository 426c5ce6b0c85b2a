package handler

import "net/http"

// HealthHandler はヘルスチェック用エンドポイントです
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
