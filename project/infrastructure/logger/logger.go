// Package logger は slog による構造化ログを提供します
// 全てのログにインスタンス名（ホスト名）を付与し、ソースはファイル名:行のみ出力します
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Fields は構造化ログのフィールドです
type Fields map[string]any

var (
	defaultLogger *slog.Logger
	// hostname は起動時に一度だけ取得
	hostname string
)

func init() {
	var err error
	hostname, err = os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	defaultLogger = New(os.Stderr, slog.LevelInfo)
}

// New は指定レベル以上を w に出力する slog ロガーを作成します
func New(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
					source.Function = ""
				}
			}
			return a
		},
	}

	return slog.New(slog.NewTextHandler(w, opts)).With("instance", hostname)
}

// ParseLevel は LOG_LEVEL の文字列を slog.Level に変換します
// 不明な値は Info として扱います
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// SetDefault はデフォルトロガーを差し替えます
func SetDefault(l *slog.Logger) {
	defaultLogger = l
}

// Default はデフォルトロガーを返します
func Default() *slog.Logger {
	return defaultLogger
}

// Info は Info レベルで出力します
func Info(msg string, fields Fields) {
	logAt(slog.LevelInfo, msg, fields)
}

// Warn は Warn レベルで出力します
func Warn(msg string, fields Fields) {
	logAt(slog.LevelWarn, msg, fields)
}

// Error は err を "error" フィールドに含めて Error レベルで出力します
// 呼び出し元の fields は変更しません
func Error(msg string, err error, fields Fields) {
	merged := make(Fields, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	if err != nil {
		merged["error"] = err.Error()
	}
	logAt(slog.LevelError, msg, merged)
}

// Debug は Debug レベルで出力します
func Debug(msg string, fields Fields) {
	logAt(slog.LevelDebug, msg, fields)
}

// logAt は Info / Warn / Error / Debug の呼び出し元をソースとして記録します
func logAt(level slog.Level, msg string, fields Fields) {
	ctx := context.Background()
	if !defaultLogger.Enabled(ctx, level) {
		return
	}

	// 0: runtime.Callers, 1: logAt, 2: Info など, 3: 呼び出し元
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.AddAttrs(attrsFromFields(fields)...)
	_ = defaultLogger.Handler().Handle(ctx, r) //nolint:errcheck // ログ出力はベストエフォート
}

func attrsFromFields(fields Fields) []slog.Attr {
	if fields == nil {
		return nil
	}
	attrs := make([]slog.Attr, 0, len(fields))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}
