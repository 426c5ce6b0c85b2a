package slack

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-slack-bot/project/domain"
)

func TestWebhookClient_PostMessage(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotContentType = r.Header.Get("Content-Type")
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	wc := NewWebhookClient(srv.URL, time.Second)
	err := wc.PostMessage(context.Background(), &domain.OutboundMessage{
		Text:      "@alice.slack\n@bob\n",
		Channel:   "#dev",
		LinkNames: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]any{
		"text":       "@alice.slack\n@bob\n",
		"link_names": float64(1),
		"channel":    "#dev",
	}, gotBody)
}

func TestWebhookClient_NonSuccessStatus(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("channel_not_found"))
	}))
	defer srv.Close()

	wc := NewWebhookClient(srv.URL, time.Second)
	err := wc.PostMessage(context.Background(), &domain.OutboundMessage{Text: "@bob\n", Channel: "#nope", LinkNames: 1})

	require.Error(t, err)
	var sce slack.StatusCodeError
	require.True(t, errors.As(err, &sce))
	assert.Equal(t, http.StatusNotFound, sce.Code)
	assert.Contains(t, err.Error(), "channel_not_found")
	assert.Equal(t, 1, calls, "再試行しない")
}

func TestWebhookClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	wc := NewWebhookClient(url, time.Second)
	err := wc.PostMessage(context.Background(), &domain.OutboundMessage{Text: "@bob\n", Channel: "#dev", LinkNames: 1})

	assert.Error(t, err)
}

func TestWebhookClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	wc := NewWebhookClient(srv.URL, 50*time.Millisecond)
	err := wc.PostMessage(context.Background(), &domain.OutboundMessage{Text: "@bob\n", Channel: "#dev", LinkNames: 1})

	assert.Error(t, err)
}

func TestNewWebhookClient_DefaultTimeout(t *testing.T) {
	wc := NewWebhookClient("http://example.invalid", 0)

	assert.Equal(t, DefaultTimeout, wc.httpClient.Timeout)
}
