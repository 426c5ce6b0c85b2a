package slack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-slack-bot/project/domain"
)

func TestBotClient_PostMessage(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat.postMessage", r.URL.Path)
		require.NoError(t, r.ParseForm())
		form = map[string]string{
			"channel":    r.PostForm.Get("channel"),
			"text":       r.PostForm.Get("text"),
			"link_names": r.PostForm.Get("link_names"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"channel":"C123","ts":"1700000000.000100"}`))
	}))
	defer srv.Close()

	bc := NewBotClient("xoxb-test", time.Second, srv.URL+"/")
	err := bc.PostMessage(context.Background(), &domain.OutboundMessage{
		Text:      "@carol\n@dave\n",
		Channel:   "#dev",
		LinkNames: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"channel":    "#dev",
		"text":       "@carol\n@dave\n",
		"link_names": "1",
	}, form)
}

func TestBotClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
	}))
	defer srv.Close()

	bc := NewBotClient("xoxb-test", time.Second, srv.URL+"/")
	err := bc.PostMessage(context.Background(), &domain.OutboundMessage{Text: "@bob\n", Channel: "#nope", LinkNames: 1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel_not_found")
}
