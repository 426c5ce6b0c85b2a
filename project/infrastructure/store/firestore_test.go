package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github-slack-bot/project/domain"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(status.Error(codes.NotFound, "missing")))
	assert.False(t, isNotFound(status.Error(codes.PermissionDenied, "denied")))
	assert.False(t, isNotFound(errors.New("plain")))
}

func TestToStringMap(t *testing.T) {
	m, err := toStringMap(map[string]interface{}{"api": "#api-dev", "web": "#web"}, docChannelMap)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"api": "#api-dev", "web": "#web"}, m)

	_, err = toStringMap(map[string]interface{}{"api": int64(1)}, docChannelMap)
	assert.True(t, errors.Is(err, domain.ErrInvalid))

	m, err = toStringMap(nil, docAccountMap)
	require.NoError(t, err)
	assert.Empty(t, m)
}

// FIRESTORE_EMULATOR_HOST が設定されている場合のみ実行します
func TestFirestoreMappingRepo_Emulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST が未設定")
	}
	ctx := context.Background()

	repo, err := NewFirestoreMappingRepo(ctx, "test-project", "mappings_test", "")
	require.NoError(t, err)
	defer repo.Close()

	_, err = repo.cli.Collection("mappings_test").Doc(docChannelMap).Set(ctx, map[string]interface{}{"api": "#api-dev"})
	require.NoError(t, err)
	_, err = repo.cli.Collection("mappings_test").Doc(docAccountMap).Set(ctx, map[string]interface{}{"@alice": "@alice.slack"})
	require.NoError(t, err)

	m, err := repo.LoadMapping(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "#api-dev", m.Channels.Lookup("api"))
	assert.Equal(t, domain.DefaultChannel, m.Channels.Lookup("web"))
	assert.Equal(t, "@alice.slack", m.Accounts.Resolve("@alice"))
}
