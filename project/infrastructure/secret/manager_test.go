package secret

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github-slack-bot/project/domain"
)

func TestEnvSource(t *testing.T) {
	t.Setenv("TEST_SECRET_VALUE", "s3cr3t")

	v, err := EnvSource{}.GetWithEnvOverride(context.Background(), "TEST_SECRET_VALUE", "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", v)

	t.Setenv("TEST_SECRET_VALUE", "")
	_, err = EnvSource{}.GetWithEnvOverride(context.Background(), "TEST_SECRET_VALUE", "test-secret")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(status.Error(codes.NotFound, "missing")))
	assert.False(t, isNotFound(status.Error(codes.PermissionDenied, "denied")))
	assert.False(t, isNotFound(errors.New("plain")))
}

// 環境変数が設定されていれば Secret Manager にはアクセスしない
func TestManager_EnvOverride(t *testing.T) {
	t.Setenv("TEST_SECRET_VALUE", "from-env")
	m := &Manager{projectID: "unused"}

	v, err := m.GetWithEnvOverride(context.Background(), "TEST_SECRET_VALUE", "test-secret")

	require.NoError(t, err)
	assert.Equal(t, "from-env", v)
	assert.NoError(t, m.Close())
}
