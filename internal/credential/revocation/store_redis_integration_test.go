//go:build integration

package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unipass/pkg/testutil/containers"
)

func TestRedisStore(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	store := NewRedisStore(rc.Client)
	ctx := context.Background()

	t.Run("revoke then check", func(t *testing.T) {
		jti := uuid.NewString()
		require.NoError(t, store.Revoke(ctx, jti, time.Hour))

		revoked, err := store.IsRevoked(ctx, jti)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("unknown credential is not revoked", func(t *testing.T) {
		revoked, err := store.IsRevoked(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("revocation expires with its TTL", func(t *testing.T) {
		jti := uuid.NewString()
		require.NoError(t, store.Revoke(ctx, jti, time.Second))

		revoked, err := store.IsRevoked(ctx, jti)
		require.NoError(t, err)
		require.True(t, revoked)

		assert.Eventually(t, func() bool {
			revoked, err := store.IsRevoked(ctx, jti)
			return err == nil && !revoked
		}, 5*time.Second, 100*time.Millisecond)
	})

	t.Run("revoking twice extends the entry", func(t *testing.T) {
		jti := uuid.NewString()
		require.NoError(t, store.Revoke(ctx, jti, time.Second))
		require.NoError(t, store.Revoke(ctx, jti, time.Hour))

		time.Sleep(1500 * time.Millisecond)
		revoked, err := store.IsRevoked(ctx, jti)
		require.NoError(t, err)
		assert.True(t, revoked)
	})
}
