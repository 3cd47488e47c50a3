package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisStore(rdb, "emailauth-test", bcrypt.MinCost)
}

func TestRedisLoadSeedsWhenEmpty(t *testing.T) {
	rs := newRedisStore(t)

	snap, err := rs.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Users, 1)
	assert.Equal(t, SeedEmail, snap.Users[0].Email)
}

func TestRedisSnapshotRoundTrip(t *testing.T) {
	rs := newRedisStore(t)
	ctx := context.Background()

	want := sampleSnapshot()
	require.NoError(t, rs.Save(ctx, want))

	got, err := rs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.Users, got.Users)
	assert.Equal(t, want.AuthSessions, got.AuthSessions)
	assert.Equal(t, want.EmailLogs, got.EmailLogs)
}

func TestRedisTokenSlot(t *testing.T) {
	rs := newRedisStore(t)
	ctx := context.Background()

	token, err := rs.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, rs.Set(ctx, "session_cafe"))
	token, err = rs.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "session_cafe", token)

	require.NoError(t, rs.Clear(ctx))
	token, err = rs.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, rs.Clear(ctx))
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	rs := NewRedisStore(rdb, "emailauth-test", bcrypt.MinCost)

	// Write something first, then kill the server.
	require.NoError(t, rs.Set(context.Background(), "session_x"))
	mr.Close()

	_, err = rs.Load(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = rs.Get(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, rs.Save(context.Background(), &Snapshot{}), ErrUnavailable)
}
