//go:build integration

package infra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func TestRedisLocker(t *testing.T) {
	ctx := context.Background()
	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := NewRedis(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	l := NewRedisLocker(rdb, 300*time.Millisecond)

	unlock, err := l.Lock(ctx, "sucursal-1")
	require.NoError(t, err)

	_, err = l.Lock(ctx, "sucursal-1")
	assert.ErrorIs(t, err, ErrLockBusy)

	require.NoError(t, unlock(ctx))
	second, err := l.Lock(ctx, "sucursal-1")
	require.NoError(t, err)

	// a stale release must not drop the lock now held by someone else
	require.NoError(t, unlock(ctx))
	exists, err := rdb.Exists(ctx, "casaceja:lock:sucursal-1").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
	require.NoError(t, second(ctx))
}
