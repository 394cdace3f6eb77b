//go:build integration

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	container, err := tcRedis.RunContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestPool_FailingJobEndsInDLQ(t *testing.T) {
	rdb := startRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const espera = 700 * time.Millisecond
	p := NewPool(rdb, 2)
	p.backoff = func(int) time.Duration { return espera }
	calls := make(chan time.Time, 10)
	p.Handle(JobImpresion, func(context.Context, json.RawMessage) error {
		calls <- time.Now()
		return errors.New("printer offline")
	})
	p.Start(ctx, 1)

	d := NewDispatcher(rdb)
	require.NoError(t, d.EnqueueImpresion(ctx, ImpresionPayload{Tipo: "venta", ID: uuid.New()}))

	require.Eventually(t, func() bool {
		n, err := RetryLength(ctx, rdb, QueueImpresion)
		return err == nil && n == 1
	}, 10*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		n, err := DLQLength(ctx, rdb, QueueImpresion)
		return err == nil && n == 1
	}, 30*time.Second, 100*time.Millisecond)
	require.Len(t, calls, 2)
	primera, segunda := <-calls, <-calls
	assert.GreaterOrEqual(t, segunda.Sub(primera), espera)

	n, err := RetryLength(ctx, rdb, QueueImpresion)
	require.NoError(t, err)
	assert.Zero(t, n)

	entries, err := PeekDLQ(ctx, rdb, QueueImpresion, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, JobImpresion, entries[0].JobType)
	assert.Equal(t, 2, entries[0].Attempts)
	assert.Equal(t, "printer offline", entries[0].Reason)

	cancel()
	p.Wait()
}

func TestPool_JobFailingDuringShutdownIsKept(t *testing.T) {
	rdb := startRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewPool(rdb, 3)
	p.Handle(JobEmail, func(jobCtx context.Context, _ json.RawMessage) error {
		cancel()
		<-jobCtx.Done()
		return jobCtx.Err()
	})
	require.NoError(t, NewDispatcher(rdb).EnqueueEmail(context.Background(), EmailPayload{To: "gerencia@casaceja.mx"}))
	p.Start(ctx, 1)
	p.Wait()

	n, err := RetryLength(context.Background(), rdb, QueueEmail)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
