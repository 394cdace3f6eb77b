package infra

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockBusy is returned when a shift lock could not be taken before the
// caller's wait budget ran out.
var ErrLockBusy = errors.New("la caja está siendo modificada desde otra terminal")

// Unlock releases a lock taken with ShiftLocker.Lock. It is safe to call more than once.
type Unlock func(ctx context.Context) error

// ShiftLocker serializes open/close transitions of a branch register.
type ShiftLocker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

// ── Redis ─────────────────────────────────────────────────────────────────────

// releaseScript deletes the key only if it still holds our token, so an
// expired lock re-taken by another node is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker is a single-instance Redis lock (SET NX PX + compare-and-delete).
type RedisLocker struct {
	rdb   redis.UniversalClient
	ttl   time.Duration
	wait  time.Duration
	retry time.Duration
}

// NewRedisLocker returns a locker whose keys expire after ttl. Lock waits up
// to ttl for a busy key before giving up with ErrLockBusy.
func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &RedisLocker{rdb: rdb, ttl: ttl, wait: ttl, retry: 50 * time.Millisecond}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	k := "casaceja:lock:" + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.rdb.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			var once sync.Once
			return func(ctx context.Context) error {
				var err error
				once.Do(func() {
					err = releaseScript.Run(ctx, l.rdb, []string{k}, token).Err()
				})
				return err
			}, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}
}

// ── In-process ────────────────────────────────────────────────────────────────

// LocalLocker serializes callers within one process. Used by tests and
// single-node deployments without Redis.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]chan struct{})}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[key] = slot
	}
	l.mu.Unlock()

	select {
	case slot <- struct{}{}:
		var once sync.Once
		return func(context.Context) error {
			once.Do(func() { <-slot })
			return nil
		}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
