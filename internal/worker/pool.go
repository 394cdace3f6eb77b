package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueImpresion = "jobs:impresion"
	QueueEmail     = "jobs:email"

	JobImpresion = "impresion"
	JobEmail     = "email"

	// DefaultMaxAttempts is how many times a job runs before it lands in the DLQ.
	DefaultMaxAttempts = 3

	retryBase = 2 * time.Second
	retryMax  = time.Minute
)

// retryKey is the sorted set holding the failed jobs of queue, scored by the
// unix millisecond at which they may run again.
func retryKey(queue string) string { return queue + ":retry" }

// promoteScript moves every due job of a retry set back onto its list.
var promoteScript = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, ARGV[2])
for _, m in ipairs(due) do
  redis.call('ZREM', KEYS[1], m)
  redis.call('LPUSH', KEYS[2], m)
end
return #due
`)

// Backoff is the delay before attempt+1 of a job that failed attempt times:
// 2s, 4s, 8s... capped at one minute.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := retryBase
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= retryMax {
			return retryMax
		}
	}
	return d
}

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
	// RetryAt is the unix millisecond of the scheduled retry, zero on the
	// first run
	RetryAt int64 `json:"retry_at,omitempty"`
}

// Handler processes one job payload. A returned error schedules a retry.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb redis.UniversalClient
}

func NewDispatcher(rdb redis.UniversalClient) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueImpresion pushes a print job to Redis.
func (d *Dispatcher) EnqueueImpresion(ctx context.Context, p ImpresionPayload) error {
	return d.enqueue(ctx, QueueImpresion, JobImpresion, p)
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, p EmailPayload) error {
	return d.enqueue(ctx, QueueEmail, JobEmail, p)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// QueueFor maps a job type to the list it is consumed from.
func QueueFor(jobType string) string {
	if jobType == JobEmail {
		return QueueEmail
	}
	return QueueImpresion
}

// Pool consumes every queue with N goroutines and routes jobs by type.
type Pool struct {
	rdb         redis.UniversalClient
	handlers    map[string]Handler
	maxAttempts int
	backoff     func(attempt int) time.Duration
	now         func() time.Time
	wg          sync.WaitGroup
}

func NewPool(rdb redis.UniversalClient, maxAttempts int) *Pool {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Pool{
		rdb:         rdb,
		handlers:    make(map[string]Handler),
		maxAttempts: maxAttempts,
		backoff:     Backoff,
		now:         time.Now,
	}
}

// Handle registers h for jobType. It must be called before Start.
func (p *Pool) Handle(jobType string, h Handler) {
	p.handlers[jobType] = h
}

// Start launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

// Wait blocks until every worker goroutine has returned.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	queues := []string{QueueImpresion, QueueEmail}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			p.promoteDue(ctx, queues)
			// Blocking pop, waits up to 2s then loops to check ctx and due retries
			result, err := p.rdb.BRPop(ctx, 2*time.Second, queues...).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("brpop failed")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.process(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) process(ctx context.Context, queue, raw string) {
	// A job already taken off the list is settled even when shutdown cancels
	// ctx mid-run: it is either retried later or dead-lettered, never dropped.
	settle := context.WithoutCancel(ctx)

	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(settle, p.rdb, queue, "unknown", json.RawMessage(fmt.Sprintf("%q", raw)), err.Error(), 0)
		return
	}

	err := p.dispatch(ctx, job)
	if err == nil {
		return
	}
	job.Attempts++
	if job.Attempts >= p.maxAttempts {
		SendToDLQ(settle, p.rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}
	if err := p.scheduleRetry(settle, queue, job); err != nil {
		log.Error().Err(err).Str("queue", queue).Str("type", job.Type).Msg("failed to schedule retry")
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Int("attempt", job.Attempts).
		Time("retry_at", time.UnixMilli(job.RetryAt)).Msg("job failed, retry scheduled")
}

// scheduleRetry parks job in the retry set of queue until its backoff elapses.
func (p *Pool) scheduleRetry(ctx context.Context, queue string, job Job) error {
	job.RetryAt = p.now().Add(p.backoff(job.Attempts)).UnixMilli()
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return p.rdb.ZAdd(ctx, retryKey(queue), redis.Z{Score: float64(job.RetryAt), Member: encoded}).Err()
}

// promoteDue moves the retries whose time has come back onto their lists.
func (p *Pool) promoteDue(ctx context.Context, queues []string) {
	now := strconv.FormatInt(p.now().UnixMilli(), 10)
	for _, q := range queues {
		n, err := promoteScript.Run(ctx, p.rdb, []string{retryKey(q), q}, now, 100).Int()
		if err != nil {
			if ctx.Err() == nil {
				log.Warn().Err(err).Str("queue", q).Msg("retry promotion failed")
			}
			continue
		}
		if n > 0 {
			log.Debug().Int("jobs", n).Str("queue", q).Msg("retries promoted")
		}
	}
}

// RetryLength reports how many jobs of queue are waiting for their backoff.
func RetryLength(ctx context.Context, rdb redis.UniversalClient, queue string) (int64, error) {
	return rdb.ZCard(ctx, retryKey(queue)).Result()
}

// dispatch runs the handler for job and converts panics into errors so a bad
// payload cannot take a worker goroutine down.
func (p *Pool) dispatch(ctx context.Context, job Job) (err error) {
	h, ok := p.handlers[job.Type]
	if !ok {
		return fmt.Errorf("no handler for job type %q", job.Type)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	log.Debug().Str("type", job.Type).Msg("processing job")
	return h(ctx, job.Payload)
}
