package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// MaxAttempts is how many deliveries are tried before a job moves to the dead-letter list.
	MaxAttempts = 3
	// dequeueTimeout bounds each blocking pop so the worker can observe shutdown.
	dequeueTimeout = 5 * time.Second
)

// Job is a queued email.
type Job struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   Message   `json:"message"`
	Attempt   int       `json:"attempt"`
	CreatedAt time.Time `json:"created_at"`
}

// NewJob wraps msg in a fresh job.
func NewJob(kind string, msg Message) Job {
	return Job{ID: uuid.NewString(), Kind: kind, Message: msg, CreatedAt: time.Now().UTC()}
}

// Queue moves jobs between producers and the worker.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	// Dequeue blocks briefly and returns nil, nil when no job arrived.
	Dequeue(ctx context.Context) (*Job, error)
	// Retry requeues job with its attempt bumped, or dead-letters it after MaxAttempts.
	Retry(ctx context.Context, job Job) error
}

// RedisQueue stores jobs in a Redis list.
type RedisQueue struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisQueue creates a queue on the list at key.
func NewRedisQueue(client *redis.Client, key string, logger *zap.Logger) *RedisQueue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisQueue{client: client, key: key, logger: logger}
}

// DeadLetterKey is the list receiving jobs that exhausted their attempts.
func (q *RedisQueue) DeadLetterKey() string {
	return q.key + ":dlq"
}

// Enqueue appends job to the list.
func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.RPush(ctx, q.key, raw).Err(); err != nil {
		return fmt.Errorf("rpush: %w", err)
	}
	q.logger.Debug("enqueued email job", zap.String("job_id", job.ID), zap.String("kind", job.Kind))
	return nil
}

// Dequeue pops the oldest job.
func (q *RedisQueue) Dequeue(ctx context.Context) (*Job, error) {
	res, err := q.client.BLPop(ctx, dequeueTimeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BLPOP reply of %d elements", len(res))
	}
	var job Job
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}

// Retry requeues or dead-letters job.
func (q *RedisQueue) Retry(ctx context.Context, job Job) error {
	job.Attempt++
	if job.Attempt >= MaxAttempts {
		raw, err := json.Marshal(job)
		if err != nil {
			return fmt.Errorf("marshal job: %w", err)
		}
		q.logger.Warn("email job dead-lettered", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
		return q.client.RPush(ctx, q.DeadLetterKey(), raw).Err()
	}
	return q.Enqueue(ctx, job)
}
