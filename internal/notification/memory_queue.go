package notification

import (
	"context"
	"sync"
)

// MemoryQueue is an in-process Queue, used when Redis is not wired and in tests.
type MemoryQueue struct {
	mu   sync.Mutex
	jobs []Job
	dead []Job
}

// NewMemoryQueue returns an empty queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

// Enqueue appends job.
func (q *MemoryQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

// Dequeue pops the oldest job without blocking.
func (q *MemoryQueue) Dequeue(_ context.Context) (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.jobs) == 0 {
		return nil, nil
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return &job, nil
}

// Retry requeues or dead-letters job.
func (q *MemoryQueue) Retry(ctx context.Context, job Job) error {
	job.Attempt++
	if job.Attempt >= MaxAttempts {
		q.mu.Lock()
		q.dead = append(q.dead, job)
		q.mu.Unlock()
		return nil
	}
	return q.Enqueue(ctx, job)
}

// Pending returns a copy of the queued jobs.
func (q *MemoryQueue) Pending() []Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Job(nil), q.jobs...)
}

// Dead returns a copy of the dead-lettered jobs.
func (q *MemoryQueue) Dead() []Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Job(nil), q.dead...)
}
