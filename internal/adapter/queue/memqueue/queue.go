// Package memqueue is an in-process scoring queue: a bounded channel drained
// by a small worker pool. Jobs do not survive a restart; the manual re-score
// endpoint covers recovery after a crash.
package memqueue

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/observability"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
)

// Handler runs the scoring job for one candidate.
type Handler func(ctx domain.Context, candidateID string) error

// Queue implements domain.ScoringQueue over a buffered channel.
type Queue struct {
	jobs    chan string
	workers int
	handle  Handler
}

// New creates a queue with the given buffer depth and worker count.
func New(depth, workers int, h Handler) *Queue {
	if depth < 1 {
		depth = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &Queue{
		jobs:    make(chan string, depth),
		workers: workers,
		handle:  h,
	}
}

// EnqueueScore schedules a scoring job without blocking. A full buffer is an
// error so the caller can surface back-pressure instead of hanging a request.
func (q *Queue) EnqueueScore(ctx domain.Context, candidateID string) error {
	select {
	case q.jobs <- candidateID:
		observability.EnqueueScoringJob()
		return nil
	case <-ctx.Done():
		return fmt.Errorf("op=memqueue.EnqueueScore: %w", ctx.Err())
	default:
		return fmt.Errorf("op=memqueue.EnqueueScore: %w: scoring queue full", domain.ErrInternal)
	}
}

// Run drains the queue with the configured worker pool until ctx is
// cancelled, then waits for in-flight jobs to finish.
func (q *Queue) Run(ctx domain.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < q.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case id := <-q.jobs:
					if err := q.handle(ctx, id); err != nil {
						slog.Error("scoring job failed",
							slog.Int("worker", worker),
							slog.String("candidate_id", id),
							slog.Any("error", err))
					}
				}
			}
		}(i)
	}
	wg.Wait()
	return ctx.Err()
}
