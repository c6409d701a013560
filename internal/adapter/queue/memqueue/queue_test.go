package memqueue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-hiring-assessor/internal/adapter/queue/memqueue"
	"github.com/fairyhunter13/ai-hiring-assessor/internal/domain"
)

func TestQueue_ProcessesJobs(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen []string
		done = make(chan struct{}, 3)
	)
	q := memqueue.New(8, 2, func(_ domain.Context, id string) error {
		mu.Lock()
		seen = append(seen, id)
		mu.Unlock()
		done <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = q.Run(ctx) }()

	for _, id := range []string{"c1", "c2", "c3"} {
		require.NoError(t, q.EnqueueScore(context.Background(), id))
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("job not processed in time")
		}
	}
	cancel()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"c1", "c2", "c3"}, seen)
}

func TestQueue_FullBufferErrors(t *testing.T) {
	t.Parallel()

	// No workers running, depth 1: the second enqueue must be refused.
	q := memqueue.New(1, 1, func(domain.Context, string) error { return nil })
	require.NoError(t, q.EnqueueScore(context.Background(), "c1"))
	err := q.EnqueueScore(context.Background(), "c2")
	assert.ErrorIs(t, err, domain.ErrInternal)
}

func TestQueue_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	q := memqueue.New(1, 1, func(domain.Context, string) error { return nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- q.Run(ctx) }()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestQueue_HandlerErrorDoesNotStopWorkers(t *testing.T) {
	t.Parallel()

	done := make(chan string, 2)
	q := memqueue.New(4, 1, func(_ domain.Context, id string) error {
		done <- id
		if id == "bad" {
			return domain.ErrInternal
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = q.Run(ctx) }()

	require.NoError(t, q.EnqueueScore(context.Background(), "bad"))
	require.NoError(t, q.EnqueueScore(context.Background(), "good"))

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("worker stopped after handler error")
		}
	}
}
