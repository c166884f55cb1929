package lookup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeper_SweepOnce(t *testing.T) {
	queue := NewQueue(context.Background(), fetcherFunc(func(ctx context.Context, entry QueuedEntry) (*Result, error) {
		return &Result{Definition: "def"}, nil
	}))

	ready := waitForStatus(t, queue, DeriveKey(1, "eager", "The eager student arrived early."), StatusReady)
	queue.Enqueue("eager", "The eager student arrived early.", 1, "en")
	requireSignal(t, ready, "entry never became ready")

	sweeper := NewSweeper(queue, time.Hour, "@every 10m")
	assert.Equal(t, 0, sweeper.SweepOnce(), "fresh entries must survive a sweep")

	queue.mu.Lock()
	for _, entry := range queue.entries {
		entry.FetchCompletedAt = time.Now().Add(-2 * time.Hour)
	}
	queue.mu.Unlock()

	assert.Equal(t, 1, sweeper.SweepOnce())
	_, ok := queue.GetStatus("eager", "The eager student arrived early.", 1)
	assert.False(t, ok)
}

func TestSweeper_StartStop(t *testing.T) {
	queue := NewQueue(context.Background(), fetcherFunc(func(ctx context.Context, entry QueuedEntry) (*Result, error) {
		return &Result{}, nil
	}))

	sweeper := NewSweeper(queue, time.Hour, "@every 1h")
	require.NoError(t, sweeper.Start())
	// Start is idempotent.
	require.NoError(t, sweeper.Start())
	sweeper.Stop()
	// Stop is idempotent too.
	sweeper.Stop()
}

func TestSweeper_invalidSchedule(t *testing.T) {
	queue := NewQueue(context.Background(), fetcherFunc(func(ctx context.Context, entry QueuedEntry) (*Result, error) {
		return &Result{}, nil
	}))

	sweeper := NewSweeper(queue, time.Hour, "not a schedule")
	assert.Error(t, sweeper.Start())
}

func TestNewSweeper_defaults(t *testing.T) {
	sweeper := NewSweeper(nil, 0, "")
	assert.Equal(t, DefaultResultTTL, sweeper.ttl)
	assert.Equal(t, DefaultSweepSchedule, sweeper.schedule)
}
