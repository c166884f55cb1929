package lookup

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	DefaultResultTTL     = time.Hour
	DefaultSweepSchedule = "@every 10m"
)

// Sweeper periodically evicts completed entries older than the result TTL
// from the queue, so results for long-abandoned selections do not accumulate.
type Sweeper struct {
	queue    *Queue
	ttl      time.Duration
	schedule string
	cron     *cron.Cron
}

func NewSweeper(queue *Queue, ttl time.Duration, schedule string) *Sweeper {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	return &Sweeper{
		queue:    queue,
		ttl:      ttl,
		schedule: schedule,
	}
}

// Start schedules periodic sweeps until Stop is called.
func (s *Sweeper) Start() error {
	if s.cron != nil {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() {
		s.SweepOnce()
	}); err != nil {
		return fmt.Errorf("cron.AddFunc(%s) > %w", s.schedule, err)
	}
	c.Start()
	s.cron = c
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
}

// SweepOnce runs a single sweep immediately and returns how many entries were
// evicted.
func (s *Sweeper) SweepOnce() int {
	removed := s.queue.SweepExpired(s.ttl)
	if removed > 0 {
		slog.Default().Debug("lookup queue sweep", "removed", removed, "ttl", s.ttl)
	}
	return removed
}
