package sweeper

import (
	"context"
	"log"
	"time"
)

// HoldExpirer is the slice of the store the sweeper needs: list overdue
// holds, then release them one at a time.
type HoldExpirer interface {
	ExpireDueHolds(ctx context.Context, limit int) ([]string, error)
	ExpireHold(ctx context.Context, holdID string) (bool, error)
}

// Sweeper periodically finds active holds whose TTL has elapsed and
// releases their capacity. Each hold is released in its own transaction by
// a small pool of workers, so one slow release never blocks the rest of
// the batch, and a hold that was converted in the meantime is simply
// skipped (the conditional status flip in the store decides the winner).
type Sweeper struct {
	store     HoldExpirer
	interval  time.Duration
	batchSize int
	workers   int
	jobs      chan string
}

// New creates a sweeper. It does nothing until Run is called.
func New(store HoldExpirer, interval time.Duration, batchSize, workers int) *Sweeper {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Sweeper{
		store:     store,
		interval:  interval,
		batchSize: batchSize,
		workers:   workers,
		jobs:      make(chan string, workers),
	}
}

// Run starts the worker pool and the sweep loop, blocking until ctx is
// cancelled. One sweep runs immediately on startup to clear any backlog
// left over from a previous process.
func (s *Sweeper) Run(ctx context.Context) {
	log.Printf("Expiry sweeper starting: interval=%s batch=%d workers=%d", s.interval, s.batchSize, s.workers)

	for i := 0; i < s.workers; i++ {
		go s.worker(ctx, i)
	}

	s.SweepOnce(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Expiry sweeper shutting down.")
			return
		case <-timer.C:
			s.SweepOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

// SweepOnce performs a single sweep cycle: find due holds and dispatch
// them to the workers.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	ids, err := s.store.ExpireDueHolds(ctx, s.batchSize)
	if err != nil {
		log.Printf("Error finding expired holds: %v", err)
		return
	}
	if len(ids) == 0 {
		return
	}

	log.Printf("Sweeping %d expired holds", len(ids))
	for _, id := range ids {
		select {
		case s.jobs <- id:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Sweeper) worker(ctx context.Context, id int) {
	for {
		select {
		case holdID := <-s.jobs:
			released, err := s.store.ExpireHold(ctx, holdID)
			if err != nil {
				log.Printf("Worker %d: error expiring hold %s: %v", id, holdID, err)
				continue
			}
			if released {
				log.Printf("Worker %d: hold %s expired, capacity released", id, holdID)
			}
		case <-ctx.Done():
			return
		}
	}
}
