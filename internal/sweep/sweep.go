package sweep

import (
	"context"
	"log"
	"sync"
	"time"

	"maeum/backend/internal/ledger"

	"gorm.io/gorm"
)

// Sweeper periodically expires proposals whose deadline passed while still
// undecided. The underlying sweep is an idempotent batch update, so overlap
// with a manual admin trigger or in-flight responses is harmless.
type Sweeper struct {
	db       *gorm.DB
	interval time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	stopped chan struct{}
}

// New creates a Sweeper over the given database.
func New(db *gorm.DB, interval time.Duration) *Sweeper {
	return &Sweeper{db: db, interval: interval}
}

// Run performs a single sweep and returns how many proposals were expired.
func (s *Sweeper) Run(ctx context.Context, now time.Time) (int64, error) {
	return ledger.ExpireStale(ctx, s.db, now)
}

// Start launches the background loop. It sweeps once immediately, then on
// every tick until Stop is called.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.stopped = make(chan struct{})

	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.sweepOnce()
		for {
			select {
			case <-ticker.C:
				s.sweepOnce()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the background loop and waits for it to exit.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.stopped
	s.stop = nil
	s.stopped = nil
}

func (s *Sweeper) sweepOnce() {
	expired, err := s.Run(context.Background(), time.Now())
	if err != nil {
		log.Printf("Expiry sweep failed: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("Expiry sweep: %d proposal(s) expired", expired)
	}
}
