// Package scheduler runs the daily resin fan-out inside the server process
// for deployments without an external cron trigger.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"
)

// ResinJob is the part of the resin ledger the scheduler drives.
type ResinJob interface {
	Today() string
	CreateTodayPoolsForAll(ctx context.Context) (int, error)
}

type ResinScheduler struct {
	job      ResinJob
	interval time.Duration

	mu      sync.Mutex
	lastDay string

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewResinScheduler(job ResinJob, interval time.Duration) *ResinScheduler {
	return &ResinScheduler{
		job:      job,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (s *ResinScheduler) Start() {
	s.tick()
	go s.loop()
	log.Println("[ResinScheduler] started")
}

// Stop ends the loop and waits for an in-flight run to finish. It is safe to
// call more than once.
func (s *ResinScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		<-s.doneCh
		log.Println("[ResinScheduler] stopped")
	})
}

func (s *ResinScheduler) loop() {
	defer close(s.doneCh)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick runs the fan-out once per event day. A failed run is retried on the
// next tick.
func (s *ResinScheduler) tick() {
	day := s.job.Today()

	s.mu.Lock()
	defer s.mu.Unlock()
	if day == s.lastDay {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	n, err := s.job.CreateTodayPoolsForAll(ctx)
	if err != nil {
		log.Printf("[ResinScheduler] %s: %v", day, err)
		return
	}
	s.lastDay = day
	log.Printf("[ResinScheduler] %s: %d pools ensured", day, n)
}
