package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeJob struct {
	mu   sync.Mutex
	day  string
	runs []string
	err  error
}

func (f *fakeJob) Today() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.day
}

func (f *fakeJob) CreateTodayPoolsForAll(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.runs = append(f.runs, f.day)
	return 3, nil
}

func (f *fakeJob) set(day string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.day, f.err = day, err
}

func (f *fakeJob) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runs)
}

func TestTickRunsOncePerDay(t *testing.T) {
	job := &fakeJob{day: "2024-07-01"}
	s := NewResinScheduler(job, time.Hour)

	s.tick()
	s.tick()
	if job.count() != 1 {
		t.Fatalf("runs = %d, want 1", job.count())
	}

	job.set("2024-07-02", nil)
	s.tick()
	if job.count() != 2 || job.runs[1] != "2024-07-02" {
		t.Errorf("runs = %v", job.runs)
	}
}

func TestTickRetriesAfterFailure(t *testing.T) {
	job := &fakeJob{day: "2024-07-01", err: errors.New("db down")}
	s := NewResinScheduler(job, time.Hour)

	s.tick()
	if job.count() != 0 {
		t.Fatalf("runs = %d, want 0", job.count())
	}
	job.set("2024-07-01", nil)
	s.tick()
	if job.count() != 1 {
		t.Errorf("runs = %d, want 1 after recovery", job.count())
	}
}

func TestStartStop(t *testing.T) {
	job := &fakeJob{day: "2024-07-01"}
	s := NewResinScheduler(job, 5*time.Millisecond)
	s.Start()
	if job.count() != 1 {
		t.Errorf("runs after start = %d, want 1", job.count())
	}
	time.Sleep(30 * time.Millisecond)
	s.Stop()
	if job.count() != 1 {
		t.Errorf("runs = %d, want 1 within one day", job.count())
	}
}

func TestStopTwice(t *testing.T) {
	job := &fakeJob{day: "2024-07-01"}
	s := NewResinScheduler(job, time.Hour)
	s.Start()

	done := make(chan struct{})
	go func() {
		s.Stop()
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second Stop blocked")
	}
}
