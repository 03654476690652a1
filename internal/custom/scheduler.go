package custom

import (
	"sort"
	"sync"
	"time"
)

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. Returns false if it already fired or was stopped.
	Stop() bool
}

// Scheduler runs callbacks after a delay. Tests drive it with [FakeScheduler].
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

// NewScheduler returns a [Scheduler] backed by [time.AfterFunc].
func NewScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// FakeScheduler is a manually advanced [Scheduler].
//
// Callbacks run synchronously inside Advance in deadline order. Callbacks may schedule new timers
// but must not call Advance.
type FakeScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	waiters []*fakeTimer
}

type fakeTimer struct {
	scheduler *FakeScheduler
	deadline  time.Duration
	callback  func()
	stopped   bool
	fired     bool
}

// NewFakeScheduler returns a [FakeScheduler] at time zero.
func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{}
}

func (s *FakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &fakeTimer{scheduler: s, deadline: s.now + d, callback: f}
	s.waiters = append(s.waiters, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.scheduler.mu.Lock()
	defer t.scheduler.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward by d and fires every timer whose deadline has passed.
func (s *FakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	target := s.now

	var due []*fakeTimer
	remaining := s.waiters[:0]
	for _, w := range s.waiters {
		switch {
		case w.stopped:
		case w.deadline <= target:
			w.fired = true
			due = append(due, w)
		default:
			remaining = append(remaining, w)
		}
	}
	s.waiters = remaining
	s.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].deadline < due[j].deadline })
	for _, w := range due {
		w.callback()
	}
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (s *FakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, w := range s.waiters {
		if !w.stopped && !w.fired {
			n++
		}
	}
	return n
}
