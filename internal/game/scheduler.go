package game

import "time"

// Timer is a pending scheduled task.
type Timer interface {
	// Stop cancels the task. It reports false if the task already ran or was stopped.
	Stop() bool
}

// Scheduler runs delayed tasks. The engine uses it for the pause between a
// guess and the next round (or the retry on the same round).
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// realScheduler schedules tasks on the runtime timer.
type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler queues tasks until Advance or RunAll is called.
// It is meant for tests and tools that need deterministic timing.
type ManualScheduler struct {
	now   time.Duration
	tasks []*manualTask
}

type manualTask struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTask) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// NewManualScheduler creates an empty manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc queues f to run once d has elapsed on the manual clock.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTask{at: s.now + d, f: f}
	s.tasks = append(s.tasks, t)
	return t
}

// Pending returns the number of queued tasks that have neither run nor been stopped.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d and runs every task that became due,
// in scheduling order. Tasks scheduled while advancing run if they are due too.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.now += d
	for {
		t := s.nextDue()
		if t == nil {
			return
		}
		t.fired = true
		t.f()
	}
}

// RunAll runs queued tasks until none remain, regardless of their delay.
func (s *ManualScheduler) RunAll() {
	for {
		var next *manualTask
		for _, t := range s.tasks {
			if !t.stopped && !t.fired {
				next = t
				break
			}
		}
		if next == nil {
			return
		}
		if next.at > s.now {
			s.now = next.at
		}
		next.fired = true
		next.f()
	}
}

func (s *ManualScheduler) nextDue() *manualTask {
	for _, t := range s.tasks {
		if !t.stopped && !t.fired && t.at <= s.now {
			return t
		}
	}
	return nil
}
