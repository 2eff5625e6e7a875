// Package schedule runs delayed steps on behalf of a single-threaded owner.
//
// A Scheduler never runs a step concurrently with its owner: Manual runs steps
// inside Advance on the caller's goroutine, and Timers hands each due step to
// a post function that queues it onto the owner's event loop.
package schedule

import (
	"sync"
	"time"
)

type Scheduler interface {
	After(d time.Duration, fn func())
}

type step struct {
	at  time.Duration
	seq uint64
	fn  func()
}

// Manual is a virtual clock for tests. Nothing runs until Advance is called.
type Manual struct {
	now   time.Duration
	seq   uint64
	steps []step
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	m.seq++
	m.steps = append(m.steps, step{at: m.now + d, seq: m.seq, fn: fn})
}

// Advance moves the clock forward by d and runs every step that falls due,
// in due-time order with ties broken by scheduling order. Steps scheduled by
// a running step are eligible in the same call.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		i, ok := m.nextDue(target)
		if !ok {
			break
		}
		s := m.steps[i]
		m.steps = append(m.steps[:i], m.steps[i+1:]...)
		m.now = s.at
		s.fn()
	}
	m.now = target
}

// Flush runs steps until none are left, moving the clock as far as needed.
func (m *Manual) Flush() {
	for len(m.steps) > 0 {
		earliest := m.steps[0].at
		for _, s := range m.steps[1:] {
			earliest = min(earliest, s.at)
		}
		m.Advance(earliest - m.now)
	}
}

func (m *Manual) Pending() int { return len(m.steps) }

func (m *Manual) Now() time.Duration { return m.now }

func (m *Manual) nextDue(target time.Duration) (int, bool) {
	best := -1
	for i, s := range m.steps {
		if s.at > target {
			continue
		}
		if best == -1 || m.before(s, m.steps[best]) {
			best = i
		}
	}
	return best, best != -1
}

func (m *Manual) before(a, b step) bool {
	if a.at != b.at {
		return a.at < b.at
	}
	return a.seq < b.seq
}

// Timers schedules steps on the wall clock. When a step falls due it is handed
// to post, which must queue it for the owner's goroutine.
type Timers struct {
	mu      sync.Mutex
	post    func(fn func())
	next    uint64
	pending map[uint64]*time.Timer
	stopped bool
}

func NewTimers(post func(fn func())) *Timers {
	return &Timers{
		post:    post,
		pending: make(map[uint64]*time.Timer),
	}
}

func (t *Timers) After(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}

	id := t.next
	t.next++
	// The callback blocks on mu until this registration finishes, even for d == 0.
	t.pending[id] = time.AfterFunc(d, func() {
		t.mu.Lock()
		_, ok := t.pending[id]
		delete(t.pending, id)
		t.mu.Unlock()
		if ok {
			t.post(fn)
		}
	})
}

// Stop cancels every pending step. Later calls to After are ignored.
func (t *Timers) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	for id, timer := range t.pending {
		timer.Stop()
		delete(t.pending, id)
	}
}

func (t *Timers) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}
