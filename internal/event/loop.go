// Package event provides the single-threaded loop the compositor core runs
// on. All state mutation happens from callbacks dispatched by one Loop, so
// the core needs no locking.
package event

import (
	"context"
	"sync"
	"time"
)

// Timer is a one-shot timer owned by the entity that armed it. Stop is
// idempotent; Update re-arms.
type Timer interface {
	Update(d time.Duration)
	Stop()
}

// Clock schedules timers. The production implementation is Loop; tests use
// ManualClock to step time explicitly.
type Clock interface {
	AddTimer(fn func()) Timer
}

// Loop serializes callbacks onto a single goroutine.
type Loop struct {
	ch   chan func()
	done chan struct{}
}

func NewLoop() *Loop {
	return &Loop{
		ch:   make(chan func(), 64),
		done: make(chan struct{}),
	}
}

// Post queues fn for execution on the loop goroutine.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
	case l.ch <- fn:
	}
}

// Run dispatches callbacks until the context is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.ch:
			fn()
		}
	}
}

type loopTimer struct {
	loop *Loop
	fn   func()

	mu    sync.Mutex
	t     *time.Timer
	gen   uint64
	armed bool
}

// AddTimer returns a disarmed timer firing fn on the loop goroutine.
func (l *Loop) AddTimer(fn func()) Timer {
	return &loopTimer{loop: l, fn: fn}
}

func (t *loopTimer) Update(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	gen := t.gen
	if t.t != nil {
		t.t.Stop()
	}
	t.armed = true
	t.t = time.AfterFunc(d, func() {
		t.loop.Post(func() {
			t.mu.Lock()
			stale := gen != t.gen || !t.armed
			if !stale {
				t.armed = false
			}
			t.mu.Unlock()
			if !stale {
				t.fn()
			}
		})
	})
}

func (t *loopTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.armed = false
	if t.t != nil {
		t.t.Stop()
		t.t = nil
	}
}
