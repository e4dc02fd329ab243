// Package mainthread serializes work onto a single UI execution context.
package mainthread

import (
	"context"
	"sync"
)

// Dispatcher hands work to the UI execution context. Post must not block on
// the work itself.
type Dispatcher interface {
	Post(fn func())
}

// Inline runs posted work on the caller's goroutine. Useful for tests and for
// hosts that already deliver every call on their UI thread.
type Inline struct{}

func (Inline) Post(fn func()) { fn() }

// Loop is a FIFO of work drained by one goroutine. Posts after Close are
// dropped.
type Loop struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []func()
	head   int
	closed bool
}

func NewLoop() *Loop {
	loop := &Loop{}
	loop.cond = sync.NewCond(&loop.mu)
	return loop
}

func (loop *Loop) Post(fn func()) {
	loop.mu.Lock()
	defer loop.mu.Unlock()
	if loop.closed {
		return
	}
	loop.items = append(loop.items, fn)
	loop.cond.Signal()
}

// Run executes posted work in order until Close is called or ctx is done.
// Work already queued when Close is called still runs.
func (loop *Loop) Run(ctx context.Context) {
	stop := context.AfterFunc(ctx, loop.Close)
	defer stop()
	for {
		fn, ok := loop.pop()
		if !ok {
			return
		}
		fn()
	}
}

func (loop *Loop) Close() {
	loop.mu.Lock()
	loop.closed = true
	loop.cond.Broadcast()
	loop.mu.Unlock()
}

func (loop *Loop) pop() (func(), bool) {
	loop.mu.Lock()
	defer loop.mu.Unlock()

	for !loop.closed && loop.head >= len(loop.items) {
		loop.cond.Wait()
	}
	if loop.head >= len(loop.items) {
		return nil, false
	}

	fn := loop.items[loop.head]
	loop.items[loop.head] = nil
	loop.head++
	loop.compact()
	return fn, true
}

func (loop *Loop) compact() {
	if loop.head < 1024 && loop.head*2 < len(loop.items) {
		return
	}
	remaining := len(loop.items) - loop.head
	copy(loop.items[:remaining], loop.items[loop.head:])
	loop.items = loop.items[:remaining]
	loop.head = 0
}
