package znp

import (
	"context"
	"sync"
)

// result is what a future resolves to: either a payload or a failure,
// never both.
type result struct {
	payload []byte
	err     error
}

// future is the single-shot completion slot a pending request or waiter
// resolves into. It is fulfilled at most once (by the dispatch of a frame,
// a waiter's timer goroutine, a failed Send, or Close); callers
// observe it by blocking on Wait from any goroutine.
type future struct {
	done chan result
	once sync.Once
	then []func(result)
}

func newFuture() *future {
	return &future{done: make(chan result, 1)}
}

// onComplete registers a continuation to run synchronously inside
// complete, before the result is handed to any Wait caller. Must be
// registered before complete is called (no synchronization is provided
// between onComplete and a concurrent complete). This is what lets
// WaitAfter install its follow-up waiter "on the immediate executor": the
// continuation runs inside the same dispatch call that resolved the
// antecedent request, not on a separately scheduled goroutine that could
// lose a race with the next inbound frame.
func (f *future) onComplete(cb func(result)) {
	f.then = append(f.then, cb)
}

// complete fulfills the slot. Subsequent calls are no-ops: this is what
// guarantees every completion slot is fulfilled at most once, even when
// a waiter's timer and a matching frame race.
func (f *future) complete(r result) {
	f.once.Do(func() {
		for _, cb := range f.then {
			cb(r)
		}
		f.done <- r
	})
}

// Wait blocks until the future is resolved or ctx is done.
func (f *future) Wait(ctx context.Context) ([]byte, error) {
	select {
	case r := <-f.done:
		return r.payload, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
