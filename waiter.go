package znp

import (
	"bytes"
	"sync/atomic"
	"time"
)

// waiter is the handler plus timer pair used for
// AREQ follow-ups (DATA_CONFIRM after DATA_REQUEST) by WaitFor,
// WaitForMatch and WaitAfter. active mediates the race between a matching frame and the timer
// firing; whichever flips it first wins, the other is silently ignored.
type waiter struct {
	typ       FrameType
	cmd       Command
	prefix    []byte
	predicate func(Frame) bool // if set, overrides prefix matching (WaitForMatch)
	future    *future
	timer     *time.Timer
	active    atomic.Bool
	metrics   *metrics
}

// claim is the single compare-and-swap both onFrame and onTimeout race on.
// Exactly one of them observes true.
func (w *waiter) claim() bool {
	return w.active.CompareAndSwap(true, false)
}

func (w *waiter) onFrame(f Frame) action {
	if f.Type != w.typ || f.Command != w.cmd {
		return action{}
	}
	if w.predicate != nil {
		if !w.predicate(f) {
			return action{}
		}
	} else if len(w.prefix) > 0 {
		if len(f.Payload) < len(w.prefix) || !bytes.Equal(f.Payload[:len(w.prefix)], w.prefix) {
			return action{}
		}
	}

	if !w.claim() {
		// Timer already fired; we're stale, remove ourselves without claiming.
		return action{remove: true}
	}
	if w.timer != nil {
		w.timer.Stop()
	}

	var payload []byte
	if len(w.prefix) > 0 {
		payload = f.Payload[len(w.prefix):]
	} else {
		payload = f.Payload
	}
	w.future.complete(result{payload: payload})
	return action{stop: true, remove: true}
}

func (w *waiter) onTimeout() {
	if !w.claim() {
		return
	}
	if w.metrics != nil {
		w.metrics.waiterTimeouts.Inc()
	}
	w.future.complete(result{err: &TimeoutError{Type: w.typ, Command: w.cmd}})
}

// newWaiter constructs a waiter and, if timeout > 0, arms its timer.
// timeout <= 0 installs the handler with no timer: it remains in the
// handler list until matched.
func newWaiter(typ FrameType, cmd Command, timeout time.Duration, prefix []byte, predicate func(Frame) bool, m *metrics) *waiter {
	w := &waiter{typ: typ, cmd: cmd, prefix: prefix, predicate: predicate, future: newFuture(), metrics: m}
	w.active.Store(true)
	if timeout > 0 {
		w.timer = time.AfterFunc(timeout, w.onTimeout)
	}
	return w
}

// WaitFor installs a handler that claims a frame
// of the given (type, command) whose payload starts with prefix, resolving
// to payload[len(prefix):] when prefix is non-empty or the whole payload
// otherwise. timeout<=0 disables the timer.
func (m *Mediator) WaitFor(typ FrameType, cmd Command, timeout time.Duration, prefix []byte) *future {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.installWaiterLocked(typ, cmd, timeout, prefix, nil)
}

// WaitForMatch is the predicate-based generalization of WaitFor: a
// caller-supplied decoder/predicate over the decoded frame replaces
// fixed-prefix matching, letting
// commands/af.go claim DATA_CONFIRM by trans_id (and check the endpoint
// afterwards) without teaching the dispatcher core about AF's field layout.
// The resolved value is the whole payload.
func (m *Mediator) WaitForMatch(typ FrameType, cmd Command, timeout time.Duration, predicate func(Frame) bool) *future {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.installWaiterLocked(typ, cmd, timeout, nil, predicate)
}

// installWaiterLocked assumes m.mu is already held (either by WaitFor's own
// lock, or because it's being called as a WaitAfter continuation running
// inside the dispatch of the completing antecedent frame).
func (m *Mediator) installWaiterLocked(typ FrameType, cmd Command, timeout time.Duration, prefix []byte, predicate func(Frame) bool) *future {
	w := newWaiter(typ, cmd, timeout, prefix, predicate, m.metrics)
	m.dispatch.install(w)
	return w.future
}

// WaitAfter is the sequenced variant of WaitFor: the WaitFor
// handler is installed only once first resolves, and only if it resolved
// successfully. Because the installation runs as a continuation on first
// (see future.onComplete), it happens inside the same dispatch call that
// completed first — so an AREQ follow-up arriving immediately after, say,
// an SRSP is still caught, with no window where the waiter isn't armed yet.
func (m *Mediator) WaitAfter(first *future, typ FrameType, cmd Command, timeout time.Duration, prefix []byte) *future {
	composed := newFuture()
	first.onComplete(func(r result) {
		if r.err != nil {
			composed.complete(result{err: r.err})
			return
		}
		follow := m.installWaiterLocked(typ, cmd, timeout, prefix, nil)
		follow.onComplete(func(r2 result) {
			composed.complete(r2)
		})
	})
	return composed
}
