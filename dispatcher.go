package znp

import "go.uber.org/zap"

// action is what a handler reports back to the dispatcher after seeing a
// frame: whether dispatch should stop walking the list, and whether the
// handler should be spliced out.
type action struct {
	stop   bool
	remove bool
}

// handler is one entry on the dispatcher's ordered list. Implementations
// are pendingRequest (tracker.go), waiter (waiter.go), and eventHandler
// (events.go).
type handler interface {
	onFrame(f Frame) action
}

// dispatcher owns the ordered handler list and is the only thing that
// mutates it. It holds no lock of its own: the Mediator calls deliver
// (from the goroutine reading the RawLayer) and install (from request
// goroutines) only while holding Mediator.mu.
type dispatcher struct {
	handlers []handler
	logger   *zap.Logger
	metrics  *metrics
}

func newDispatcher(logger *zap.Logger, m *metrics) *dispatcher {
	return &dispatcher{logger: logger, metrics: m}
}

// install appends a handler at the tail of the list. Event handlers are
// installed at construction time (NewMediator in znp.go); per-request handlers
// (pendingRequest, waiter) are appended at call time and therefore always
// sit after the permanent event handlers.
func (d *dispatcher) install(h handler) {
	d.handlers = append(d.handlers, h)
}

// deliver walks the handler list in order for one inbound frame. Handlers
// appended during this call (by onFrame itself installing a follow-up
// waiter, for instance) do not see the current frame — the loop below
// snapshots the length before iterating.
//
// A panicking handler is caught and logged so one misbehaving handler
// cannot tear down the dispatch loop.
func (d *dispatcher) deliver(f Frame) {
	n := len(d.handlers)
	claimed := false
	kept := d.handlers[:0:0]
	stoppedEarly := false

	for i := 0; i < n; i++ {
		h := d.handlers[i]
		act := d.safeInvoke(h, f)
		if act.stop {
			claimed = true
		}
		if !act.remove {
			kept = append(kept, h)
		}
		if act.stop {
			// Copy the remainder of the list untouched, including any
			// handler installed during this delivery (an onFrame that
			// calls d.install appends to the live slice, past index n),
			// then stop.
			kept = append(kept, d.handlers[i+1:]...)
			stoppedEarly = true
			break
		}
	}
	if !stoppedEarly {
		// Every original entry through n-1 was visited above without a
		// stop. A handler installed mid-delivery by a non-stop invocation
		// still lives past index n in d.handlers and must be carried
		// over here, or it silently vanishes before the next frame.
		kept = append(kept, d.handlers[n:]...)
	}
	d.handlers = kept

	if d.metrics != nil {
		if claimed {
			d.metrics.framesDispatched.WithLabelValues(f.Type.String()).Inc()
		} else {
			d.metrics.framesDiscarded.Inc()
		}
	}
	if !claimed {
		d.logger.Debug("frame discarded: no handler claimed it", zap.Stringer("frame", f))
	}
}

func (d *dispatcher) safeInvoke(h handler, f Frame) (act action) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("handler panicked during dispatch", zap.Any("recover", r), zap.Stringer("frame", f))
			act = action{}
		}
	}()
	return h.onFrame(f)
}
