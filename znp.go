package znp

import (
	"context"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Config controls mediator behavior. A zero-value Config is valid:
// NewMediator copies it and defaults() fills the unset fields of that copy.
type Config struct {
	// DefaultWaitTimeout defaults to 6s. Nothing in this module reads it:
	// WaitFor, WaitForMatch, WaitAfter and the commands/ façades (AF
	// DataRequest included) all take their timeout as an argument.
	DefaultWaitTimeout time.Duration
	// Logger receives dispatcher/tracker/waiter/event diagnostics. A
	// zap production logger is used when nil.
	Logger *zap.Logger
}

func (c *Config) defaults() {
	if c.DefaultWaitTimeout <= 0 {
		c.DefaultWaitTimeout = 6 * time.Second
	}
	if c.Logger == nil {
		c.Logger = newDefaultLogger()
	}
}

// Mediator is a single long-lived object composed of a frame dispatcher,
// request tracker, event router, and timed waiter, all operating over one
// RawLayer.
type Mediator struct {
	raw    RawLayer
	cfg    Config
	logger *zap.Logger

	mu       sync.Mutex
	dispatch *dispatcher
	events   *eventRouter
	metrics  *metrics

	ctx       context.Context
	cancel    context.CancelFunc
	unsubRaw  func() error
	closeOnce sync.Once
}

// NewMediator constructs the API mediator over raw, installing the
// permanent event routes before returning: event handlers installed at
// construction come first, ahead of any per-request handler.
func NewMediator(raw RawLayer, cfg *Config) *Mediator {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	c.defaults()

	ctx, cancel := context.WithCancel(context.Background())

	m := &Mediator{
		raw:     raw,
		cfg:     c,
		logger:  c.Logger,
		events:  &eventRouter{},
		metrics: newMetrics(),
		ctx:     ctx,
		cancel:  cancel,
	}
	m.dispatch = newDispatcher(c.Logger, m.metrics)
	m.installEventRoutes()

	m.unsubRaw = raw.Subscribe(m.onRawFrame)
	return m
}

// onRawFrame is the single entry point for every inbound frame the raw
// layer decodes. It holds m.mu for the duration of dispatch, which is
// what lets a pendingRequest's onComplete continuation (see WaitAfter)
// install a follow-up waiter synchronously, inside the same dispatch call,
// with no window where the next frame could arrive unobserved.
func (m *Mediator) onRawFrame(f Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatch.deliver(f)
}

// RawSend transmits f directly through the raw layer without installing
// any tracker or waiter. Façades use this for fire-and-forget AREQs (e.g.
// SYS_RESET_REQ) whose acknowledgement, if any, arrives as a separate
// event rather than an SRSP.
func (m *Mediator) RawSend(f Frame) error {
	return m.raw.Send(f)
}

// Close tears down the mediator: unsubscribes from the raw layer, fails
// every outstanding pending request and waiter with *TransportError (so
// nothing is left blocked forever), and cancels the context any
// outstanding Wait calls are selecting on.
// The returned error is the raw-layer unsubscribe error combined via
// multierr with failOutstanding's result, which is always nil; the forced
// failures reach each waiting caller, not Close's return value.
func (m *Mediator) Close() error {
	var err error
	m.closeOnce.Do(func() {
		if m.unsubRaw != nil {
			err = multierr.Append(err, m.unsubRaw())
		}
		err = multierr.Append(err, m.failOutstanding())
		m.cancel()
	})
	return err
}

// failOutstanding resolves every still-installed pendingRequest and waiter
// with a TransportError, so Close never leaves a caller blocked on a
// future that will now never be fulfilled by a frame.
func (m *Mediator) failOutstanding() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	teardown := &TransportError{Err: errMediatorClosed}
	for _, h := range m.dispatch.handlers {
		switch v := h.(type) {
		case *pendingRequest:
			v.future.complete(result{err: teardown})
		case *waiter:
			if v.claim() {
				v.future.complete(result{err: teardown})
			}
		}
	}
	m.dispatch.handlers = nil
	return nil
}
