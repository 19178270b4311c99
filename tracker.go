package znp

import (
	"context"

	"go.uber.org/zap"
)

// pendingRequest is the handler installed into the dispatcher for every
// outstanding SREQ. It claims a frame iff the frame is a
// matching SRSP, or an RPC_Error correlated back to one of the accepted
// response commands.
type pendingRequest struct {
	accepted map[Command]struct{}
	future   *future
	logger   *zap.Logger
	metrics  *metrics
}

func (p *pendingRequest) onFrame(f Frame) action {
	if f.Type != SRSP {
		return action{}
	}

	if _, ok := p.accepted[f.Command]; ok {
		p.future.complete(result{payload: f.Payload})
		return action{stop: true, remove: true}
	}

	if f.Command == rpcErrorCommand {
		orig, code, ok := decodeRPCError(f.Payload)
		if !ok {
			p.logger.Warn("malformed RPC_Error payload, treating as unclaimed", zap.Binary("payload", f.Payload))
			return action{}
		}
		if _, ok := p.accepted[orig]; ok {
			if p.metrics != nil {
				p.metrics.rpcErrors.Inc()
			}
			p.future.complete(result{err: &RPCError{Command: orig, Code: code}})
			return action{stop: true, remove: true}
		}
		// Correlates to a different request (or none of ours); let it
		// pass through so a concurrent pendingRequest elsewhere in the
		// list can claim it.
	}

	return action{}
}

// decodeRPCError unpacks the RPC_Error wire layout:
// payload = [error_code, packed, id] where
// packed = (original_subsystem & 0x0F) | (original_type << 4).
// ok is false for a payload too short to contain the triple, or one whose
// reconstructed type is not SREQ (the only kind of original request an
// RPC_Error can legitimately refuse).
func decodeRPCError(payload []byte) (cmd Command, code byte, ok bool) {
	if len(payload) < 3 {
		return Command{}, 0, false
	}
	code = payload[0]
	packed := payload[1]
	id := payload[2]

	origType := FrameType(packed >> 4)
	origSubsystem := Subsystem(packed & 0x0F)
	if origType != SREQ {
		return Command{}, 0, false
	}
	return Command{Subsystem: origSubsystem, ID: id}, code, true
}

// SendSREQ registers a pendingRequest, transmits
// the SREQ, and blocks for its future's resolution. acceptedResponses
// defaults to {cmd} when empty; ties among requests sharing an accepted
// response command are broken by registration order (first registered
// wins), matching the ordered handler-list semantics of the dispatcher.
func (m *Mediator) SendSREQ(cmd Command, payload []byte, acceptedResponses ...Command) ([]byte, error) {
	return m.SendSREQContext(m.ctx, cmd, payload, acceptedResponses...)
}

// SendSREQContext is SendSREQ with a caller-supplied context for
// cancellation in place of the mediator's own lifetime context. Close
// unblocks it either way, by failing the outstanding request.
func (m *Mediator) SendSREQContext(ctx context.Context, cmd Command, payload []byte, acceptedResponses ...Command) ([]byte, error) {
	fut := m.sendSREQAsync(cmd, payload, acceptedResponses...)
	return fut.Wait(ctx)
}

// sendSREQAsync is SendSREQ without the blocking Wait, so that WaitAfter
// can chain a follow-up waiter onto the SREQ's own future.
func (m *Mediator) sendSREQAsync(cmd Command, payload []byte, acceptedResponses ...Command) *future {
	if len(acceptedResponses) == 0 {
		acceptedResponses = []Command{cmd}
	}
	accepted := make(map[Command]struct{}, len(acceptedResponses))
	for _, c := range acceptedResponses {
		accepted[c] = struct{}{}
	}

	fut := newFuture()
	if m.metrics != nil {
		fut.onComplete(func(result) { m.metrics.pendingRequests.Dec() })
	}
	req := &pendingRequest{
		accepted: accepted,
		future:   fut,
		logger:   m.logger,
		metrics:  m.metrics,
	}

	m.mu.Lock()
	m.dispatch.install(req)
	if m.metrics != nil {
		m.metrics.pendingRequests.Inc()
	}
	m.mu.Unlock()

	if err := m.raw.Send(Frame{Type: SREQ, Command: cmd, Payload: payload}); err != nil {
		fut.complete(result{err: &TransportError{Err: err}})
	}
	return fut
}
