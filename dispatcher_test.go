package znp

import (
	"testing"

	"go.uber.org/zap"
)

// Invariant: a handler installed by a non-stop invocation (one that
// doesn't claim the current frame) must still be in the list for the
// next delivery, not just one installed from a stop:true invocation.
func TestDispatcherKeepsHandlerInstalledDuringNonStopInvocation(t *testing.T) {
	d := newDispatcher(zap.NewNop(), nil)

	var installed bool
	d.install(handlerFunc(func(f Frame) action {
		if !installed {
			installed = true
			d.install(handlerFunc(func(Frame) action {
				return action{stop: true, remove: true}
			}))
		}
		return action{} // does not claim, does not stop
	}))

	cmd := Command{Subsystem: SubsystemSYS, ID: 0x01}
	d.deliver(Frame{Type: SRSP, Command: cmd, Payload: []byte{0x01}})
	if len(d.handlers) != 2 {
		t.Fatalf("expected the handler installed mid-delivery to survive, got %d handlers", len(d.handlers))
	}

	var claimed bool
	for _, h := range d.handlers {
		if hf, ok := h.(handlerFunc); ok {
			act := hf(Frame{Type: SRSP, Command: cmd})
			if act.stop {
				claimed = true
			}
		}
	}
	if !claimed {
		t.Fatal("handler installed mid-delivery never claims a later frame")
	}
}
