package commands

import (
	"github.com/xx25/go-znp"
)

// fakeRaw is a minimal znp.RawLayer double for exercising the façades
// without a real transport, the same shape as the core package's own
// test double.
type fakeRaw struct {
	sent []znp.Frame
	subs []func(znp.Frame)
}

func (f *fakeRaw) Subscribe(fn func(znp.Frame)) func() error {
	f.subs = append(f.subs, fn)
	idx := len(f.subs) - 1
	return func() error {
		f.subs[idx] = nil
		return nil
	}
}

func (f *fakeRaw) Send(frame znp.Frame) error {
	f.sent = append(f.sent, frame)
	return nil
}

func (f *fakeRaw) deliver(frame znp.Frame) {
	for _, s := range f.subs {
		if s != nil {
			s(frame)
		}
	}
}
