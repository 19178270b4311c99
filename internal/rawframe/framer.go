// Package rawframe is a reference RawLayer implementation: SOF/length/FCS
// byte framing over io.ReadWriter, using a bufio-wrapped reader with an
// idle-goroutine decode loop. This framing is out of scope for the core
// mediator; it lives here so the core has something runnable to sit on
// top of, and so it can be swapped independently of the core.
package rawframe

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/xx25/go-znp"
)

const (
	sof        = 0xFE
	maxPayload = 250
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("rawframe: closed")

// Framer implements znp.RawLayer over an io.ReadWriter such as a serial
// port or net.Conn. One goroutine reads frames and fans them out to
// subscribers; Send serializes writers with a mutex, since the raw
// transport is the only shared external resource.
type Framer struct {
	rw     io.ReadWriter
	r      *bufio.Reader
	logger *zap.Logger

	writeMu sync.Mutex

	subMu sync.Mutex
	subs  []func(znp.Frame)

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	closeOnce sync.Once
	closed    bool
}

// New wraps rw and starts the read loop. Callers call Close when done,
// and close rw, to stop the read goroutine.
func New(rw io.ReadWriter, logger *zap.Logger) *Framer {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	f := &Framer{
		rw:     rw,
		r:      bufio.NewReaderSize(rw, 4096),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go f.readLoop()
	return f
}

// Subscribe implements znp.RawLayer.
func (f *Framer) Subscribe(fn func(znp.Frame)) func() error {
	f.subMu.Lock()
	defer f.subMu.Unlock()
	f.subs = append(f.subs, fn)
	idx := len(f.subs) - 1
	return func() error {
		f.subMu.Lock()
		defer f.subMu.Unlock()
		if idx < len(f.subs) {
			f.subs[idx] = nil
		}
		return nil
	}
}

// Send implements znp.RawLayer: SOF, LEN, CMD0, CMD1, payload, FCS.
func (f *Framer) Send(frame znp.Frame) error {
	if len(frame.Payload) > maxPayload {
		return fmt.Errorf("rawframe: payload too large: %d bytes", len(frame.Payload))
	}

	f.writeMu.Lock()
	defer f.writeMu.Unlock()
	if f.closed {
		return ErrClosed
	}

	cmd0 := encodeCmd0(frame.Type, frame.Command.Subsystem)
	cmd1 := frame.Command.ID
	buf := make([]byte, 0, len(frame.Payload)+5)
	buf = append(buf, sof, byte(len(frame.Payload)), cmd0, cmd1)
	buf = append(buf, frame.Payload...)
	buf = append(buf, fcs(buf[1:]))

	_, err := f.rw.Write(buf)
	return err
}

// Close marks the framer closed, so Send fails with ErrClosed, and tells
// the read loop to stop. It does not wait for the loop: a read already
// blocked on rw is not interrupted, and the loop exits once that read
// returns (closing rw makes it return).
func (f *Framer) Close() error {
	f.closeOnce.Do(func() {
		f.writeMu.Lock()
		f.closed = true
		f.writeMu.Unlock()
		f.cancel()
	})
	return nil
}

func (f *Framer) readLoop() {
	defer close(f.done)
	for {
		if f.ctx.Err() != nil {
			return
		}
		frame, err := f.readFrame()
		if err != nil {
			if f.ctx.Err() == nil {
				f.logger.Debug("rawframe: read loop exiting", zap.Error(err))
			}
			return
		}
		f.fanOut(frame)
	}
}

func (f *Framer) fanOut(frame znp.Frame) {
	f.subMu.Lock()
	subs := make([]func(znp.Frame), 0, len(f.subs))
	for _, s := range f.subs {
		if s != nil {
			subs = append(subs, s)
		}
	}
	f.subMu.Unlock()

	for _, s := range subs {
		s(frame)
	}
}

func (f *Framer) readFrame() (znp.Frame, error) {
	// Scan for SOF, discarding anything else (noise between frames).
	for {
		b, err := f.r.ReadByte()
		if err != nil {
			return znp.Frame{}, err
		}
		if b == sof {
			break
		}
		f.logger.Debug("rawframe: discarding byte before SOF", zap.Uint8("byte", b))
	}

	length, err := f.r.ReadByte()
	if err != nil {
		return znp.Frame{}, err
	}
	header := make([]byte, 2+int(length)+1) // cmd0, cmd1, payload..., fcs
	if _, err := io.ReadFull(f.r, header); err != nil {
		return znp.Frame{}, err
	}

	body := header[:2+int(length)]
	gotFCS := header[len(header)-1]
	wantFCS := fcs(append([]byte{length}, body...))
	if gotFCS != wantFCS {
		return znp.Frame{}, fmt.Errorf("rawframe: FCS mismatch: got 0x%02x want 0x%02x", gotFCS, wantFCS)
	}

	typ, subsystem := decodeCmd0(body[0])
	return znp.Frame{
		Type:    typ,
		Command: znp.Command{Subsystem: subsystem, ID: body[1]},
		Payload: append([]byte(nil), body[2:]...),
	}, nil
}

func encodeCmd0(t znp.FrameType, s znp.Subsystem) byte {
	return (byte(t) << 5) | (byte(s) & 0x1F)
}

func decodeCmd0(cmd0 byte) (znp.FrameType, znp.Subsystem) {
	return znp.FrameType(cmd0 >> 5), znp.Subsystem(cmd0 & 0x1F)
}

func fcs(b []byte) byte {
	var x byte
	for _, c := range b {
		x ^= c
	}
	return x
}
