package rawframe

import (
	"io"

	"go.uber.org/zap"
)

// Loopback returns two connected Framers sharing an in-memory pipe, for
// tests that want a real (de)framing round trip without an actual serial
// port.
func Loopback(logger *zap.Logger) (a, b *Framer) {
	r1, w1 := io.Pipe()
	r2, w2 := io.Pipe()
	a = New(pipeRW{r: r1, w: w2}, logger)
	b = New(pipeRW{r: r2, w: w1}, logger)
	return a, b
}

type pipeRW struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func (p pipeRW) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p pipeRW) Write(b []byte) (int, error) { return p.w.Write(b) }
