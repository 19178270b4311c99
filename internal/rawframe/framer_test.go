package rawframe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xx25/go-znp"
)

func TestLoopbackSendReceive(t *testing.T) {
	a, b := Loopback(nil)
	defer a.Close()
	defer b.Close()

	received := make(chan znp.Frame, 1)
	unsub := b.Subscribe(func(f znp.Frame) { received <- f })
	defer unsub()

	frame := znp.Frame{
		Type:    znp.SREQ,
		Command: znp.Command{Subsystem: znp.SubsystemSYS, ID: 0x01},
		Payload: []byte{0xDE, 0xAD, 0xBE, 0xEF},
	}
	require.NoError(t, a.Send(frame))

	select {
	case got := <-received:
		require.Equal(t, frame.Type, got.Type)
		require.Equal(t, frame.Command, got.Command)
		require.Equal(t, frame.Payload, got.Payload)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
	}
}

func TestSendRejectsOversizedPayload(t *testing.T) {
	a, b := Loopback(nil)
	defer a.Close()
	defer b.Close()

	big := make([]byte, maxPayload+1)
	err := a.Send(znp.Frame{Type: znp.AREQ, Command: znp.Command{Subsystem: znp.SubsystemAF, ID: 0x81}, Payload: big})
	require.Error(t, err)
}

func TestSendAfterCloseFails(t *testing.T) {
	a, b := Loopback(nil)
	defer b.Close()
	require.NoError(t, a.Close())

	err := a.Send(znp.Frame{Type: znp.AREQ, Command: znp.Command{Subsystem: znp.SubsystemSYS, ID: 0x01}})
	require.ErrorIs(t, err, ErrClosed)
}

func TestCmd0RoundTrip(t *testing.T) {
	for _, tc := range []struct {
		typ znp.FrameType
		sub znp.Subsystem
	}{
		{znp.SREQ, znp.SubsystemSYS},
		{znp.SRSP, znp.SubsystemAF},
		{znp.AREQ, znp.SubsystemZDO},
	} {
		cmd0 := encodeCmd0(tc.typ, tc.sub)
		gotTyp, gotSub := decodeCmd0(cmd0)
		require.Equal(t, tc.typ, gotTyp)
		require.Equal(t, tc.sub, gotSub)
	}
}
