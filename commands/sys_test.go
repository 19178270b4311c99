package commands

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xx25/go-znp"
)

func TestSysPingDecodesCapabilities(t *testing.T) {
	raw := &fakeRaw{}
	m := znp.NewMediator(raw, &znp.Config{})
	defer m.Close()

	sys := NewSys(m)
	resultCh := make(chan PingResult, 1)
	go func() {
		result, err := sys.Ping(context.Background())
		require.NoError(t, err)
		resultCh <- result
	}()

	require.Eventually(t, func() bool { return len(raw.sent) == 1 }, time.Second, time.Millisecond)
	cmd := znp.Command{Subsystem: znp.SubsystemSYS, ID: cmdSysPing}
	raw.deliver(znp.Frame{Type: znp.SRSP, Command: cmd, Payload: []byte{0x34, 0x12}})

	result := <-resultCh
	require.Equal(t, uint16(0x1234), result.Capabilities)
}

func TestSysOsalNvWriteChecksStatus(t *testing.T) {
	raw := &fakeRaw{}
	m := znp.NewMediator(raw, &znp.Config{})
	defer m.Close()

	sys := NewSys(m)
	errCh := make(chan error, 1)
	go func() {
		errCh <- sys.OsalNvWrite(context.Background(), 0x0003, 0, []byte{0x01})
	}()

	require.Eventually(t, func() bool { return len(raw.sent) == 1 }, time.Second, time.Millisecond)
	cmd := znp.Command{Subsystem: znp.SubsystemSYS, ID: cmdSysOsalNvWrite}
	raw.deliver(znp.Frame{Type: znp.SRSP, Command: cmd, Payload: []byte{0x00}})

	require.NoError(t, <-errCh)
}

func TestSysResetSendsAREQAndAwaitsEvent(t *testing.T) {
	raw := &fakeRaw{}
	m := znp.NewMediator(raw, &znp.Config{})
	defer m.Close()

	sys := NewSys(m)

	gotInfo := make(chan znp.ResetInfo, 1)
	unsub := m.OnSysReset(func(info znp.ResetInfo, _ znp.Unsubscribe) { gotInfo <- info })
	defer unsub()

	require.NoError(t, sys.Reset(context.Background(), 0x00))
	require.Len(t, raw.sent, 1)
	require.Equal(t, znp.AREQ, raw.sent[0].Type)

	raw.deliver(znp.Frame{
		Type:    znp.AREQ,
		Command: znp.Command{Subsystem: znp.SubsystemSYS, ID: 0x80},
		Payload: []byte{0x02, 0x01, 0x02, 0x01, 0x00, 0x01},
	})

	select {
	case info := <-gotInfo:
		require.Equal(t, byte(0x02), info.Reason)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for reset event")
	}
}
