package commands

import (
	"context"

	"github.com/xx25/go-znp"
	"github.com/xx25/go-znp/internal/wire"
)

// Sys wraps the SYS subsystem: reset, ping, and NV item access.
type Sys struct {
	m *znp.Mediator
}

func NewSys(m *znp.Mediator) *Sys { return &Sys{m: m} }

// Reset issues SYS_RESET_REQ. The device replies with an AREQ
// (SYS.RESET_IND), not an SRSP, so this only sends; callers that need to
// know when the device has finished resetting should use
// Mediator.OnSysReset before calling Reset.
func (s *Sys) Reset(ctx context.Context, resetType byte) error {
	return s.m.RawSend(znp.Frame{
		Type:    znp.AREQ,
		Command: znp.Command{Subsystem: znp.SubsystemSYS, ID: cmdSysResetReq},
		Payload: []byte{resetType},
	})
}

// PingResult decodes SYS_PING's SRSP.
type PingResult struct {
	Capabilities uint16
}

// Ping issues SYS_PING and returns the capability bitmask the device
// reports.
func (s *Sys) Ping(ctx context.Context) (PingResult, error) {
	cmd := znp.Command{Subsystem: znp.SubsystemSYS, ID: cmdSysPing}
	resp, err := s.m.SendSREQContext(ctx, cmd, nil)
	if err != nil {
		return PingResult{}, err
	}
	r := wire.NewReader(resp)
	caps := r.U16()
	if err := r.Err(); err != nil {
		return PingResult{}, err
	}
	return PingResult{Capabilities: caps}, nil
}

// OsalNvWrite writes value into the named NV item, starting at offset.
// Other NV operations (delete, item-init, length query) are not wrapped
// here; this is the one write path the illustrative commissioning flow
// needs.
func (s *Sys) OsalNvWrite(ctx context.Context, itemID uint16, offset byte, value []byte) error {
	cmd := znp.Command{Subsystem: znp.SubsystemSYS, ID: cmdSysOsalNvWrite}
	payload := wire.NewBuilder().U16(itemID).U8(offset).LenPrefixedBytes(value).Bytes()
	resp, err := s.m.SendSREQContext(ctx, cmd, payload)
	if err != nil {
		return err
	}
	return znp.CheckOnlyStatus(cmd, resp)
}

// OsalNvRead reads up to 255 bytes from the named NV item at offset.
func (s *Sys) OsalNvRead(ctx context.Context, itemID uint16, offset byte) ([]byte, error) {
	cmd := znp.Command{Subsystem: znp.SubsystemSYS, ID: cmdSysOsalNvRead}
	payload := wire.NewBuilder().U16(itemID).U8(offset).Bytes()
	resp, err := s.m.SendSREQContext(ctx, cmd, payload)
	if err != nil {
		return nil, err
	}
	tail, err := znp.CheckStatus(cmd, resp)
	if err != nil {
		return nil, err
	}
	r := wire.NewReader(tail)
	length := r.U8()
	data := r.Rest()
	if err := r.Err(); err != nil {
		return nil, err
	}
	if int(length) > len(data) {
		return nil, &znp.DecodeError{Reason: "osal_nv_read: declared length exceeds payload"}
	}
	return data[:length], nil
}
