package commands

import (
	"context"

	"github.com/xx25/go-znp"
	"github.com/xx25/go-znp/internal/wire"
)

// Sapi wraps the simple-application-interface subsystem, the convenience
// layer the coordinator bring-up flow and znp.Mediator.WaitForState sit
// on top of.
type Sapi struct {
	m *znp.Mediator
}

func NewSapi(m *znp.Mediator) *Sapi { return &Sapi{m: m} }

// ZbStartRequest kicks off the stack's startup sequence. The SRSP has no
// payload; the actual "are we started" answer arrives later via
// ZDO.STATE_CHANGE_IND, which is why commissioning code pairs this with
// znp.Mediator.WaitForState rather than trusting this call's return.
func (s *Sapi) ZbStartRequest(ctx context.Context) error {
	cmd := znp.Command{Subsystem: znp.SubsystemSAPI, ID: cmdSapiZbStartRequest}
	_, err := s.m.SendSREQContext(ctx, cmd, nil)
	return err
}

// ZbPermitJoiningRequest is SAPI's permit-join call, narrower than ZDO's
// (no removeChildren flag).
func (s *Sapi) ZbPermitJoiningRequest(ctx context.Context, addr znp.ShortAddr, timeout byte) error {
	cmd := znp.Command{Subsystem: znp.SubsystemSAPI, ID: cmdSapiZbPermitJoin}
	payload := wire.NewBuilder().U16(uint16(addr)).U8(timeout).Bytes()
	resp, err := s.m.SendSREQContext(ctx, cmd, payload)
	if err != nil {
		return err
	}
	return znp.CheckOnlyStatus(cmd, resp)
}

// GetDeviceInfo issues ZB_GET_DEVICE_INFO with the given parameter
// selector and returns the raw value bytes the device reports; callers
// decode it according to which param they asked for. param 0 is device
// state, which znp.Mediator.WaitForState reads internally through its own
// unexported path rather than through this wrapper.
func (s *Sapi) GetDeviceInfo(ctx context.Context, param byte) ([]byte, error) {
	cmd := znp.Command{Subsystem: znp.SubsystemSAPI, ID: cmdSapiGetDeviceInfo}
	resp, err := s.m.SendSREQContext(ctx, cmd, []byte{param})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
