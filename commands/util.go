package commands

import (
	"context"

	"github.com/xx25/go-znp"
)

// Util wraps the UTIL subsystem's diagnostic commands.
type Util struct {
	m *znp.Mediator
}

func NewUtil(m *znp.Mediator) *Util { return &Util{m: m} }

// GetDeviceInfo issues UTIL_GET_DEVICE_INFO, checks the leading status
// byte, and returns the rest of the SRSP body undecoded: IEEE address,
// short address, device type, device state, and associated-device list. Unlike SAPI's version this one is a flat
// struct-shaped response with no param selector; field decoding beyond
// the status byte is left to the caller since nothing in the illustrative
// flow needs it.
func (u *Util) GetDeviceInfo(ctx context.Context) ([]byte, error) {
	cmd := znp.Command{Subsystem: znp.SubsystemUTIL, ID: cmdUtilGetDeviceInfo}
	resp, err := u.m.SendSREQContext(ctx, cmd, nil)
	if err != nil {
		return nil, err
	}
	return znp.CheckStatus(cmd, resp)
}

// LedControl turns the named LED on (mode=1) or off (mode=0).
func (u *Util) LedControl(ctx context.Context, ledID, mode byte) error {
	cmd := znp.Command{Subsystem: znp.SubsystemUTIL, ID: cmdUtilLedControl}
	resp, err := u.m.SendSREQContext(ctx, cmd, []byte{ledID, mode})
	if err != nil {
		return err
	}
	return znp.CheckOnlyStatus(cmd, resp)
}
