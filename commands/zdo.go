package commands

import (
	"context"

	"github.com/xx25/go-znp"
	"github.com/xx25/go-znp/internal/wire"
)

// Zdo wraps the ZDO subsystem: network formation and device management.
type Zdo struct {
	m *znp.Mediator
}

func NewZdo(m *znp.Mediator) *Zdo { return &Zdo{m: m} }

// StartupFromApp issues ZDO_STARTUP_FROM_APP, asking the stack to form or
// rejoin a network using NV-configured parameters. startDelay is in
// milliseconds. The SRSP status here is a startup-state code (0 = already
// started, 1 = starting, 2 = not yet started) rather than the generic
// success/failure convention, so it is returned directly instead of being
// run through CheckStatus.
func (z *Zdo) StartupFromApp(ctx context.Context, startDelay uint16) (byte, error) {
	cmd := znp.Command{Subsystem: znp.SubsystemZDO, ID: cmdZdoStartupFromApp}
	payload := wire.NewBuilder().U16(startDelay).Bytes()
	resp, err := z.m.SendSREQContext(ctx, cmd, payload)
	if err != nil {
		return 0, err
	}
	if len(resp) < 1 {
		return 0, &znp.DecodeError{Reason: "zdo_startup_from_app: empty response"}
	}
	return resp[0], nil
}

// PermitJoin opens or closes network joining for duration seconds
// (0 = close, 0xFF = permanently open) on the given short address, 0xFFFC
// for "all routers and coordinator".
func (z *Zdo) PermitJoin(ctx context.Context, addr znp.ShortAddr, duration byte) error {
	cmd := znp.Command{Subsystem: znp.SubsystemZDO, ID: cmdZdoMgmtPermitJoin}
	payload := wire.NewBuilder().U16(uint16(addr)).U8(duration).U8(0).Bytes()
	resp, err := z.m.SendSREQContext(ctx, cmd, payload)
	if err != nil {
		return err
	}
	return znp.CheckOnlyStatus(cmd, resp)
}

// MgmtLeave asks the named device (by IEEE address) to leave the network.
func (z *Zdo) MgmtLeave(ctx context.Context, target znp.ShortAddr, deviceAddr znp.IEEEAddr, removeChildrenRejoin byte) error {
	cmd := znp.Command{Subsystem: znp.SubsystemZDO, ID: cmdZdoMgmtLeaveReq}
	payload := wire.NewBuilder().U16(uint16(target)).U64(uint64(deviceAddr)).U8(removeChildrenRejoin).Bytes()
	resp, err := z.m.SendSREQContext(ctx, cmd, payload)
	if err != nil {
		return err
	}
	return znp.CheckOnlyStatus(cmd, resp)
}
