package commands

import (
	"context"

	"github.com/xx25/go-znp"
)

// AppCnf wraps the APP_CNF subsystem's Base Device Behavior (BDB)
// commissioning entry points.
type AppCnf struct {
	m *znp.Mediator
}

func NewAppCnf(m *znp.Mediator) *AppCnf { return &AppCnf{m: m} }

// BDB commissioning mode bits, OR'd together for StartCommissioning.
const (
	BdbModeInitiatorTC   byte = 0x01
	BdbModeNwkSteering   byte = 0x02
	BdbModeNwkFormation  byte = 0x04
	BdbModeFindingBind   byte = 0x08
	BdbModeTouchlink     byte = 0x10
	BdbModeParentLost    byte = 0x20
)

// StartCommissioning issues BDB_START_COMMISSIONING with the given mode
// bitmask. The SRSP only acknowledges receipt; the commissioning result
// itself arrives later via ZDO.STATE_CHANGE_IND, matched the same way
// ZbStartRequest's result is.
func (a *AppCnf) StartCommissioning(ctx context.Context, modeMask byte) error {
	cmd := znp.Command{Subsystem: znp.SubsystemAPPCNF, ID: cmdAppCnfBdbStartCommissioning}
	resp, err := a.m.SendSREQContext(ctx, cmd, []byte{modeMask})
	if err != nil {
		return err
	}
	return znp.CheckOnlyStatus(cmd, resp)
}
