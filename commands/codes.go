// Package commands holds the per-subsystem command façades: the typed
// layer above the core mediator, thin wrappers
// over znp.Mediator.SendSREQ/WaitFor/WaitForMatch that know each
// command's payload shape, so callers never build or parse a []byte by
// hand.
//
// Only the commands exercised by the illustrative AF DATA_REQUEST
// composite and the handful needed for a minimal
// coordinator bring-up get full field encoding. The rest of each
// subsystem's table (binding/group management, NV item delete/length
// query, touchlink-specific BDB parameters) is a straightforward
// repetition of the same pattern and is left out rather than stubbed.
package commands

const (
	cmdSysResetReq    = 0x00
	cmdSysPing        = 0x01
	cmdSysOsalNvWrite = 0x09
	cmdSysOsalNvRead  = 0x08

	cmdZdoStartupFromApp = 0x40
	cmdZdoMgmtPermitJoin = 0x36
	cmdZdoMgmtLeaveReq   = 0x34

	cmdAfRegister     = 0x00
	cmdAfDataRequest  = 0x01
	cmdAfDataConfirm  = 0x80
	cmdAfIncomingMsg  = 0x81

	cmdSapiGetDeviceInfo    = 0x06
	cmdSapiZbPermitJoin     = 0x08
	cmdSapiZbStartRequest   = 0x00

	cmdUtilGetDeviceInfo = 0x00
	cmdUtilLedControl    = 0x0A

	cmdAppCnfBdbStartCommissioning = 0x05
)
