package znp

// Command IDs named in the core package: the event router's AREQ ids, the
// SAPI GET_DEVICE_INFO id WaitForState queries, and a few SYS/ZDO/AF
// request ids. The full vendor command table is out of scope for the
// core; commands/ declares its own command ids for the per-subsystem
// wrappers.
const (
	cmdSysResetInd    = 0x80
	cmdSysPing        = 0x01
	cmdSysOsalNvWrite = 0x09

	cmdZdoStateChangeInd    = 0xc0
	cmdZdoEndDeviceAnnceInd = 0xc1
	cmdZdoTCDevInd          = 0xca
	cmdZdoPermitJoinInd     = 0xcb
	cmdZdoMgmtLeaveReq      = 0x34

	cmdAfDataRequest = 0x01
	cmdAfDataConfirm = 0x80
	cmdAfIncomingMsg = 0x81

	cmdSapiGetDeviceInfo = 0x06
)
