package znp

import "encoding/binary"

// decodeResetInfo decodes SYS.RESET_IND: reason, transport rev, product
// id, major/minor release, hw rev — six fixed bytes, no partial decoding.
func decodeResetInfo(p []byte) (ResetInfo, error) {
	if len(p) != 6 {
		return ResetInfo{}, newDecodeErrorf("sys_reset: expected 6 bytes, got %d", len(p))
	}
	return ResetInfo{
		Reason:       p[0],
		TransportRev: p[1],
		ProductID:    p[2],
		MajorRel:     p[3],
		MinorRel:     p[4],
		HwRev:        p[5],
	}, nil
}

// decodeStateChange decodes ZDO.STATE_CHANGE_IND: a single state byte.
func decodeStateChange(p []byte) (DeviceState, error) {
	if len(p) != 1 {
		return 0, newDecodeErrorf("zdo_state_change: expected 1 byte, got %d", len(p))
	}
	return DeviceState(p[0]), nil
}

// decodeEndDeviceAnnounce decodes ZDO.END_DEVICE_ANNCE_IND:
// (ShortAddr, ShortAddr, IEEEAddr, u8).
func decodeEndDeviceAnnounce(p []byte) (EndDeviceAnnounce, error) {
	if len(p) != 13 {
		return EndDeviceAnnounce{}, newDecodeErrorf("zdo_end_device_announce: expected 13 bytes, got %d", len(p))
	}
	return EndDeviceAnnounce{
		SrcAddr:    ShortAddr(binary.LittleEndian.Uint16(p[0:2])),
		NwkAddr:    ShortAddr(binary.LittleEndian.Uint16(p[2:4])),
		IEEEAddr:   IEEEAddr(binary.LittleEndian.Uint64(p[4:12])),
		Capability: p[12],
	}, nil
}

// decodeTrustCenterDevice decodes ZDO.TC_DEV_IND: (ShortAddr, IEEEAddr, ShortAddr).
func decodeTrustCenterDevice(p []byte) (TrustCenterDevice, error) {
	if len(p) != 12 {
		return TrustCenterDevice{}, newDecodeErrorf("zdo_trust_center_device: expected 12 bytes, got %d", len(p))
	}
	return TrustCenterDevice{
		NwkAddr:    ShortAddr(binary.LittleEndian.Uint16(p[0:2])),
		IEEEAddr:   IEEEAddr(binary.LittleEndian.Uint64(p[2:10])),
		ParentAddr: ShortAddr(binary.LittleEndian.Uint16(p[10:12])),
	}, nil
}

// decodePermitJoin decodes ZDO.PERMIT_JOIN_IND: a single u8.
func decodePermitJoin(p []byte) (byte, error) {
	if len(p) != 1 {
		return 0, newDecodeErrorf("zdo_permit_join: expected 1 byte, got %d", len(p))
	}
	return p[0], nil
}

// incomingMsgPrefixLen is the documented, fixed-shape portion of
// AF.INCOMING_MSG preceding the variable-length Data field: GroupID(2) +
// ClusterID(2) + SrcAddr(2) + SrcEndpoint(1) + DstEndpoint(1) +
// WasBroadcast(1) + LinkQuality(1) + SecurityUse(1) + Timestamp(4) +
// TransSeqNum(1) + a DataLength byte(1) = 17.
const incomingMsgPrefixLen = 17

// decodeIncomingMsg decodes AF.INCOMING_MSG. This event carries
// allow_partial = true: firmware revisions append bytes
// beyond the documented Data field, so only the documented prefix plus
// the declared Data length is consumed; anything further is ignored
// rather than rejected.
func decodeIncomingMsg(p []byte) (IncomingMsg, error) {
	if len(p) < incomingMsgPrefixLen {
		return IncomingMsg{}, newDecodeErrorf("af_incoming_msg: payload too short: %d bytes", len(p))
	}
	dataLen := int(p[incomingMsgPrefixLen-1])
	if len(p) < incomingMsgPrefixLen+dataLen {
		return IncomingMsg{}, newDecodeErrorf("af_incoming_msg: declared data length %d exceeds payload", dataLen)
	}
	msg := IncomingMsg{
		GroupID:      ShortAddr(binary.LittleEndian.Uint16(p[0:2])),
		ClusterID:    binary.LittleEndian.Uint16(p[2:4]),
		SrcAddr:      ShortAddr(binary.LittleEndian.Uint16(p[4:6])),
		SrcEndpoint:  p[6],
		DstEndpoint:  p[7],
		WasBroadcast: p[8],
		LinkQuality:  p[9],
		SecurityUse:  p[10],
		Timestamp:    binary.LittleEndian.Uint32(p[11:15]),
		TransSeqNum:  p[15],
		Data:         append([]byte(nil), p[incomingMsgPrefixLen:incomingMsgPrefixLen+dataLen]...),
	}
	return msg, nil
}

// decodeDataConfirm decodes AF.DATA_CONFIRM: (status, endpoint, trans_id).
// No allow_partial: exactly 3 bytes are expected.
func decodeDataConfirm(p []byte) (DataConfirm, error) {
	if len(p) != 3 {
		return DataConfirm{}, newDecodeErrorf("af_data_confirm: expected 3 bytes, got %d", len(p))
	}
	return DataConfirm{Status: p[0], Endpoint: p[1], TransID: p[2]}, nil
}
