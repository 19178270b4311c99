package znp

// CheckStatus standardizes the "status byte then optional body" shape
// pervasive in ZNP SRSPs. It fails with a *ProtocolError ("empty
// response") if payload is empty, with *ZnpStatusError if the leading byte is
// nonzero, and otherwise returns the tail. Exported for the per-subsystem
// façades in commands/, which are the actual callers of this convention.
func CheckStatus(cmd Command, payload []byte) ([]byte, error) {
	return checkStatus(cmd, payload)
}

// CheckOnlyStatus is CheckStatus for SRSPs whose entire body is the status
// byte: it additionally fails if anything trails it.
func CheckOnlyStatus(cmd Command, payload []byte) error {
	return checkOnlyStatus(cmd, payload)
}

func checkStatus(cmd Command, payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, errEmptyResponse
	}
	if payload[0] != 0x00 {
		return nil, &ZnpStatusError{Command: cmd, Code: payload[0]}
	}
	return payload[1:], nil
}

func checkOnlyStatus(cmd Command, payload []byte) error {
	tail, err := checkStatus(cmd, payload)
	if err != nil {
		return err
	}
	if len(tail) != 0 {
		return newProtocolErrorf("%s: unexpected trailing bytes after status: % x", cmd, tail)
	}
	return nil
}
