package znp

import (
	"errors"
	"fmt"
)

// TimeoutError is returned by a waiter whose timer fires before a matching
// frame arrives.
type TimeoutError struct {
	Type    FrameType
	Command Command
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("znp: timed out waiting for %s %s", e.Type, e.Command)
}

// ZnpStatusError wraps a non-success status byte found in an SRSP body.
type ZnpStatusError struct {
	Command Command
	Code    byte
}

func (e *ZnpStatusError) Error() string {
	return fmt.Sprintf("znp: %s returned status 0x%02x", e.Command, e.Code)
}

// RPCError is raised when the device refuses an SREQ via an out-of-band
// RPC_Error frame.
type RPCError struct {
	Command Command
	Code    byte
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("znp: device refused %s: rpc error 0x%02x", e.Command, e.Code)
}

// ProtocolError covers responses that are structurally wrong: too short,
// an unexpected command echoed back, a prefix mismatch on a correlated
// reply, or an AF trans_id/endpoint mismatch.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return "znp: protocol error: " + e.Reason }

// DecodeError covers a payload that does not match the shape the caller
// expected.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string { return "znp: decode error: " + e.Reason }

// InvalidStateError is raised by WaitForState when the device enters a
// state outside the allowed corridor.
type InvalidStateError struct {
	State DeviceState
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("znp: device entered disallowed state %s", e.State)
}

// TransportError wraps a failure surfaced by the raw framing layer. The
// core constructs one when RawLayer.Send fails for an SREQ, and
// Mediator.Close fails every outstanding request and waiter with one
// wrapping errMediatorClosed.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "znp: transport error: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

func newProtocolErrorf(format string, args ...any) error {
	return &ProtocolError{Reason: fmt.Sprintf(format, args...)}
}

func newDecodeErrorf(format string, args ...any) error {
	return &DecodeError{Reason: fmt.Sprintf(format, args...)}
}

// errEmptyResponse is returned by checkStatus when the SRSP body is empty.
var errEmptyResponse error = &ProtocolError{Reason: "empty response"}

// errMediatorClosed is the cause wrapped into TransportError when Close
// forcibly fails every outstanding request and waiter.
var errMediatorClosed = errors.New("znp: mediator closed")
