package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xx25/go-znp"
	"github.com/xx25/go-znp/internal/wire"
)

// Af wraps the application framework subsystem, most notably the
// illustrative composite operation: a DATA_REQUEST SREQ whose real
// completion is a later DATA_CONFIRM AREQ, validated against
// (endpoint, trans_id) rather than trusted by command alone.
type Af struct {
	m *znp.Mediator
}

func NewAf(m *znp.Mediator) *Af { return &Af{m: m} }

// NewTransID derives a trans_id byte from a fresh UUID's entropy rather
// than from a caller-maintained counter. The wire field is a single byte
// either way, so collisions are still possible across 256 in-flight
// requests; this only spares callers from wrapping their own counter.
func NewTransID() byte {
	id := uuid.New()
	return id[0]
}

// AF data-request options bitmask values.
const (
	DataOptionsAckRequest      byte = 0x10
	DataOptionsDiscoveryEnable byte = 0x20
)

// Register declares an application endpoint before it can send or
// receive AF traffic. profileID/deviceID/deviceVersion and the two
// cluster lists describe the simple descriptor the stack advertises for
// this endpoint.
func (a *Af) Register(ctx context.Context, endpoint byte, profileID, deviceID uint16, deviceVersion, latencyReq byte, inputClusters, outputClusters []uint16) error {
	cmd := znp.Command{Subsystem: znp.SubsystemAF, ID: cmdAfRegister}
	b := wire.NewBuilder().U8(endpoint).U16(profileID).U16(deviceID).U8(deviceVersion).U8(latencyReq)
	b.U8(byte(len(inputClusters)))
	for _, c := range inputClusters {
		b.U16(c)
	}
	b.U8(byte(len(outputClusters)))
	for _, c := range outputClusters {
		b.U16(c)
	}
	resp, err := a.m.SendSREQContext(ctx, cmd, b.Bytes())
	if err != nil {
		return err
	}
	return znp.CheckOnlyStatus(cmd, resp)
}

// DataRequestResult is what DataRequest resolves to once the device's
// DATA_CONFIRM arrives: the MAC-layer delivery status for this trans_id.
type DataRequestResult struct {
	Status byte
}

// DataRequest sends AF_DATA_REQUEST and waits for its matching
// DATA_CONFIRM, the illustrative composite's two-step exchange: the SRSP
// only acknowledges that the request was queued, and the real
// success/failure of the transmission is reported later and
// asynchronously. The confirm is claimed by trans_id (WaitForMatch is
// what lets this be expressed without teaching the core dispatcher about
// AF's field layout), then its (endpoint, trans_id) pair is checked
// against the request: a confirm that matches on trans_id but disagrees
// on endpoint still resolves the call, as a *znp.ProtocolError, rather
// than being silently ignored until the wait times out.
func (a *Af) DataRequest(ctx context.Context, dstAddr znp.ShortAddr, dstEndpoint, srcEndpoint byte, clusterID uint16, transID, options, radius byte, data []byte, timeout time.Duration) (DataRequestResult, error) {
	cmd := znp.Command{Subsystem: znp.SubsystemAF, ID: cmdAfDataRequest}
	payload := wire.NewBuilder().
		U16(uint16(dstAddr)).
		U8(dstEndpoint).
		U8(srcEndpoint).
		U16(clusterID).
		U8(transID).
		U8(options).
		U8(radius).
		LenPrefixedBytes(data).
		Bytes()

	// The predicate correlates solely on trans_id: the wire-unique-ish id
	// across concurrent DATA_REQUESTs. Endpoint is deliberately NOT part of
	// the claim — a confirm matching trans_id but disagreeing on endpoint
	// must still be claimed here so it can be turned into a *ProtocolError
	// below, rather than left unclaimed to time out.
	confirmCmd := znp.Command{Subsystem: znp.SubsystemAF, ID: cmdAfDataConfirm}
	predicate := func(f znp.Frame) bool {
		if len(f.Payload) != 3 {
			return false
		}
		return f.Payload[2] == transID
	}
	confirmFut := a.m.WaitForMatch(znp.AREQ, confirmCmd, timeout, predicate)

	resp, err := a.m.SendSREQContext(ctx, cmd, payload)
	if err != nil {
		return DataRequestResult{}, err
	}
	if err := znp.CheckOnlyStatus(cmd, resp); err != nil {
		return DataRequestResult{}, err
	}

	confirmPayload, err := confirmFut.Wait(ctx)
	if err != nil {
		return DataRequestResult{}, err
	}

	status, gotEndpoint, gotTransID := confirmPayload[0], confirmPayload[1], confirmPayload[2]
	if gotEndpoint != dstEndpoint || gotTransID != transID {
		return DataRequestResult{}, &znp.ProtocolError{
			Reason: "af_data_confirm: endpoint/trans_id mismatch",
		}
	}
	return DataRequestResult{Status: status}, nil
}
