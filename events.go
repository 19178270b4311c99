package znp

import "go.uber.org/zap"

// EventKind names one of the permanent AREQ event routes.
type EventKind string

const (
	EventSysReset              EventKind = "sys_reset"
	EventZdoStateChange        EventKind = "zdo_state_change"
	EventZdoEndDeviceAnnounce  EventKind = "zdo_end_device_announce"
	EventZdoTrustCenterDevice  EventKind = "zdo_trust_center_device"
	EventZdoPermitJoin         EventKind = "zdo_permit_join"
	EventAfIncomingMsg         EventKind = "af_incoming_msg"
)

// Unsubscribe removes a previously registered callback. Calling it more
// than once is a no-op. Extended handlers (wait_for_state) call this on
// themselves from inside their own invocation to implement one-shot event
// captures.
type Unsubscribe func()

// subscriberList is the ordered list of callbacks for one event kind.
// Delivery happens in registration order, and a subscriber is free to
// Unsubscribe itself (or another subscriber) mid-delivery. deliver
// snapshots the slice before iterating, so subscribers added during a
// delivery are not called for it; a subscriber removed during a delivery
// before its turn is skipped for that delivery too.
type subscriberList[T any] struct {
	subs []*subscriberEntry[T]
	next uint64
}

type subscriberEntry[T any] struct {
	id      uint64
	fn      func(T, Unsubscribe)
	removed bool
}

func (l *subscriberList[T]) add(fn func(T, Unsubscribe)) Unsubscribe {
	e := &subscriberEntry[T]{id: l.next, fn: fn}
	l.next++
	l.subs = append(l.subs, e)
	return func() { e.removed = true }
}

// deliver invokes every live subscriber, in registration order, with a
// snapshot of the list taken before iteration begins.
func (l *subscriberList[T]) deliver(v T) {
	snapshot := make([]*subscriberEntry[T], len(l.subs))
	copy(snapshot, l.subs)

	for _, e := range snapshot {
		if e.removed {
			continue
		}
		e.fn(v, func() { e.removed = true })
	}

	live := l.subs[:0]
	for _, e := range l.subs {
		if !e.removed {
			live = append(live, e)
		}
	}
	l.subs = live
}

// decodeFunc decodes an AREQ payload into the event's typed shape. Each
// decoder fixes its own partial-decoding rule: decodeIncomingMsg ignores
// trailing bytes beyond the documented fields, the others fail on any
// length other than the exact one.
type decodeFunc func(payload []byte) (any, error)

// eventRoute is the permanent handler for one event kind: it never
// self-removes, always returns stop:true on a match (so it always claims
// its own AREQ command even if a later handler might also want it), and
// returns (false, false) — "unclaimed" — when decoding fails, so other
// diagnostic handlers can inspect the malformed frame.
type eventRoute struct {
	kind    EventKind
	cmd     Command
	decode  decodeFunc
	deliver func(decoded any)
	logger  *zap.Logger
	metrics *metrics
}

func (r *eventRoute) onFrame(f Frame) action {
	if f.Type != AREQ || f.Command != r.cmd {
		return action{}
	}
	decoded, err := r.decode(f.Payload)
	if err != nil {
		r.logger.Warn("event payload decode failed, leaving frame unclaimed",
			zap.String("event", string(r.kind)), zap.Error(err))
		return action{}
	}
	if r.metrics != nil {
		r.metrics.eventsDelivered.WithLabelValues(string(r.kind)).Inc()
	}
	r.deliver(decoded)
	return action{stop: true, remove: false}
}

// eventRouter owns every subscriber list and is constructed once, at
// Mediator construction, with its eventRoute handlers installed ahead of
// any per-request handler.
type eventRouter struct {
	sysReset             subscriberList[ResetInfo]
	zdoStateChange       subscriberList[DeviceState]
	zdoEndDeviceAnnounce subscriberList[EndDeviceAnnounce]
	zdoTrustCenterDevice subscriberList[TrustCenterDevice]
	zdoPermitJoin        subscriberList[byte]
	afIncomingMsg        subscriberList[IncomingMsg]
}

// OnSysReset subscribes to SYS.RESET_IND.
func (m *Mediator) OnSysReset(fn func(ResetInfo, Unsubscribe)) Unsubscribe {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events.sysReset.add(fn)
}

// OnStateChange subscribes to ZDO.STATE_CHANGE_IND.
func (m *Mediator) OnStateChange(fn func(DeviceState, Unsubscribe)) Unsubscribe {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events.zdoStateChange.add(fn)
}

// OnEndDeviceAnnounce subscribes to ZDO.END_DEVICE_ANNCE_IND.
func (m *Mediator) OnEndDeviceAnnounce(fn func(EndDeviceAnnounce, Unsubscribe)) Unsubscribe {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events.zdoEndDeviceAnnounce.add(fn)
}

// OnTrustCenterDevice subscribes to ZDO.TC_DEV_IND.
func (m *Mediator) OnTrustCenterDevice(fn func(TrustCenterDevice, Unsubscribe)) Unsubscribe {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events.zdoTrustCenterDevice.add(fn)
}

// OnPermitJoin subscribes to ZDO.PERMIT_JOIN_IND. The delivered byte is the
// raw PermitJoin duration/flag the device reports.
func (m *Mediator) OnPermitJoin(fn func(byte, Unsubscribe)) Unsubscribe {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events.zdoPermitJoin.add(fn)
}

// OnIncomingMsg subscribes to AF.INCOMING_MSG.
func (m *Mediator) OnIncomingMsg(fn func(IncomingMsg, Unsubscribe)) Unsubscribe {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events.afIncomingMsg.add(fn)
}

// installEventRoutes wires the six permanent event handlers into the
// dispatcher, ahead of any request handler the caller will later append.
func (m *Mediator) installEventRoutes() {
	routes := []*eventRoute{
		{
			kind: EventSysReset, cmd: Command{Subsystem: SubsystemSYS, ID: cmdSysResetInd},
			decode:  func(p []byte) (any, error) { return decodeResetInfo(p) },
			deliver: func(v any) { m.events.sysReset.deliver(v.(ResetInfo)) },
			logger:  m.logger, metrics: m.metrics,
		},
		{
			kind: EventZdoStateChange, cmd: Command{Subsystem: SubsystemZDO, ID: cmdZdoStateChangeInd},
			decode:  func(p []byte) (any, error) { return decodeStateChange(p) },
			deliver: func(v any) { m.events.zdoStateChange.deliver(v.(DeviceState)) },
			logger:  m.logger, metrics: m.metrics,
		},
		{
			kind: EventZdoEndDeviceAnnounce, cmd: Command{Subsystem: SubsystemZDO, ID: cmdZdoEndDeviceAnnceInd},
			decode:  func(p []byte) (any, error) { return decodeEndDeviceAnnounce(p) },
			deliver: func(v any) { m.events.zdoEndDeviceAnnounce.deliver(v.(EndDeviceAnnounce)) },
			logger:  m.logger, metrics: m.metrics,
		},
		{
			kind: EventZdoTrustCenterDevice, cmd: Command{Subsystem: SubsystemZDO, ID: cmdZdoTCDevInd},
			decode:  func(p []byte) (any, error) { return decodeTrustCenterDevice(p) },
			deliver: func(v any) { m.events.zdoTrustCenterDevice.deliver(v.(TrustCenterDevice)) },
			logger:  m.logger, metrics: m.metrics,
		},
		{
			kind: EventZdoPermitJoin, cmd: Command{Subsystem: SubsystemZDO, ID: cmdZdoPermitJoinInd},
			decode:  func(p []byte) (any, error) { return decodePermitJoin(p) },
			deliver: func(v any) { m.events.zdoPermitJoin.deliver(v.(byte)) },
			logger:  m.logger, metrics: m.metrics,
		},
		{
			kind: EventAfIncomingMsg, cmd: Command{Subsystem: SubsystemAF, ID: cmdAfIncomingMsg},
			decode:  func(p []byte) (any, error) { return decodeIncomingMsg(p) },
			deliver: func(v any) { m.events.afIncomingMsg.deliver(v.(IncomingMsg)) },
			logger:  m.logger, metrics: m.metrics,
		},
	}
	for _, r := range routes {
		m.dispatch.install(r)
	}
}
