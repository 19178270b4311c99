package znp

import "github.com/prometheus/client_golang/prometheus"

// metrics groups the Prometheus collectors the mediator updates. All
// collectors are created with NewXxx (not promauto) and registration is
// left to the caller via Mediator.Collectors, so embedding this module in
// a process with its own registry never panics on duplicate registration.
type metrics struct {
	framesDispatched *prometheus.CounterVec
	framesDiscarded  prometheus.Counter
	pendingRequests  prometheus.Gauge
	rpcErrors        prometheus.Counter
	waiterTimeouts   prometheus.Counter
	eventsDelivered  *prometheus.CounterVec
}

func newMetrics() *metrics {
	return &metrics{
		framesDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "znp",
			Name:      "frames_dispatched_total",
			Help:      "Inbound frames a handler claimed, by frame type.",
		}, []string{"type"}),
		framesDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "znp",
			Name:      "frames_discarded_total",
			Help:      "Inbound frames no handler claimed.",
		}),
		pendingRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "znp",
			Name:      "pending_requests",
			Help:      "Outstanding SREQ requests awaiting an SRSP or RPC_Error.",
		}),
		rpcErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "znp",
			Name:      "rpc_errors_total",
			Help:      "RPC_Error frames that claimed a pending request.",
		}),
		waiterTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "znp",
			Name:      "waiter_timeouts_total",
			Help:      "Timed waiters whose timer fired before a matching frame arrived.",
		}),
		eventsDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "znp",
			Name:      "events_delivered_total",
			Help:      "AREQ events decoded and fanned out to subscribers, by event kind.",
		}, []string{"event"}),
	}
}

// Collectors returns every Prometheus collector the mediator maintains, for
// the caller to register on its own registry (prometheus.MustRegister or
// a custom Registerer).
func (m *Mediator) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.metrics.framesDispatched,
		m.metrics.framesDiscarded,
		m.metrics.pendingRequests,
		m.metrics.rpcErrors,
		m.metrics.waiterTimeouts,
		m.metrics.eventsDelivered,
	}
}
