// Package metrics wires prometheus/client_golang counters and gauges into
// the network handler, grounded on
// minis/50-mini-service-all-features/internal/middleware/metrics.go. Every
// method is nil-safe so the library works without a Prometheus registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics is a dependency-injected collector, not global registry state, so
// multiple NetworkHandlers in one process don't collide on metric names
// unless the caller wants them to.
type Metrics struct {
	FramesEncoded   prometheus.Counter
	FramesDecoded   prometheus.Counter
	BytesRead       prometheus.Counter
	BytesWritten    prometheus.Counter
	EventQueueDepth prometheus.Gauge
	ProtocolErrors  *prometheus.CounterVec
}

// New registers and returns a Metrics instance on reg. Pass nil to get an
// unregistered, freshly allocated set of metrics (useful for tests or
// callers who register on their own registry later).
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FramesEncoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ibtws_frames_encoded_total",
			Help: "Total number of encoded outbound messages written.",
		}),
		FramesDecoded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ibtws_frames_decoded_total",
			Help: "Total number of inbound events decoded from the socket.",
		}),
		BytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ibtws_bytes_read_total",
			Help: "Total bytes read from the gateway socket.",
		}),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ibtws_bytes_written_total",
			Help: "Total bytes written to the gateway socket.",
		}),
		EventQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ibtws_event_queue_depth",
			Help: "Number of events currently buffered for the consumer.",
		}),
		ProtocolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ibtws_protocol_errors_total",
			Help: "Fatal protocol errors by kind.",
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(m.FramesEncoded, m.FramesDecoded, m.BytesRead,
			m.BytesWritten, m.EventQueueDepth, m.ProtocolErrors)
	}
	return m
}

func (m *Metrics) addFramesEncoded(n int) {
	if m == nil {
		return
	}
	m.FramesEncoded.Add(float64(n))
}

// FrameEncoded records one encoded outbound message having been written.
func (m *Metrics) FrameEncoded() { m.addFramesEncoded(1) }

// FrameDecoded records one inbound event having been decoded.
func (m *Metrics) FrameDecoded() {
	if m == nil {
		return
	}
	m.FramesDecoded.Inc()
}

// BytesReadAdd records n bytes having been read off the socket.
func (m *Metrics) BytesReadAdd(n int) {
	if m == nil {
		return
	}
	m.BytesRead.Add(float64(n))
}

// BytesWrittenAdd records n bytes having been written to the socket.
func (m *Metrics) BytesWrittenAdd(n int) {
	if m == nil {
		return
	}
	m.BytesWritten.Add(float64(n))
}

// SetEventQueueDepth records the current consumer queue depth.
func (m *Metrics) SetEventQueueDepth(n int) {
	if m == nil {
		return
	}
	m.EventQueueDepth.Set(float64(n))
}

// ProtocolError records a fatal error of the given kind.
func (m *Metrics) ProtocolError(kind string) {
	if m == nil {
		return
	}
	m.ProtocolErrors.WithLabelValues(kind).Inc()
}
