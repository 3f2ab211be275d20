// Package network owns the TCP connection lifecycle: the handshake and the
// three cooperating stages (writer, byte-reader, parser) that move bytes
// between the socket and the client facade's event queue. Grounded on the
// worker-pool/shutdown pattern in
// minis/22-worker-pool-with-backpressure/exercise/solution.go
// (sync.WaitGroup-joined goroutines, context cancellation, closed-channel
// signaling) and the select-driven readiness wait in
// minis/20-select-fanin-fanout/exercise/solution.go.
package network

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/user/ibtws/iberrors"
	"github.com/user/ibtws/internal/decode"
	"github.com/user/ibtws/internal/metrics"
	"github.com/user/ibtws/wire"
)

const (
	clientVersion    = 60
	minServerVersion = 66
)

// Handler owns one TCP connection to the gateway and runs its three
// cooperating goroutines for the lifetime of the connection.
type Handler struct {
	host       string
	port       int
	clientID   int64
	timeout    time.Duration
	bufferSize int

	logger  zerolog.Logger
	metrics *metrics.Metrics

	mu             sync.Mutex
	state          State
	conn           net.Conn
	outboundIn     chan<- []byte
	outboundOut    <-chan []byte
	eventsIn       chan<- decode.Event
	eventsOut      <-chan decode.Event
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	serverVersion  int
	connectionTime string
}

// Option configures a Handler at construction time.
type Option func(*Handler)

// WithLogger injects a zerolog.Logger; the zero value is zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// WithMetrics injects a Metrics collector; nil is safe and makes every
// recording call a no-op.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// New builds a Handler for (host, port) with the given client id, ready to
// Connect. timeout is the byte-reader's readiness-wait liveness probe
// interval; bufferSize is its per-read buffer size.
func New(host string, port int, clientID int64, timeout time.Duration, bufferSize int, opts ...Option) *Handler {
	h := &Handler{
		host:       host,
		port:       port,
		clientID:   clientID,
		timeout:    timeout,
		bufferSize: bufferSize,
		logger:     zerolog.Nop(),
		state:      Disconnected,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// State reports the current lifecycle state.
func (h *Handler) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// IsConnected reports whether the handler is in the Connected state.
func (h *Handler) IsConnected() bool {
	return h.State() == Connected
}

// ServerVersion returns the version negotiated during the handshake, or 0
// before connect.
func (h *Handler) ServerVersion() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.serverVersion
}

// ConnectionTime returns the gateway's connection-time string negotiated
// during the handshake, or "" before connect.
func (h *Handler) ConnectionTime() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connectionTime
}

// Events returns the channel of decoded inbound events. A final event with
// Kind == decode.KindStop is always delivered before the channel closes, so
// a consumer ranging over it terminates cleanly.
func (h *Handler) Events() <-chan decode.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.eventsOut
}

// Connect dials the gateway, performs the version handshake, and starts
// the writer, byte-reader, and parser goroutines. Calling Connect while not
// disconnected is a no-op that returns (0, "", nil); the negotiated values
// stay available from ServerVersion and ConnectionTime.
func (h *Handler) Connect(ctx context.Context) (int, string, error) {
	h.mu.Lock()
	if h.state != Disconnected {
		h.mu.Unlock()
		return 0, "", nil
	}
	h.state = Handshaking
	h.mu.Unlock()

	addr := fmt.Sprintf("%s:%d", h.host, h.port)
	dialer := net.Dialer{Timeout: h.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		h.setState(Disconnected)
		return 0, "", fmt.Errorf("network: dial %s: %w", addr, iberrors.ErrIO)
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetKeepAlive(true)
	}

	var fb wire.FrameBuffer
	serverVersion, connectionTime, leftover, err := h.handshake(conn, &fb)
	if err != nil {
		conn.Close()
		h.setState(Disconnected)
		return 0, "", err
	}
	if serverVersion < minServerVersion {
		conn.Close()
		h.setState(Disconnected)
		return 0, "", fmt.Errorf("network: server version %d below minimum %d: %w",
			serverVersion, minServerVersion, iberrors.ErrIncompatibleServer)
	}

	if _, err := conn.Write(wire.EncodeInt(int(h.clientID))); err != nil {
		conn.Close()
		h.setState(Disconnected)
		return 0, "", fmt.Errorf("network: send client id: %w", iberrors.ErrIO)
	}

	runCtx, cancel := context.WithCancel(context.Background())

	outboundIn, outboundOut := newUnboundedQueue[[]byte]()
	eventsIn, eventsOut := newUnboundedQueue[decode.Event]()
	fieldsIn, fieldsOut := newUnboundedQueue[string]()

	h.mu.Lock()
	h.conn = conn
	h.serverVersion = serverVersion
	h.connectionTime = connectionTime
	h.cancel = cancel
	h.outboundIn = outboundIn
	h.outboundOut = outboundOut
	h.eventsIn = eventsIn
	h.eventsOut = eventsOut
	h.state = Connected
	h.mu.Unlock()

	// Any fields the gateway coalesced into the handshake's TCP segment
	// ahead of the byte-reader starting are fed into the same unbounded
	// field queue the byte-reader will go on to publish to, so they are
	// not lost and arrive to the parser in order.
	for _, f := range leftover {
		fieldsIn <- f
	}

	h.wg.Add(3)
	go h.runWriter(runCtx, conn, outboundOut)
	go h.runByteReader(runCtx, conn, &fb, fieldsIn)
	go h.runParser(runCtx, fieldsOut, eventsIn)

	h.logger.Info().Str("addr", addr).Int("server_version", serverVersion).Msg("connected")
	return serverVersion, connectionTime, nil
}

// handshake sends CLIENT_VERSION and reads back (server_version,
// connection_time) per spec.md §6: "C -> S: \"60\\x00\" then
// \"{client_id}\\x00\"; S -> C: \"{server_version}\\x00{connection_time}\\x00\"
// followed by any pre-buffered server messages". Those trailing fields, if
// any arrived coalesced into the same TCP segment as the handshake reply,
// are returned as leftover so the caller can seed the field queue with them
// before the byte-reader starts. fb's reassembly state is shared with the
// byte-reader goroutine so a field split across this read and the next one
// reassembles correctly.
func (h *Handler) handshake(conn net.Conn, fb *wire.FrameBuffer) (serverVersion int, connectionTime string, leftover []string, err error) {
	if _, err := conn.Write(wire.EncodeInt(clientVersion)); err != nil {
		return 0, "", nil, fmt.Errorf("network: send client version: %w", iberrors.ErrIO)
	}

	buf := make([]byte, h.bufferSize)
	var fields []string
	for len(fields) < 2 {
		n, err := conn.Read(buf)
		if n == 0 && err != nil {
			return 0, "", nil, fmt.Errorf("network: read handshake reply: %w", iberrors.ErrIO)
		}
		fields = append(fields, fb.Feed(buf[:n])...)
	}

	serverVersion, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, "", nil, fmt.Errorf("network: decode server version %q: %w", fields[0], iberrors.ErrProtocol)
	}
	return serverVersion, fields[1], fields[2:], nil
}

func (h *Handler) setState(s State) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
}

// Send enqueues msg onto the outbound queue, which the writer goroutine
// serializes onto the socket in order. The queue is an unbounded FIFO (see
// newUnboundedQueue), so Send never drops a message and never blocks on
// queue depth. Sending while not connected is an error.
func (h *Handler) Send(msg []byte) error {
	h.mu.Lock()
	if h.state != Connected {
		h.mu.Unlock()
		return fmt.Errorf("network: send: %w", iberrors.ErrIO)
	}
	outboundIn := h.outboundIn
	h.mu.Unlock()

	outboundIn <- msg
	return nil
}

// Disconnect runs the teardown protocol from spec §4.4: half-close the
// socket for writing, close the outbound queue (the writer's stop signal),
// cancel the shared context (which unwinds the byte-reader and parser and,
// via the parser's deferred push, always delivers a final KindStop event
// to the consumer), close the socket fully, and join all three goroutines
// before returning. Disconnecting while not connected is a no-op.
func (h *Handler) Disconnect() error {
	h.mu.Lock()
	if h.state != Connected {
		h.mu.Unlock()
		return nil
	}
	h.state = Closing
	conn := h.conn
	outboundIn := h.outboundIn
	cancel := h.cancel
	h.mu.Unlock()

	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.CloseWrite()
	}
	close(outboundIn)
	cancel()
	conn.Close()
	h.wg.Wait()

	h.mu.Lock()
	h.state = Disconnected
	h.mu.Unlock()
	h.logger.Info().Msg("network: disconnected")
	return nil
}
