package network

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/user/ibtws/internal/decode"
	"github.com/user/ibtws/wire"
)

// fakeGateway serves one handshake (and optionally forwards extra raw bytes)
// over a net.Pipe, the way minis/33-tcp-echo-server-client's test harness
// drives a client against an in-process peer without touching a real
// socket.
type fakeGateway struct {
	server net.Conn
}

func startFakeGateway(t *testing.T, serverVersion int, connectionTime string, trailing []byte) (*fakeGateway, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	g := &fakeGateway{server: server}

	go func() {
		buf := make([]byte, 4096)
		n, err := server.Read(buf)
		if err != nil || n == 0 {
			return
		}
		reply := append(wire.EncodeInt(serverVersion), wire.EncodeString(connectionTime)...)
		reply = append(reply, trailing...)
		if _, err := server.Write(reply); err != nil {
			return
		}
		buf2 := make([]byte, 64)
		if _, err := server.Read(buf2); err != nil {
			return
		}
	}()

	return g, client
}

func TestHandlerStateStringsCoverAllStates(t *testing.T) {
	states := []State{Disconnected, Handshaking, Connected, Closing, State(99)}
	want := []string{"disconnected", "handshaking", "connected", "closing", "unknown"}
	for i, s := range states {
		if s.String() != want[i] {
			t.Fatalf("State(%d).String() = %q, want %q", s, s.String(), want[i])
		}
	}
}

func TestNewDefaultsToDisconnected(t *testing.T) {
	h := New("localhost", 7497, 1, time.Second, 4096)
	if h.State() != Disconnected {
		t.Fatalf("State() = %v, want Disconnected", h.State())
	}
	if h.IsConnected() {
		t.Fatalf("IsConnected() = true before Connect")
	}
	if h.ServerVersion() != 0 || h.ConnectionTime() != "" {
		t.Fatalf("ServerVersion/ConnectionTime not zero before Connect")
	}
}

func TestHandshakeParsesServerVersionAndLeftoverFields(t *testing.T) {
	errMsg := append(wire.EncodeInt(4), wire.EncodeInt(2)...)
	errMsg = append(errMsg, wire.EncodeInt(-1)...)
	errMsg = append(errMsg, wire.EncodeInt(1100)...)
	errMsg = append(errMsg, wire.EncodeString("connectivity restored")...)

	_, clientConn := startFakeGateway(t, 150, "20260731 12:00:00", errMsg)
	defer clientConn.Close()

	h := New("ignored", 0, 7, time.Second, 4096)
	var fb wire.FrameBuffer
	sv, ct, leftover, err := h.handshake(clientConn, &fb)
	if err != nil {
		t.Fatalf("handshake: %v", err)
	}
	if sv != 150 {
		t.Fatalf("serverVersion = %d, want 150", sv)
	}
	if ct != "20260731 12:00:00" {
		t.Fatalf("connectionTime = %q", ct)
	}
	if len(leftover) == 0 {
		t.Fatalf("leftover fields dropped, want the coalesced error message preserved")
	}
}

func TestDisconnectBeforeConnectIsNoOp(t *testing.T) {
	h := New("localhost", 7497, 1, time.Second, 4096)
	if err := h.Disconnect(); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if h.State() != Disconnected {
		t.Fatalf("State() = %v, want Disconnected", h.State())
	}
}

func TestSendWhileNotConnectedErrors(t *testing.T) {
	h := New("localhost", 7497, 1, time.Second, 4096)
	if err := h.Send([]byte("x\x00")); err == nil {
		t.Fatalf("Send() while disconnected: want error, got nil")
	}
}

// TestConnectAndDisconnectFullLifecycle drives a full Connect/Disconnect
// cycle against an in-process gateway built directly out of the handler's
// internal pieces, bypassing Connect's net.Dial so the test runs over
// net.Pipe. It exercises the teardown protocol end to end: a final
// decode.KindStop event must always arrive and the Events channel must
// close afterward.
func TestConnectAndDisconnectFullLifecycle(t *testing.T) {
	client, server := net.Pipe()

	serverDone := make(chan struct{})
	go func() {
		defer close(serverDone)
		buf := make([]byte, 4096)
		n, err := server.Read(buf)
		if err != nil || n == 0 {
			return
		}
		reply := append(wire.EncodeInt(150), wire.EncodeString("20260731 12:00:00")...)
		if _, err := server.Write(reply); err != nil {
			return
		}
		if _, err := server.Read(buf); err != nil {
			return
		}
		// Client half-closed for writing; drain until the pipe breaks.
		for {
			if _, err := server.Read(buf); err != nil {
				return
			}
		}
	}()

	h := New("unused", 0, 42, 200*time.Millisecond, 4096)

	var fb wire.FrameBuffer
	sv, ct, leftover, err := h.handshake(client, &fb)
	if err != nil {
		t.Fatalf("handshake: %v", err)
	}
	if sv != 150 || ct != "20260731 12:00:00" {
		t.Fatalf("handshake = %d, %q", sv, ct)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	outboundIn, outboundOut := newUnboundedQueue[[]byte]()
	eventsIn, eventsOut := newUnboundedQueue[decode.Event]()
	fieldsIn, fieldsOut := newUnboundedQueue[string]()

	h.mu.Lock()
	h.conn = client
	h.serverVersion = sv
	h.connectionTime = ct
	h.cancel = cancel
	h.outboundIn = outboundIn
	h.outboundOut = outboundOut
	h.eventsIn = eventsIn
	h.eventsOut = eventsOut
	h.state = Connected
	h.mu.Unlock()

	for _, f := range leftover {
		fieldsIn <- f
	}

	h.wg.Add(3)
	go h.runWriter(runCtx, client, outboundOut)
	go h.runByteReader(runCtx, client, &fb, fieldsIn)
	go h.runParser(runCtx, fieldsOut, eventsIn)

	if !h.IsConnected() {
		t.Fatalf("IsConnected() = false after manual connect setup")
	}

	if err := h.Disconnect(); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if h.State() != Disconnected {
		t.Fatalf("State() = %v after Disconnect, want Disconnected", h.State())
	}

	var lastEvent decode.Event
	sawStop := false
	for ev := range eventsOut {
		lastEvent = ev
		if ev.Kind == decode.KindStop {
			sawStop = true
		}
	}
	if !sawStop {
		t.Fatalf("Events channel closed without a KindStop event; last = %+v", lastEvent)
	}

	<-serverDone
}
