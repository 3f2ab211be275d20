package network

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/user/ibtws/iberrors"
	"github.com/user/ibtws/internal/decode"
	"github.com/user/ibtws/wire"
)

// runWriter drains the outbound queue onto the socket in order. It returns
// when outbound is closed (the normal teardown path) or ctx is canceled, and
// treats any write error as fatal: it logs, records the error, and cancels
// ctx so the byte-reader and parser unwind too.
func (h *Handler) runWriter(ctx context.Context, conn net.Conn, outbound <-chan []byte) {
	defer h.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-outbound:
			if !ok {
				return
			}
			if _, err := conn.Write(msg); err != nil {
				h.logger.Error().Err(err).Msg("network: writer: fatal write error")
				h.metrics.ProtocolError("io")
				h.cancel()
				return
			}
			h.metrics.BytesWrittenAdd(len(msg))
			h.metrics.FrameEncoded()
		}
	}
}

// runByteReader pulls bytes off the socket, reassembles them into fields via
// fb, and pushes each field onto fieldsIn. A read deadline bounds every
// Read call so the loop periodically rechecks ctx; a timed-out Read is a
// liveness probe, not an error. A read ending in io.EOF is a graceful
// close; any other read error observed after ctx was already canceled is
// also treated as graceful (the teardown path closed the socket out from
// under us on purpose). Any other read error is fatal and cancels ctx.
// fieldsIn is always closed on return so the parser's pop loop unblocks.
func (h *Handler) runByteReader(ctx context.Context, conn net.Conn, fb *wire.FrameBuffer, fieldsIn chan<- string) {
	defer h.wg.Done()
	defer close(fieldsIn)

	buf := make([]byte, h.bufferSize)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_ = conn.SetReadDeadline(time.Now().Add(h.timeout))
		n, err := conn.Read(buf)
		if n > 0 {
			h.metrics.BytesReadAdd(n)
			for _, f := range fb.Feed(buf[:n]) {
				select {
				case fieldsIn <- f:
				case <-ctx.Done():
					return
				}
			}
		}
		if err == nil {
			continue
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		if err == io.EOF {
			return
		}
		h.logger.Error().Err(err).Msg("network: byte-reader: fatal read error")
		h.metrics.ProtocolError("io")
		h.cancel()
		return
	}
}

// runParser wraps fieldsOut in a wire.FieldReader and repeatedly calls
// decode.Next, forwarding every decoded event to events. It always pushes a
// final decode.KindStop event before returning and closes events, so a
// consumer ranging over Events() terminates cleanly no matter which of the
// three shutdown paths (clean EOF, shutdown sentinel, fatal decode error)
// triggered it. A fatal decode error also cancels ctx so the writer and
// byte-reader unwind.
func (h *Handler) runParser(ctx context.Context, fieldsOut <-chan string, events chan<- decode.Event) {
	defer h.wg.Done()
	defer func() {
		events <- decode.Event{Kind: decode.KindStop}
		close(events)
	}()

	reader := wire.NewFieldReader(fieldsOut)
	for {
		evs, err := decode.Next(reader)
		if err != nil {
			if err == io.EOF {
				return
			}
			h.logger.Error().Err(err).Msg("network: parser: fatal decode error")
			h.metrics.ProtocolError(protocolErrorKind(err))
			h.cancel()
			return
		}
		for _, ev := range evs {
			h.metrics.FrameDecoded()
			if ev.Kind == decode.KindStop {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

func protocolErrorKind(err error) string {
	switch {
	case errors.Is(err, iberrors.ErrUnsupportedMessageID):
		return "unsupported_message_id"
	case errors.Is(err, iberrors.ErrProtocol):
		return "protocol"
	default:
		return "unknown"
	}
}
