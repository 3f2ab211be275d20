// Package iberrors defines the closed set of error kinds signaled by the
// ibtws client library. Callers compare against these with errors.Is.
// ServerError describes a gateway business error; the library delivers those
// as KindError events, not as returned errors.
package iberrors

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Errors from the protocol path (encoding, decoding,
// the network handler and the client's request methods) wrap one of these
// with call-site context. Configuration errors from ibconfig, and the
// timeout and context errors from Client.WaitForNextValidID, do not.
var (
	// ErrNotSupported marks a recognized operation that is intentionally
	// not implemented on the outbound path.
	ErrNotSupported = errors.New("ibtws: operation not supported")

	// ErrIncompatibleServer marks a peer whose negotiated version is below
	// the minimum this client accepts.
	ErrIncompatibleServer = errors.New("ibtws: incompatible server version")

	// ErrProtocol marks a fatal, unrecoverable desynchronization of the
	// field stream: an unexpected version tag or a field that could not
	// be decoded as expected.
	ErrProtocol = errors.New("ibtws: protocol error")

	// ErrUnsupportedMessageID marks an inbound message id absent from the
	// dispatch table.
	ErrUnsupportedMessageID = errors.New("ibtws: unsupported message id")

	// ErrIO marks a fatal, unrecoverable socket read/write/wait failure.
	ErrIO = errors.New("ibtws: io error")
)

// ServerError is an ordinary business error delivered by the gateway as an
// `error` event. It is never fatal to the connection.
type ServerError struct {
	ReqID   int
	Code    int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("ibtws: server error %d: %s", e.Code, e.Message)
}
