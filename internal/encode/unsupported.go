package encode

import "github.com/user/ibtws/iberrors"

// Unsupported returns the error the client facade returns for every
// recognized-but-unimplemented operation (implied volatility and option
// price calculations, market depth, news bulletins, real-time bars, the
// market scanner, fundamental data, FA configuration replacement, option
// exercise, and req_market_data_type), each named op by op so the error
// message identifies which call the caller made.
func Unsupported(op string) error {
	return &unsupportedOp{op: op}
}

type unsupportedOp struct{ op string }

func (e *unsupportedOp) Error() string {
	return "encode: " + e.op + ": not supported"
}

func (e *unsupportedOp) Unwrap() error { return iberrors.ErrNotSupported }
