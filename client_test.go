package ibtws

import (
	"errors"
	"testing"

	"github.com/user/ibtws/ibconfig"
	"github.com/user/ibtws/iberrors"
	"github.com/user/ibtws/ibtypes"
)

func TestNewClientStartsDisconnected(t *testing.T) {
	c := New(ibconfig.Default())
	if c.IsConnected() {
		t.Fatalf("IsConnected() = true before Connect")
	}
	if c.ServerVersion() != 0 || c.ConnectionTime() != "" {
		t.Fatalf("ServerVersion/ConnectionTime not zero before Connect")
	}
}

func TestUnimplementedOperationsWrapErrNotSupported(t *testing.T) {
	c := New(ibconfig.Default())
	ops := []func() error{
		func() error { return c.CalculateImpliedVolatility(1, &ibtypes.Contract{}, 1, 1) },
		func() error { return c.CalculateOptionPrice(1, &ibtypes.Contract{}, 1, 1) },
		func() error { return c.ReqMarketDepth(1, &ibtypes.Contract{}, 5) },
		func() error { return c.CancelMarketDepth(1) },
		func() error { return c.ReqNewsBulletins(true) },
		func() error { return c.CancelNewsBulletins() },
		func() error { return c.ReqRealTimeBars(1, &ibtypes.Contract{}, 5, "TRADES", false) },
		func() error { return c.CancelRealTimeBars(1) },
		func() error { return c.ReqScannerSubscription(1, nil) },
		func() error { return c.CancelScannerSubscription(1) },
		func() error { return c.ReqFundamentalData(1, &ibtypes.Contract{}, "ReportSnapshot") },
		func() error { return c.ReplaceFA(1, "<xml/>") },
		func() error { return c.ExerciseOptions(1, &ibtypes.Contract{}, 1, 1, "acct", 0) },
		func() error { return c.ReqFA(1) },
		func() error { return c.ReqMarketDataType(1) },
	}
	for i, op := range ops {
		if err := op(); !errors.Is(err, iberrors.ErrNotSupported) {
			t.Fatalf("op[%d] = %v, want error wrapping ErrNotSupported", i, err)
		}
	}
}

func TestSendBeforeConnectReturnsIOError(t *testing.T) {
	c := New(ibconfig.Default())
	if err := c.ReqCurrentTime(); !errors.Is(err, iberrors.ErrIO) {
		t.Fatalf("ReqCurrentTime before connect = %v, want ErrIO", err)
	}
}
