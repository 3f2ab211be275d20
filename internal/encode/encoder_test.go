package encode

import (
	"errors"
	"strings"
	"testing"

	"github.com/user/ibtws/iberrors"
	"github.com/user/ibtws/ibtypes"
)

func fields(t *testing.T, msg []byte) []string {
	t.Helper()
	s := strings.Split(string(msg), "\x00")
	// strings.Split on a NUL-terminated buffer leaves one trailing empty
	// element; every encoder here terminates its last field with a NUL.
	if len(s) > 0 && s[len(s)-1] == "" {
		s = s[:len(s)-1]
	}
	return s
}

func TestCancelOrderFieldOrder(t *testing.T) {
	got := fields(t, CancelOrder(42))
	want := []string{"4", "1", "42"}
	if !equal(got, want) {
		t.Fatalf("CancelOrder fields = %v, want %v", got, want)
	}
}

func TestReqContractDetailsOmitsPrimaryExch(t *testing.T) {
	c := ibtypes.NewContract("STK", "AAPL", "USD", "SMART")
	c.PrimaryExch = "NASDAQ"
	msg, err := ReqContractDetails(7, c)
	if err != nil {
		t.Fatalf("ReqContractDetails: %v", err)
	}
	got := fields(t, msg)
	for _, f := range got {
		if f == "NASDAQ" {
			t.Fatalf("req_contract_details fields %v contain primary_exch, want it omitted", got)
		}
	}
}

func TestReqContractDetailsRejectsCombo(t *testing.T) {
	c := ibtypes.NewContract(ibtypes.BagSecType, "AAPL", "USD", "SMART")
	_, err := ReqContractDetails(1, c)
	if !errors.Is(err, iberrors.ErrNotSupported) {
		t.Fatalf("ReqContractDetails(BAG) err = %v, want ErrNotSupported", err)
	}
}

func TestPlaceOrderRejectsComboContract(t *testing.T) {
	c := ibtypes.NewContract(ibtypes.BagSecType, "AAPL", "USD", "SMART")
	o := ibtypes.NewOrder("BUY", 100, "MKT", 0, 0)
	_, err := PlaceOrder(1, c, o)
	if !errors.Is(err, iberrors.ErrNotSupported) {
		t.Fatalf("PlaceOrder(BAG) err = %v, want ErrNotSupported", err)
	}
}

func TestPlaceOrderRejectsUnderComp(t *testing.T) {
	c := ibtypes.NewContract("STK", "AAPL", "USD", "SMART")
	c.UnderComp = &ibtypes.UnderComp{ConID: 1}
	o := ibtypes.NewOrder("BUY", 100, "MKT", 0, 0)
	_, err := PlaceOrder(1, c, o)
	if !errors.Is(err, iberrors.ErrNotSupported) {
		t.Fatalf("PlaceOrder(UnderComp) err = %v, want ErrNotSupported", err)
	}
}

func TestPlaceOrderRejectsAlgoStrategy(t *testing.T) {
	c := ibtypes.NewContract("STK", "AAPL", "USD", "SMART")
	o := ibtypes.NewOrder("BUY", 100, "MKT", 0, 0)
	o.AlgoStrategy = "VWAP"
	_, err := PlaceOrder(1, c, o)
	if !errors.Is(err, iberrors.ErrNotSupported) {
		t.Fatalf("PlaceOrder(AlgoStrategy) err = %v, want ErrNotSupported", err)
	}
}

func TestPlaceOrderAcceptsPlainMarketOrder(t *testing.T) {
	c := ibtypes.NewContract("STK", "AAPL", "USD", "SMART")
	o := ibtypes.NewOrder("BUY", 100, "MKT", 0, 0)
	msg, err := PlaceOrder(1, c, o)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	got := fields(t, msg)
	if got[0] != "3" {
		t.Fatalf("place_order message id = %q, want 3", got[0])
	}
	if got[1] != "35" {
		t.Fatalf("place_order version = %q, want 35", got[1])
	}
}

func TestPlaceOrderDoesNotInsertSpuriousFlagsAroundRule80A(t *testing.T) {
	c := ibtypes.NewContract("STK", "AAPL", "USD", "SMART")
	o := ibtypes.NewOrder("BUY", 100, "MKT", 0, 0)
	o.Rule80A = "I"
	o.SettlingFirm = "ABC"
	o.AllOrNone = true

	msg, err := PlaceOrder(1, c, o)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	got := fields(t, msg)

	// Field indices after idPlaceOrder/verPlaceOrder/reqID (3), the 11
	// contractFields (14), sec_id_type/sec_id (16), main order (21),
	// extended order (35), deprecated shares alloc (36), FA fields (43),
	// short-sale fields (46): oca_type sits at 46, rule_80a immediately after
	// at 47, settling_firm at 48, all_or_none at 49. There must be no boolean
	// flag preceding rule_80a or settling_firm.
	const (
		ocaType      = 46
		rule80A      = 47
		settlingFirm = 48
		allOrNone    = 49
	)
	if got[ocaType] != "1" {
		t.Fatalf("fields[%d] (oca_type) = %q, want %q", ocaType, got[ocaType], "1")
	}
	if got[rule80A] != "I" {
		t.Fatalf("fields[%d] (rule_80a) = %q, want %q; a spurious bool field would shift this", rule80A, got[rule80A], "I")
	}
	if got[settlingFirm] != "ABC" {
		t.Fatalf("fields[%d] (settling_firm) = %q, want %q; a spurious bool field would shift this", settlingFirm, got[settlingFirm], "ABC")
	}
	if got[allOrNone] != "1" {
		t.Fatalf("fields[%d] (all_or_none) = %q, want %q", allOrNone, got[allOrNone], "1")
	}
}

func TestReqMktDataRejectsUnderComp(t *testing.T) {
	c := ibtypes.NewContract("STK", "AAPL", "USD", "SMART")
	c.UnderComp = &ibtypes.UnderComp{ConID: 1}
	_, err := ReqMktData(1, c, "", false)
	if !errors.Is(err, iberrors.ErrNotSupported) {
		t.Fatalf("ReqMktData(UnderComp) err = %v, want ErrNotSupported", err)
	}
}

func TestUnsupportedWrapsSentinel(t *testing.T) {
	err := Unsupported("req_market_depth")
	if !errors.Is(err, iberrors.ErrNotSupported) {
		t.Fatalf("Unsupported() = %v, want wrapping ErrNotSupported", err)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
