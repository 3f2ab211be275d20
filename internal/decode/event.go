// Package decode turns the inbound field stream into typed Events, grounded
// field-for-field on core/reader.py's message_ids dispatch table and its
// per-message handler functions.
package decode

import "github.com/user/ibtws/ibtypes"

// Kind identifies the shape of an Event's Payload.
type Kind int

const (
	KindTickPrice Kind = iota
	KindTickSize
	KindTickGeneric
	KindTickString
	KindOrderStatus
	KindError
	KindOpenOrder
	KindOpenOrderEnd
	KindAccountValue
	KindPortfolioValue
	KindAccountUpdateTime
	KindAccountDownloadEnd
	KindNextValidID
	KindContractDetails
	KindContractDetailsEnd
	KindExecDetails
	KindExecDetailsEnd
	KindManagedAccounts
	KindHistoricalData
	KindCurrentTime
	KindCommissionReport
	KindStop
)

// Event is one decoded inbound message. ReqID is populated whenever the
// underlying message carries one; it is left zero otherwise.
type Event struct {
	Kind    Kind
	ReqID   int
	Payload interface{}
}

// TickPriceEvent is the payload for KindTickPrice.
type TickPriceEvent struct {
	TickType        int
	Price           float64
	CanAutoExecute  bool
}

// TickSizeEvent is the payload for KindTickSize. It is produced both
// directly from a tick_size message and synthetically by tick_price for
// bid/ask/last ticks, mirroring the Python handler's fan-out.
type TickSizeEvent struct {
	TickType int
	Size     int
}

// TickGenericEvent is the payload for KindTickGeneric.
type TickGenericEvent struct {
	TickType int
	Value    float64
}

// TickStringEvent is the payload for KindTickString.
type TickStringEvent struct {
	TickType int
	Value    string
}

// OrderStatusEvent is the payload for KindOrderStatus.
type OrderStatusEvent struct {
	Status        string
	Filled        int
	Remaining     int
	AvgFillPrice  float64
	PermID        int
	ParentID      int
	LastFillPrice float64
	ClientID      int
	WhyHeld       string
}

// ErrorEvent is the payload for KindError. A ReqID/Code of 0 indicates the
// pre-version-2 flattened form (a bare message with no request context).
type ErrorEvent struct {
	Code    int
	Message string
}

// OpenOrderEvent is the payload for KindOpenOrder.
type OpenOrderEvent struct {
	Contract *ibtypes.Contract
	Order    *ibtypes.Order
}

// AccountValueEvent is the payload for KindAccountValue.
type AccountValueEvent struct {
	Key         string
	Value       string
	Currency    string
	AccountName string
}

// PortfolioValueEvent is the payload for KindPortfolioValue.
type PortfolioValueEvent struct {
	Contract      *ibtypes.Contract
	Position      int
	MarketPrice   float64
	MarketValue   float64
	AverageCost   float64
	UnrealizedPNL float64
	RealizedPNL   float64
	AccountName   string
}

// AccountUpdateTimeEvent is the payload for KindAccountUpdateTime.
type AccountUpdateTimeEvent struct {
	Timestamp string
}

// AccountDownloadEndEvent is the payload for KindAccountDownloadEnd.
type AccountDownloadEndEvent struct {
	AccountName string
}

// ContractDetailsEvent is the payload for KindContractDetails.
type ContractDetailsEvent struct {
	Contract *ibtypes.Contract
}

// ExecDetailsEvent is the payload for KindExecDetails.
type ExecDetailsEvent struct {
	OrderID   int
	Contract  *ibtypes.Contract
	Execution *ibtypes.Execution
}

// ManagedAccountsEvent is the payload for KindManagedAccounts.
type ManagedAccountsEvent struct {
	Accounts string
}

// HistoricalDataEvent is the payload for KindHistoricalData. Done is set on
// the terminal event synthesized after the last bar (matching the Python
// handler's "finished-{start}-{end}" sentinel record).
type HistoricalDataEvent struct {
	Bar  *ibtypes.Bar
	Done bool
}

// CurrentTimeEvent is the payload for KindCurrentTime.
type CurrentTimeEvent struct {
	Seconds int
}

// CommissionReportEvent is the payload for KindCommissionReport.
type CommissionReportEvent struct {
	Report *ibtypes.CommissionReport
}
