// Package ibtws is a client library for the Interactive Brokers TWS/Gateway
// socket API: connect, place and cancel orders, and stream market data and
// account events, the way minis/50-mini-service-all-features composes its
// internal packages behind one facade type.
package ibtws

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/user/ibtws/ibconfig"
	"github.com/user/ibtws/iberrors"
	"github.com/user/ibtws/ibtypes"
	"github.com/user/ibtws/internal/decode"
	"github.com/user/ibtws/internal/encode"
	"github.com/user/ibtws/internal/metrics"
	"github.com/user/ibtws/internal/network"
)

// Event is the type consumers range over via Client.Events.
type Event = decode.Event

// Re-export the event-kind and payload vocabulary so callers never need to
// import internal/decode directly.
const (
	KindTickPrice          = decode.KindTickPrice
	KindTickSize           = decode.KindTickSize
	KindTickGeneric        = decode.KindTickGeneric
	KindTickString         = decode.KindTickString
	KindOrderStatus        = decode.KindOrderStatus
	KindError              = decode.KindError
	KindOpenOrder          = decode.KindOpenOrder
	KindOpenOrderEnd       = decode.KindOpenOrderEnd
	KindAccountValue       = decode.KindAccountValue
	KindPortfolioValue     = decode.KindPortfolioValue
	KindAccountUpdateTime  = decode.KindAccountUpdateTime
	KindAccountDownloadEnd = decode.KindAccountDownloadEnd
	KindNextValidID        = decode.KindNextValidID
	KindContractDetails    = decode.KindContractDetails
	KindContractDetailsEnd = decode.KindContractDetailsEnd
	KindExecDetails        = decode.KindExecDetails
	KindExecDetailsEnd     = decode.KindExecDetailsEnd
	KindManagedAccounts    = decode.KindManagedAccounts
	KindHistoricalData     = decode.KindHistoricalData
	KindCurrentTime        = decode.KindCurrentTime
	KindCommissionReport   = decode.KindCommissionReport
	KindStop               = decode.KindStop
)

// Client is the single entry point for the library: one Client owns one
// connection to a TWS/Gateway instance.
type Client struct {
	handler *network.Handler
}

// Option configures a Client at construction time.
type Option func(*clientOptions)

type clientOptions struct {
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// WithLogger injects a zerolog.Logger used by the underlying network
// handler.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// WithMetrics injects a Metrics collector used by the underlying network
// handler. Passing nil (the default) makes every recording call a no-op.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// New builds a Client from cfg, ready to Connect.
func New(cfg *ibconfig.Config, opts ...Option) *Client {
	o := &clientOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	h := network.New(cfg.Host, cfg.Port, cfg.ClientID, cfg.Timeout, cfg.BufferSize,
		network.WithLogger(o.logger), network.WithMetrics(o.metrics))
	return &Client{handler: h}
}

// Connect dials the gateway and performs the version handshake. Calling
// Connect a second time while already connected is a no-op.
func (c *Client) Connect(ctx context.Context) (serverVersion int, connectionTime string, err error) {
	return c.handler.Connect(ctx)
}

// Disconnect runs the teardown protocol and waits for all internal
// goroutines to exit. Disconnecting while not connected is a no-op.
func (c *Client) Disconnect() error {
	return c.handler.Disconnect()
}

// IsConnected reports whether the client currently holds a live connection.
func (c *Client) IsConnected() bool {
	return c.handler.IsConnected()
}

// ServerVersion returns the version negotiated during the handshake, or 0
// before Connect.
func (c *Client) ServerVersion() int {
	return c.handler.ServerVersion()
}

// ConnectionTime returns the gateway's connection-time string negotiated
// during the handshake, or "" before Connect.
func (c *Client) ConnectionTime() string {
	return c.handler.ConnectionTime()
}

// Events returns the channel of decoded inbound events. A final event with
// Kind == KindStop is always delivered before the channel closes.
func (c *Client) Events() <-chan Event {
	return c.handler.Events()
}

func (c *Client) send(msg []byte, err error) error {
	if err != nil {
		return err
	}
	return c.handler.Send(msg)
}

// ReqContractDetails requests the contract's full description. Combo (BAG)
// contracts are rejected.
func (c *Client) ReqContractDetails(reqID int, contract *ibtypes.Contract) error {
	return c.send(encode.ReqContractDetails(reqID, contract))
}

// ReqMktData subscribes to streaming (or, with snapshot set, one-shot) tick
// data for contract. Combo (BAG) contracts and contracts with a non-nil
// UnderComp are rejected.
func (c *Client) ReqMktData(reqID int, contract *ibtypes.Contract, genericTicklist string, snapshot bool) error {
	return c.send(encode.ReqMktData(reqID, contract, genericTicklist, snapshot))
}

// CancelMktData cancels a subscription started by ReqMktData.
func (c *Client) CancelMktData(reqID int) error {
	return c.handler.Send(encode.CancelMktData(reqID))
}

// ReqHistoricalData requests a historical bar series. The gateway replies
// with one HistoricalData event per bar followed by a terminal event with
// Done set. Combo (BAG) contracts are rejected.
func (c *Client) ReqHistoricalData(reqID int, contract *ibtypes.Contract, endDateTime, barSize, duration string, useRTH bool, whatToShow, formatDate string) error {
	return c.send(encode.ReqHistoricalData(reqID, contract, endDateTime, barSize, duration, useRTH, whatToShow, formatDate))
}

// CancelHistoricalData cancels a subscription started by ReqHistoricalData.
func (c *Client) CancelHistoricalData(reqID int) error {
	return c.handler.Send(encode.CancelHistoricalData(reqID))
}

// PlaceOrder submits order against contract under reqID. Combo (BAG)
// contracts, contracts with a non-nil UnderComp, and orders with a non-empty
// AlgoStrategy are rejected.
func (c *Client) PlaceOrder(reqID int, contract *ibtypes.Contract, order *ibtypes.Order) error {
	return c.send(encode.PlaceOrder(reqID, contract, order))
}

// CancelOrder cancels a working order.
func (c *Client) CancelOrder(reqID int) error {
	return c.handler.Send(encode.CancelOrder(reqID))
}

// ReqOpenOrders requests the open orders placed by this client id.
func (c *Client) ReqOpenOrders() error {
	return c.handler.Send(encode.ReqOpenOrders())
}

// ReqAllOpenOrders requests the open orders placed by every client id on
// this connection.
func (c *Client) ReqAllOpenOrders() error {
	return c.handler.Send(encode.ReqAllOpenOrders())
}

// ReqAutoOpenOrders toggles whether orders placed from the TWS UI are bound
// to this API client.
func (c *Client) ReqAutoOpenOrders(autoBind bool) error {
	return c.handler.Send(encode.ReqAutoOpenOrders(autoBind))
}

// ReqAccountUpdates subscribes (or unsubscribes) to account and portfolio
// value updates for acctCode.
func (c *Client) ReqAccountUpdates(subscribe bool, acctCode string) error {
	return c.handler.Send(encode.ReqAccountUpdates(subscribe, acctCode))
}

// ReqExecutions requests execution reports matching f.
func (c *Client) ReqExecutions(reqID int, f *ibtypes.ExecutionFilter) error {
	return c.handler.Send(encode.ReqExecutions(reqID, f))
}

// ReqIDs requests the next valid order id; the gateway replies with a
// NextValidID event. numIDs is retained for wire compatibility and ignored
// by the gateway beyond the count of ids it prefetches internally.
func (c *Client) ReqIDs(numIDs int) error {
	return c.handler.Send(encode.ReqIDs(numIDs))
}

// ReqManagedAccts requests the list of account ids managed by this login.
func (c *Client) ReqManagedAccts() error {
	return c.handler.Send(encode.ReqManagedAccts())
}

// ReqCurrentTime requests the gateway's current time.
func (c *Client) ReqCurrentTime() error {
	return c.handler.Send(encode.ReqCurrentTime())
}

// SetServerLogLevel sets the gateway-side log verbosity.
func (c *Client) SetServerLogLevel(level int) error {
	return c.handler.Send(encode.SetServerLogLevel(level))
}

// The following operations are recognized by the protocol but not
// implemented by this client; every call returns an error wrapping
// iberrors.ErrNotSupported.
func (c *Client) CalculateImpliedVolatility(int, *ibtypes.Contract, float64, float64) error {
	return encode.Unsupported("calculate_implied_volatility")
}
func (c *Client) CalculateOptionPrice(int, *ibtypes.Contract, float64, float64) error {
	return encode.Unsupported("calculate_option_price")
}
func (c *Client) ReqMarketDepth(int, *ibtypes.Contract, int) error {
	return encode.Unsupported("req_market_depth")
}
func (c *Client) CancelMarketDepth(int) error {
	return encode.Unsupported("cancel_market_depth")
}
func (c *Client) ReqNewsBulletins(bool) error {
	return encode.Unsupported("req_news_bulletins")
}
func (c *Client) CancelNewsBulletins() error {
	return encode.Unsupported("cancel_news_bulletins")
}
func (c *Client) ReqRealTimeBars(int, *ibtypes.Contract, int, string, bool) error {
	return encode.Unsupported("req_real_time_bars")
}
func (c *Client) CancelRealTimeBars(int) error {
	return encode.Unsupported("cancel_real_time_bars")
}
func (c *Client) ReqScannerSubscription(int, interface{}) error {
	return encode.Unsupported("req_scanner_subscription")
}
func (c *Client) CancelScannerSubscription(int) error {
	return encode.Unsupported("cancel_scanner_subscription")
}
func (c *Client) ReqFundamentalData(int, *ibtypes.Contract, string) error {
	return encode.Unsupported("req_fundamental_data")
}
func (c *Client) ReplaceFA(int, string) error {
	return encode.Unsupported("replace_fa")
}
func (c *Client) ExerciseOptions(int, *ibtypes.Contract, int, int, string, int) error {
	return encode.Unsupported("exercise_options")
}
func (c *Client) ReqFA(int) error {
	return encode.Unsupported("req_fa")
}
func (c *Client) ReqMarketDataType(int) error {
	return encode.Unsupported("req_market_data_type")
}

// WaitForNextValidID blocks until either a NextValidID event arrives on the
// client's event stream or timeout elapses, returning the id. It is a
// convenience wrapper for the common connect-then-get-an-order-id sequence;
// callers who want the raw event stream should read Events directly
// instead.
func (c *Client) WaitForNextValidID(ctx context.Context, timeout time.Duration) (int, error) {
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-c.Events():
			if !ok {
				return 0, fmt.Errorf("ibtws: event stream closed before next_valid_id: %w", iberrors.ErrIO)
			}
			if ev.Kind == KindNextValidID {
				return ev.ReqID, nil
			}
			if ev.Kind == KindStop {
				return 0, fmt.Errorf("ibtws: connection stopped before next_valid_id: %w", iberrors.ErrIO)
			}
		case <-deadline:
			return 0, fmt.Errorf("ibtws: timed out waiting for next_valid_id")
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}
