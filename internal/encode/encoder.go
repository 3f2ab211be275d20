// Package encode turns typed requests into ordered wire field streams,
// grounded field-for-field on core/client_socket.py. Each function returns
// one fully encoded message ready to hand to the network handler's outbound
// queue; none of them touch a socket.
package encode

import (
	"fmt"

	"github.com/user/ibtws/iberrors"
	"github.com/user/ibtws/ibtypes"
)

func contractFields(b *fieldBuilder, c *ibtypes.Contract) {
	b.Int(c.ConID).
		Str(c.Symbol).
		Str(c.SecType).
		Str(c.Expiry).
		Float(c.Strike).
		Str(c.Right).
		Str(c.Multiplier).
		Str(c.Exchange).
		Str(c.PrimaryExch).
		Str(c.Currency).
		Str(c.LocalSymbol)
}

// CancelHistoricalData encodes a cancel_historical_data request.
func CancelHistoricalData(reqID int) []byte {
	b := &fieldBuilder{}
	b.Int(idCancelHistoricalData).Int(verCancelHistoricalData).Int(reqID)
	return b.Bytes()
}

// CancelMktData encodes a cancel_mkt_data request.
func CancelMktData(reqID int) []byte {
	b := &fieldBuilder{}
	b.Int(idCancelMktData).Int(verCancelMktData).Int(reqID)
	return b.Bytes()
}

// CancelOrder encodes a cancel_order request.
func CancelOrder(reqID int) []byte {
	b := &fieldBuilder{}
	b.Int(idCancelOrder).Int(verCancelOrder).Int(reqID)
	return b.Bytes()
}

// ReqCurrentTime encodes a req_current_time request.
func ReqCurrentTime() []byte {
	b := &fieldBuilder{}
	b.Int(idReqCurrentTime).Int(verReqCurrentTime)
	return b.Bytes()
}

// ReqIDs encodes a req_ids request.
func ReqIDs(numIDs int) []byte {
	b := &fieldBuilder{}
	b.Int(idReqIDs).Int(verReqIDs).Int(numIDs)
	return b.Bytes()
}

// ReqManagedAccts encodes a req_managed_accts request.
func ReqManagedAccts() []byte {
	b := &fieldBuilder{}
	b.Int(idReqManagedAccts).Int(verReqManagedAccts)
	return b.Bytes()
}

// ReqOpenOrders encodes a req_open_orders request.
func ReqOpenOrders() []byte {
	b := &fieldBuilder{}
	b.Int(idReqOpenOrders).Int(verReqOpenOrders)
	return b.Bytes()
}

// ReqAllOpenOrders encodes a req_all_open_orders request.
func ReqAllOpenOrders() []byte {
	b := &fieldBuilder{}
	b.Int(idReqAllOpenOrders).Int(verReqAllOpenOrders)
	return b.Bytes()
}

// ReqAutoOpenOrders encodes a req_auto_open_orders request.
func ReqAutoOpenOrders(autoBind bool) []byte {
	b := &fieldBuilder{}
	b.Int(idReqAutoOpenOrders).Int(verReqAutoOpenOrders).Bool(autoBind)
	return b.Bytes()
}

// SetServerLogLevel encodes a set_server_log_level request.
func SetServerLogLevel(level int) []byte {
	b := &fieldBuilder{}
	b.Int(idSetServerLogLevel).Int(verSetServerLogLevel).Int(level)
	return b.Bytes()
}

// ReqAccountUpdates encodes a req_account_updates request.
func ReqAccountUpdates(subscribe bool, acctCode string) []byte {
	b := &fieldBuilder{}
	b.Int(idReqAccountData).Int(verReqAccountData).Bool(subscribe).Str(acctCode)
	return b.Bytes()
}

// ReqExecutions encodes a req_executions request.
func ReqExecutions(reqID int, f *ibtypes.ExecutionFilter) []byte {
	b := &fieldBuilder{}
	b.Int(idReqExecutions).Int(verReqExecutions).Int(reqID)
	if f != nil {
		b.Int(f.ClientID).Str(f.AcctCode).Str(f.Time).Str(f.Symbol).
			Str(f.SecType).Str(f.Exchange).Str(f.Side)
	} else {
		b.Int(0).Str("").Str("").Str("").Str("").Str("").Str("")
	}
	return b.Bytes()
}

// ReqContractDetails encodes a req_contract_details request. The wire
// contract omits primary_exch entirely, unlike the place_order/req_mkt_data
// contract field sequence above.
func ReqContractDetails(reqID int, c *ibtypes.Contract) ([]byte, error) {
	if c.IsBag() {
		return nil, fmt.Errorf("encode: req_contract_details: combo contracts: %w", iberrors.ErrNotSupported)
	}
	b := &fieldBuilder{}
	b.Int(idReqContractData).Int(verReqContractData).Int(reqID)
	b.Int(c.ConID).
		Str(c.Symbol).
		Str(c.SecType).
		Str(c.Expiry).
		Float(c.Strike).
		Str(c.Right).
		Str(c.Multiplier).
		Str(c.Exchange).
		Str(c.Currency).
		Str(c.LocalSymbol).
		Bool(c.IncludeExpired).
		Str(c.SecIDType).
		Str(c.SecID)
	return b.Bytes(), nil
}

// ReqMktData encodes a req_mkt_data request. under_comp is rejected, never
// emitted: the dealer's under_type-driven fork described in the original
// source is resolved uniformly here, via whether Contract.UnderComp is set.
func ReqMktData(reqID int, c *ibtypes.Contract, genericTicklist string, snapshot bool) ([]byte, error) {
	if c.IsBag() {
		return nil, fmt.Errorf("encode: req_mkt_data: combo contracts: %w", iberrors.ErrNotSupported)
	}
	if c.UnderComp != nil {
		return nil, fmt.Errorf("encode: req_mkt_data: delta-neutral under component: %w", iberrors.ErrNotSupported)
	}
	b := &fieldBuilder{}
	b.Int(idReqMktData).Int(verReqMktData).Int(reqID)
	contractFields(b, c)
	b.Bool(false) // under_comp always false: rejected above when present
	b.Str(genericTicklist)
	b.Bool(snapshot)
	return b.Bytes(), nil
}

// ReqHistoricalData encodes a req_historical_data request.
func ReqHistoricalData(reqID int, c *ibtypes.Contract, endDateTime, barSize, duration string, useRTH bool, whatToShow, formatDate string) ([]byte, error) {
	if c.IsBag() {
		return nil, fmt.Errorf("encode: req_historical_data: combo contracts: %w", iberrors.ErrNotSupported)
	}
	b := &fieldBuilder{}
	b.Int(idReqHistoricalData).Int(verReqHistoricalData).Int(reqID)
	// The historical contract block has no con_id field.
	b.Str(c.Symbol).
		Str(c.SecType).
		Str(c.Expiry).
		Float(c.Strike).
		Str(c.Right).
		Str(c.Multiplier).
		Str(c.Exchange).
		Str(c.PrimaryExch).
		Str(c.Currency).
		Str(c.LocalSymbol)
	b.Bool(c.IncludeExpired)
	b.Str(endDateTime).
		Str(barSize).
		Str(duration).
		Bool(useRTH).
		Str(whatToShow).
		Str(formatDate)
	return b.Bytes(), nil
}

// PlaceOrder encodes a place_order request. BAG contracts, non-nil
// UnderComp, and a non-empty AlgoStrategy are all rejected with
// ErrNotSupported, mirroring the three raise blocks in client_socket.py.
func PlaceOrder(reqID int, c *ibtypes.Contract, o *ibtypes.Order) ([]byte, error) {
	if c.IsBag() {
		return nil, fmt.Errorf("encode: place_order: combo contracts: %w", iberrors.ErrNotSupported)
	}
	if c.UnderComp != nil {
		return nil, fmt.Errorf("encode: place_order: delta-neutral under component: %w", iberrors.ErrNotSupported)
	}
	if o.AlgoStrategy != "" {
		return nil, fmt.Errorf("encode: place_order: algo orders: %w", iberrors.ErrNotSupported)
	}

	b := &fieldBuilder{}
	b.Int(idPlaceOrder).Int(verPlaceOrder).Int(reqID)
	contractFields(b, c)
	b.Str(c.SecIDType).Str(c.SecID)

	// Main order fields.
	b.Str(o.Action).
		Int(o.TotalQuantity).
		Str(o.OrderType).
		Float(o.LmtPrice).
		Float(o.AuxPrice)

	// Extended order fields.
	b.Str(o.TIF).
		Str(o.OCAGroup).
		Str(o.Account).
		Str(o.OpenClose).
		Int(o.Origin).
		Str(o.OrderRef).
		Bool(o.Transmit).
		Int(o.ParentID).
		Bool(o.BlockOrder).
		Bool(o.SweepToFill).
		Int(o.DisplaySize).
		Int(o.TriggerMethod).
		Bool(o.OutsideRTH).
		Bool(o.Hidden)

	// Combo legs are never emitted: BAG contracts are rejected above, and
	// the combo-leg block (count included) exists only for BAG contracts.

	// Deprecated shares-allocation field, always blank on this wire version.
	b.Str("")

	b.Float(o.DiscretionaryAmt).
		Str(o.GoodAfterTime).
		Str(o.GoodTillDate).
		Str(o.FAGroup).
		Str(o.FAMethod).
		Str(o.FAPercentage).
		Str(o.FAProfile)

	b.Int(o.ShortSaleSlot).
		Str(o.DesignatedLocation).
		Int(o.ExemptCode)

	b.Int(o.OCAType)

	b.Str(o.Rule80A).
		Str(o.SettlingFirm).
		Bool(o.AllOrNone).
		OptInt(o.MinQty).
		OptFloat(o.PercentOffset).
		Bool(false). // e_trade_only, unsupported: always false
		Bool(false). // firm_quote_only, unsupported: always false
		OptFloat(o.NbboPriceCap).
		OptInt(o.AuctionStrategy).
		OptFloat(o.StartingPrice).
		OptFloat(o.StockRefPrice).
		OptFloat(o.Delta).
		OptFloat(o.StockRangeLower).
		OptFloat(o.StockRangeUpper).
		Bool(o.OverridePercentageConstraints).
		OptFloat(o.Volatility).
		OptInt(o.VolatilityType).
		Str(o.DeltaNeutralOrderType).
		OptFloat(o.DeltaNeutralAuxPrice)

	if o.DeltaNeutralOrderType != "" {
		b.Int(o.DeltaNeutralConID).
			Str(o.DeltaNeutralSettlingFirm).
			Str(o.DeltaNeutralClearingAccount).
			Str(o.DeltaNeutralClearingIntent)
	}

	b.Bool(o.ContinuousUpdate)
	b.OptInt(o.ReferencePriceType)
	b.OptFloat(o.TrailStopPrice)
	b.OptFloat(o.TrailingPercent)
	b.OptInt(o.ScaleInitLevelSize)
	b.OptInt(o.ScaleSubsLevelSize)
	b.OptFloat(o.ScalePriceIncrement)

	if o.ScalePriceIncrement != nil && *o.ScalePriceIncrement > 0 {
		b.OptFloat(o.ScalePriceAdjustValue).
			OptInt(o.ScalePriceAdjustInterval).
			OptFloat(o.ScaleProfitOffset).
			Bool(o.ScaleAutoReset).
			OptInt(o.ScaleInitPosition).
			OptInt(o.ScaleInitFillQty).
			Bool(o.ScaleRandomPercent)
	}

	b.Str(o.HedgeType)
	if o.HedgeType != "" {
		b.Str(o.HedgeParam)
	}

	b.Bool(o.OptOutSmartRouting)
	b.Str(o.ClearingAccount).
		Str(o.ClearingIntent).
		Bool(o.NotHeld)

	// UnderComp is rejected above, so this is always "no under component".
	b.Bool(false)

	// AlgoStrategy is rejected above, so this is always blank with no
	// params block.
	b.Str("")

	b.Bool(o.WhatIf)
	return b.Bytes(), nil
}
