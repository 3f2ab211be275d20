package decode

import (
	"fmt"

	"github.com/user/ibtws/iberrors"
	"github.com/user/ibtws/ibtypes"
	"github.com/user/ibtws/wire"
)

// versionErr reports a message whose version tag is lower than the handler
// requires, mirroring VERSION_ERROR in reader.py.
func versionErr(msg string, got, min int) error {
	return fmt.Errorf("decode: %s: version is %d (min %d needed): %w", msg, got, min, iberrors.ErrProtocol)
}

// Next reads exactly one message off r: a message id field followed by
// whatever fields that message's handler consumes. A negative message id is
// the shutdown sentinel and yields a single KindStop event with no further
// reads. Two handlers yield more than one event: tick_price (a price event
// plus a derived size event) and historical_data (one per bar plus a
// terminal "done" event), so every case returns a slice.
func Next(r *wire.FieldReader) ([]Event, error) {
	id, err := r.MessageID()
	if err != nil {
		return nil, err
	}
	if id < 0 {
		return []Event{{Kind: KindStop}}, nil
	}
	switch id {
	case idTickPrice:
		return decodeTickPrice(r)
	case idTickSize:
		return one(decodeTickSize(r))
	case idOrderStatus:
		return one(decodeOrderStatus(r))
	case idErrMsg:
		return one(decodeError(r))
	case idOpenOrder:
		return one(decodeOpenOrder(r))
	case idAcctValue:
		return one(decodeAccountValue(r))
	case idPortfolioValue:
		return one(decodePortfolioValue(r))
	case idAcctUpdateTime:
		return one(decodeAccountUpdateTime(r))
	case idNextValidID:
		return one(decodeNextValidID(r))
	case idContractData:
		return one(decodeContractDetails(r))
	case idExecutionData:
		return one(decodeExecDetails(r))
	case idManagedAccts:
		return one(decodeManagedAccounts(r))
	case idHistoricalData:
		return decodeHistoricalData(r)
	case idTickGeneric:
		return one(decodeTickGeneric(r))
	case idTickString:
		return one(decodeTickString(r))
	case idCurrentTime:
		return one(decodeCurrentTime(r))
	case idContractDataEnd:
		return one(decodeSimpleReqID(r, KindContractDetailsEnd))
	case idOpenOrderEnd:
		if _, err := r.Int(false); err != nil { // version
			return nil, err
		}
		return []Event{{Kind: KindOpenOrderEnd}}, nil
	case idAcctDownloadEnd:
		return one(decodeAccountDownloadEnd(r))
	case idExecutionDataEnd:
		return one(decodeSimpleReqID(r, KindExecDetailsEnd))
	case idCommissionReport:
		return one(decodeCommissionReport(r))
	default:
		return nil, fmt.Errorf("decode: message id %d: %w", id, iberrors.ErrUnsupportedMessageID)
	}
}

func one(ev Event, err error) ([]Event, error) {
	if err != nil {
		return nil, err
	}
	return []Event{ev}, nil
}

func decodeSimpleReqID(r *wire.FieldReader, kind Kind) (Event, error) {
	if _, err := r.Int(false); err != nil { // version
		return Event{}, err
	}
	reqID, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: kind, ReqID: reqID}, nil
}

// decodeTickPrice also fans out a derived tick_size event for bid
// (1->0), ask (2->3), and last (4->5) ticks, matching tick_price's two
// out_queue.put calls in the original handler.
func decodeTickPrice(r *wire.FieldReader) ([]Event, error) {
	version, err := r.Int(false)
	if err != nil {
		return nil, err
	}
	if version < 3 {
		return nil, versionErr("tick_price", version, 3)
	}
	reqID, err := r.Int(false)
	if err != nil {
		return nil, err
	}
	tickType, err := r.Int(false)
	if err != nil {
		return nil, err
	}
	price, err := r.Float(false)
	if err != nil {
		return nil, err
	}
	size, err := r.Int(false)
	if err != nil {
		return nil, err
	}
	canAutoExecute, err := r.Bool()
	if err != nil {
		return nil, err
	}
	events := []Event{{
		Kind:  KindTickPrice,
		ReqID: reqID,
		Payload: &TickPriceEvent{
			TickType:       tickType,
			Price:          price,
			CanAutoExecute: canAutoExecute,
		},
	}}

	sizeTickType := -1
	switch tickType {
	case 1:
		sizeTickType = 0
	case 2:
		sizeTickType = 3
	case 4:
		sizeTickType = 5
	}
	if sizeTickType != -1 {
		events = append(events, Event{
			Kind:    KindTickSize,
			ReqID:   reqID,
			Payload: &TickSizeEvent{TickType: sizeTickType, Size: size},
		})
	}
	return events, nil
}

func decodeTickSize(r *wire.FieldReader) (Event, error) {
	if _, err := r.Int(false); err != nil { // version
		return Event{}, err
	}
	reqID, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	tickType, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	size, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: KindTickSize, ReqID: reqID, Payload: &TickSizeEvent{TickType: tickType, Size: size}}, nil
}

func decodeTickGeneric(r *wire.FieldReader) (Event, error) {
	if _, err := r.Int(false); err != nil { // version
		return Event{}, err
	}
	reqID, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	tickType, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	value, err := r.Float(false)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: KindTickGeneric, ReqID: reqID, Payload: &TickGenericEvent{TickType: tickType, Value: value}}, nil
}

func decodeTickString(r *wire.FieldReader) (Event, error) {
	if _, err := r.Int(false); err != nil { // version
		return Event{}, err
	}
	reqID, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	tickType, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	value, err := r.String()
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: KindTickString, ReqID: reqID, Payload: &TickStringEvent{TickType: tickType, Value: value}}, nil
}

func decodeOrderStatus(r *wire.FieldReader) (Event, error) {
	version, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	if version < 6 {
		return Event{}, versionErr("order_status", version, 6)
	}
	reqID, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	status, err := r.String()
	if err != nil {
		return Event{}, err
	}
	filled, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	remaining, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	avgFillPrice, err := r.Float(false)
	if err != nil {
		return Event{}, err
	}
	permID, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	parentID, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	lastFillPrice, err := r.Float(false)
	if err != nil {
		return Event{}, err
	}
	clientID, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	whyHeld, err := r.String()
	if err != nil {
		return Event{}, err
	}
	return Event{
		Kind:  KindOrderStatus,
		ReqID: reqID,
		Payload: &OrderStatusEvent{
			Status:        status,
			Filled:        filled,
			Remaining:     remaining,
			AvgFillPrice:  avgFillPrice,
			PermID:        permID,
			ParentID:      parentID,
			LastFillPrice: lastFillPrice,
			ClientID:      clientID,
			WhyHeld:       whyHeld,
		},
	}, nil
}

// decodeError handles both the pre-version-2 flattened form (a bare
// message, req id and code forced to 0) and the modern (req_id, code,
// message) form.
func decodeError(r *wire.FieldReader) (Event, error) {
	version, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	if version < 2 {
		message, err := r.String()
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: KindError, Payload: &ErrorEvent{Message: message}}, nil
	}
	reqID, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	code, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	message, err := r.String()
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: KindError, ReqID: reqID, Payload: &ErrorEvent{Code: code, Message: message}}, nil
}

func decodeAccountValue(r *wire.FieldReader) (Event, error) {
	if _, err := r.Int(false); err != nil { // version
		return Event{}, err
	}
	key, err := r.String()
	if err != nil {
		return Event{}, err
	}
	value, err := r.String()
	if err != nil {
		return Event{}, err
	}
	currency, err := r.String()
	if err != nil {
		return Event{}, err
	}
	accountName, err := r.String()
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: KindAccountValue, Payload: &AccountValueEvent{
		Key: key, Value: value, Currency: currency, AccountName: accountName,
	}}, nil
}

func decodePortfolioValue(r *wire.FieldReader) (Event, error) {
	version, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	if version < 7 {
		return Event{}, versionErr("portfolio_value", version, 7)
	}
	c := &ibtypes.Contract{}
	var ferr error
	readContract := func(fn func() error) {
		if ferr == nil {
			ferr = fn()
		}
	}
	readContract(func() (e error) { c.ConID, e = r.Int(false); return })
	readContract(func() (e error) { c.Symbol, e = r.String(); return })
	readContract(func() (e error) { c.SecType, e = r.String(); return })
	readContract(func() (e error) { c.Expiry, e = r.String(); return })
	readContract(func() (e error) { c.Strike, e = r.Float(false); return })
	readContract(func() (e error) { c.Right, e = r.String(); return })
	readContract(func() (e error) { c.Multiplier, e = r.String(); return })
	readContract(func() (e error) { c.PrimaryExch, e = r.String(); return })
	readContract(func() (e error) { c.Currency, e = r.String(); return })
	readContract(func() (e error) { c.LocalSymbol, e = r.String(); return })
	if ferr != nil {
		return Event{}, ferr
	}
	position, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	marketPrice, err := r.Float(false)
	if err != nil {
		return Event{}, err
	}
	marketValue, err := r.Float(false)
	if err != nil {
		return Event{}, err
	}
	averageCost, err := r.Float(false)
	if err != nil {
		return Event{}, err
	}
	unrealizedPNL, err := r.Float(false)
	if err != nil {
		return Event{}, err
	}
	realizedPNL, err := r.Float(false)
	if err != nil {
		return Event{}, err
	}
	accountName, err := r.String()
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: KindPortfolioValue, Payload: &PortfolioValueEvent{
		Contract: c, Position: position, MarketPrice: marketPrice,
		MarketValue: marketValue, AverageCost: averageCost,
		UnrealizedPNL: unrealizedPNL, RealizedPNL: realizedPNL,
		AccountName: accountName,
	}}, nil
}

func decodeAccountUpdateTime(r *wire.FieldReader) (Event, error) {
	if _, err := r.Int(false); err != nil { // version
		return Event{}, err
	}
	timestamp, err := r.String()
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: KindAccountUpdateTime, Payload: &AccountUpdateTimeEvent{Timestamp: timestamp}}, nil
}

func decodeAccountDownloadEnd(r *wire.FieldReader) (Event, error) {
	if _, err := r.Int(false); err != nil { // version
		return Event{}, err
	}
	accountName, err := r.String()
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: KindAccountDownloadEnd, Payload: &AccountDownloadEndEvent{AccountName: accountName}}, nil
}

func decodeNextValidID(r *wire.FieldReader) (Event, error) {
	if _, err := r.Int(false); err != nil { // version
		return Event{}, err
	}
	reqID, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: KindNextValidID, ReqID: reqID}, nil
}

func decodeManagedAccounts(r *wire.FieldReader) (Event, error) {
	if _, err := r.Int(false); err != nil { // version
		return Event{}, err
	}
	accounts, err := r.String()
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: KindManagedAccounts, Payload: &ManagedAccountsEvent{Accounts: accounts}}, nil
}

func decodeCurrentTime(r *wire.FieldReader) (Event, error) {
	if _, err := r.Int(false); err != nil { // version
		return Event{}, err
	}
	seconds, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: KindCurrentTime, Payload: &CurrentTimeEvent{Seconds: seconds}}, nil
}

func decodeCommissionReport(r *wire.FieldReader) (Event, error) {
	if _, err := r.Int(false); err != nil { // version
		return Event{}, err
	}
	report := &ibtypes.CommissionReport{}
	var err error
	if report.ExecID, err = r.String(); err != nil {
		return Event{}, err
	}
	if report.Commission, err = r.Float(false); err != nil {
		return Event{}, err
	}
	if report.Currency, err = r.String(); err != nil {
		return Event{}, err
	}
	if report.RealizedPNL, err = r.Float(false); err != nil {
		return Event{}, err
	}
	if report.YieldValue, err = r.Float(false); err != nil {
		return Event{}, err
	}
	if report.YieldRedemptionDate, err = r.Int(false); err != nil {
		return Event{}, err
	}
	return Event{Kind: KindCommissionReport, Payload: &CommissionReportEvent{Report: report}}, nil
}

func decodeContractDetails(r *wire.FieldReader) (Event, error) {
	version, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	if version < 8 {
		return Event{}, versionErr("contract_details", version, 8)
	}
	reqID, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	c := &ibtypes.Contract{}
	fields := []func() error{
		func() (e error) { c.Symbol, e = r.String(); return },
		func() (e error) { c.SecType, e = r.String(); return },
		func() (e error) { c.Expiry, e = r.String(); return },
		func() (e error) { c.Strike, e = r.Float(false); return },
		func() (e error) { c.Right, e = r.String(); return },
		func() (e error) { c.Exchange, e = r.String(); return },
		func() (e error) { c.Currency, e = r.String(); return },
		func() (e error) { c.LocalSymbol, e = r.String(); return },
		func() (e error) { c.MarketName, e = r.String(); return },
		func() (e error) { c.TradingClass, e = r.String(); return },
		func() (e error) { c.ConID, e = r.Int(false); return },
		func() (e error) { c.MinTick, e = r.Float(false); return },
		func() (e error) { c.Multiplier, e = r.String(); return },
		func() (e error) { c.OrderTypes, e = r.String(); return },
		func() (e error) { c.ValidExchanges, e = r.String(); return },
		func() (e error) { c.PriceMagnifier, e = r.Int(false); return },
		func() (e error) { c.UnderConID, e = r.Int(false); return },
		func() (e error) { c.LongName, e = r.String(); return },
		func() (e error) { c.PrimaryExch, e = r.String(); return },
		func() (e error) { c.ContractMonth, e = r.String(); return },
		func() (e error) { c.Industry, e = r.String(); return },
		func() (e error) { c.Category, e = r.String(); return },
		func() (e error) { c.Subcategory, e = r.String(); return },
		func() (e error) { c.TimeZoneID, e = r.String(); return },
		func() (e error) { c.TradingHours, e = r.String(); return },
		func() (e error) { c.LiquidHours, e = r.String(); return },
		func() (e error) { c.EVRule, e = r.String(); return },
		func() (e error) { c.EVMultiplier, e = r.Float(false); return },
	}
	for _, f := range fields {
		if err := f(); err != nil {
			return Event{}, err
		}
	}
	secIDListCount, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	if secIDListCount > 0 {
		// The original handler only ever appends a single TagValue
		// regardless of the announced count; preserved here.
		tag, err := r.String()
		if err != nil {
			return Event{}, err
		}
		value, err := r.String()
		if err != nil {
			return Event{}, err
		}
		c.SecIDList = []ibtypes.TagValue{{Tag: tag, Value: value}}
	}
	return Event{Kind: KindContractDetails, ReqID: reqID, Payload: &ContractDetailsEvent{Contract: c}}, nil
}

func decodeExecDetails(r *wire.FieldReader) (Event, error) {
	version, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	if version < 9 {
		return Event{}, versionErr("exec_details", version, 9)
	}
	reqID, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	orderID, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	c := &ibtypes.Contract{}
	contractFields := []func() error{
		func() (e error) { c.ConID, e = r.Int(false); return },
		func() (e error) { c.Symbol, e = r.String(); return },
		func() (e error) { c.SecType, e = r.String(); return },
		func() (e error) { c.Expiry, e = r.String(); return },
		func() (e error) { c.Strike, e = r.Float(false); return },
		func() (e error) { c.Right, e = r.String(); return },
		func() (e error) { c.Multiplier, e = r.String(); return },
		func() (e error) { c.Exchange, e = r.String(); return },
		func() (e error) { c.Currency, e = r.String(); return },
		func() (e error) { c.LocalSymbol, e = r.String(); return },
	}
	for _, f := range contractFields {
		if err := f(); err != nil {
			return Event{}, err
		}
	}
	exec := &ibtypes.Execution{OrderID: orderID}
	execID, err := r.String()
	if err != nil {
		return Event{}, err
	}
	exec.ExecID = execID
	timeText, err := r.String()
	if err != nil {
		return Event{}, err
	}
	if err := exec.SetTime(timeText); err != nil {
		return Event{}, fmt.Errorf("decode: exec_details: %v: %w", err, iberrors.ErrProtocol)
	}
	execFields := []func() error{
		func() (e error) { exec.AcctNumber, e = r.String(); return },
		func() (e error) { exec.Exchange, e = r.String(); return },
		func() (e error) { exec.Side, e = r.String(); return },
		func() (e error) { exec.Shares, e = r.Int(false); return },
		func() (e error) { exec.Price, e = r.Float(false); return },
		func() (e error) { exec.PermID, e = r.Int(false); return },
		func() (e error) { exec.ClientID, e = r.Int(false); return },
		func() (e error) { exec.Liquidation, e = r.Int(false); return },
		func() (e error) { exec.CumQty, e = r.Int(false); return },
		func() (e error) { exec.AvgPrice, e = r.Float(false); return },
		func() (e error) { exec.OrderRef, e = r.String(); return },
		func() (e error) { exec.EVRule, e = r.String(); return },
		func() (e error) { exec.EVMultiplier, e = r.Float(false); return },
	}
	for _, f := range execFields {
		if err := f(); err != nil {
			return Event{}, err
		}
	}
	return Event{Kind: KindExecDetails, ReqID: reqID, Payload: &ExecDetailsEvent{
		OrderID: orderID, Contract: c, Execution: exec,
	}}, nil
}

func decodeHistoricalData(r *wire.FieldReader) ([]Event, error) {
	version, err := r.Int(false)
	if err != nil {
		return nil, err
	}
	if version < 3 {
		return nil, versionErr("historical_data", version, 3)
	}
	reqID, err := r.Int(false)
	if err != nil {
		return nil, err
	}
	startDate, err := r.String()
	if err != nil {
		return nil, err
	}
	endDate, err := r.String()
	if err != nil {
		return nil, err
	}
	itemCount, err := r.Int(false)
	if err != nil {
		return nil, err
	}
	events := make([]Event, 0, itemCount+1)
	for i := 0; i < itemCount; i++ {
		bar := &ibtypes.Bar{}
		barFields := []func() error{
			func() (e error) { bar.Date, e = r.String(); return },
			func() (e error) { bar.Open, e = r.Float(false); return },
			func() (e error) { bar.High, e = r.Float(false); return },
			func() (e error) { bar.Low, e = r.Float(false); return },
			func() (e error) { bar.Close, e = r.Float(false); return },
			func() (e error) { bar.Volume, e = r.Int(false); return },
			func() (e error) { bar.WAP, e = r.Float(false); return },
		}
		for _, f := range barFields {
			if err := f(); err != nil {
				return nil, err
			}
		}
		hasGaps, err := r.String()
		if err != nil {
			return nil, err
		}
		bar.HasGaps = hasGaps == "true"
		if bar.Count, err = r.Int(false); err != nil {
			return nil, err
		}
		events = append(events, Event{Kind: KindHistoricalData, ReqID: reqID, Payload: &HistoricalDataEvent{Bar: bar}})
	}
	events = append(events, Event{
		Kind:  KindHistoricalData,
		ReqID: reqID,
		Payload: &HistoricalDataEvent{
			Done: true,
			Bar: &ibtypes.Bar{
				Date: fmt.Sprintf("finished-%s-%s", startDate, endDate),
				Open: -1, High: -1, Low: -1, Close: -1,
				Volume: -1, WAP: -1, Count: -1,
			},
		},
	})
	return events, nil
}
