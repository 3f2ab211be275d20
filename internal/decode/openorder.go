package decode

import (
	"github.com/user/ibtws/ibtypes"
	"github.com/user/ibtws/wire"
)

// decodeOpenOrder is grounded directly on open_order in reader.py: the
// longest and most conditional handler in the protocol, covering the main
// order, the contract, every extended-order-only block, combo legs, order
// combo legs, smart combo routing params, the scale-order extension block,
// hedge params, the delta-neutral under component, algo params, and the
// trailing order-state fields.
func decodeOpenOrder(r *wire.FieldReader) (Event, error) {
	version, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	if version < 31 {
		return Event{}, versionErr("open_order", version, 31)
	}

	o := &ibtypes.Order{}
	c := &ibtypes.Contract{}

	if o.OrderID, err = r.Int(false); err != nil {
		return Event{}, err
	}

	contractFields := []func() error{
		func() (e error) { c.ConID, e = r.Int(false); return },
		func() (e error) { c.Symbol, e = r.String(); return },
		func() (e error) { c.SecType, e = r.String(); return },
		func() (e error) { c.Expiry, e = r.String(); return },
		func() (e error) { c.Strike, e = r.Float(false); return },
		func() (e error) { c.Right, e = r.String(); return },
		func() (e error) { c.Exchange, e = r.String(); return },
		func() (e error) { c.Currency, e = r.String(); return },
		func() (e error) { c.LocalSymbol, e = r.String(); return },
	}
	for _, f := range contractFields {
		if err := f(); err != nil {
			return Event{}, err
		}
	}

	orderFields := []func() error{
		func() (e error) { o.Action, e = r.String(); return },
		func() (e error) { o.TotalQuantity, e = r.Int(false); return },
		func() (e error) { o.OrderType, e = r.String(); return },
		func() (e error) { o.LmtPrice, e = r.Float(false); return },
		func() (e error) { o.AuxPrice, e = r.Float(false); return },
		func() (e error) { o.TIF, e = r.String(); return },
		func() (e error) { o.OCAGroup, e = r.String(); return },
		func() (e error) { o.Account, e = r.String(); return },
		func() (e error) { o.OpenClose, e = r.String(); return },
		func() (e error) { o.Origin, e = r.Int(false); return },
		func() (e error) { o.OrderRef, e = r.String(); return },
		func() (e error) { o.ClientID, e = r.Int(false); return },
		func() (e error) { o.PermID, e = r.Int(false); return },
		func() (e error) { o.OutsideRTH, e = r.Bool(); return },
		func() (e error) { o.Hidden, e = r.Bool(); return },
		func() (e error) { o.DiscretionaryAmt, e = r.Float(false); return },
		func() (e error) { o.GoodAfterTime, e = r.String(); return },
	}
	for _, f := range orderFields {
		if err := f(); err != nil {
			return Event{}, err
		}
	}
	if _, err := r.String(); err != nil { // deprecated shares_allocation field
		return Event{}, err
	}

	faFields := []func() error{
		func() (e error) { o.FAGroup, e = r.String(); return },
		func() (e error) { o.FAMethod, e = r.String(); return },
		func() (e error) { o.FAPercentage, e = r.String(); return },
		func() (e error) { o.FAProfile, e = r.String(); return },
		func() (e error) { o.GoodTillDate, e = r.String(); return },
		func() (e error) { o.Rule80A, e = r.String(); return },
	}
	for _, f := range faFields {
		if err := f(); err != nil {
			return Event{}, err
		}
	}

	var percentOffset float64
	if percentOffset, err = r.Float(false); err != nil {
		return Event{}, err
	}
	o.PercentOffset = &percentOffset

	institutionalFields := []func() error{
		func() (e error) { o.SettlingFirm, e = r.String(); return },
		func() (e error) { o.ShortSaleSlot, e = r.Int(false); return },
		func() (e error) { o.DesignatedLocation, e = r.String(); return },
		func() (e error) { o.ExemptCode, e = r.Int(false); return },
	}
	for _, f := range institutionalFields {
		if err := f(); err != nil {
			return Event{}, err
		}
	}

	var auctionStrategy int
	if auctionStrategy, err = r.Int(false); err != nil {
		return Event{}, err
	}
	o.AuctionStrategy = &auctionStrategy

	var startingPrice, stockRefPrice, delta, stockRangeLower, stockRangeUpper float64
	for _, dst := range []*float64{&startingPrice, &stockRefPrice, &delta, &stockRangeLower, &stockRangeUpper} {
		if *dst, err = r.Float(false); err != nil {
			return Event{}, err
		}
	}
	o.StartingPrice, o.StockRefPrice, o.Delta = &startingPrice, &stockRefPrice, &delta
	o.StockRangeLower, o.StockRangeUpper = &stockRangeLower, &stockRangeUpper

	sizeFields := []func() error{
		func() (e error) { o.DisplaySize, e = r.Int(false); return },
		func() (e error) { o.BlockOrder, e = r.Bool(); return },
		func() (e error) { o.SweepToFill, e = r.Bool(); return },
		func() (e error) { o.AllOrNone, e = r.Bool(); return },
	}
	for _, f := range sizeFields {
		if err := f(); err != nil {
			return Event{}, err
		}
	}

	var minQty int
	if minQty, err = r.Int(false); err != nil {
		return Event{}, err
	}
	o.MinQty = &minQty

	if o.OCAType, err = r.Int(false); err != nil {
		return Event{}, err
	}
	if _, err = r.Bool(); err != nil { // etrade_only, unsupported on this client
		return Event{}, err
	}
	if _, err = r.Bool(); err != nil { // firm_quote_only, unsupported on this client
		return Event{}, err
	}

	var nbboPriceCap float64
	if nbboPriceCap, err = r.Float(false); err != nil {
		return Event{}, err
	}
	o.NbboPriceCap = &nbboPriceCap

	if o.ParentID, err = r.Int(false); err != nil {
		return Event{}, err
	}
	if o.TriggerMethod, err = r.Int(false); err != nil {
		return Event{}, err
	}

	var volatility float64
	if volatility, err = r.Float(false); err != nil {
		return Event{}, err
	}
	o.Volatility = &volatility
	var volatilityType int
	if volatilityType, err = r.Int(false); err != nil {
		return Event{}, err
	}
	o.VolatilityType = &volatilityType

	if o.DeltaNeutralOrderType, err = r.String(); err != nil {
		return Event{}, err
	}
	var deltaNeutralAuxPrice float64
	if deltaNeutralAuxPrice, err = r.Float(false); err != nil {
		return Event{}, err
	}
	o.DeltaNeutralAuxPrice = &deltaNeutralAuxPrice

	if o.DeltaNeutralOrderType != "" {
		dnFields := []func() error{
			func() (e error) { o.DeltaNeutralConID, e = r.Int(false); return },
			func() (e error) { o.DeltaNeutralSettlingFirm, e = r.String(); return },
			func() (e error) { o.DeltaNeutralClearingAccount, e = r.String(); return },
			func() (e error) { o.DeltaNeutralClearingIntent, e = r.String(); return },
			func() (e error) { o.DeltaNeutralOpenClose, e = r.String(); return },
			func() (e error) { o.DeltaNeutralShortSale, e = r.Bool(); return },
			func() (e error) { o.DeltaNeutralShortSaleSlot, e = r.Int(false); return },
			func() (e error) { o.DeltaNeutralDesignatedLocation, e = r.String(); return },
		}
		for _, f := range dnFields {
			if err := f(); err != nil {
				return Event{}, err
			}
		}
	}

	var continuousUpdate int
	if continuousUpdate, err = r.Int(false); err != nil {
		return Event{}, err
	}
	o.ContinuousUpdate = continuousUpdate != 0

	var referencePriceType int
	if referencePriceType, err = r.Int(false); err != nil {
		return Event{}, err
	}
	o.ReferencePriceType = &referencePriceType

	if trailStopPrice, err := r.Float(true); err != nil {
		return Event{}, err
	} else {
		o.TrailStopPrice = &trailStopPrice
	}
	if trailingPercent, err := r.Float(true); err != nil {
		return Event{}, err
	} else {
		o.TrailingPercent = &trailingPercent
	}

	var basisPoints float64
	if basisPoints, err = r.Float(false); err != nil {
		return Event{}, err
	}
	o.BasisPoints = &basisPoints
	var basisPointsType int
	if basisPointsType, err = r.Int(false); err != nil {
		return Event{}, err
	}
	o.BasisPointsType = &basisPointsType

	if c.ComboLegsDescrip, err = r.String(); err != nil {
		return Event{}, err
	}
	comboLegsCount, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	if comboLegsCount > 0 {
		c.ComboLegs = make([]ibtypes.ComboLeg, 0, comboLegsCount)
		for i := 0; i < comboLegsCount; i++ {
			leg := ibtypes.ComboLeg{}
			legFields := []func() error{
				func() (e error) { leg.ConID, e = r.Int(false); return },
				func() (e error) { leg.Ratio, e = r.Int(false); return },
				func() (e error) { leg.Action, e = r.String(); return },
				func() (e error) { leg.Exchange, e = r.String(); return },
				func() (e error) { leg.OpenClose, e = r.Int(false); return },
				func() (e error) { leg.ShortSaleSlot, e = r.Int(false); return },
				func() (e error) { leg.DesignatedLocation, e = r.String(); return },
				func() (e error) { leg.ExemptCode, e = r.Int(false); return },
			}
			for _, f := range legFields {
				if err := f(); err != nil {
					return Event{}, err
				}
			}
			c.ComboLegs = append(c.ComboLegs, leg)
		}
	}

	orderComboLegsCount, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	if orderComboLegsCount > 0 {
		o.OrderComboLegs = make([]ibtypes.OrderComboLeg, 0, orderComboLegsCount)
		for i := 0; i < orderComboLegsCount; i++ {
			price, err := r.Float(true)
			if err != nil {
				return Event{}, err
			}
			o.OrderComboLegs = append(o.OrderComboLegs, ibtypes.OrderComboLeg{Price: &price})
		}
	}

	smartParamsCount, err := r.Int(false)
	if err != nil {
		return Event{}, err
	}
	if smartParamsCount > 0 {
		o.SmartComboRoutingParams = make([]ibtypes.TagValue, 0, smartParamsCount)
		for i := 0; i < smartParamsCount; i++ {
			tag, err := r.String()
			if err != nil {
				return Event{}, err
			}
			value, err := r.String()
			if err != nil {
				return Event{}, err
			}
			o.SmartComboRoutingParams = append(o.SmartComboRoutingParams, ibtypes.TagValue{Tag: tag, Value: value})
		}
	}

	if scaleInitLevelSize, err := r.Int(true); err != nil {
		return Event{}, err
	} else {
		o.ScaleInitLevelSize = &scaleInitLevelSize
	}
	if scaleSubsLevelSize, err := r.Int(true); err != nil {
		return Event{}, err
	} else {
		o.ScaleSubsLevelSize = &scaleSubsLevelSize
	}
	scalePriceIncrement, err := r.Float(true)
	if err != nil {
		return Event{}, err
	}
	o.ScalePriceIncrement = &scalePriceIncrement

	if scalePriceIncrement > 0 && !wire.IsDoubleMax(scalePriceIncrement) {
		if v, err := r.Float(true); err != nil {
			return Event{}, err
		} else {
			o.ScalePriceAdjustValue = &v
		}
		if v, err := r.Int(true); err != nil {
			return Event{}, err
		} else {
			o.ScalePriceAdjustInterval = &v
		}
		if v, err := r.Float(true); err != nil {
			return Event{}, err
		} else {
			o.ScaleProfitOffset = &v
		}
		if o.ScaleAutoReset, err = r.Bool(); err != nil {
			return Event{}, err
		}
		if v, err := r.Int(true); err != nil {
			return Event{}, err
		} else {
			o.ScaleInitPosition = &v
		}
		if v, err := r.Int(true); err != nil {
			return Event{}, err
		} else {
			o.ScaleInitFillQty = &v
		}
		if o.ScaleRandomPercent, err = r.Bool(); err != nil {
			return Event{}, err
		}
	}

	if o.HedgeType, err = r.String(); err != nil {
		return Event{}, err
	}
	if o.HedgeType != "" {
		if o.HedgeParam, err = r.String(); err != nil {
			return Event{}, err
		}
	}

	if o.OptOutSmartRouting, err = r.Bool(); err != nil {
		return Event{}, err
	}
	if o.ClearingAccount, err = r.String(); err != nil {
		return Event{}, err
	}
	if o.ClearingIntent, err = r.String(); err != nil {
		return Event{}, err
	}
	if o.NotHeld, err = r.Bool(); err != nil {
		return Event{}, err
	}

	hasUnderComp, err := r.Bool()
	if err != nil {
		return Event{}, err
	}
	if hasUnderComp {
		uc := &ibtypes.UnderComp{}
		if uc.ConID, err = r.Int(false); err != nil {
			return Event{}, err
		}
		if uc.Delta, err = r.Float(false); err != nil {
			return Event{}, err
		}
		if uc.Price, err = r.Float(false); err != nil {
			return Event{}, err
		}
		c.UnderComp = uc
	}

	if o.AlgoStrategy, err = r.String(); err != nil {
		return Event{}, err
	}
	if o.AlgoStrategy != "" {
		algoParamsCount, err := r.Int(false)
		if err != nil {
			return Event{}, err
		}
		if algoParamsCount > 0 {
			o.AlgoParams = make([]ibtypes.TagValue, 0, algoParamsCount)
			for i := 0; i < algoParamsCount; i++ {
				tag, err := r.String()
				if err != nil {
					return Event{}, err
				}
				value, err := r.String()
				if err != nil {
					return Event{}, err
				}
				o.AlgoParams = append(o.AlgoParams, ibtypes.TagValue{Tag: tag, Value: value})
			}
		}
	}

	if o.WhatIf, err = r.Bool(); err != nil {
		return Event{}, err
	}

	stateFields := []func() error{
		func() (e error) { o.Status, e = r.String(); return },
		func() (e error) { o.InitMargin, e = r.String(); return },
		func() (e error) { o.MaintMargin, e = r.String(); return },
		func() (e error) { o.EquityWithLoan, e = r.String(); return },
	}
	for _, f := range stateFields {
		if err := f(); err != nil {
			return Event{}, err
		}
	}
	if commission, err := r.Float(true); err != nil {
		return Event{}, err
	} else {
		o.Commission = &commission
	}
	if minCommission, err := r.Float(true); err != nil {
		return Event{}, err
	} else {
		o.MinCommission = &minCommission
	}
	if maxCommission, err := r.Float(true); err != nil {
		return Event{}, err
	} else {
		o.MaxCommission = &maxCommission
	}
	if o.CommissionCurrency, err = r.String(); err != nil {
		return Event{}, err
	}
	if o.WarningText, err = r.String(); err != nil {
		return Event{}, err
	}

	return Event{Kind: KindOpenOrder, ReqID: o.OrderID, Payload: &OpenOrderEvent{Contract: c, Order: o}}, nil
}
