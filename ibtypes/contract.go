// Package ibtypes holds the passive domain schemas the wire encoder and
// decoder read and write: Contract, Order, Execution, and the smaller
// records that hang off them. None of these types know how to encode or
// decode themselves — internal/encode and internal/decode own field order.
package ibtypes

import "strings"

// BagSecType is the combo security type. The outbound encoder rejects any
// operation whose Contract.SecType is BagSecType with ErrNotSupported.
const BagSecType = "BAG"

// Contract merges the Contract and ContractDetails concepts from the
// gateway's Java API into a single record.
type Contract struct {
	ConID         int
	Symbol        string
	SecType       string
	Expiry        string
	Strike        float64
	Right         string
	Multiplier    string
	Exchange      string
	PrimaryExch   string
	Currency      string
	LocalSymbol   string
	SecIDType     string
	SecID         string
	IncludeExpired bool

	// Combo legs. Outbound combo-leg encoding is out of scope; these are
	// populated only by inbound parsing (open_order).
	ComboLegsDescrip string
	ComboLegs        []ComboLeg

	// UnderComp is the delta-neutral under-component. Parsed on inbound
	// (open_order); rejected on outbound (place_order, req_mkt_data) when
	// non-nil, per spec.
	UnderComp *UnderComp

	// Contract-details-only fields, populated by contract_details.
	MarketName     string
	TradingClass   string
	MinTick        float64
	PriceMagnifier int
	OrderTypes     string
	ValidExchanges string
	UnderConID     int
	LongName       string
	ContractMonth  string
	Industry       string
	Category       string
	Subcategory    string
	TimeZoneID     string
	TradingHours   string
	LiquidHours    string
	EVRule         string
	EVMultiplier   float64
	SecIDList      []TagValue
}

// NewContract builds a Contract the way the gateway's own constructor does:
// LocalSymbol defaults to "{symbol}.{currency}" for the cash security type
// and to the plain symbol otherwise. This derivation is the library's sole
// non-trivial default.
func NewContract(secType, symbol, currency, exchange string) *Contract {
	c := &Contract{
		SecType:  secType,
		Symbol:   symbol,
		Currency: currency,
		Exchange: exchange,
	}
	c.LocalSymbol = deriveLocalSymbol(secType, symbol, currency)
	return c
}

func deriveLocalSymbol(secType, symbol, currency string) string {
	if strings.EqualFold(secType, "cash") {
		return symbol + "." + currency
	}
	return symbol
}

// IsBag reports whether the contract is a combo (BAG) security, compared
// case-insensitively the way the gateway's own check does.
func (c *Contract) IsBag() bool {
	return strings.EqualFold(c.SecType, BagSecType)
}
