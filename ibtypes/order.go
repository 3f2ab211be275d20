package ibtypes

// Order represents an order together with the order-state fields the
// gateway's Java API keeps on a separate OrderState class.
//
// Numeric fields that the wire protocol treats as optional are modeled as
// pointers: nil means "absent" at the domain layer, and the codec maps that
// to the gateway's IntMax/DoubleMax sentinels only at the wire boundary.
type Order struct {
	OrderID  int
	ClientID int
	PermID   int

	// Main order fields
	Action        string
	TotalQuantity int
	OrderType     string
	LmtPrice      float64
	AuxPrice      float64

	// Order state, populated on inbound open_order only
	Status             string
	InitMargin         string
	MaintMargin        string
	EquityWithLoan     string
	Commission         *float64
	MinCommission      *float64
	MaxCommission      *float64
	CommissionCurrency string
	WarningText        string

	// Status fields, populated on inbound order_status only
	Filled          int
	Remaining       int
	AvgFillPrice    float64
	LastFillPrice   float64
	WhyHeld         string

	// Extended order fields
	TIF             string
	OCAGroup        string
	OCAType         int
	OrderRef        string
	Transmit        bool
	ParentID        int
	BlockOrder      bool
	SweepToFill     bool
	DisplaySize     int
	TriggerMethod   int
	OutsideRTH      bool
	Hidden          bool
	GoodAfterTime   string
	GoodTillDate    string
	OverridePercentageConstraints bool
	Rule80A         string
	AllOrNone       bool
	MinQty          *int
	PercentOffset   *float64
	TrailStopPrice  *float64
	TrailingPercent *float64

	// Financial advisors only
	FAGroup      string
	FAProfile    string
	FAMethod     string
	FAPercentage string

	// Institutional orders only
	OpenClose           string
	Origin              int
	ShortSaleSlot       int
	DesignatedLocation  string
	ExemptCode          int

	// SMART routing only
	DiscretionaryAmt   float64
	EtradeOnly         bool
	FirmQuoteOnly      bool
	NbboPriceCap       *float64
	OptOutSmartRouting bool

	// BOX or VOL orders only
	AuctionStrategy *int

	// BOX orders only
	StartingPrice  *float64
	StockRefPrice  *float64
	Delta          *float64

	// Pegged-to-stock and VOL orders only
	StockRangeLower *float64
	StockRangeUpper *float64

	// Volatility orders only
	Volatility             *float64
	VolatilityType         *int
	ContinuousUpdate       bool
	ReferencePriceType     *int
	DeltaNeutralOrderType  string
	DeltaNeutralAuxPrice   *float64
	DeltaNeutralConID      int
	DeltaNeutralSettlingFirm string
	DeltaNeutralClearingAccount string
	DeltaNeutralClearingIntent  string
	DeltaNeutralOpenClose            string
	DeltaNeutralShortSale            bool
	DeltaNeutralShortSaleSlot        int
	DeltaNeutralDesignatedLocation   string

	// Combo orders only
	BasisPoints     *float64
	BasisPointsType *int

	// Scale orders only
	ScaleInitLevelSize    *int
	ScaleSubsLevelSize    *int
	ScalePriceIncrement   *float64
	ScalePriceAdjustValue *float64
	ScalePriceAdjustInterval *int
	ScaleProfitOffset     *float64
	ScaleAutoReset        bool
	ScaleInitPosition     *int
	ScaleInitFillQty      *int
	ScaleRandomPercent    bool

	// Hedge orders only
	HedgeType  string
	HedgeParam string

	// Clearing information
	Account         string
	SettlingFirm    string
	ClearingAccount string
	ClearingIntent  string

	// Algo orders only
	AlgoStrategy string
	AlgoParams   []TagValue

	WhatIf  bool
	NotHeld bool

	OrderComboLegs          []OrderComboLeg
	SmartComboRoutingParams []TagValue
}

// NewOrder builds an Order with the gateway's documented defaults: OCAType
// 1, Transmit true, OpenClose "O", ExemptCode -1.
func NewOrder(action string, totalQuantity int, orderType string, lmtPrice, auxPrice float64) *Order {
	return &Order{
		Action:        action,
		TotalQuantity: totalQuantity,
		OrderType:     orderType,
		LmtPrice:      lmtPrice,
		AuxPrice:      auxPrice,
		OCAType:       1,
		Transmit:      true,
		OpenClose:     "O",
		ExemptCode:    -1,
	}
}
