package encode

// Outbound message ids and per-operation version tags (spec.md §4.2). Tag
// values are part of the wire contract, not software versions.
const (
	idReqMktData         = 1
	idCancelMktData      = 2
	idPlaceOrder         = 3
	idCancelOrder        = 4
	idReqOpenOrders      = 5
	idReqAccountData     = 6
	idReqExecutions      = 7
	idReqIDs             = 8
	idReqContractData    = 9
	idSetServerLogLevel  = 14
	idReqAutoOpenOrders  = 15
	idReqAllOpenOrders   = 16
	idReqManagedAccts    = 17
	idReqHistoricalData  = 20
	idCancelHistoricalData = 25
	idReqCurrentTime     = 49
)

const (
	verReqMktData          = 9
	verCancelMktData       = 1
	verPlaceOrder          = 35
	verCancelOrder         = 1
	verReqOpenOrders       = 1
	verReqAccountData      = 2
	verReqExecutions       = 3
	verReqIDs              = 1
	verReqContractData     = 6
	verSetServerLogLevel   = 1
	verReqAutoOpenOrders   = 1
	verReqAllOpenOrders    = 1
	verReqManagedAccts     = 1
	verReqHistoricalData   = 4
	verCancelHistoricalData = 1
	verReqCurrentTime      = 1
)
