package decode

// Inbound message ids, grounded on the EReader constants mirrored in
// config.py. Ids without a case in Next fall through to
// ErrUnsupportedMessageID.
const (
	idTickPrice          = 1
	idTickSize           = 2
	idOrderStatus        = 3
	idErrMsg             = 4
	idOpenOrder          = 5
	idAcctValue          = 6
	idPortfolioValue     = 7
	idAcctUpdateTime     = 8
	idNextValidID        = 9
	idContractData       = 10
	idExecutionData      = 11
	idManagedAccts       = 15
	idHistoricalData     = 17
	idTickGeneric        = 45
	idTickString         = 46
	idCurrentTime        = 49
	idContractDataEnd    = 52
	idOpenOrderEnd       = 53
	idAcctDownloadEnd    = 54
	idExecutionDataEnd   = 55
	idCommissionReport   = 59
)
