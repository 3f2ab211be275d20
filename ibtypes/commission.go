package ibtypes

// CommissionReport represents a commission report delivered after an
// execution.
type CommissionReport struct {
	ExecID              string
	Commission          float64
	Currency            string
	RealizedPNL         float64
	YieldValue          float64
	YieldRedemptionDate int
}
