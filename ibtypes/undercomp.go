package ibtypes

// UnderComp is the delta-neutral underlying-instrument sub-component of a
// contract. Parsed on inbound (open_order); rejected on outbound
// (place_order, req_mkt_data) when present on the contract being sent.
type UnderComp struct {
	ConID int
	Delta float64
	Price float64
}
