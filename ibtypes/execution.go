package ibtypes

import "time"

// executionTimeLayout is the fixed format the gateway uses for an
// execution's textual timestamp: "YYYYMMDD  HH:MM:SS" (two spaces between
// date and time), always in UTC.
const executionTimeLayout = "20060102  15:04:05"

// Execution represents a single trade execution.
type Execution struct {
	OrderID      int
	ClientID     int
	ExecID       string
	Time         string
	Milliseconds int64
	AcctNumber   string
	Exchange     string
	Side         string
	Shares       int
	Price        float64
	PermID       int
	Liquidation  int
	CumQty       int
	AvgPrice     float64
	OrderRef     string
	EVRule       string
	EVMultiplier float64
}

// SetTime stores the gateway's textual execution time and derives
// Milliseconds (UNIX epoch ms, UTC) from it.
func (e *Execution) SetTime(text string) error {
	t, err := time.Parse(executionTimeLayout, text)
	if err != nil {
		return err
	}
	e.Time = text
	e.Milliseconds = t.UnixMilli()
	return nil
}
