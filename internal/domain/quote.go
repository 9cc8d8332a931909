package domain

// Quote is one persisted price sample. TS is unix seconds assigned by the
// poller when the sample was taken.
type Quote struct {
	ID     int64
	Symbol Symbol
	TS     int64
	Price  float64
}
