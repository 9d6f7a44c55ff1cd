package models

// Ranking is one row of a Top-K result: an instrument identity and the
// summed size of all its trades.
//
// swagger:model Ranking
type Ranking struct {
	ID        string  `json:"id" example:"AAPL."`
	TotalSize float64 `json:"total_size" example:"1250000"`
}

// VWAPReport holds the volume-weighted average price of every requested
// identity that had at least one trade. Identities without trades are listed
// in Missing instead of being reported with a zero price.
//
// swagger:model VWAPReport
type VWAPReport struct {
	Prices  map[string]float64 `json:"prices"`
	Missing []string           `json:"missing"`
}
