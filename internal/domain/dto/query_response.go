package dto

// TopKResponse is returned by GET /api/v1/top.
type TopKResponse struct {
	K      int           `json:"k" example:"20"`
	Stocks []RankingItem `json:"stocks"`
}

// RankingItem is one instrument and its summed trade size.
type RankingItem struct {
	ID        string  `json:"id" example:"AAPL."`
	TotalSize float64 `json:"total_size" example:"1250000"`
}

// VWAPResponse is returned by GET /api/v1/vwap. Missing lists requested
// identities without trades; they never appear in Prices.
type VWAPResponse struct {
	Prices  map[string]float64 `json:"prices"`
	Missing []string           `json:"missing"`
}

// IntervalResponse is returned by GET /api/v1/interval.
type IntervalResponse struct {
	Start  int      `json:"start" example:"0"`
	End    int      `json:"end" example:"30"`
	Count  int      `json:"count" example:"2"`
	Stocks []string `json:"stocks"`
}
