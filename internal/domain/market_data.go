package domain

import "context"

// Asset identifies a tradable instrument and its market-data provider ID.
type Asset struct {
	Symbol string `json:"symbol"`
	CoinID string `json:"coin_id"`
}

// MarketSnapshot is one asset's market state for a generation cycle.
// Prices, Highs and Lows are parallel sequences ordered oldest to newest.
// CurrentPrice is the latest tick and may differ from the last close.
// Sequences may be shorter than a strategy's lookback, in which case that
// strategy abstains.
type MarketSnapshot struct {
	Asset        string
	Prices       []float64
	Highs        []float64
	Lows         []float64
	Volumes      []float64
	CurrentPrice float64
}

// MarketDataSource supplies per-asset snapshots. A nil snapshot with a nil
// error is not possible; fetch failure is reported as an error and the
// caller skips the asset.
type MarketDataSource interface {
	FetchSnapshot(ctx context.Context, asset Asset) (*MarketSnapshot, error)
	Assets() []Asset
}
