package domain

import "time"

// StrategyPerformance is the rolling performance record for one strategy.
// Mutated by the orchestrator after each cycle and by the risk gate on
// auto-pause.
type StrategyPerformance struct {
	Strategy         string    `json:"strategy"`
	WinRate7d        float64   `json:"win_rate_7d"`
	WinRate30d       float64   `json:"win_rate_30d"`
	TotalSignals     int       `json:"total_signals"`
	AvgReturnPercent float64   `json:"avg_return_percent"`
	Status           string    `json:"status"`
	LastUpdated      time.Time `json:"last_updated"`
}

// Strategy lifecycle status constants
const (
	StrategyActive = "active"
	StrategyPaused = "paused"
)

// Strategy identifier constants
const (
	StrategyRsiBET        = "rsiBET"
	StrategyMACDCrossover = "macdCrossover"
	StrategyTEMAMomentum  = "temaMomentum"
)

// Strategies lists every registered strategy identifier.
var Strategies = []string{StrategyRsiBET, StrategyMACDCrossover, StrategyTEMAMomentum}
