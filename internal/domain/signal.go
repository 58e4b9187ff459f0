package domain

import (
	"time"

	"github.com/google/uuid"
)

// CandidateSignal is a strategy's proposed trade before risk approval.
// It is immutable once produced by an evaluator.
type CandidateSignal struct {
	Asset               string  `json:"asset"`
	Action              string  `json:"action"`
	Strategy            string  `json:"strategy"`
	EntryPrice          float64 `json:"entry_price"`
	StopLoss            float64 `json:"stop_loss"`
	TakeProfit          float64 `json:"take_profit"`
	PositionSizePercent float64 `json:"position_size_percent"`
	Confidence          int     `json:"confidence"`
	Rationale           string  `json:"rationale"`
}

// Signal is a risk-approved, persisted trading signal.
// Outcome and ClosedAt are the only fields mutated after creation,
// by the settlement path (admin correction endpoint here).
type Signal struct {
	ID                  uuid.UUID  `json:"id"`
	Asset               string     `json:"asset"`
	Action              string     `json:"action"`
	Strategy            string     `json:"strategy"`
	EntryPrice          float64    `json:"entry_price"`
	StopLoss            float64    `json:"stop_loss"`
	TakeProfit          float64    `json:"take_profit"`
	PositionSizePercent float64    `json:"position_size_percent"`
	Confidence          int        `json:"confidence"`
	Rationale           string     `json:"rationale"`
	Outcome             string     `json:"outcome"`
	ActualReturnPercent *float64   `json:"actual_return_percent,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	ClosedAt            *time.Time `json:"closed_at,omitempty"`
}

// SignalAction constants
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
)

// SignalOutcome constants
const (
	OutcomeOpen    = "open"
	OutcomeWin     = "win"
	OutcomeLoss    = "loss"
	OutcomeNeutral = "neutral"
)

// Subscription tier constants (read-time policy only; billing is external)
const (
	TierFree  = "free"
	TierPro   = "pro"
	TierElite = "elite"
)

// NewSignal promotes an accepted candidate to a persisted signal.
// Price fields are carried over unchanged.
func NewSignal(c *CandidateSignal) *Signal {
	return &Signal{
		ID:                  uuid.New(),
		Asset:               c.Asset,
		Action:              c.Action,
		Strategy:            c.Strategy,
		EntryPrice:          c.EntryPrice,
		StopLoss:            c.StopLoss,
		TakeProfit:          c.TakeProfit,
		PositionSizePercent: c.PositionSizePercent,
		Confidence:          c.Confidence,
		Rationale:           c.Rationale,
		Outcome:             OutcomeOpen,
		CreatedAt:           time.Now(),
	}
}

// RiskReward returns |takeProfit-entry| / |entry-stopLoss|.
func (c *CandidateSignal) RiskReward() float64 {
	risk := c.EntryPrice - c.StopLoss
	if risk < 0 {
		risk = -risk
	}
	reward := c.TakeProfit - c.EntryPrice
	if reward < 0 {
		reward = -reward
	}
	if risk == 0 {
		return 0
	}
	return reward / risk
}
