// Package strategy contains the stateless strategy evaluators. Each
// evaluator maps one asset's market snapshot to at most one candidate
// signal, or nil when its entry conditions or minimum lookback are not met.
package strategy

import "signalwired/internal/domain"

// Evaluator is the shared contract of every strategy evaluator.
type Evaluator func(snapshot *domain.MarketSnapshot) *domain.CandidateSignal

// defaultPositionSizePercent is the declared size of every generated
// candidate, as percent of capital.
const defaultPositionSizePercent = 2.00

// All returns every registered evaluator keyed by strategy identifier.
func All() map[string]Evaluator {
	return map[string]Evaluator{
		domain.StrategyRsiBET:        EvaluateRsiBET,
		domain.StrategyMACDCrossover: EvaluateMACDCrossover,
		domain.StrategyTEMAMomentum:  EvaluateTEMAMomentum,
	}
}

func capConfidence(confidence int) int {
	if confidence > 100 {
		return 100
	}
	return confidence
}
