package strategy

import (
	"fmt"

	"signalwired/internal/domain"
	"signalwired/internal/indicator"
)

// EvaluateTEMAMomentum is the triple-EMA momentum strategy (long only).
//
// Entry requires perfect ascending alignment TEMA(4) > TEMA(9) > TEMA(18),
// price above TEMA(4), and TEMA(4) above its value five closes ago. Stop is
// the higher of TEMA(18) and 2.5% below entry (the closer stop for a long);
// target is 5% above entry. Base confidence 65, +5 when the 5-period
// TEMA(4) growth exceeds 2%, +5 when the TEMA(4)-TEMA(18) spread exceeds 3%.
func EvaluateTEMAMomentum(snapshot *domain.MarketSnapshot) *domain.CandidateSignal {
	if len(snapshot.Prices) < 60 {
		return nil
	}

	tema4 := indicator.TEMA(snapshot.Prices, 4)
	tema9 := indicator.TEMA(snapshot.Prices, 9)
	tema18 := indicator.TEMA(snapshot.Prices, 18)
	tema4Prev := indicator.TEMA(snapshot.Prices[:len(snapshot.Prices)-5], 4)

	perfectAlignment := tema4 > tema9 && tema9 > tema18
	priceAboveTEMA4 := snapshot.CurrentPrice > tema4
	tema4Trending := tema4 > tema4Prev

	if !perfectAlignment || !priceAboveTEMA4 || !tema4Trending {
		return nil
	}

	stopLoss := tema18
	if pct := snapshot.CurrentPrice * 0.975; pct > stopLoss {
		stopLoss = pct
	}
	takeProfit := snapshot.CurrentPrice * 1.05

	temaGrowth := (tema4 - tema4Prev) / tema4Prev
	temaSpread := (tema4 - tema18) / tema18

	confidence := 65
	if temaGrowth > 0.02 {
		confidence += 5
	}
	if temaSpread > 0.03 {
		confidence += 5
	}
	confidence = capConfidence(confidence)

	rationale := fmt.Sprintf(
		"Perfect TEMA alignment: TEMA(4)=$%.2f > TEMA(9)=$%.2f > TEMA(18)=$%.2f. Strong upward momentum with %.1f%% TEMA(4) growth over 5 periods. Stop at TEMA(18) or 2.5%%, target 5%% for 2:1 R:R.",
		tema4, tema9, tema18, temaGrowth*100,
	)

	return &domain.CandidateSignal{
		Asset:               snapshot.Asset,
		Action:              domain.ActionBuy,
		Strategy:            domain.StrategyTEMAMomentum,
		EntryPrice:          snapshot.CurrentPrice,
		StopLoss:            stopLoss,
		TakeProfit:          takeProfit,
		PositionSizePercent: defaultPositionSizePercent,
		Confidence:          confidence,
		Rationale:           rationale,
	}
}
