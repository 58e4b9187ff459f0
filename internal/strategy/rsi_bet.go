package strategy

import (
	"fmt"

	"signalwired/internal/domain"
	"signalwired/internal/indicator"
)

// EvaluateRsiBET is the RSI Breadth Entry Trigger strategy (long only).
//
// Entry requires all of:
//   - RSI(14) < 30 (oversold)
//   - current volume > 2.0x the 20-period average volume
//   - current price > EMA(20)
//   - upward momentum over the last 5 closes
//
// Stop loss is entry - 3*ATR(14), take profit entry + 3.75*ATR(14), a fixed
// 1.5:1 reward:risk. Base confidence 60, +5 when RSI < 20, +5 when the
// volume spike exceeds 3x.
func EvaluateRsiBET(snapshot *domain.MarketSnapshot) *domain.CandidateSignal {
	if len(snapshot.Prices) < 30 {
		return nil
	}

	rsi := indicator.RSI(snapshot.Prices, 14)
	ema20 := indicator.EMA(snapshot.Prices, 20)
	atr := indicator.ATR(snapshot.Highs, snapshot.Lows, snapshot.Prices, 14)
	avgVolume := indicator.AverageVolume(snapshot.Volumes, 20)
	currentVolume := 0.0
	if len(snapshot.Volumes) > 0 {
		currentVolume = snapshot.Volumes[len(snapshot.Volumes)-1]
	}

	isOversold := rsi < 30
	hasVolumeSpike := currentVolume > avgVolume*2.0
	isPriceAboveEMA := snapshot.CurrentPrice > ema20
	hasMomentum := indicator.HasUpwardMomentum(snapshot.Prices, 5)

	if !isOversold || !hasVolumeSpike || !isPriceAboveEMA || !hasMomentum {
		return nil
	}

	stopLoss := snapshot.CurrentPrice - 3*atr
	takeProfit := snapshot.CurrentPrice + 3.75*atr

	confidence := 60
	if rsi < 20 {
		confidence += 5
	}
	if currentVolume > avgVolume*3.0 {
		confidence += 5
	}
	confidence = capConfidence(confidence)

	rationale := fmt.Sprintf(
		"RSI(%.1f) oversold with %.1fx volume spike. Price above EMA(20) at $%.2f showing upward momentum. Risk/Reward: 1.5:1 with ATR-based stops.",
		rsi, currentVolume/avgVolume, ema20,
	)

	return &domain.CandidateSignal{
		Asset:               snapshot.Asset,
		Action:              domain.ActionBuy,
		Strategy:            domain.StrategyRsiBET,
		EntryPrice:          snapshot.CurrentPrice,
		StopLoss:            stopLoss,
		TakeProfit:          takeProfit,
		PositionSizePercent: defaultPositionSizePercent,
		Confidence:          confidence,
		Rationale:           rationale,
	}
}
