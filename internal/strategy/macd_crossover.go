package strategy

import (
	"fmt"
	"math"

	"signalwired/internal/domain"
	"signalwired/internal/indicator"
)

// EvaluateMACDCrossover is the MACD(12,26,9) crossover strategy, long or
// short. A crossover is detected by comparing the MACD computed on the full
// series against the MACD computed with the last close dropped.
//
// Bullish: macd > signal now, macd <= signal previously, histogram > 0 and
// price > EMA(50). Bearish is the mirror. Stop is 3% from entry, target 6%
// (2:1), direction dependent. Base confidence 65, +5 for a strong
// histogram, +5 when price is more than 2% away from EMA(50).
func EvaluateMACDCrossover(snapshot *domain.MarketSnapshot) *domain.CandidateSignal {
	if len(snapshot.Prices) < 50 {
		return nil
	}

	macd := indicator.MACD(snapshot.Prices, 12, 26, 9)
	ema50 := indicator.EMA(snapshot.Prices, 50)
	prevMACD := indicator.MACD(snapshot.Prices[:len(snapshot.Prices)-1], 12, 26, 9)

	bullishCrossover := macd.MACD > macd.Signal &&
		prevMACD.MACD <= prevMACD.Signal &&
		macd.Histogram > 0 &&
		snapshot.CurrentPrice > ema50

	bearishCrossover := macd.MACD < macd.Signal &&
		prevMACD.MACD >= prevMACD.Signal &&
		macd.Histogram < 0 &&
		snapshot.CurrentPrice < ema50

	if !bullishCrossover && !bearishCrossover {
		return nil
	}

	action := domain.ActionBuy
	if bearishCrossover {
		action = domain.ActionSell
	}

	const stopLossPercent = 0.03
	const takeProfitPercent = 0.06

	var stopLoss, takeProfit float64
	if action == domain.ActionBuy {
		stopLoss = snapshot.CurrentPrice * (1 - stopLossPercent)
		takeProfit = snapshot.CurrentPrice * (1 + takeProfitPercent)
	} else {
		stopLoss = snapshot.CurrentPrice * (1 + stopLossPercent)
		takeProfit = snapshot.CurrentPrice * (1 - takeProfitPercent)
	}

	confidence := 65
	if math.Abs(macd.Histogram) > math.Abs(macd.MACD)*0.1 {
		confidence += 5
	}
	if math.Abs((snapshot.CurrentPrice-ema50)/ema50) > 0.02 {
		confidence += 5
	}
	confidence = capConfidence(confidence)

	direction, side := "bullish", "above"
	if action == domain.ActionSell {
		direction, side = "bearish", "below"
	}
	rationale := fmt.Sprintf(
		"MACD %s crossover detected. MACD: %.2f, Signal: %.2f, Histogram: %.2f. Price %s EMA(50) at $%.2f. 2:1 Risk/Reward ratio with 3%% stop.",
		direction, macd.MACD, macd.Signal, macd.Histogram, side, ema50,
	)

	return &domain.CandidateSignal{
		Asset:               snapshot.Asset,
		Action:              action,
		Strategy:            domain.StrategyMACDCrossover,
		EntryPrice:          snapshot.CurrentPrice,
		StopLoss:            stopLoss,
		TakeProfit:          takeProfit,
		PositionSizePercent: defaultPositionSizePercent,
		Confidence:          confidence,
		Rationale:           rationale,
	}
}
