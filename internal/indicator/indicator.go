// Package indicator implements the technical indicators used by the
// strategy evaluators: SMA, EMA, TEMA, RSI, MACD, ATR and a few helpers.
// All functions are pure and never fail on short input; insufficient
// history returns a documented neutral value instead.
package indicator

import "math"

// SMA returns the arithmetic mean of the last period elements.
// Returns 0 if the series is shorter than period.
func SMA(series []float64, period int) float64 {
	if len(series) < period || period <= 0 {
		return 0
	}
	sum := 0.0
	for _, v := range series[len(series)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// EMA returns the exponential moving average of the series, seeded with the
// SMA of the first period elements. Returns 0 if the series is shorter than
// period.
func EMA(series []float64, period int) float64 {
	if len(series) < period || period <= 0 {
		return 0
	}
	multiplier := 2.0 / float64(period+1)
	ema := SMA(series[:period], period)
	for _, v := range series[period:] {
		ema = (v-ema)*multiplier + ema
	}
	return ema
}

// emaSeries returns the full EMA sequence (one value per step from the seed
// onward), used by TEMA's cascaded passes.
func emaSeries(series []float64, period int) []float64 {
	multiplier := 2.0 / float64(period+1)
	ema := SMA(series[:period], period)
	out := make([]float64, 0, len(series)-period+1)
	out = append(out, ema)
	for _, v := range series[period:] {
		ema = (v-ema)*multiplier + ema
		out = append(out, ema)
	}
	return out
}

// TEMA returns the triple exponential moving average:
// 3*EMA1 - 3*EMA2 + EMA3, where EMA2 is the EMA of the EMA1 sequence and
// EMA3 the EMA of the EMA2 sequence. Returns 0 if the series is shorter
// than 3*period.
func TEMA(series []float64, period int) float64 {
	if period <= 0 || len(series) < period*3 {
		return 0
	}
	ema1Values := emaSeries(series, period)
	ema2Values := emaSeries(ema1Values, period)

	multiplier := 2.0 / float64(period+1)
	ema3 := SMA(ema2Values[:period], period)
	for _, v := range ema2Values[period:] {
		ema3 = (v-ema3)*multiplier + ema3
	}

	ema1 := ema1Values[len(ema1Values)-1]
	ema2 := ema2Values[len(ema2Values)-1]
	return 3*ema1 - 3*ema2 + ema3
}

// RSI returns the relative strength index using Wilder smoothing: the first
// period deltas are averaged, the remainder smoothed exponentially.
// Returns the neutral value 50 if the series is shorter than period+1, and
// 100 when the smoothed average loss is exactly zero.
func RSI(series []float64, period int) float64 {
	if len(series) < period+1 {
		return 50
	}

	changes := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		changes = append(changes, series[i]-series[i-1])
	}

	var avgGain, avgLoss float64
	for i := 0; i < period; i++ {
		if changes[i] > 0 {
			avgGain += changes[i]
		} else {
			avgLoss += -changes[i]
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period; i < len(changes); i++ {
		if changes[i] > 0 {
			avgGain = (avgGain*float64(period-1) + changes[i]) / float64(period)
			avgLoss = (avgLoss * float64(period-1)) / float64(period)
		} else {
			avgGain = (avgGain * float64(period-1)) / float64(period)
			avgLoss = (avgLoss*float64(period-1) - changes[i]) / float64(period)
		}
	}

	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// MACDResult holds the MACD line, signal line and histogram.
type MACDResult struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// MACD returns EMA(fast) - EMA(slow) with the signal line approximated as
// 0.9*macd. A true signal line is an EMA over the MACD's own history; the
// approximation avoids keeping that history and is a known limitation.
// Returns all zeros if the series is shorter than slow.
func MACD(series []float64, fast, slow, signal int) MACDResult {
	if len(series) < slow {
		return MACDResult{}
	}
	macd := EMA(series, fast) - EMA(series, slow)
	sig := macd * 0.9
	return MACDResult{MACD: macd, Signal: sig, Histogram: macd - sig}
}

// ATR returns the average true range: the SMA over period of
// max(high-low, |high-prevClose|, |low-prevClose|) per step.
// Returns 0 if fewer than period+1 bars are available.
func ATR(highs, lows, closes []float64, period int) float64 {
	if len(highs) < period+1 {
		return 0
	}
	trueRanges := make([]float64, 0, len(highs)-1)
	for i := 1; i < len(highs); i++ {
		tr := highs[i] - lows[i]
		if hc := math.Abs(highs[i] - closes[i-1]); hc > tr {
			tr = hc
		}
		if lc := math.Abs(lows[i] - closes[i-1]); lc > tr {
			tr = lc
		}
		trueRanges = append(trueRanges, tr)
	}
	return SMA(trueRanges, period)
}

// AverageVolume returns the SMA of the volume series.
func AverageVolume(volumes []float64, period int) float64 {
	return SMA(volumes, period)
}

// HasUpwardMomentum reports whether the last element of the trailing
// lookback window exceeds the first. False if the series is shorter than
// lookback.
func HasUpwardMomentum(series []float64, lookback int) bool {
	if len(series) < lookback {
		return false
	}
	recent := series[len(series)-lookback:]
	return recent[len(recent)-1] > recent[0]
}

// Highest returns the maximum over the trailing period window, or over the
// whole series if it is shorter.
func Highest(series []float64, period int) float64 {
	window := series
	if len(series) >= period {
		window = series[len(series)-period:]
	}
	max := math.Inf(-1)
	for _, v := range window {
		if v > max {
			max = v
		}
	}
	return max
}

// Lowest returns the minimum over the trailing period window, or over the
// whole series if it is shorter.
func Lowest(series []float64, period int) float64 {
	window := series
	if len(series) >= period {
		window = series[len(series)-period:]
	}
	min := math.Inf(1)
	for _, v := range window {
		if v < min {
			min = v
		}
	}
	return min
}

// Correlation returns the Pearson correlation coefficient of two series.
// Returns 0 on length mismatch, fewer than two points, or zero variance in
// either series.
func Correlation(a, b []float64) float64 {
	if len(a) != len(b) || len(a) < 2 {
		return 0
	}
	n := float64(len(a))

	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= n
	meanB /= n

	var numerator, sumA, sumB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		numerator += da * db
		sumA += da * da
		sumB += db * db
	}

	denominator := math.Sqrt(sumA * sumB)
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
