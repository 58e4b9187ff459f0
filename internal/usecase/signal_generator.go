package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"signalwired/internal/domain"
	"signalwired/internal/metrics"
	"signalwired/internal/risk"
	"signalwired/internal/strategy"
)

// CycleResult summarizes one signal generation cycle.
type CycleResult struct {
	Success          bool     `json:"success"`
	SignalsGenerated int      `json:"signals_generated"`
	Errors           []string `json:"errors"`
}

// Lease serializes generation cycles. Acquire returns false when another
// cycle currently holds the lease.
type Lease interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context)
}

// SignalGenerator drives one generation cycle: fetch market data for every
// configured asset, run all strategies, gate each candidate, persist
// accepted signals, and recompute rolling strategy performance.
type SignalGenerator struct {
	source       domain.MarketDataSource
	gate         *risk.Manager
	signals      domain.SignalRepository
	performance  domain.StrategyPerformanceRepository
	notifier     domain.Notifier
	lease        Lease
	requestDelay time.Duration
	fetchTimeout time.Duration
	metrics      *metrics.Metrics
	log          zerolog.Logger
}

// NewSignalGenerator creates a new SignalGenerator.
func NewSignalGenerator(
	source domain.MarketDataSource,
	gate *risk.Manager,
	signals domain.SignalRepository,
	performance domain.StrategyPerformanceRepository,
	notifier domain.Notifier,
	lease Lease,
	requestDelay time.Duration,
	fetchTimeout time.Duration,
	m *metrics.Metrics,
	log zerolog.Logger,
) *SignalGenerator {
	return &SignalGenerator{
		source:       source,
		gate:         gate,
		signals:      signals,
		performance:  performance,
		notifier:     notifier,
		lease:        lease,
		requestDelay: requestDelay,
		fetchTimeout: fetchTimeout,
		metrics:      m,
		log:          log,
	}
}

// GenerateSignals runs one full cycle. It never propagates a failure to the
// caller: total failure is reported through Success=false and the error
// list.
func (g *SignalGenerator) GenerateSignals(ctx context.Context) CycleResult {
	result := CycleResult{Errors: []string{}}

	acquired, err := g.lease.Acquire(ctx)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to acquire cycle lease: %v", err))
		g.metrics.CyclesTotal.WithLabelValues("failed").Inc()
		return result
	}
	if !acquired {
		result.Errors = append(result.Errors, "another cycle is already running")
		g.metrics.CyclesTotal.WithLabelValues("skipped").Inc()
		return result
	}
	defer g.lease.Release(ctx)

	start := time.Now()
	g.log.Info().Msg("starting signal generation cycle")

	g.runCycle(ctx, &result)

	elapsed := time.Since(start)
	g.metrics.CycleDuration.Observe(elapsed.Seconds())
	status := "ok"
	if !result.Success {
		status = "failed"
	}
	g.metrics.CyclesTotal.WithLabelValues(status).Inc()

	g.log.Info().
		Bool("success", result.Success).
		Int("signals_generated", result.SignalsGenerated).
		Int("errors", len(result.Errors)).
		Dur("elapsed", elapsed).
		Msg("signal generation cycle complete")
	return result
}

// runCycle holds the top-level fault boundary: anything escaping the
// per-asset boundaries is caught here and reported, never raised.
func (g *SignalGenerator) runCycle(ctx context.Context, result *CycleResult) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("signal generation failed: %v", r)
			g.log.Error().Msg(msg)
			result.Errors = append(result.Errors, msg)
			result.Success = false
		}
	}()

	pausedThisCycle := make(map[string]bool)
	var accepted []*domain.Signal

	for _, asset := range g.source.Assets() {
		snapshot, err := g.fetchSnapshot(ctx, asset)
		if err != nil {
			g.metrics.FetchFailures.Inc()
			msg := fmt.Sprintf("failed to fetch market data for %s: %v", asset.Symbol, err)
			g.log.Warn().Msg(msg)
			result.Errors = append(result.Errors, msg)
			continue
		}

		if err := g.processAsset(ctx, snapshot, pausedThisCycle, &accepted, result); err != nil {
			msg := fmt.Sprintf("error evaluating %s: %v", asset.Symbol, err)
			g.log.Error().Msg(msg)
			result.Errors = append(result.Errors, msg)
		}
	}

	g.notifyBatch(ctx, accepted)
	g.updateStrategyPerformance(ctx, pausedThisCycle, result)
	result.Success = true
}

// fetchSnapshot fetches one asset with a per-fetch timeout, then waits out
// the inter-request delay. The upstream free tier rate-limits aggressively,
// so fetches stay sequential.
func (g *SignalGenerator) fetchSnapshot(ctx context.Context, asset domain.Asset) (*domain.MarketSnapshot, error) {
	fetchCtx := ctx
	if g.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, g.fetchTimeout)
		defer cancel()
	}

	snapshot, err := g.source.FetchSnapshot(fetchCtx, asset)

	if g.requestDelay > 0 {
		select {
		case <-time.After(g.requestDelay):
		case <-ctx.Done():
		}
	}

	return snapshot, err
}

// processAsset evaluates all strategies against one snapshot and gates each
// candidate. An evaluator fault is contained to this asset.
func (g *SignalGenerator) processAsset(
	ctx context.Context,
	snapshot *domain.MarketSnapshot,
	pausedThisCycle map[string]bool,
	accepted *[]*domain.Signal,
	result *CycleResult,
) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("evaluator fault: %v", r)
		}
	}()

	for name, evaluate := range strategy.All() {
		candidate := evaluate(snapshot)
		if candidate == nil {
			continue
		}
		g.log.Info().
			Str("asset", candidate.Asset).
			Str("strategy", name).
			Str("action", candidate.Action).
			Msg("strategy generated candidate signal")

		decision, gateErr := g.gate.Evaluate(ctx, candidate)
		if gateErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"risk gate failed for %s/%s: %v", candidate.Asset, name, gateErr))
			continue
		}
		if decision.StrategyPaused {
			pausedThisCycle[candidate.Strategy] = true
		}
		if !decision.Accepted {
			continue
		}

		signal := domain.NewSignal(candidate)
		if createErr := g.signals.Create(ctx, signal); createErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"failed to save signal for %s: %v", candidate.Asset, createErr))
			continue
		}
		result.SignalsGenerated++
		*accepted = append(*accepted, signal)
		g.metrics.SignalsGenerated.Inc()
		g.log.Info().
			Str("asset", signal.Asset).
			Str("action", signal.Action).
			Str("strategy", signal.Strategy).
			Int("confidence", signal.Confidence).
			Float64("entry", signal.EntryPrice).
			Msg("signal saved")

		g.notify(ctx, signal)
	}
	return nil
}

// notify delivers the accepted signal, fire and forget.
func (g *SignalGenerator) notify(ctx context.Context, signal *domain.Signal) {
	if g.notifier == nil {
		return
	}
	if err := g.notifier.SendSignal(ctx, signal); err != nil {
		g.log.Warn().Err(err).Str("asset", signal.Asset).Msg("signal notification failed")
	}
}

// notifyBatch sends the end-of-cycle digest. A single signal was already
// announced on its own, so the digest only goes out for multi-signal cycles.
func (g *SignalGenerator) notifyBatch(ctx context.Context, accepted []*domain.Signal) {
	if g.notifier == nil || len(accepted) < 2 {
		return
	}
	if err := g.notifier.SendSignalBatch(ctx, accepted); err != nil {
		g.log.Warn().Err(err).Int("signals", len(accepted)).Msg("signal batch notification failed")
	}
}

// updateStrategyPerformance recomputes each strategy's 7d/30d win rate,
// 30d settled-signal count, and average realized return, then upserts the
// record. Status resets to active unless the gate auto-paused the strategy
// during this cycle.
func (g *SignalGenerator) updateStrategyPerformance(
	ctx context.Context,
	pausedThisCycle map[string]bool,
	result *CycleResult,
) {
	now := time.Now()
	window30d, err := g.signals.GetByDateRange(ctx, now.AddDate(0, 0, -30), now)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to load signals for performance update: %v", err))
		return
	}
	cutoff7d := now.AddDate(0, 0, -7)

	for _, name := range domain.Strategies {
		var settled30d, wins30d, settled7d, wins7d int
		var returnSum float64
		var returnCount int

		for _, s := range window30d {
			if s.Strategy != name || s.Outcome == domain.OutcomeOpen {
				continue
			}
			settled30d++
			if s.Outcome == domain.OutcomeWin {
				wins30d++
			}
			if s.CreatedAt.After(cutoff7d) {
				settled7d++
				if s.Outcome == domain.OutcomeWin {
					wins7d++
				}
			}
			if s.ActualReturnPercent != nil {
				returnSum += *s.ActualReturnPercent
				returnCount++
			}
		}

		record := &domain.StrategyPerformance{
			Strategy:     name,
			TotalSignals: settled30d,
			Status:       domain.StrategyActive,
			LastUpdated:  now,
		}
		if settled7d > 0 {
			record.WinRate7d = float64(wins7d) / float64(settled7d) * 100
		}
		if settled30d > 0 {
			record.WinRate30d = float64(wins30d) / float64(settled30d) * 100
		}
		if returnCount > 0 {
			record.AvgReturnPercent = returnSum / float64(returnCount)
		}
		if pausedThisCycle[name] {
			record.Status = domain.StrategyPaused
		}

		if err := g.performance.Upsert(ctx, record); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"failed to update performance for %s: %v", name, err))
			continue
		}
		g.log.Info().
			Str("strategy", name).
			Float64("win_rate_7d", record.WinRate7d).
			Float64("win_rate_30d", record.WinRate30d).
			Str("status", record.Status).
			Msg("strategy performance updated")
	}
}
