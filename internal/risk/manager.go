// Package risk implements the layered risk management gate. Every
// candidate signal passes through six rules in fixed order; the first
// failing rule rejects it. A rejection is a normal business outcome, not an
// error; only store unavailability surfaces as an error.
package risk

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"signalwired/configs"
	"signalwired/internal/domain"
	"signalwired/internal/metrics"
)

// Rule identifiers, in pipeline order.
const (
	RulePositionSize     = "position_size"
	RuleConcurrentTrades = "concurrent_trades"
	RuleCorrelation      = "correlation"
	RuleStrategyBreaker  = "strategy_breaker"
	RulePlatformBreaker  = "platform_breaker"
	RuleRiskReward       = "risk_reward"
)

// Decision is the gate's verdict for one candidate.
type Decision struct {
	Accepted       bool
	Rule           string // failing rule when rejected
	Reason         string
	StrategyPaused bool // true when this decision tripped the strategy breaker
}

// Manager applies the risk rules against the signal and performance stores.
type Manager struct {
	cfg         configs.RiskConfig
	signals     domain.SignalRepository
	performance domain.StrategyPerformanceRepository
	notifier    domain.Notifier
	metrics     *metrics.Metrics
	log         zerolog.Logger
}

// NewManager creates a new risk Manager.
func NewManager(
	cfg configs.RiskConfig,
	signals domain.SignalRepository,
	performance domain.StrategyPerformanceRepository,
	notifier domain.Notifier,
	m *metrics.Metrics,
	log zerolog.Logger,
) *Manager {
	return &Manager{
		cfg:         cfg,
		signals:     signals,
		performance: performance,
		notifier:    notifier,
		metrics:     m,
		log:         log,
	}
}

// Evaluate runs the rule pipeline for one candidate. The returned error is
// non-nil only when a store read or write failed; a policy rejection is
// reported through the Decision.
func (m *Manager) Evaluate(ctx context.Context, c *domain.CandidateSignal) (Decision, error) {
	// Rule 1: position size cap
	if c.PositionSizePercent > m.cfg.MaxPositionSizePercent {
		return m.reject(c, RulePositionSize, fmt.Sprintf(
			"position size %.2f%% exceeds max %.2f%%",
			c.PositionSizePercent, m.cfg.MaxPositionSizePercent)), nil
	}

	// Rule 2: concurrent trade cap
	openCount, err := m.signals.CountOpen(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to count open signals: %w", err)
	}
	if openCount >= m.cfg.MaxConcurrentTrades {
		return m.reject(c, RuleConcurrentTrades, fmt.Sprintf(
			"max concurrent trades (%d) reached", m.cfg.MaxConcurrentTrades)), nil
	}

	// Rule 3: correlation cap, only with three or more open positions
	if openCount >= 3 {
		heldAssets, err := m.signals.OpenAssets(ctx)
		if err != nil {
			return Decision{}, fmt.Errorf("failed to list open assets: %w", err)
		}
		for _, held := range heldAssets {
			if corr := assetCorrelation(c.Asset, held); corr > m.cfg.MaxCorrelation {
				return m.reject(c, RuleCorrelation, fmt.Sprintf(
					"correlation %.2f with %s exceeds max %.2f", corr, held, m.cfg.MaxCorrelation)), nil
			}
		}
	}

	// Rule 4: strategy circuit breaker
	if c.Strategy != "" {
		record, err := m.performance.Get(ctx, c.Strategy)
		if err != nil {
			return Decision{}, fmt.Errorf("failed to load strategy performance: %w", err)
		}
		if record != nil {
			if record.Status == domain.StrategyPaused {
				return m.reject(c, RuleStrategyBreaker, fmt.Sprintf(
					"strategy %s is paused", c.Strategy)), nil
			}
			if record.TotalSignals > 0 && record.WinRate30d < m.cfg.StrategyPauseThreshold*100 {
				if err := m.performance.SetStatus(ctx, c.Strategy, domain.StrategyPaused); err != nil {
					return Decision{}, fmt.Errorf("failed to pause strategy %s: %w", c.Strategy, err)
				}
				m.metrics.StrategyPauses.Inc()
				m.log.Warn().
					Str("strategy", c.Strategy).
					Float64("win_rate_30d", record.WinRate30d).
					Msg("strategy circuit breaker tripped, auto-pausing")
				d := m.reject(c, RuleStrategyBreaker, fmt.Sprintf(
					"30d win rate %.1f%% below threshold %.0f%%",
					record.WinRate30d, m.cfg.StrategyPauseThreshold*100))
				d.StrategyPaused = true
				return d, nil
			}
		}
	}

	// Rule 5: platform circuit breaker. Skipped when the window holds no
	// settled signals (no data, no verdict).
	winRate, samples, err := m.signals.PlatformWinRate(ctx, 7)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to compute platform win rate: %w", err)
	}
	if samples > 0 && winRate < m.cfg.PlatformPauseThreshold {
		m.alertPlatformBreaker(ctx, winRate)
		return m.reject(c, RulePlatformBreaker, fmt.Sprintf(
			"platform 7d win rate %.1f%% below threshold %.0f%%",
			winRate*100, m.cfg.PlatformPauseThreshold*100)), nil
	}

	// Rule 6: reward:risk floor
	if rr := c.RiskReward(); rr < m.cfg.MinRiskReward {
		return m.reject(c, RuleRiskReward, fmt.Sprintf(
			"reward:risk %.2f below minimum %.2f", rr, m.cfg.MinRiskReward)), nil
	}

	m.log.Info().
		Str("asset", c.Asset).
		Str("action", c.Action).
		Str("strategy", c.Strategy).
		Msg("candidate passed risk management")
	return Decision{Accepted: true}, nil
}

func (m *Manager) reject(c *domain.CandidateSignal, rule, reason string) Decision {
	m.metrics.GateRejections.WithLabelValues(rule).Inc()
	m.log.Info().
		Str("asset", c.Asset).
		Str("strategy", c.Strategy).
		Str("rule", rule).
		Str("reason", reason).
		Msg("candidate rejected by risk management")
	return Decision{Rule: rule, Reason: reason}
}

// alertPlatformBreaker notifies operators that the platform breaker fired.
// Delivery failure must not affect the gate's decision.
func (m *Manager) alertPlatformBreaker(ctx context.Context, winRate float64) {
	if m.notifier == nil {
		return
	}
	err := m.notifier.SendAlert(ctx,
		"Platform Circuit Breaker Triggered",
		fmt.Sprintf("Platform 7-day win rate dropped to %.1f%%. All signals are being rejected.", winRate*100),
		domain.SeverityError,
	)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to deliver platform breaker alert")
	}
}

// assetCorrelation is a static pairwise correlation heuristic, not a
// computed statistic. BTC-involving pairs read 0.7, cross-pairs among the
// large alts 0.6, everything else 0.5.
func assetCorrelation(a, b string) float64 {
	if strings.Contains(a, "BTC") || strings.Contains(b, "BTC") {
		return 0.7
	}
	if isMajorAlt(a) && isMajorAlt(b) {
		return 0.6
	}
	return 0.5
}

func isMajorAlt(asset string) bool {
	return strings.Contains(asset, "ETH") ||
		strings.Contains(asset, "BNB") ||
		strings.Contains(asset, "SOL")
}
