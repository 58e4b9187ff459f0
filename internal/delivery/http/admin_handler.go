package http

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"signalwired/internal/domain"
	"signalwired/internal/usecase"
)

// signalStalenessLimit is how long the engine may go without producing or
// attempting a signal before the health endpoint reports it as stale.
const signalStalenessLimit = 30 * time.Minute

// CycleRunner triggers an immediate generation cycle.
type CycleRunner interface {
	RunNow(ctx context.Context) usecase.CycleResult
}

// AdminHandler handles the operator surface: manual cycles, strategy
// pause/resume, outcome corrections and system health.
type AdminHandler struct {
	db              *pgxpool.Pool
	runner          CycleRunner
	signalRepo      domain.SignalRepository
	performanceRepo domain.StrategyPerformanceRepository
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *pgxpool.Pool, runner CycleRunner, signalRepo domain.SignalRepository, performanceRepo domain.StrategyPerformanceRepository) *AdminHandler {
	return &AdminHandler{
		db:              db,
		runner:          runner,
		signalRepo:      signalRepo,
		performanceRepo: performanceRepo,
	}
}

// GenerateSignals runs one generation cycle immediately.
// POST /api/admin/signals/generate
func (h *AdminHandler) GenerateSignals(c echo.Context) error {
	result := h.runner.RunNow(c.Request().Context())
	if !result.Success {
		return SuccessMessageResponse(c, "Cycle completed with errors", result)
	}
	return SuccessResponse(c, result)
}

// GetPerformance returns the strategy dashboard with 7d and 30d platform
// win rates.
// GET /api/admin/performance
func (h *AdminHandler) GetPerformance(c echo.Context) error {
	ctx := c.Request().Context()

	strategies, err := h.performanceRepo.GetAll(ctx)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to fetch strategy performance", err)
	}

	winRate7d, samples7d, err := h.signalRepo.PlatformWinRate(ctx, 7)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to compute 7d win rate", err)
	}
	winRate30d, samples30d, err := h.signalRepo.PlatformWinRate(ctx, 30)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to compute 30d win rate", err)
	}

	openCount, err := h.signalRepo.CountOpen(ctx)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to count open signals", err)
	}

	return SuccessResponse(c, map[string]interface{}{
		"strategies": strategies,
		"platform": map[string]interface{}{
			"win_rate_7d":  winRate7d * 100,
			"samples_7d":   samples7d,
			"win_rate_30d": winRate30d * 100,
			"samples_30d":  samples30d,
			"open_signals": openCount,
		},
	})
}

// SetStrategyStatusRequest is the pause/resume request body
type SetStrategyStatusRequest struct {
	Status string `json:"status"`
}

// SetStrategyStatus manually pauses or resumes a strategy.
// PUT /api/admin/strategies/:name/status
func (h *AdminHandler) SetStrategyStatus(c echo.Context) error {
	name := c.Param("name")
	if !isKnownStrategy(name) {
		return NotFoundResponse(c, "unknown strategy")
	}

	var req SetStrategyStatusRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "invalid request body")
	}
	if req.Status != domain.StrategyActive && req.Status != domain.StrategyPaused {
		return BadRequestResponse(c, "status must be 'active' or 'paused'")
	}

	if err := h.performanceRepo.SetStatus(c.Request().Context(), name, req.Status); err != nil {
		return InternalServerErrorResponse(c, "Failed to update strategy status", err)
	}

	return SuccessMessageResponse(c, "Strategy status updated", map[string]interface{}{
		"strategy": name,
		"status":   req.Status,
	})
}

// UpdateOutcomeRequest is the manual settlement correction body
type UpdateOutcomeRequest struct {
	Outcome             string  `json:"outcome"`
	ActualReturnPercent float64 `json:"actual_return_percent"`
}

// UpdateSignalOutcome settles or corrects a signal's outcome.
// PUT /api/admin/signals/:id/outcome
func (h *AdminHandler) UpdateSignalOutcome(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "invalid signal ID")
	}

	var req UpdateOutcomeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "invalid request body")
	}
	switch req.Outcome {
	case domain.OutcomeWin, domain.OutcomeLoss, domain.OutcomeNeutral:
	default:
		return BadRequestResponse(c, "outcome must be 'win', 'loss' or 'neutral'")
	}

	if err := h.signalRepo.UpdateOutcome(c.Request().Context(), id, req.Outcome, req.ActualReturnPercent); err != nil {
		return NotFoundResponse(c, "signal not found")
	}

	return SuccessMessageResponse(c, "Signal outcome updated", map[string]interface{}{
		"id":      id,
		"outcome": req.Outcome,
	})
}

// GetSystemHealth reports database reachability and signal staleness.
// GET /api/admin/system/health
func (h *AdminHandler) GetSystemHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	dbHealthy := h.db.Ping(ctx) == nil

	var lastSignalAt *time.Time
	err := h.db.QueryRow(ctx, `SELECT MAX(created_at) FROM signals`).Scan(&lastSignalAt)
	if err != nil {
		dbHealthy = false
	}

	stale := false
	if lastSignalAt != nil && time.Since(*lastSignalAt) > signalStalenessLimit {
		stale = true
	}

	status := "healthy"
	if !dbHealthy {
		status = "unhealthy"
	} else if stale {
		status = "degraded"
	}

	return SuccessResponse(c, map[string]interface{}{
		"status":         status,
		"database":       dbHealthy,
		"last_signal_at": lastSignalAt,
		"signals_stale":  stale,
		"timestamp":      time.Now().UTC(),
	})
}

func isKnownStrategy(name string) bool {
	for _, s := range domain.Strategies {
		if s == name {
			return true
		}
	}
	return false
}
