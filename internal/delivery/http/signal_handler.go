package http

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"signalwired/internal/domain"
)

const defaultSignalLimit = 10

// SignalHandler serves the public signals read API.
type SignalHandler struct {
	signalRepo      domain.SignalRepository
	performanceRepo domain.StrategyPerformanceRepository
}

// NewSignalHandler creates a new signal handler
func NewSignalHandler(signalRepo domain.SignalRepository, performanceRepo domain.StrategyPerformanceRepository) *SignalHandler {
	return &SignalHandler{
		signalRepo:      signalRepo,
		performanceRepo: performanceRepo,
	}
}

// GetLatest returns the most recent signals, newest first. Free-tier
// callers get at most 5 regardless of the requested limit.
// GET /api/signals/latest?limit=10&tier=free
func (h *SignalHandler) GetLatest(c echo.Context) error {
	limit := defaultSignalLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return BadRequestResponse(c, "limit must be a positive integer")
		}
		limit = parsed
	}

	tier := c.QueryParam("tier")
	switch tier {
	case "":
		tier = domain.TierFree
	case domain.TierFree, domain.TierPro, domain.TierElite:
	default:
		return BadRequestResponse(c, "unknown tier")
	}

	signals, err := h.signalRepo.Latest(c.Request().Context(), limit, tier)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to fetch signals", err)
	}

	return SuccessResponse(c, map[string]interface{}{
		"signals": signals,
		"count":   len(signals),
	})
}

// GetByID returns one signal by its UUID.
// GET /api/signals/:id
func (h *SignalHandler) GetByID(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return BadRequestResponse(c, "invalid signal ID")
	}

	signal, err := h.signalRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return NotFoundResponse(c, "signal not found")
	}

	return SuccessResponse(c, signal)
}

// GetPerformance returns the platform win rate over a trailing window plus
// the per-strategy breakdown.
// GET /api/signals/performance?days=30
func (h *SignalHandler) GetPerformance(c echo.Context) error {
	days := 30
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			return BadRequestResponse(c, "days must be between 1 and 365")
		}
		days = parsed
	}

	ctx := c.Request().Context()

	winRate, samples, err := h.signalRepo.PlatformWinRate(ctx, days)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to compute win rate", err)
	}

	strategies, err := h.performanceRepo.GetAll(ctx)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to fetch strategy performance", err)
	}

	return SuccessResponse(c, map[string]interface{}{
		"window_days":       days,
		"platform_win_rate": winRate * 100,
		"settled_signals":   samples,
		"strategies":        strategies,
		"as_of":             time.Now().UTC(),
	})
}
