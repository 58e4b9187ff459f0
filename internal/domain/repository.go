package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SignalRepository defines the interface for signal persistence.
type SignalRepository interface {
	// Create persists a newly accepted signal
	Create(ctx context.Context, signal *Signal) error

	// Latest retrieves the most recent signals, newest first.
	// Free-tier callers receive at most min(limit, 5) results.
	Latest(ctx context.Context, limit int, tier string) ([]*Signal, error)

	// GetByID retrieves a signal by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Signal, error)

	// GetByDateRange retrieves signals created within [start, end]
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*Signal, error)

	// UpdateOutcome settles a signal with its outcome and realized return
	UpdateOutcome(ctx context.Context, id uuid.UUID, outcome string, returnPercent float64) error

	// CountOpen returns the number of signals still open
	CountOpen(ctx context.Context) (int, error)

	// OpenAssets returns the distinct assets with open signals
	OpenAssets(ctx context.Context) ([]string, error)

	// PlatformWinRate returns the fraction of wins among settled signals
	// created in the trailing window, plus the sample size.
	PlatformWinRate(ctx context.Context, days int) (float64, int, error)
}

// StrategyPerformanceRepository defines the interface for the rolling
// per-strategy performance records.
type StrategyPerformanceRepository interface {
	// Get retrieves one strategy's record, or nil if none exists yet
	Get(ctx context.Context, strategy string) (*StrategyPerformance, error)

	// GetAll retrieves every strategy record
	GetAll(ctx context.Context) ([]*StrategyPerformance, error)

	// Upsert inserts or replaces a strategy's record
	Upsert(ctx context.Context, record *StrategyPerformance) error

	// SetStatus flips a strategy between active and paused
	SetStatus(ctx context.Context, strategy, status string) error
}
