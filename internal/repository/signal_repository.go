package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"signalwired/internal/domain"
)

// signalColumns is the scan order shared by every signal query.
const signalColumns = `id, asset, action, strategy, entry_price, stop_loss, take_profit,
       position_size_percent, confidence, rationale, outcome, actual_return_percent,
       created_at, closed_at`

// SignalRepositoryImpl implements the SignalRepository interface
type SignalRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewSignalRepository creates a new SignalRepository
func NewSignalRepository(db *pgxpool.Pool) domain.SignalRepository {
	return &SignalRepositoryImpl{db: db}
}

// Create persists a newly accepted signal
func (r *SignalRepositoryImpl) Create(ctx context.Context, signal *domain.Signal) error {
	query := `
		INSERT INTO signals (
			id, asset, action, strategy, entry_price, stop_loss, take_profit,
			position_size_percent, confidence, rationale, outcome, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
	`

	_, err := r.db.Exec(ctx, query,
		signal.ID,
		signal.Asset,
		signal.Action,
		signal.Strategy,
		signal.EntryPrice,
		signal.StopLoss,
		signal.TakeProfit,
		signal.PositionSizePercent,
		signal.Confidence,
		signal.Rationale,
		signal.Outcome,
		signal.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save signal: %w", err)
	}

	return nil
}

// Latest retrieves the most recent signals, newest first. Free-tier callers
// are capped at 5 results regardless of the requested limit.
func (r *SignalRepositoryImpl) Latest(ctx context.Context, limit int, tier string) ([]*domain.Signal, error) {
	if tier == domain.TierFree && limit > 5 {
		limit = 5
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM signals
		ORDER BY created_at DESC
		LIMIT $1
	`, signalColumns)

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest signals: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// GetByID retrieves a signal by its ID
func (r *SignalRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.Signal, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM signals
		WHERE id = $1
	`, signalColumns)

	signal := &domain.Signal{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&signal.ID,
		&signal.Asset,
		&signal.Action,
		&signal.Strategy,
		&signal.EntryPrice,
		&signal.StopLoss,
		&signal.TakeProfit,
		&signal.PositionSizePercent,
		&signal.Confidence,
		&signal.Rationale,
		&signal.Outcome,
		&signal.ActualReturnPercent,
		&signal.CreatedAt,
		&signal.ClosedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get signal by ID: %w", err)
	}

	return signal, nil
}

// GetByDateRange retrieves signals created within [start, end]
func (r *SignalRepositoryImpl) GetByDateRange(ctx context.Context, start, end time.Time) ([]*domain.Signal, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM signals
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC
	`, signalColumns)

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals by date range: %w", err)
	}
	defer rows.Close()

	return scanSignals(rows)
}

// UpdateOutcome settles a signal with its outcome and realized return
func (r *SignalRepositoryImpl) UpdateOutcome(ctx context.Context, id uuid.UUID, outcome string, returnPercent float64) error {
	query := `
		UPDATE signals
		SET outcome = $1, actual_return_percent = $2, closed_at = NOW()
		WHERE id = $3
	`

	cmdTag, err := r.db.Exec(ctx, query, outcome, returnPercent, id)
	if err != nil {
		return fmt.Errorf("failed to update signal outcome: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("signal not found: %s", id)
	}

	return nil
}

// CountOpen returns the number of signals still open
func (r *SignalRepositoryImpl) CountOpen(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM signals WHERE outcome = 'open'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open signals: %w", err)
	}
	return count, nil
}

// OpenAssets returns the distinct assets with open signals
func (r *SignalRepositoryImpl) OpenAssets(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT asset FROM signals WHERE outcome = 'open'`)
	if err != nil {
		return nil, fmt.Errorf("failed to query open assets: %w", err)
	}
	defer rows.Close()

	var assets []string
	for rows.Next() {
		var asset string
		if err := rows.Scan(&asset); err != nil {
			return nil, fmt.Errorf("failed to scan open asset: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating open assets: %w", err)
	}

	return assets, nil
}

// PlatformWinRate returns the fraction of wins among settled signals
// created in the trailing window, plus the sample size.
func (r *SignalRepositoryImpl) PlatformWinRate(ctx context.Context, days int) (float64, int, error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE outcome = 'win'), COUNT(*)
		FROM signals
		WHERE created_at >= NOW() - make_interval(days => $1)
		  AND outcome <> 'open'
	`

	var wins, total int
	if err := r.db.QueryRow(ctx, query, days).Scan(&wins, &total); err != nil {
		return 0, 0, fmt.Errorf("failed to compute platform win rate: %w", err)
	}
	if total == 0 {
		return 0, 0, nil
	}

	return float64(wins) / float64(total), total, nil
}

// scanSignals reads all rows into signals.
func scanSignals(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]*domain.Signal, error) {
	var signals []*domain.Signal
	for rows.Next() {
		signal := &domain.Signal{}
		err := rows.Scan(
			&signal.ID,
			&signal.Asset,
			&signal.Action,
			&signal.Strategy,
			&signal.EntryPrice,
			&signal.StopLoss,
			&signal.TakeProfit,
			&signal.PositionSizePercent,
			&signal.Confidence,
			&signal.Rationale,
			&signal.Outcome,
			&signal.ActualReturnPercent,
			&signal.CreatedAt,
			&signal.ClosedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		signals = append(signals, signal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signals: %w", err)
	}
	return signals, nil
}
