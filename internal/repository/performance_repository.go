package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"signalwired/internal/domain"
)

// PerformanceRepositoryImpl implements the StrategyPerformanceRepository interface
type PerformanceRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewPerformanceRepository creates a new StrategyPerformanceRepository
func NewPerformanceRepository(db *pgxpool.Pool) domain.StrategyPerformanceRepository {
	return &PerformanceRepositoryImpl{db: db}
}

// Get retrieves one strategy's record, or nil if none exists yet
func (r *PerformanceRepositoryImpl) Get(ctx context.Context, strategy string) (*domain.StrategyPerformance, error) {
	query := `
		SELECT strategy, win_rate_7d, win_rate_30d, total_signals,
		       avg_return_percent, status, last_updated
		FROM strategy_performance
		WHERE strategy = $1
	`

	record := &domain.StrategyPerformance{}
	err := r.db.QueryRow(ctx, query, strategy).Scan(
		&record.Strategy,
		&record.WinRate7d,
		&record.WinRate30d,
		&record.TotalSignals,
		&record.AvgReturnPercent,
		&record.Status,
		&record.LastUpdated,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get strategy performance: %w", err)
	}

	return record, nil
}

// GetAll retrieves every strategy record
func (r *PerformanceRepositoryImpl) GetAll(ctx context.Context) ([]*domain.StrategyPerformance, error) {
	query := `
		SELECT strategy, win_rate_7d, win_rate_30d, total_signals,
		       avg_return_percent, status, last_updated
		FROM strategy_performance
		ORDER BY strategy ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query strategy performance: %w", err)
	}
	defer rows.Close()

	var records []*domain.StrategyPerformance
	for rows.Next() {
		record := &domain.StrategyPerformance{}
		err := rows.Scan(
			&record.Strategy,
			&record.WinRate7d,
			&record.WinRate30d,
			&record.TotalSignals,
			&record.AvgReturnPercent,
			&record.Status,
			&record.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan strategy performance: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating strategy performance: %w", err)
	}

	return records, nil
}

// Upsert inserts or replaces a strategy's record
func (r *PerformanceRepositoryImpl) Upsert(ctx context.Context, record *domain.StrategyPerformance) error {
	query := `
		INSERT INTO strategy_performance (
			strategy, win_rate_7d, win_rate_30d, total_signals,
			avg_return_percent, status, last_updated
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (strategy) DO UPDATE SET
			win_rate_7d = EXCLUDED.win_rate_7d,
			win_rate_30d = EXCLUDED.win_rate_30d,
			total_signals = EXCLUDED.total_signals,
			avg_return_percent = EXCLUDED.avg_return_percent,
			status = EXCLUDED.status,
			last_updated = EXCLUDED.last_updated
	`

	_, err := r.db.Exec(ctx, query,
		record.Strategy,
		record.WinRate7d,
		record.WinRate30d,
		record.TotalSignals,
		record.AvgReturnPercent,
		record.Status,
		record.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert strategy performance: %w", err)
	}

	return nil
}

// SetStatus flips a strategy between active and paused
func (r *PerformanceRepositoryImpl) SetStatus(ctx context.Context, strategy, status string) error {
	query := `
		UPDATE strategy_performance
		SET status = $1, last_updated = NOW()
		WHERE strategy = $2
	`

	cmdTag, err := r.db.Exec(ctx, query, status, strategy)
	if err != nil {
		return fmt.Errorf("failed to set strategy status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("strategy not found: %s", strategy)
	}

	return nil
}
