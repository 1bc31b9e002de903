package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/kanjigate/pkg/models"
	"github.com/jmoiron/sqlx"
)

// ProgressRepository handles database operations for the daily progress ledger
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new repository instance
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetDailyProgress returns the completed count for a day, 0 if none is stored
func (r *ProgressRepository) GetDailyProgress(ctx context.Context, day string) (int, error) {
	var completed int
	err := r.db.GetContext(ctx, &completed, r.db.Rebind(`SELECT completed FROM daily_progress WHERE day = ?`), day)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get daily progress: %w", err)
	}
	return completed, nil
}

// SetDailyProgress stores the completed count for a day. A stored count is
// never lowered.
func (r *ProgressRepository) SetDailyProgress(ctx context.Context, day string, completed int) error {
	query := r.db.Rebind(`
		INSERT INTO daily_progress (day, completed, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (day) DO UPDATE SET
			completed = CASE WHEN excluded.completed > daily_progress.completed
				THEN excluded.completed ELSE daily_progress.completed END,
			updated_at = excluded.updated_at
	`)
	if _, err := r.db.ExecContext(ctx, query, day, completed, time.Now()); err != nil {
		return fmt.Errorf("failed to save daily progress: %w", err)
	}
	return nil
}

// ListDailyProgress returns the ledger entries from since (inclusive), oldest first
func (r *ProgressRepository) ListDailyProgress(ctx context.Context, since string) ([]models.DailyProgress, error) {
	var days []models.DailyProgress
	query := r.db.Rebind(`
		SELECT day, completed, updated_at
		FROM daily_progress
		WHERE day >= ?
		ORDER BY day ASC
	`)
	if err := r.db.SelectContext(ctx, &days, query, since); err != nil {
		return nil, fmt.Errorf("failed to list daily progress: %w", err)
	}
	return days, nil
}
