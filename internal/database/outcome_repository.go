package database

import (
	"context"
	"fmt"
	"time"

	"github.com/example/kanjigate/pkg/models"
	"github.com/jmoiron/sqlx"
)

// OutcomeRepository journals every outcome report sent to the review service
type OutcomeRepository struct {
	db *sqlx.DB
}

// NewOutcomeRepository creates a new repository instance
func NewOutcomeRepository(db *sqlx.DB) *OutcomeRepository {
	return &OutcomeRepository{db: db}
}

// Record stores one outcome report and whether it reached the service
func (r *OutcomeRepository) Record(ctx context.Context, sessionID string, outcome models.Outcome, reportErr error) error {
	errText := ""
	if reportErr != nil {
		errText = reportErr.Error()
	}
	query := r.db.Rebind(`
		INSERT INTO review_outcomes (
			session_id, subject_id, incorrect_meaning, incorrect_reading,
			reported, error, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		sessionID,
		outcome.SubjectID,
		outcome.IncorrectMeaning,
		outcome.IncorrectReading,
		reportErr == nil,
		errText,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}
	return nil
}

// List returns the outcomes recorded at or after since, oldest first
func (r *OutcomeRepository) List(ctx context.Context, since time.Time) ([]models.OutcomeRecord, error) {
	var records []models.OutcomeRecord
	query := r.db.Rebind(`
		SELECT id, session_id, subject_id, incorrect_meaning, incorrect_reading,
		       reported, error, created_at
		FROM review_outcomes
		WHERE created_at >= ?
		ORDER BY created_at ASC, id ASC
	`)
	if err := r.db.SelectContext(ctx, &records, query, since); err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	return records, nil
}

// CountUnreported returns how many recorded outcomes never reached the service
func (r *OutcomeRepository) CountUnreported(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM review_outcomes WHERE reported = false`); err != nil {
		return 0, fmt.Errorf("failed to count unreported outcomes: %w", err)
	}
	return n, nil
}
