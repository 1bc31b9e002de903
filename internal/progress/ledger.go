// Package progress keeps the per-day count of completed reviews.
package progress

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/kanjigate/pkg/models"
)

// Store persists daily progress counters
type Store interface {
	GetDailyProgress(ctx context.Context, day string) (int, error)
	SetDailyProgress(ctx context.Context, day string, completed int) error
	ListDailyProgress(ctx context.Context, since string) ([]models.DailyProgress, error)
}

// Ledger counts items completed per local calendar day.
// The counter for a day only grows; a new date starts a new counter.
type Ledger struct {
	store Store
	now   func() time.Time

	mu    sync.Mutex
	day   string
	count int
}

// NewLedger creates a ledger backed by store. A nil now uses time.Now.
func NewLedger(store Store, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{store: store, now: now}
}

// Today returns the number of items completed today
func (l *Ledger) Today(ctx context.Context) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refresh(ctx)
	return l.count
}

// Increment adds one completed item to today's counter and persists it.
// The in-memory count is kept even when saving fails.
func (l *Ledger) Increment(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refresh(ctx)
	l.count++
	if err := l.store.SetDailyProgress(ctx, l.day, l.count); err != nil {
		return l.count, fmt.Errorf("failed to save daily progress for %s: %w", l.day, err)
	}
	return l.count, nil
}

// History returns the ledger entries of the last days days, oldest first
func (l *Ledger) History(ctx context.Context, days int) ([]models.DailyProgress, error) {
	if days < 1 {
		days = 1
	}
	since := models.DayKey(l.now().AddDate(0, 0, -(days - 1)))
	return l.store.ListDailyProgress(ctx, since)
}

// refresh switches to the current day, merging in the stored count. Must hold mu.
func (l *Ledger) refresh(ctx context.Context) {
	day := models.DayKey(l.now())
	if day != l.day {
		l.day = day
		l.count = 0
	}
	stored, err := l.store.GetDailyProgress(ctx, day)
	if err != nil {
		log.Printf("Failed to load daily progress for %s: %v", day, err)
		return
	}
	if stored > l.count {
		l.count = stored
	}
}
