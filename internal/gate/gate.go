// Package gate decides whether the user may leave the review session.
package gate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/kanjigate/internal/progress"
	"github.com/example/kanjigate/pkg/models"
)

// ConfigStore persists the opt-out timestamp
type ConfigStore interface {
	SetDisabledUntil(ctx context.Context, until time.Time) error
}

// ConfigLoader reads the stored gate configuration. A ConfigStore that
// also implements it lets Reload pick up changes made by other processes.
type ConfigLoader interface {
	LoadGateConfig(ctx context.Context, defaults models.GateConfig) (models.GateConfig, error)
}

// Policy enforces the daily minimum
type Policy struct {
	ledger *progress.Ledger
	store  ConfigStore
	now    func() time.Time

	mu  sync.RWMutex
	cfg models.GateConfig
	// opt-out that could not be saved; survives Reload
	unsavedUntil time.Time
}

// New creates a gate policy. A nil now uses time.Now.
func New(cfg models.GateConfig, ledger *progress.Ledger, store ConfigStore, now func() time.Time) *Policy {
	if now == nil {
		now = time.Now
	}
	return &Policy{cfg: cfg, ledger: ledger, store: store, now: now}
}

// Config returns a copy of the current gate configuration
func (p *Policy) Config() models.GateConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

// Minimum returns the number of items required per day
func (p *Policy) Minimum() int {
	return p.Config().MinimumDaily
}

// Today returns the ledger count for today
func (p *Policy) Today(ctx context.Context) int {
	return p.ledger.Today(ctx)
}

// CanClose reports whether today's completed count has reached the minimum
func (p *Policy) CanClose(ctx context.Context) bool {
	return p.ledger.Today(ctx) >= p.Minimum()
}

// Remaining returns how many more items are required today
func (p *Policy) Remaining(ctx context.Context) int {
	left := p.Minimum() - p.ledger.Today(ctx)
	if left < 0 {
		return 0
	}
	return left
}

// Suppressed reports whether the opt-out window is active
func (p *Policy) Suppressed() bool {
	return p.Config().Suppressed(p.now())
}

// DisableForToday turns the gate off until the start of the next local day
func (p *Policy) DisableForToday(ctx context.Context) (time.Time, error) {
	until := models.NextMidnight(p.now())

	p.mu.Lock()
	p.cfg.DisabledUntil = until
	p.mu.Unlock()

	if err := p.store.SetDisabledUntil(ctx, until); err != nil {
		p.mu.Lock()
		p.unsavedUntil = until
		p.mu.Unlock()
		return until, fmt.Errorf("failed to save opt-out: %w", err)
	}
	return until, nil
}

// Reload replaces the configuration with the stored one. It is a no-op when
// the store cannot load; on a load error the current configuration is kept.
func (p *Policy) Reload(ctx context.Context) error {
	loader, ok := p.store.(ConfigLoader)
	if !ok {
		return nil
	}
	cfg, err := loader.LoadGateConfig(ctx, p.Config())
	if err != nil {
		return fmt.Errorf("failed to reload gate settings: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unsavedUntil.After(cfg.DisabledUntil) && p.now().Before(p.unsavedUntil) {
		cfg.DisabledUntil = p.unsavedUntil
	}
	p.cfg = cfg
	return nil
}
