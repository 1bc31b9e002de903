package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/kanjigate/internal/database"
	"github.com/example/kanjigate/internal/progress"
	"github.com/example/kanjigate/pkg/models"
)

func TestReloadSeesOtherProcessChanges(t *testing.T) {
	ctx := context.Background()
	db, err := database.Connect(database.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close()

	now := time.Date(2024, 7, 3, 10, 0, 0, 0, time.Local)
	clock := func() time.Time { return now }
	settings := database.NewSettingsRepository(db)
	ledger := progress.NewLedger(database.NewProgressRepository(db), clock)
	cfg := models.DefaultGateConfig()
	cfg.MinimumDaily = 5

	// one policy per process, sharing the database
	botPolicy := New(cfg, ledger, settings, clock)
	cliPolicy := New(cfg, ledger, settings, clock)

	if _, err := cliPolicy.DisableForToday(ctx); err != nil {
		t.Fatalf("DisableForToday: %v", err)
	}
	if botPolicy.Suppressed() {
		t.Fatal("expected stale policy before reload")
	}
	if err := botPolicy.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if !botPolicy.Suppressed() {
		t.Fatal("expected opt-out to be picked up by reload")
	}

	updated := cliPolicy.Config()
	updated.MinimumDaily = 1
	updated.DisabledUntil = time.Time{}
	if err := settings.SaveGateConfig(ctx, updated); err != nil {
		t.Fatalf("SaveGateConfig: %v", err)
	}
	if err := botPolicy.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if botPolicy.Suppressed() {
		t.Fatal("expected gate re-enabled after reload")
	}
	if botPolicy.Minimum() != 1 {
		t.Fatalf("expected minimum 1, got %d", botPolicy.Minimum())
	}
}

type flakyStore struct {
	memStore
	cfg     models.GateConfig
	saveErr error
	loadErr error
}

func (s *flakyStore) SetDisabledUntil(_ context.Context, until time.Time) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.cfg.DisabledUntil = until
	return nil
}

func (s *flakyStore) LoadGateConfig(context.Context, models.GateConfig) (models.GateConfig, error) {
	return s.cfg, s.loadErr
}

func TestReloadKeepsUnsavedOptOut(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 15, 0, 0, 0, time.Local)
	clock := func() time.Time { return now }
	store := &flakyStore{memStore: memStore{days: map[string]int{}}, saveErr: errors.New("disk full")}
	store.cfg = models.DefaultGateConfig()
	p := New(store.cfg, progress.NewLedger(store, clock), store, clock)

	if _, err := p.DisableForToday(ctx); err == nil {
		t.Fatal("expected save error")
	}
	if err := p.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if !p.Suppressed() {
		t.Fatal("expected unsaved opt-out to survive reload")
	}
}

func TestReloadErrorKeepsConfig(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 15, 0, 0, 0, time.Local)
	clock := func() time.Time { return now }
	store := &flakyStore{memStore: memStore{days: map[string]int{}}, loadErr: errors.New("locked")}
	cfg := models.DefaultGateConfig()
	cfg.MinimumDaily = 7
	p := New(cfg, progress.NewLedger(store, clock), store, clock)

	if err := p.Reload(ctx); err == nil {
		t.Fatal("expected reload error")
	}
	if p.Minimum() != 7 {
		t.Fatalf("expected minimum 7 kept, got %d", p.Minimum())
	}
}
