package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/kanjigate/pkg/models"
	"github.com/jmoiron/sqlx"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect(TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestConnectUnknownType(t *testing.T) {
	if _, err := Connect("oracle", "x"); err == nil {
		t.Fatal("expected error for unsupported database type")
	}
}

func TestProgressRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProgressRepository(setupTestDB(t))

	n, err := repo.GetDailyProgress(ctx, "2024-01-02")
	if err != nil || n != 0 {
		t.Fatalf("expected 0 for missing day, got %d, %v", n, err)
	}

	for _, v := range []int{1, 2, 3} {
		if err := repo.SetDailyProgress(ctx, "2024-01-02", v); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	if err := repo.SetDailyProgress(ctx, "2024-01-03", 4); err != nil {
		t.Fatalf("set: %v", err)
	}
	// stored counts never go down
	if err := repo.SetDailyProgress(ctx, "2024-01-02", 1); err != nil {
		t.Fatalf("set: %v", err)
	}

	n, _ = repo.GetDailyProgress(ctx, "2024-01-02")
	if n != 3 {
		t.Fatalf("expected 3, got %d", n)
	}

	days, err := repo.ListDailyProgress(ctx, "2024-01-01")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(days) != 2 || days[0].Day != "2024-01-02" || days[1].Completed != 4 {
		t.Fatalf("unexpected days %+v", days)
	}

	days, _ = repo.ListDailyProgress(ctx, "2024-01-03")
	if len(days) != 1 {
		t.Fatalf("expected 1 day since 2024-01-03, got %d", len(days))
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepository(setupTestDB(t))
	defaults := models.DefaultGateConfig()

	cfg, err := repo.LoadGateConfig(ctx, defaults)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != defaults {
		t.Fatalf("expected defaults from an empty store, got %+v", cfg)
	}

	until := time.Date(2024, 2, 3, 0, 0, 0, 0, time.Local)
	want := models.GateConfig{
		MinimumDaily:  25,
		SuccessDelay:  500 * time.Millisecond,
		FailureDelay:  4 * time.Second,
		DisabledUntil: until,
	}
	if err := repo.SaveGateConfig(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.LoadGateConfig(ctx, defaults)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.MinimumDaily != 25 || got.SuccessDelay != want.SuccessDelay || got.FailureDelay != want.FailureDelay {
		t.Fatalf("unexpected config %+v", got)
	}
	if !got.DisabledUntil.Equal(until) {
		t.Fatalf("expected disabled until %v, got %v", until, got.DisabledUntil)
	}

	if err := repo.SetDisabledUntil(ctx, time.Time{}); err != nil {
		t.Fatalf("clear opt-out: %v", err)
	}
	got, _ = repo.LoadGateConfig(ctx, defaults)
	if !got.DisabledUntil.IsZero() {
		t.Fatalf("expected opt-out cleared, got %v", got.DisabledUntil)
	}
}

func TestSettingsFallBackOnMalformedValues(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewSettingsRepository(db)

	bad := map[string]string{
		keyMinimumDaily:  "lots",
		keySuccessDelay:  "-1s",
		keyFailureDelay:  "5s",
		keyDisabledUntil: "tomorrow",
	}
	for k, v := range bad {
		if _, err := db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)`, k, v); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	defaults := models.DefaultGateConfig()
	cfg, err := repo.LoadGateConfig(ctx, defaults)
	if err != nil {
		t.Fatalf("malformed settings must not fail loading: %v", err)
	}
	if cfg.MinimumDaily != defaults.MinimumDaily || cfg.SuccessDelay != defaults.SuccessDelay {
		t.Fatalf("expected defaults for malformed fields, got %+v", cfg)
	}
	if cfg.FailureDelay != 5*time.Second {
		t.Fatalf("valid field should be kept, got %v", cfg.FailureDelay)
	}
	if !cfg.DisabledUntil.IsZero() {
		t.Fatalf("expected no opt-out, got %v", cfg.DisabledUntil)
	}
}

func TestConfigErrorUnwraps(t *testing.T) {
	inner := errors.New("bad number")
	err := error(&ConfigError{Key: "k", Value: "v", Err: inner})
	if !errors.Is(err, inner) {
		t.Fatal("expected ConfigError to unwrap")
	}
}

func TestOutcomeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewOutcomeRepository(setupTestDB(t))

	if err := repo.Record(ctx, "s1", models.Outcome{SubjectID: 10, IncorrectMeaning: 1}, nil); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := repo.Record(ctx, "s1", models.Outcome{SubjectID: 11, IncorrectReading: 2}, errors.New("timeout")); err != nil {
		t.Fatalf("record: %v", err)
	}

	records, err := repo.List(ctx, time.Time{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[0].Reported || records[0].SubjectID != 10 || records[0].IncorrectMeaning != 1 {
		t.Errorf("unexpected first record %+v", records[0])
	}
	if records[1].Reported || records[1].Error != "timeout" || records[1].SessionID != "s1" {
		t.Errorf("unexpected second record %+v", records[1])
	}

	n, err := repo.CountUnreported(ctx)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 unreported, got %d, %v", n, err)
	}
}
