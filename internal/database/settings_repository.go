package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/example/kanjigate/pkg/models"
	"github.com/jmoiron/sqlx"
)

// Setting keys
const (
	keyMinimumDaily  = "gate.minimum_daily"
	keySuccessDelay  = "gate.success_delay"
	keyFailureDelay  = "gate.failure_delay"
	keyDisabledUntil = "gate.disabled_until"
)

// SettingsRepository persists the gate configuration as key/value rows
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new repository instance
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// LoadGateConfig reads the stored gate configuration. Missing keys keep the
// value from defaults; malformed values are logged and also keep the default.
func (r *SettingsRepository) LoadGateConfig(ctx context.Context, defaults models.GateConfig) (models.GateConfig, error) {
	rows := []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, `SELECT key, value FROM settings`); err != nil {
		return defaults, fmt.Errorf("failed to load settings: %w", err)
	}

	cfg := defaults
	for _, row := range rows {
		if err := applySetting(&cfg, row.Key, row.Value); err != nil {
			var cerr *ConfigError
			if errors.As(err, &cerr) {
				log.Printf("Ignoring stored setting: %v", cerr)
				continue
			}
			return defaults, err
		}
	}
	return cfg, nil
}

// SaveGateConfig stores every field of the gate configuration
func (r *SettingsRepository) SaveGateConfig(ctx context.Context, cfg models.GateConfig) error {
	values := map[string]string{
		keyMinimumDaily:  strconv.Itoa(cfg.MinimumDaily),
		keySuccessDelay:  cfg.SuccessDelay.String(),
		keyFailureDelay:  cfg.FailureDelay.String(),
		keyDisabledUntil: formatTime(cfg.DisabledUntil),
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for key, value := range values {
		if err := r.set(ctx, tx, key, value); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// SetDisabledUntil stores the opt-out timestamp only
func (r *SettingsRepository) SetDisabledUntil(ctx context.Context, until time.Time) error {
	return r.set(ctx, r.db, keyDisabledUntil, formatTime(until))
}

func (r *SettingsRepository) set(ctx context.Context, exec sqlx.ExecerContext, key, value string) error {
	query := r.db.Rebind(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if _, err := exec.ExecContext(ctx, query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

func applySetting(cfg *models.GateConfig, key, value string) error {
	switch key {
	case keyMinimumDaily:
		n, err := strconv.Atoi(value)
		if err == nil && n < 0 {
			err = errors.New("must not be negative")
		}
		if err != nil {
			return &ConfigError{Key: key, Value: value, Err: err}
		}
		cfg.MinimumDaily = n
	case keySuccessDelay, keyFailureDelay:
		d, err := time.ParseDuration(value)
		if err == nil && d < 0 {
			err = errors.New("must not be negative")
		}
		if err != nil {
			return &ConfigError{Key: key, Value: value, Err: err}
		}
		if key == keySuccessDelay {
			cfg.SuccessDelay = d
		} else {
			cfg.FailureDelay = d
		}
	case keyDisabledUntil:
		if value == "" {
			cfg.DisabledUntil = time.Time{}
			return nil
		}
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return &ConfigError{Key: key, Value: value, Err: err}
		}
		cfg.DisabledUntil = t.Local()
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
