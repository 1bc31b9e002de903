package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/example/kanjigate/internal/config"
	"github.com/example/kanjigate/internal/database"
	"github.com/example/kanjigate/internal/gate"
	"github.com/example/kanjigate/internal/progress"
	"github.com/example/kanjigate/internal/session"
	"github.com/example/kanjigate/internal/wanikani"
	"github.com/jmoiron/sqlx"
)

// app holds what every command shares
type app struct {
	cfg      *config.Config
	db       *sqlx.DB
	settings *database.SettingsRepository
	outcomes *database.OutcomeRepository
	ledger   *progress.Ledger
	gate     *gate.Policy
	client   *wanikani.Client
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(cfg.DBType, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	settings := database.NewSettingsRepository(db)
	gateCfg, err := settings.LoadGateConfig(ctx, cfg.Gate)
	if err != nil {
		log.Printf("Using default gate settings: %v", err)
	}

	ledger := progress.NewLedger(database.NewProgressRepository(db), nil)
	return &app{
		cfg:      cfg,
		db:       db,
		settings: settings,
		outcomes: database.NewOutcomeRepository(db),
		ledger:   ledger,
		gate:     gate.New(gateCfg, ledger, settings, nil),
		client:   wanikani.New(cfg.WaniKaniToken, cfg.WaniKaniURL),
	}, nil
}

// newReporter starts a reporter that journals every outcome
func (a *app) newReporter() *session.Reporter {
	return session.NewReporter(a.client, a.outcomes)
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}
