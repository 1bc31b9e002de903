package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/kanjigate/internal/database"
	"github.com/example/kanjigate/internal/gate"
	"github.com/example/kanjigate/internal/progress"
	"github.com/example/kanjigate/internal/session"
	"github.com/example/kanjigate/internal/tui"
	"github.com/example/kanjigate/pkg/models"
)

type failingSource struct{ err error }

func (s *failingSource) FetchDue(context.Context) ([]models.ReviewItem, error) {
	return nil, s.err
}

func (s *failingSource) ReportOutcome(context.Context, models.Outcome) error {
	return nil
}

func setupSession(t *testing.T, source session.Source) (*session.Controller, *tui.Host, *gate.Policy) {
	t.Helper()
	db, err := database.Connect(database.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := func() time.Time { return time.Date(2024, 7, 3, 10, 0, 0, 0, time.Local) }
	ledger := progress.NewLedger(database.NewProgressRepository(db), clock)
	policy := gate.New(models.DefaultGateConfig(), ledger, database.NewSettingsRepository(db), clock)
	reporter := session.NewReporter(source, nil)
	t.Cleanup(reporter.Close)

	host := tui.NewHost()
	return session.NewController(source, policy, ledger, reporter, host, host), host, policy
}

func TestOpenSessionPrintsFetchFailure(t *testing.T) {
	ctrl, host, policy := setupSession(t, &failingSource{err: errors.New("status 502")})
	var out bytes.Buffer

	started, err := openSession(context.Background(), &out, ctrl, host, policy)
	if err == nil || started {
		t.Fatalf("Expected a failed open, got started=%v err=%v", started, err)
	}
	if !strings.Contains(out.String(), "Could not load your reviews") {
		t.Errorf("Expected the fetch failure notice, got %q", out.String())
	}
}

func TestOpenSessionNothingDue(t *testing.T) {
	ctrl, host, policy := setupSession(t, &failingSource{})
	var out bytes.Buffer

	started, err := openSession(context.Background(), &out, ctrl, host, policy)
	if err != nil || started {
		t.Fatalf("Expected no session, got started=%v err=%v", started, err)
	}
	if !strings.Contains(out.String(), "No reviews are due") {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestOpenSessionSuppressed(t *testing.T) {
	ctrl, host, policy := setupSession(t, &failingSource{})
	if _, err := policy.DisableForToday(context.Background()); err != nil {
		t.Fatalf("DisableForToday: %v", err)
	}
	var out bytes.Buffer

	started, err := openSession(context.Background(), &out, ctrl, host, policy)
	if err != nil || started {
		t.Fatalf("Expected no session, got started=%v err=%v", started, err)
	}
	if !strings.Contains(out.String(), "Review gate is off until Jul 4 00:00") {
		t.Errorf("Unexpected output %q", out.String())
	}
}
