package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/kanjigate/internal/gate"
	"github.com/example/kanjigate/internal/progress"
	"github.com/example/kanjigate/pkg/models"
)

type memStore struct {
	days map[string]int
}

func (s *memStore) GetDailyProgress(_ context.Context, day string) (int, error) {
	return s.days[day], nil
}

func (s *memStore) SetDailyProgress(_ context.Context, day string, completed int) error {
	s.days[day] = completed
	return nil
}

func (s *memStore) ListDailyProgress(context.Context, string) ([]models.DailyProgress, error) {
	return nil, nil
}

func (s *memStore) SetDisabledUntil(context.Context, time.Time) error { return nil }

type fakeNotifier struct {
	calls          int
	due, remaining int
	err            error
}

func (n *fakeNotifier) SendReminder(due, remaining int) error {
	n.calls++
	n.due, n.remaining = due, remaining
	return n.err
}

type fakeCounter struct {
	due int
	err error
}

func (c fakeCounter) DueCount(context.Context) (int, error) { return c.due, c.err }

func setup(t *testing.T, hour, minimum, done int, counter fakeCounter) (*Scheduler, *fakeNotifier, *gate.Policy) {
	t.Helper()
	now := time.Date(2024, 6, 1, hour, 30, 0, 0, time.Local)
	clock := func() time.Time { return now }
	store := &memStore{days: map[string]int{models.DayKey(now): done}}
	ledger := progress.NewLedger(store, clock)
	cfg := models.DefaultGateConfig()
	cfg.MinimumDaily = minimum
	policy := gate.New(cfg, ledger, store, clock)

	notifier := &fakeNotifier{}
	s := New(notifier, counter, policy, 8, 22)
	s.now = clock
	return s, notifier, policy
}

func TestCheckSendsReminder(t *testing.T) {
	s, n, _ := setup(t, 12, 10, 4, fakeCounter{due: 30})

	sent, err := s.Check(context.Background())
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !sent || n.calls != 1 {
		t.Fatalf("Expected one reminder, sent=%v calls=%d", sent, n.calls)
	}
	if n.due != 30 || n.remaining != 6 {
		t.Errorf("Expected due=30 remaining=6, got due=%d remaining=%d", n.due, n.remaining)
	}
}

func TestCheckOutsideHours(t *testing.T) {
	s, n, _ := setup(t, 23, 10, 0, fakeCounter{due: 30})

	if sent, _ := s.Check(context.Background()); sent || n.calls != 0 {
		t.Fatal("Expected no reminder outside notification hours")
	}
}

func TestCheckMinimumMet(t *testing.T) {
	s, n, _ := setup(t, 12, 10, 10, fakeCounter{due: 30})

	if sent, _ := s.Check(context.Background()); sent || n.calls != 0 {
		t.Fatal("Expected no reminder once the minimum is met")
	}
}

func TestCheckNothingDue(t *testing.T) {
	s, n, _ := setup(t, 12, 10, 0, fakeCounter{})

	if sent, _ := s.Check(context.Background()); sent || n.calls != 0 {
		t.Fatal("Expected no reminder when nothing is due")
	}
}

func TestCheckSuppressed(t *testing.T) {
	s, n, policy := setup(t, 12, 10, 0, fakeCounter{due: 5})
	if _, err := policy.DisableForToday(context.Background()); err != nil {
		t.Fatalf("DisableForToday failed: %v", err)
	}

	if sent, _ := s.Check(context.Background()); sent || n.calls != 0 {
		t.Fatal("Expected no reminder while the gate is disabled")
	}
}

func TestCheckCountError(t *testing.T) {
	s, n, _ := setup(t, 12, 10, 0, fakeCounter{err: errors.New("offline")})

	if _, err := s.Check(context.Background()); err == nil {
		t.Fatal("Expected the count error to be returned")
	}
	if n.calls != 0 {
		t.Fatal("Expected no reminder on error")
	}
}

func TestInWindowWraps(t *testing.T) {
	s := &Scheduler{startHour: 20, endHour: 2}
	for hour, want := range map[int]bool{19: false, 20: true, 23: true, 0: true, 2: true, 3: false} {
		if got := s.inWindow(hour); got != want {
			t.Errorf("inWindow(%d) = %v, want %v", hour, got, want)
		}
	}
}
