package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/kanjigate/internal/gate"
	"github.com/go-co-op/gocron"
)

// Default notification window, local hours inclusive
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
)

// Scheduler sends review reminders on a fixed schedule
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	source    DueCounter
	gate      *gate.Policy
	startHour int
	endHour   int
	now       func() time.Time
}

// Notifier interface for sending notifications
type Notifier interface {
	SendReminder(due, remaining int) error
}

// DueCounter reports how many reviews are waiting
type DueCounter interface {
	DueCount(ctx context.Context) (int, error)
}

// New creates a new scheduler instance. Hours outside 0-23 fall back to the defaults.
func New(notifier Notifier, source DueCounter, policy *gate.Policy, startHour, endHour int) *Scheduler {
	if startHour < 0 || startHour > 23 {
		startHour = DefaultNotificationStartHour
	}
	if endHour < 0 || endHour > 23 {
		endHour = DefaultNotificationEndHour
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		notifier:  notifier,
		source:    source,
		gate:      policy,
		startHour: startHour,
		endHour:   endHour,
		now:       time.Now,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	// Hourly check, first run right away
	if _, err := s.scheduler.Every(1).Hour().Do(s.checkAndSendReminder); err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) checkAndSendReminder() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := s.Check(ctx); err != nil {
		log.Printf("Error sending review reminder: %v", err)
	}
}

// Check sends a reminder if one is due now and reports whether it did
func (s *Scheduler) Check(ctx context.Context) (bool, error) {
	hour := s.now().Hour()
	if !s.inWindow(hour) {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			hour, s.startHour, s.endHour)
		return false, nil
	}
	if err := s.gate.Reload(ctx); err != nil {
		log.Printf("Using cached gate settings: %v", err)
	}
	if s.gate.Suppressed() {
		return false, nil
	}
	remaining := s.gate.Remaining(ctx)
	if remaining == 0 {
		return false, nil
	}

	due, err := s.source.DueCount(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to count due reviews: %w", err)
	}
	if due == 0 {
		return false, nil
	}

	if err := s.notifier.SendReminder(due, remaining); err != nil {
		return false, fmt.Errorf("failed to send reminder: %w", err)
	}
	return true, nil
}

// inWindow handles windows that wrap past midnight, such as 20-2
func (s *Scheduler) inWindow(hour int) bool {
	if s.startHour <= s.endHour {
		return hour >= s.startHour && hour <= s.endHour
	}
	return hour >= s.startHour || hour <= s.endHour
}
