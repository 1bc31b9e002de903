// Package session runs a review session: it presents due items one at a
// time, grades answers, re-queues missed items and reports final outcomes.
//
// A Controller is not safe for concurrent use. Hosts drive it from a single
// event loop and run Timer callbacks on that same loop.
package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/kanjigate/internal/gate"
	"github.com/example/kanjigate/internal/grading"
	"github.com/example/kanjigate/internal/progress"
	"github.com/example/kanjigate/pkg/models"
	"github.com/google/uuid"
)

// AutoCloseDelay is how long a finished session stays on screen
const AutoCloseDelay = 3 * time.Second

// State is a step of the session state machine
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePresenting
	StateGrading
	StateAdvancing
	StateComplete
	StateClosedEarly
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePresenting:
		return "presenting"
	case StateGrading:
		return "grading"
	case StateAdvancing:
		return "advancing"
	case StateComplete:
		return "complete"
	case StateClosedEarly:
		return "closed_early"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Source supplies due items and accepts graded outcomes
type Source interface {
	FetchDue(ctx context.Context) ([]models.ReviewItem, error)
	OutcomeReporter
}

// Host is the user-facing side of a session
type Host interface {
	// Notify shows a one-off message
	Notify(message string)
	// Celebrate plays the success effect
	Celebrate()
	// ShowCloseButton reveals or hides the host's close control
	ShowCloseButton(visible bool)
	// Present asks the user to answer item
	Present(item models.ReviewItem)
	// Closed is called once when the session ends
	Closed(final State)
}

// Timer runs fn on the host's event loop after d
type Timer interface {
	After(d time.Duration, fn func())
}

// Verdict is the result of grading one submission
type Verdict struct {
	Item           models.ReviewItem
	MeaningCorrect bool
	ReadingCorrect bool
	// Accepted answers for the fields that were missed, as displayed
	ExpectedMeanings []string
	ExpectedReadings []string
	// Pause before the next item is presented
	Delay time.Duration
}

// Correct reports whether the item was answered fully correctly
func (v Verdict) Correct() bool {
	return v.MeaningCorrect && v.ReadingCorrect
}

// Controller is the review session state machine
type Controller struct {
	source   Source
	gate     *gate.Policy
	ledger   *progress.Ledger
	reporter *Reporter
	host     Host
	timer    Timer

	state      State
	active     bool
	sessionID  string
	queue      *Queue
	failures   *Failures
	completed  int
	generation uint64
}

// NewController wires a controller. reporter sends outcomes in the background.
func NewController(source Source, policy *gate.Policy, ledger *progress.Ledger, reporter *Reporter, host Host, timer Timer) *Controller {
	return &Controller{
		source:   source,
		gate:     policy,
		ledger:   ledger,
		reporter: reporter,
		host:     host,
		timer:    timer,
		state:    StateIdle,
	}
}

// State returns the current state
func (c *Controller) State() State { return c.state }

// Active reports whether a session is open
func (c *Controller) Active() bool { return c.active }

// SessionID returns the id of the open session, or ""
func (c *Controller) SessionID() string { return c.sessionID }

// Completed returns the number of items completed in this session
func (c *Controller) Completed() int { return c.completed }

// Remaining returns the number of presentations still queued, including the current one
func (c *Controller) Remaining() int {
	if c.queue == nil {
		return 0
	}
	return c.queue.Len()
}

// Current returns the item waiting for an answer
func (c *Controller) Current() (models.ReviewItem, bool) {
	if c.state != StatePresenting || c.queue == nil {
		return models.ReviewItem{}, false
	}
	return c.queue.Current()
}

// Open fetches due items and starts a session. No session is created when
// the gate is disabled for today, when the fetch fails or when nothing is due.
func (c *Controller) Open(ctx context.Context) error {
	if c.active {
		return ErrSessionActive
	}
	if err := c.gate.Reload(ctx); err != nil {
		log.Printf("Using cached gate settings: %v", err)
	}
	if c.gate.Suppressed() {
		return ErrSuppressed
	}

	c.state = StateLoading
	items, err := c.source.FetchDue(ctx)
	if err != nil {
		c.state = StateIdle
		c.host.Notify("Could not load your reviews. Try again later.")
		return fmt.Errorf("failed to fetch due reviews: %w", err)
	}
	if len(items) == 0 {
		c.state = StateIdle
		c.host.Notify("No reviews are due right now.")
		return nil
	}

	c.generation++
	c.active = true
	c.sessionID = uuid.NewString()
	c.queue = NewQueue(items)
	c.failures = NewFailures()
	c.completed = 0
	log.Printf("Opened review session %s with %d items", c.sessionID, len(items))

	c.host.ShowCloseButton(c.gate.CanClose(ctx))
	c.present(ctx)
	return nil
}

// Submit grades the answers for the current item. Missed items go to the
// back of the queue; correct items are reported and counted once.
func (c *Controller) Submit(ctx context.Context, meaning, reading string) (Verdict, error) {
	if c.state != StatePresenting {
		return Verdict{}, ErrNotPresenting
	}
	item, ok := c.queue.Current()
	if !ok {
		return Verdict{}, ErrNotPresenting
	}

	c.state = StateGrading
	res := grading.Grade(item, meaning, reading)
	v := Verdict{
		Item:           item,
		MeaningCorrect: res.Meaning,
		ReadingCorrect: res.Reading,
	}
	cfg := c.gate.Config()

	c.queue.Advance()
	if res.Correct() {
		c.complete(ctx, item)
		v.Delay = cfg.SuccessDelay
	} else {
		c.failures.RecordFailure(item.ID, !res.Meaning, !res.Reading)
		if !res.Meaning {
			v.ExpectedMeanings = grading.ExpectedMeanings(item)
		}
		if !res.Reading {
			v.ExpectedReadings = grading.ExpectedReadings(item)
		}
		c.queue.PushBack(item)
		v.Delay = cfg.FailureDelay
	}

	c.state = StateAdvancing
	gen := c.generation
	c.timer.After(v.Delay, func() { c.advance(gen) })
	return v, nil
}

// RequestClose ends the session if it is finished or the daily minimum is met.
func (c *Controller) RequestClose(ctx context.Context) error {
	if !c.active {
		return ErrNoSession
	}
	if c.state == StateComplete {
		c.teardown(StateComplete)
		return nil
	}
	if !c.gate.CanClose(ctx) {
		c.host.Notify(fmt.Sprintf("Complete %d more reviews today before closing.", c.gate.Remaining(ctx)))
		return ErrGateClosed
	}
	c.teardown(StateClosedEarly)
	return nil
}

// EmergencyExit ends the session regardless of progress
func (c *Controller) EmergencyExit() {
	if !c.active {
		return
	}
	log.Printf("Emergency exit from session %s", c.sessionID)
	c.teardown(StateClosedEarly)
}

// DisableForToday turns the gate off until tomorrow and ends the session
func (c *Controller) DisableForToday(ctx context.Context) error {
	until, err := c.gate.DisableForToday(ctx)
	c.host.Notify(fmt.Sprintf("Review gate disabled until %s.", until.Format("Jan 2 15:04")))
	if c.active {
		c.teardown(StateClosedEarly)
	} else {
		c.state = StateClosedEarly
	}
	return err
}

// present shows the next item, auto-passing items that ask for nothing,
// or finishes the session when the queue is empty.
func (c *Controller) present(ctx context.Context) {
	for {
		item, ok := c.queue.Current()
		if !ok {
			c.finish()
			return
		}
		if item.RequiresMeaning() || item.RequiresReading() {
			c.state = StatePresenting
			c.host.Present(item)
			return
		}
		log.Printf("Item %d asks for no answer, passing it", item.ID)
		c.queue.Advance()
		c.complete(ctx, item)
	}
}

// complete records a first fully correct answer
func (c *Controller) complete(ctx context.Context, item models.ReviewItem) {
	meaningMisses, readingMisses := c.failures.Consume(item.ID)
	outcome := models.Outcome{
		SubjectID:        item.ID,
		IncorrectMeaning: meaningMisses,
		IncorrectReading: readingMisses,
	}
	if err := c.reporter.Submit(c.sessionID, outcome); err != nil {
		log.Printf("Failed to queue outcome for item %d: %v", item.ID, err)
	}

	c.completed++
	today, err := c.ledger.Increment(ctx)
	if err != nil {
		log.Printf("Failed to persist progress: %v", err)
	}
	if today == c.gate.Minimum() {
		c.host.Celebrate()
	}
	c.host.ShowCloseButton(c.gate.CanClose(ctx))
}

func (c *Controller) advance(gen uint64) {
	if gen != c.generation || c.state != StateAdvancing {
		return
	}
	c.present(context.Background())
}

func (c *Controller) finish() {
	c.state = StateComplete
	c.host.Notify(fmt.Sprintf("All reviews done! %d items completed.", c.completed))
	c.host.Celebrate()
	c.host.ShowCloseButton(true)

	gen := c.generation
	c.timer.After(AutoCloseDelay, func() {
		if gen == c.generation && c.state == StateComplete {
			c.teardown(StateComplete)
		}
	})
}

// teardown discards the session and invalidates pending timers
func (c *Controller) teardown(final State) {
	log.Printf("Closing review session %s (%s, %d completed)", c.sessionID, final, c.completed)
	c.generation++
	c.active = false
	c.state = final
	c.queue = nil
	c.failures = nil
	c.sessionID = ""
	c.host.Closed(final)
}
