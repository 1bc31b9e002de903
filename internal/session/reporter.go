package session

import (
	"context"
	"log"
	"sync"

	"github.com/example/kanjigate/pkg/models"
)

// OutcomeReporter sends one final outcome to the review service
type OutcomeReporter interface {
	ReportOutcome(ctx context.Context, outcome models.Outcome) error
}

// Journal keeps a local record of every outcome report
type Journal interface {
	Record(ctx context.Context, sessionID string, outcome models.Outcome, reportErr error) error
}

type reportJob struct {
	sessionID string
	outcome   models.Outcome
}

// Reporter sends outcome reports in the background on a single worker, so
// reports reach the service in submission order. The backlog is unbounded;
// nothing waits for it except Close.
type Reporter struct {
	target  OutcomeReporter
	journal Journal
	wake    chan struct{}
	done    chan struct{}

	mu      sync.Mutex
	pending []reportJob
	closed  bool
}

// NewReporter starts a reporter. journal may be nil.
func NewReporter(target OutcomeReporter, journal Journal) *Reporter {
	r := &Reporter{
		target:  target,
		journal: journal,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go r.loop()
	return r
}

// Submit queues an outcome report without blocking the caller.
func (r *Reporter) Submit(sessionID string, outcome models.Outcome) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrReporterClosed
	}
	r.pending = append(r.pending, reportJob{sessionID: sessionID, outcome: outcome})
	r.mu.Unlock()
	r.signal()
	return nil
}

// Close stops accepting reports and waits for the pending ones
func (r *Reporter) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	r.mu.Unlock()
	r.signal()
	<-r.done
}

func (r *Reporter) signal() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r *Reporter) loop() {
	defer close(r.done)
	for range r.wake {
		for {
			r.mu.Lock()
			if len(r.pending) == 0 {
				closed := r.closed
				r.mu.Unlock()
				if closed {
					return
				}
				break
			}
			job := r.pending[0]
			r.pending = r.pending[1:]
			r.mu.Unlock()
			r.run(job)
		}
	}
}

func (r *Reporter) run(job reportJob) {
	ctx := context.Background()
	err := r.target.ReportOutcome(ctx, job.outcome)
	if err != nil {
		log.Printf("Failed to report outcome for item %d: %v", job.outcome.SubjectID, err)
	}
	if r.journal == nil {
		return
	}
	if jerr := r.journal.Record(ctx, job.sessionID, job.outcome, err); jerr != nil {
		log.Printf("Failed to journal outcome for item %d: %v", job.outcome.SubjectID, jerr)
	}
}

// ErrReporterClosed is returned if Submit is called after Close.
var ErrReporterClosed = &ReporterError{"session: reporter closed"}

// ReporterError is a typed error for reporter operations.
type ReporterError struct{ msg string }

func (e *ReporterError) Error() string { return e.msg }
