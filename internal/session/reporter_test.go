package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/example/kanjigate/pkg/models"
)

type recordingJournal struct {
	mu      sync.Mutex
	entries []journalEntry
}

type journalEntry struct {
	sessionID string
	outcome   models.Outcome
	reportErr error
}

func (j *recordingJournal) Record(_ context.Context, sessionID string, o models.Outcome, reportErr error) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, journalEntry{sessionID, o, reportErr})
	return nil
}

func TestReporterJournalsEveryOutcome(t *testing.T) {
	src := &fakeSource{reportErr: errors.New("status 503")}
	journal := &recordingJournal{}
	r := NewReporter(src, journal)

	for i := int64(1); i <= 10; i++ {
		if err := r.Submit("s1", models.Outcome{SubjectID: i, IncorrectMeaning: 1}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	r.Close()

	if len(src.reports) != 10 {
		t.Fatalf("expected 10 reports, got %d", len(src.reports))
	}
	if len(journal.entries) != 10 {
		t.Fatalf("expected 10 journal entries, got %d", len(journal.entries))
	}
	for _, e := range journal.entries {
		if e.sessionID != "s1" || e.reportErr == nil {
			t.Fatalf("unexpected journal entry %+v", e)
		}
	}
}

// slowSource lets the first report stall so later ones pile up behind it
type slowSource struct {
	fakeSource
	release chan struct{}
	once    sync.Once
}

func (s *slowSource) ReportOutcome(ctx context.Context, o models.Outcome) error {
	s.once.Do(func() { <-s.release })
	return s.fakeSource.ReportOutcome(ctx, o)
}

func TestReporterKeepsSubmissionOrder(t *testing.T) {
	src := &slowSource{release: make(chan struct{})}
	r := NewReporter(src, nil)

	// far more than any fixed queue would hold while the first report stalls
	const n = 200
	for i := int64(1); i <= n; i++ {
		if err := r.Submit("s1", models.Outcome{SubjectID: i}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	close(src.release)
	r.Close()

	if len(src.reports) != n {
		t.Fatalf("expected %d reports, got %d", n, len(src.reports))
	}
	for i, o := range src.reports {
		if o.SubjectID != int64(i+1) {
			t.Fatalf("report %d is for item %d, want %d", i, o.SubjectID, i+1)
		}
	}
}

func TestReporterClosed(t *testing.T) {
	r := NewReporter(&fakeSource{}, nil)
	r.Close()
	r.Close()

	err := r.Submit("s1", models.Outcome{SubjectID: 1})
	if !errors.Is(err, ErrReporterClosed) {
		t.Fatalf("expected ErrReporterClosed, got %v", err)
	}
}
