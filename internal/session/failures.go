package session

// tally counts wrong answers for one item
type tally struct {
	meaning int
	reading int
}

// Failures accumulates wrong answers per item until the item is answered
// correctly. It lives only as long as the session.
type Failures struct {
	tallies map[int64]*tally
}

// NewFailures creates an empty accumulator
func NewFailures() *Failures {
	return &Failures{tallies: make(map[int64]*tally)}
}

// RecordFailure counts one missed meaning and/or reading for the item
func (f *Failures) RecordFailure(itemID int64, meaningMissed, readingMissed bool) {
	t, ok := f.tallies[itemID]
	if !ok {
		t = &tally{}
		f.tallies[itemID] = t
	}
	if meaningMissed {
		t.meaning++
	}
	if readingMissed {
		t.reading++
	}
}

// Consume returns the counts for the item and forgets them
func (f *Failures) Consume(itemID int64) (meaningMisses, readingMisses int) {
	t, ok := f.tallies[itemID]
	if !ok {
		return 0, 0
	}
	delete(f.tallies, itemID)
	return t.meaning, t.reading
}

// Len returns the number of items with pending failures
func (f *Failures) Len() int {
	return len(f.tallies)
}
