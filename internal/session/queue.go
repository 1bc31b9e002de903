package session

import "github.com/example/kanjigate/pkg/models"

// Queue is the presentation order of a session. Missed items are pushed to
// the back; the head index is the cursor.
type Queue struct {
	items []models.ReviewItem
	head  int
}

// NewQueue creates a queue holding items in the given order
func NewQueue(items []models.ReviewItem) *Queue {
	q := &Queue{items: make([]models.ReviewItem, len(items))}
	copy(q.items, items)
	return q
}

// Current returns the item at the cursor
func (q *Queue) Current() (models.ReviewItem, bool) {
	if q.head >= len(q.items) {
		return models.ReviewItem{}, false
	}
	return q.items[q.head], true
}

// Advance moves the cursor past the current item
func (q *Queue) Advance() {
	if q.head < len(q.items) {
		q.head++
	}
	// drop the consumed prefix once it dominates the slice
	if q.head > 64 && q.head*2 > len(q.items) {
		q.items = append([]models.ReviewItem(nil), q.items[q.head:]...)
		q.head = 0
	}
}

// PushBack appends an item after everything still queued
func (q *Queue) PushBack(item models.ReviewItem) {
	q.items = append(q.items, item)
}

// Len returns the number of items from the cursor to the end
func (q *Queue) Len() int {
	return len(q.items) - q.head
}

// Pending returns a copy of the remaining items in order
func (q *Queue) Pending() []models.ReviewItem {
	out := make([]models.ReviewItem, q.Len())
	copy(out, q.items[q.head:])
	return out
}
