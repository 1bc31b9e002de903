package session

import (
	"testing"

	"github.com/example/kanjigate/pkg/models"
)

func ids(items []models.ReviewItem) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestQueueRequeueGoesToBack(t *testing.T) {
	q := NewQueue([]models.ReviewItem{{ID: 1}, {ID: 2}, {ID: 3}})

	cur, _ := q.Current()
	q.Advance()
	q.PushBack(cur)

	got := ids(q.Pending())
	want := []int64{2, 3, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestQueueDrains(t *testing.T) {
	q := NewQueue([]models.ReviewItem{{ID: 1}})
	if q.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", q.Len())
	}
	q.Advance()
	if _, ok := q.Current(); ok {
		t.Fatal("expected empty queue")
	}
	q.Advance()
	if q.Len() != 0 {
		t.Fatalf("expected 0 items, got %d", q.Len())
	}
}

func TestQueueCompactsLongSessions(t *testing.T) {
	items := make([]models.ReviewItem, 200)
	for i := range items {
		items[i].ID = int64(i)
	}
	q := NewQueue(items)
	for i := 0; i < 150; i++ {
		cur, _ := q.Current()
		q.Advance()
		if i%2 == 0 {
			q.PushBack(cur)
		}
	}
	if q.Len() != 125 {
		t.Fatalf("expected 125 pending, got %d", q.Len())
	}
	cur, _ := q.Current()
	if cur.ID != 150 {
		t.Fatalf("expected item 150 at the cursor, got %d", cur.ID)
	}
}
