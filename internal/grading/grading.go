package grading

import (
	"log"

	"github.com/example/kanjigate/internal/normalize"
	"github.com/example/kanjigate/pkg/models"
)

// Result holds the verdict for one submission of an item
type Result struct {
	Meaning bool
	Reading bool
}

// Correct reports whether every required answer was right
func (r Result) Correct() bool {
	return r.Meaning && r.Reading
}

// Grade evaluates the submitted answers for an item.
// An answer type the item does not ask for is always graded correct.
func Grade(item models.ReviewItem, meaning, reading string) Result {
	res := Result{Meaning: true, Reading: true}

	if item.RequiresMeaning() {
		answers := make([]string, 0, len(item.Meanings)+len(item.Synonyms))
		answers = append(answers, item.Meanings...)
		answers = append(answers, item.Synonyms...)
		res.Meaning = matches(meaning, answers)
	}

	if item.RequiresReading() {
		primary := item.PrimaryReadings()
		if len(primary) == 0 {
			// Broken upstream data; nothing could ever satisfy the item
			log.Printf("Item %d (%s) asks for a reading but has no primary reading, accepting any answer", item.ID, item.Characters)
		} else {
			res.Reading = matches(reading, primary)
		}
	}

	return res
}

// ExpectedMeanings returns the accepted meanings and synonyms as displayed to the user
func ExpectedMeanings(item models.ReviewItem) []string {
	out := make([]string, 0, len(item.Meanings)+len(item.Synonyms))
	out = append(out, item.Meanings...)
	return append(out, item.Synonyms...)
}

// ExpectedReadings returns the primary readings as displayed to the user
func ExpectedReadings(item models.ReviewItem) []string {
	return item.PrimaryReadings()
}

func matches(answer string, accepted []string) bool {
	got := normalize.Normalize(answer)
	if got == "" {
		return false
	}
	for _, a := range accepted {
		if normalize.Normalize(a) == got {
			return true
		}
	}
	return false
}
