package models

// SubjectKind is the kind of material a review item belongs to
type SubjectKind string

const (
	KindRadical        SubjectKind = "radical"
	KindKanji          SubjectKind = "kanji"
	KindVocabulary     SubjectKind = "vocabulary"
	KindKanaVocabulary SubjectKind = "kana_vocabulary"
)

// Reading is one pronunciation of an item
type Reading struct {
	Reading string `json:"reading"`
	Primary bool   `json:"primary"`
}

// ReviewItem represents a due item fetched from the review service.
// It is never modified once a session has been opened.
type ReviewItem struct {
	ID         int64       `json:"id" db:"subject_id"` // Subject ID on the review service
	Kind       SubjectKind `json:"kind" db:"kind"`
	Characters string      `json:"characters" db:"characters"`
	Meanings   []string    `json:"meanings"`
	Synonyms   []string    `json:"synonyms"` // User-defined meaning synonyms
	Readings   []Reading   `json:"readings"`
}

// RequiresMeaning reports whether a meaning answer is asked for this item
func (i ReviewItem) RequiresMeaning() bool {
	return len(i.Meanings) > 0 || len(i.Synonyms) > 0
}

// RequiresReading reports whether a reading answer is asked for this item.
// Radicals and kana-only vocabulary never ask for a reading.
func (i ReviewItem) RequiresReading() bool {
	if i.Kind != KindKanji && i.Kind != KindVocabulary {
		return false
	}
	return len(i.Readings) > 0
}

// PrimaryReadings returns the readings flagged as primary
func (i ReviewItem) PrimaryReadings() []string {
	var out []string
	for _, r := range i.Readings {
		if r.Primary {
			out = append(out, r.Reading)
		}
	}
	return out
}
