package models

import "time"

// Outcome is what gets reported to the review service once an item is answered correctly
type Outcome struct {
	SubjectID        int64 `json:"subject_id" db:"subject_id"`
	IncorrectMeaning int   `json:"incorrect_meaning_answers" db:"incorrect_meaning"`
	IncorrectReading int   `json:"incorrect_reading_answers" db:"incorrect_reading"`
}

// OutcomeRecord is a journaled outcome report
type OutcomeRecord struct {
	ID               int64     `json:"id" db:"id"`
	SessionID        string    `json:"session_id" db:"session_id"`
	SubjectID        int64     `json:"subject_id" db:"subject_id"`
	IncorrectMeaning int       `json:"incorrect_meaning" db:"incorrect_meaning"`
	IncorrectReading int       `json:"incorrect_reading" db:"incorrect_reading"`
	Reported         bool      `json:"reported" db:"reported"`
	Error            string    `json:"error,omitempty" db:"error"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
