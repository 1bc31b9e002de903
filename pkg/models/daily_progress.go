package models

import "time"

// DayLayout is the key format of the daily progress ledger
const DayLayout = "2006-01-02"

// DailyProgress is the number of items completed on one local calendar day
type DailyProgress struct {
	Day       string    `json:"day" db:"day"`
	Completed int       `json:"completed" db:"completed"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DayKey returns the ledger key for t in t's location
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// NextMidnight returns the start of the calendar day following t, in t's location
func NextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}
