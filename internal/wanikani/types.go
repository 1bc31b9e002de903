package wanikani

import "time"

type pages struct {
	NextURL string `json:"next_url"`
}

type collection[T any] struct {
	Object     string `json:"object"`
	TotalCount int    `json:"total_count"`
	Pages      pages  `json:"pages"`
	Data       []T    `json:"data"`
}

type assignment struct {
	ID   int64 `json:"id"`
	Data struct {
		SubjectID   int64      `json:"subject_id"`
		SubjectType string     `json:"subject_type"`
		AvailableAt *time.Time `json:"available_at"`
	} `json:"data"`
}

type subject struct {
	ID     int64  `json:"id"`
	Object string `json:"object"`
	Data   struct {
		Characters *string `json:"characters"`
		Slug       string  `json:"slug"`
		Meanings   []struct {
			Meaning        string `json:"meaning"`
			Primary        bool   `json:"primary"`
			AcceptedAnswer bool   `json:"accepted_answer"`
		} `json:"meanings"`
		AuxiliaryMeanings []struct {
			Meaning string `json:"meaning"`
			Type    string `json:"type"`
		} `json:"auxiliary_meanings"`
		Readings []struct {
			Reading        string `json:"reading"`
			Primary        bool   `json:"primary"`
			AcceptedAnswer bool   `json:"accepted_answer"`
		} `json:"readings"`
	} `json:"data"`
}

type studyMaterial struct {
	ID   int64 `json:"id"`
	Data struct {
		SubjectID       int64    `json:"subject_id"`
		MeaningSynonyms []string `json:"meaning_synonyms"`
	} `json:"data"`
}

type reviewRequest struct {
	Review struct {
		SubjectID               int64 `json:"subject_id"`
		IncorrectMeaningAnswers int   `json:"incorrect_meaning_answers"`
		IncorrectReadingAnswers int   `json:"incorrect_reading_answers"`
	} `json:"review"`
}
