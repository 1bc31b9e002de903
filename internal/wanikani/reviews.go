package wanikani

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/example/kanjigate/pkg/models"
)

// maxIDsPerRequest keeps query strings at a sane length
const maxIDsPerRequest = 500

// FetchDue returns the items available for review now, in the order the
// API lists their assignments.
func (c *Client) FetchDue(ctx context.Context) ([]models.ReviewItem, error) {
	subjectIDs, err := c.dueSubjectIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(subjectIDs) == 0 {
		return nil, nil
	}

	subjects := make(map[int64]subject, len(subjectIDs))
	synonyms := make(map[int64][]string)
	for _, chunk := range chunkIDs(subjectIDs, maxIDsPerRequest) {
		if err := c.fetchSubjects(ctx, chunk, subjects); err != nil {
			return nil, err
		}
		if err := c.fetchSynonyms(ctx, chunk, synonyms); err != nil {
			return nil, err
		}
	}

	items := make([]models.ReviewItem, 0, len(subjectIDs))
	for _, id := range subjectIDs {
		s, ok := subjects[id]
		if !ok {
			log.Printf("Subject %d is due but was not returned by the API, skipping", id)
			continue
		}
		items = append(items, toReviewItem(s, synonyms[id]))
	}
	return items, nil
}

// DueCount returns the number of assignments available for review now
func (c *Client) DueCount(ctx context.Context) (int, error) {
	var page collection[assignment]
	if err := c.do(ctx, "due_count", http.MethodGet, "/assignments?immediately_available_for_review=true", nil, &page); err != nil {
		return 0, err
	}
	return page.TotalCount, nil
}

// ReportOutcome records a finished review with its miss counts
func (c *Client) ReportOutcome(ctx context.Context, outcome models.Outcome) error {
	var req reviewRequest
	req.Review.SubjectID = outcome.SubjectID
	req.Review.IncorrectMeaningAnswers = outcome.IncorrectMeaning
	req.Review.IncorrectReadingAnswers = outcome.IncorrectReading
	return c.do(ctx, "report_outcome", http.MethodPost, "/reviews", req, nil)
}

func (c *Client) dueSubjectIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	next := "/assignments?immediately_available_for_review=true"
	for next != "" {
		var page collection[assignment]
		if err := c.do(ctx, "fetch_due", http.MethodGet, next, nil, &page); err != nil {
			return nil, err
		}
		for _, a := range page.Data {
			ids = append(ids, a.Data.SubjectID)
		}
		next = page.Pages.NextURL
	}
	return ids, nil
}

func (c *Client) fetchSubjects(ctx context.Context, ids []int64, into map[int64]subject) error {
	next := "/subjects?ids=" + url.QueryEscape(joinIDs(ids))
	for next != "" {
		var page collection[subject]
		if err := c.do(ctx, "fetch_subjects", http.MethodGet, next, nil, &page); err != nil {
			return err
		}
		for _, s := range page.Data {
			into[s.ID] = s
		}
		next = page.Pages.NextURL
	}
	return nil
}

func (c *Client) fetchSynonyms(ctx context.Context, ids []int64, into map[int64][]string) error {
	next := "/study_materials?subject_ids=" + url.QueryEscape(joinIDs(ids))
	for next != "" {
		var page collection[studyMaterial]
		if err := c.do(ctx, "fetch_synonyms", http.MethodGet, next, nil, &page); err != nil {
			return err
		}
		for _, m := range page.Data {
			into[m.Data.SubjectID] = append(into[m.Data.SubjectID], m.Data.MeaningSynonyms...)
		}
		next = page.Pages.NextURL
	}
	return nil
}

func toReviewItem(s subject, synonyms []string) models.ReviewItem {
	item := models.ReviewItem{
		ID:       s.ID,
		Kind:     models.SubjectKind(s.Object),
		Synonyms: synonyms,
	}
	if s.Data.Characters != nil && *s.Data.Characters != "" {
		item.Characters = *s.Data.Characters
	} else {
		// image-only radicals
		item.Characters = s.Data.Slug
	}
	for _, m := range s.Data.Meanings {
		if m.AcceptedAnswer {
			item.Meanings = append(item.Meanings, m.Meaning)
		}
	}
	for _, m := range s.Data.AuxiliaryMeanings {
		if m.Type == "whitelist" {
			item.Meanings = append(item.Meanings, m.Meaning)
		}
	}
	for _, r := range s.Data.Readings {
		item.Readings = append(item.Readings, models.Reading{Reading: r.Reading, Primary: r.Primary})
	}
	return item
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func chunkIDs(ids []int64, size int) [][]int64 {
	var chunks [][]int64
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}
