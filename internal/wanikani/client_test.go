package wanikani

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/kanjigate/pkg/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("secret", srv.URL)
}

func TestFetchDue(t *testing.T) {
	var srvURL string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Wanikani-Revision"); got != apiRevision {
			t.Errorf("Wanikani-Revision = %q", got)
		}
		switch {
		case r.URL.Path == "/assignments" && r.URL.Query().Get("page_after_id") == "":
			fmt.Fprintf(w, `{"object":"collection","total_count":3,"pages":{"next_url":"%s/assignments?immediately_available_for_review=true&page_after_id=2"},
				"data":[{"id":1,"data":{"subject_id":440}},{"id":2,"data":{"subject_id":2467}}]}`, srvURL)
		case r.URL.Path == "/assignments":
			fmt.Fprint(w, `{"object":"collection","total_count":3,"pages":{"next_url":null},
				"data":[{"id":3,"data":{"subject_id":1}}]}`)
		case r.URL.Path == "/subjects":
			if got := r.URL.Query().Get("ids"); got != "440,2467,1" {
				t.Errorf("ids = %q", got)
			}
			fmt.Fprint(w, `{"object":"collection","pages":{},"data":[
				{"id":1,"object":"radical","data":{"characters":null,"slug":"ground","meanings":[{"meaning":"Ground","primary":true,"accepted_answer":true}]}},
				{"id":440,"object":"kanji","data":{"characters":"一","slug":"一",
					"meanings":[{"meaning":"One","primary":true,"accepted_answer":true},{"meaning":"Uno","primary":false,"accepted_answer":false}],
					"auxiliary_meanings":[{"meaning":"1","type":"whitelist"},{"meaning":"won","type":"blacklist"}],
					"readings":[{"reading":"いち","primary":true,"accepted_answer":true},{"reading":"ひと","primary":false,"accepted_answer":false}]}},
				{"id":2467,"object":"vocabulary","data":{"characters":"一","slug":"一",
					"meanings":[{"meaning":"One","primary":true,"accepted_answer":true}],
					"readings":[{"reading":"いち","primary":true,"accepted_answer":true}]}}]}`)
		case r.URL.Path == "/study_materials":
			fmt.Fprint(w, `{"object":"collection","pages":{},"data":[
				{"id":9,"data":{"subject_id":440,"meaning_synonyms":["single"]}}]}`)
		default:
			t.Errorf("unexpected request %s", r.URL)
			http.NotFound(w, r)
		}
	})
	srvURL = client.baseURL

	items, err := client.FetchDue(context.Background())
	if err != nil {
		t.Fatalf("FetchDue: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].ID != 440 || items[1].ID != 2467 || items[2].ID != 1 {
		t.Fatalf("items out of assignment order: %d %d %d", items[0].ID, items[1].ID, items[2].ID)
	}

	kanji := items[0]
	if kanji.Kind != models.KindKanji {
		t.Errorf("kind = %q", kanji.Kind)
	}
	if strings.Join(kanji.Meanings, ",") != "One,1" {
		t.Errorf("meanings = %v", kanji.Meanings)
	}
	if strings.Join(kanji.Synonyms, ",") != "single" {
		t.Errorf("synonyms = %v", kanji.Synonyms)
	}
	if len(kanji.PrimaryReadings()) != 1 || kanji.PrimaryReadings()[0] != "いち" {
		t.Errorf("primary readings = %v", kanji.PrimaryReadings())
	}
	if len(kanji.Readings) != 2 {
		t.Errorf("readings = %v", kanji.Readings)
	}

	radical := items[2]
	if radical.Characters != "ground" {
		t.Errorf("radical characters = %q, want slug", radical.Characters)
	}
	if radical.RequiresReading() {
		t.Error("radical should not require a reading")
	}
}

func TestFetchDueNothingDue(t *testing.T) {
	calls := 0
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"object":"collection","total_count":0,"pages":{},"data":[]}`)
	})

	items, err := client.FetchDue(context.Background())
	if err != nil {
		t.Fatalf("FetchDue: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("got %d items", len(items))
	}
	if calls != 1 {
		t.Fatalf("expected a single request, got %d", calls)
	}
}

func TestFetchDueStatusError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"Unauthorized. Nice try.","code":401}`)
	})

	_, err := client.FetchDue(context.Background())
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
	if te.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", te.StatusCode)
	}
	if te.Op != "fetch_due" {
		t.Errorf("op = %q", te.Op)
	}
	if !strings.Contains(te.Error(), "Nice try") {
		t.Errorf("message not surfaced: %v", te)
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := New("secret", srv.URL)

	err := client.ReportOutcome(context.Background(), models.Outcome{SubjectID: 1})
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
	if te.StatusCode != 0 || te.Err == nil {
		t.Fatalf("expected a network error without status, got %+v", te)
	}
}

func TestReportOutcome(t *testing.T) {
	var got reviewRequest
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/reviews" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":1,"object":"review"}`)
	})

	err := client.ReportOutcome(context.Background(), models.Outcome{SubjectID: 440, IncorrectMeaning: 2, IncorrectReading: 1})
	if err != nil {
		t.Fatalf("ReportOutcome: %v", err)
	}
	if got.Review.SubjectID != 440 || got.Review.IncorrectMeaningAnswers != 2 || got.Review.IncorrectReadingAnswers != 1 {
		t.Fatalf("unexpected body %+v", got.Review)
	}
}

func TestDueCount(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("immediately_available_for_review") != "true" {
			t.Errorf("missing filter in %s", r.URL)
		}
		fmt.Fprint(w, `{"object":"collection","total_count":42,"pages":{},"data":[]}`)
	})

	n, err := client.DueCount(context.Background())
	if err != nil {
		t.Fatalf("DueCount: %v", err)
	}
	if n != 42 {
		t.Fatalf("DueCount = %d, want 42", n)
	}
}

func TestChunkIDs(t *testing.T) {
	ids := []int64{1, 2, 3, 4, 5}
	chunks := chunkIDs(ids, 2)
	if len(chunks) != 3 || len(chunks[2]) != 1 {
		t.Fatalf("unexpected chunks %v", chunks)
	}
	if chunkIDs(nil, 2) != nil {
		t.Fatal("expected no chunks for no ids")
	}
}
