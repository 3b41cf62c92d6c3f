package store

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	supa "github.com/supabase-community/supabase-go"

	"ideadeck/api-gateway/models"
)

func newTestStore(t *testing.T, handler http.Handler, interval time.Duration) *IdeaStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := supa.NewClient(server.URL, "test-key", nil)
	if err != nil {
		t.Fatalf("supabase client: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(client, logger, interval)
}

func TestSaveInsertsRow(t *testing.T) {
	userID := uuid.New()
	recordID := uuid.New()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/v1/saved_ideas" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var row map[string]interface{}
		if err := json.Unmarshal(body, &row); err != nil {
			t.Fatalf("decoding insert body: %v", err)
		}
		if row["user_id"] != userID.String() {
			t.Errorf("user_id = %v", row["user_id"])
		}
		if _, hasID := row["id"]; hasID {
			t.Error("id must be store-assigned, not sent by the client")
		}
		if _, hasCreated := row["created_at"]; hasCreated {
			t.Error("created_at must be store-assigned, not sent by the client")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"` + recordID.String() + `","user_id":"` + userID.String() +
			`","title":"Top 5 Minecraft builds","category":"Gaming","search_volume":"Medium",` +
			`"keyword":"minecraft","region":"id","time_range":"1d","created_at":"2026-08-30T10:00:00Z"}]`))
	})

	s := newTestStore(t, handler, time.Second)
	saved, err := s.Save(userID, sampleIdea())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID != recordID || saved.Title != "Top 5 Minecraft builds" {
		t.Errorf("unexpected saved row %+v", saved)
	}
	if saved.CreatedAt.IsZero() {
		t.Error("created_at not decoded")
	}
}

// Saving the same candidate twice has no dedup: every call is an independent
// insert and yields its own record id.
func TestSaveTwiceCreatesTwoRecords(t *testing.T) {
	userID := uuid.New()

	var mu sync.Mutex
	inserts := 0

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/v1/saved_ideas" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		mu.Lock()
		inserts++
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"` + uuid.NewString() + `","user_id":"` + userID.String() +
			`","title":"Top 5 Minecraft builds","created_at":"2026-08-30T10:00:00Z"}]`))
	})

	s := newTestStore(t, handler, time.Second)

	first, err := s.Save(userID, sampleIdea())
	if err != nil {
		t.Fatalf("first Save: %v", err)
	}
	second, err := s.Save(userID, sampleIdea())
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}

	mu.Lock()
	got := inserts
	mu.Unlock()
	if got != 2 {
		t.Fatalf("store saw %d inserts, want 2", got)
	}
	if first.ID == second.ID {
		t.Errorf("both saves returned record id %s, want distinct ids", first.ID)
	}
}

func TestSavePermissionDenied(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":"42501","message":"permission denied for table saved_ideas"}`))
	})

	s := newTestStore(t, handler, time.Second)
	_, err := s.Save(uuid.New(), sampleIdea())
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("got %v, want ErrPermissionDenied", err)
	}
}

func TestListScopedAndOrdered(t *testing.T) {
	userID := uuid.New()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("user_id"); got != "eq."+userID.String() {
			t.Errorf("user_id filter = %q", got)
		}
		order := q.Get("order")
		if !strings.Contains(order, "created_at") || !strings.Contains(order, "desc") {
			t.Errorf("order = %q, want created_at descending", order)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"` + uuid.NewString() + `","user_id":"` + userID.String() + `","title":"newer","created_at":"2026-08-30T12:00:00Z"},
			{"id":"` + uuid.NewString() + `","user_id":"` + userID.String() + `","title":"older","created_at":"2026-08-29T12:00:00Z"}
		]`))
	})

	s := newTestStore(t, handler, time.Second)
	ideas, err := s.List(userID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ideas) != 2 || ideas[0].Title != "newer" || ideas[1].Title != "older" {
		t.Errorf("unexpected list %+v", ideas)
	}
}

func TestDeleteByRecordID(t *testing.T) {
	userID := uuid.New()
	recordID := uuid.New()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		q := r.URL.Query()
		if q.Get("id") != "eq."+recordID.String() {
			t.Errorf("id filter = %q", q.Get("id"))
		}
		if q.Get("user_id") != "eq."+userID.String() {
			t.Errorf("user_id filter = %q", q.Get("user_id"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	s := newTestStore(t, handler, time.Second)
	if err := s.Delete(userID, recordID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

// Deleting an id that no longer exists is a no-op for the store and must not
// disturb an open subscription.
func TestDeleteMissingKeepsSubscriptionAlive(t *testing.T) {
	userID := uuid.New()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	s := newTestStore(t, handler, 10*time.Millisecond)
	sub := s.Subscribe(userID)
	defer sub.Unsubscribe()

	waitSnapshot(t, sub)

	if err := s.Delete(userID, uuid.New()); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if state := sub.State(); state != StateSubscribed {
		t.Errorf("state after delete = %v, want subscribed", state)
	}
}

func sampleIdea() models.SavedIdea {
	return models.SavedIdea{
		Title:        "Top 5 Minecraft builds",
		Category:     "Gaming",
		SearchVolume: "Medium",
		Keyword:      "minecraft",
		Region:       "id",
		TimeRange:    "1d",
	}
}
