package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	supa "github.com/supabase-community/supabase-go"

	"ideadeck/api-gateway/internal/store"
	"ideadeck/api-gateway/middleware"
	"ideadeck/api-gateway/models"
)

type staticResolver struct {
	ident *middleware.Identity
}

func (r *staticResolver) Resolve(token string) (*middleware.Identity, error) {
	if token != "session-token" {
		return nil, errors.New("invalid token")
	}
	return r.ident, nil
}

func newIdeasApp(t *testing.T, backend http.Handler, ident *middleware.Identity) *fiber.App {
	t.Helper()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	client, err := supa.NewClient(server.URL, "test-key", nil)
	if err != nil {
		t.Fatalf("supabase client: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := NewApplicationHandler(&stubAI{}, store.New(client, logger, time.Second), logger)

	app := fiber.New()
	ideas := app.Group("/ideas", middleware.RequireAuth(&staticResolver{ident: ident}))
	ideas.Get("", h.ListIdeas)
	ideas.Post("", h.SaveIdea)
	ideas.Delete("/:id", h.DeleteIdea)
	return app
}

func authedRequest(method, path, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer session-token")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func TestSaveIdeaCreatesRecord(t *testing.T) {
	ident := &middleware.Identity{UserID: uuid.New(), Email: "a@b.c"}
	recordID := uuid.New()

	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"` + recordID.String() + `","user_id":"` + ident.UserID.String() +
			`","title":"Top 5 Minecraft builds","created_at":"2026-08-30T10:00:00Z"}]`))
	})

	app := newIdeasApp(t, backend, ident)
	resp, err := app.Test(authedRequest(http.MethodPost, "/ideas",
		`{"title":"Top 5 Minecraft builds","category":"Gaming","searchVolume":"Medium","keyword":"minecraft","region":"id","timeRange":"1d"}`), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var env struct {
		Data models.SavedIdea `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if env.Data.ID != recordID {
		t.Errorf("record id = %s, want %s", env.Data.ID, recordID)
	}
}

func TestSaveIdeaPermissionDenied(t *testing.T) {
	ident := &middleware.Identity{UserID: uuid.New()}

	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code":"42501","message":"permission denied for table saved_ideas"}`))
	})

	app := newIdeasApp(t, backend, ident)
	resp, err := app.Test(authedRequest(http.MethodPost, "/ideas", `{"title":"x"}`), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	// The permission case must carry its own actionable message, distinct
	// from the generic failure text.
	if env.Message == "" || env.Message == "Could not save the idea. Try again in a moment." {
		t.Errorf("message = %q, want the access-rules guidance", env.Message)
	}
}

func TestSaveIdeaRequiresTitle(t *testing.T) {
	app := newIdeasApp(t, http.NotFoundHandler(), &middleware.Identity{UserID: uuid.New()})
	resp, err := app.Test(authedRequest(http.MethodPost, "/ideas", `{"category":"Gaming"}`), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListIdeasRequiresSession(t *testing.T) {
	app := newIdeasApp(t, http.NotFoundHandler(), &middleware.Identity{UserID: uuid.New()})
	req := httptest.NewRequest(http.MethodGet, "/ideas", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestDeleteIdeaMalformedID(t *testing.T) {
	app := newIdeasApp(t, http.NotFoundHandler(), &middleware.Identity{UserID: uuid.New()})
	resp, err := app.Test(authedRequest(http.MethodDelete, "/ideas/not-a-uuid", ""), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestDeleteIdeaOK(t *testing.T) {
	ident := &middleware.Identity{UserID: uuid.New()}
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	app := newIdeasApp(t, backend, ident)
	resp, err := app.Test(authedRequest(http.MethodDelete, "/ideas/"+uuid.NewString(), ""), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
