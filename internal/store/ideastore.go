// Package store is the saved-ideas client over the managed Postgres store.
// Every operation is scoped to one user id; row-level security on the table
// is the real enforcement, the user_id filters here keep queries honest.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"ideadeck/api-gateway/models"
)

const ideasTable = "saved_ideas"

// ErrPermissionDenied means the store's access rules rejected a write. The
// message is intentionally actionable, it is surfaced to the user as-is.
var ErrPermissionDenied = errors.New(
	"the store rejected the write (permission denied): check the access rules and make sure the signed-in user may write their own saved ideas")

// IdeaStore performs CRUD and live subscriptions against the saved_ideas table.
type IdeaStore struct {
	db           *supa.Client
	logger       *logrus.Logger
	pollInterval time.Duration
}

// New creates an IdeaStore. pollInterval drives live-subscription refreshes;
// values <= 0 fall back to 3s.
func New(db *supa.Client, logger *logrus.Logger, pollInterval time.Duration) *IdeaStore {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	return &IdeaStore{db: db, logger: logger, pollInterval: pollInterval}
}

// Save appends one idea row for the given user. The row id and created_at are
// assigned by the store. Saving the same candidate twice produces two rows.
func (s *IdeaStore) Save(userID uuid.UUID, idea models.SavedIdea) (*models.SavedIdea, error) {
	row := map[string]interface{}{
		"user_id":       userID.String(),
		"title":         idea.Title,
		"category":      idea.Category,
		"search_volume": idea.SearchVolume,
		"keyword":       idea.Keyword,
		"region":        idea.Region,
		"time_range":    idea.TimeRange,
	}

	body, _, err := s.db.From(ideasTable).
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		if isPermissionDenied(err) {
			s.logger.WithField("user_id", userID).WithError(err).Warn("Idea save rejected by access rules")
			return nil, ErrPermissionDenied
		}
		return nil, fmt.Errorf("saving idea: %w", err)
	}

	var rows []models.SavedIdea
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decoding save response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("store returned no row for the saved idea")
	}

	return &rows[0], nil
}

// List returns every saved idea belonging to userID, newest first.
func (s *IdeaStore) List(userID uuid.UUID) ([]models.SavedIdea, error) {
	body, _, err := s.db.From(ideasTable).
		Select("*", "", false).
		Eq("user_id", userID.String()).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("listing ideas: %w", err)
	}

	ideas := []models.SavedIdea{}
	if err := json.Unmarshal(body, &ideas); err != nil {
		return nil, fmt.Errorf("decoding ideas list: %w", err)
	}

	return ideas, nil
}

// Delete removes one saved idea by record id within the caller's own rows.
// Deleting an id that no longer exists is not an error.
func (s *IdeaStore) Delete(userID uuid.UUID, recordID uuid.UUID) error {
	_, _, err := s.db.From(ideasTable).
		Delete("", "").
		Eq("user_id", userID.String()).
		Eq("id", recordID.String()).
		Execute()
	if err != nil {
		if isPermissionDenied(err) {
			return ErrPermissionDenied
		}
		return fmt.Errorf("deleting idea %s: %w", recordID, err)
	}

	return nil
}

func isPermissionDenied(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "permission denied") || strings.Contains(msg, "42501")
}
