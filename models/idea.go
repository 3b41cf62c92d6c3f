package models

import (
	"time"

	"github.com/google/uuid"
)

// IdeaCandidate is one AI-suggested content idea as shown in search results.
// It only lives in view state until the user saves or discards it.
type IdeaCandidate struct {
	SequenceID   int    `json:"sequenceId"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	SearchVolume string `json:"searchVolume"`
}

// SavedIdea represents one row of the saved_ideas table. A row belongs to
// exactly one user; row-level security on the table enforces that scoping.
type SavedIdea struct {
	ID           uuid.UUID `json:"id,omitempty"`
	UserID       uuid.UUID `json:"user_id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	SearchVolume string    `json:"search_volume"`
	Keyword      string    `json:"keyword"`
	Region       string    `json:"region"`
	TimeRange    string    `json:"time_range"`
	CreatedAt    time.Time `json:"created_at"`
}
