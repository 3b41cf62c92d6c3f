// Package extractor recovers structured data from free-form model output.
// Replies may arrive wrapped in Markdown code fences, surrounded by
// commentary, or occasionally malformed. Every function here reports failure
// explicitly; whether to degrade gracefully is the caller's decision.
package extractor

import (
	"encoding/json"
	"errors"
	"strings"

	"ideadeck/api-gateway/models"
)

var (
	// ErrNoJSONObject means the reply contained no balanced {...} payload.
	ErrNoJSONObject = errors.New("no JSON object found in model response")
	// ErrNoJSONArray means the reply contained no balanced [...] payload.
	ErrNoJSONArray = errors.New("no JSON array found in model response")
)

var fenceReplacer = strings.NewReplacer("```json", "", "```JSON", "", "```Json", "", "```", "")

// StripFences removes every code-fence marker (language-tagged or plain) and
// trims the result. Payload content between the fences is untouched, so
// stripping an already-clean reply is a no-op.
func StripFences(raw string) string {
	return strings.TrimSpace(fenceReplacer.Replace(raw))
}

// ExtractObject decodes the single JSON object contained in raw into v.
// A strict decode of the fence-stripped text is attempted first; only when
// that fails does it fall back to slicing between the first '{' and the last
// '}'. Absence of a balanced pair yields ErrNoJSONObject.
func ExtractObject(raw string, v interface{}) error {
	text := StripFences(raw)

	if strings.HasPrefix(text, "{") && json.Unmarshal([]byte(text), v) == nil {
		return nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return ErrNoJSONObject
	}

	return json.Unmarshal([]byte(text[start:end+1]), v)
}

// ExtractArray is the array-shaped counterpart of ExtractObject.
func ExtractArray(raw string, v interface{}) error {
	text := StripFences(raw)

	if strings.HasPrefix(text, "[") && json.Unmarshal([]byte(text), v) == nil {
		return nil
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end <= start {
		return ErrNoJSONArray
	}

	return json.Unmarshal([]byte(text[start:end+1]), v)
}

// ideaItem mirrors the schema the ideas prompt asks for. "title" is accepted
// as an alias for "idea" because some model replies use it anyway.
type ideaItem struct {
	Idea     string `json:"idea"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Volume   string `json:"volume"`
}

// DecodeIdeas parses an ideas reply into candidates with documented defaults:
// category coalesces to "", searchVolume to "Medium" when absent or not one of
// High/Medium/Low, and sequence ids are a dense 1-based run matching decoded
// position regardless of anything in the source text.
func DecodeIdeas(raw string) ([]models.IdeaCandidate, error) {
	var items []ideaItem
	if err := ExtractArray(raw, &items); err != nil {
		return nil, err
	}

	ideas := make([]models.IdeaCandidate, 0, len(items))
	for i, item := range items {
		title := item.Idea
		if title == "" {
			title = item.Title
		}

		volume := item.Volume
		switch volume {
		case "High", "Medium", "Low":
		default:
			volume = "Medium"
		}

		ideas = append(ideas, models.IdeaCandidate{
			SequenceID:   i + 1,
			Title:        title,
			Category:     item.Category,
			SearchVolume: volume,
		})
	}

	return ideas, nil
}
