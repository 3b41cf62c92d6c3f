// Package promptbuilder renders the instruction text sent to the generative
// model. Every builder is a pure function: any input produces a prompt string,
// there are no error paths. Optional fields that are empty render as "-" so
// the model never sees a dangling label.
package promptbuilder

import (
	"fmt"
	"strings"
)

// IdeaInput carries the niche-finder form fields.
type IdeaInput struct {
	Keyword   string
	Region    string
	TimeRange string
}

// ScriptInput carries the script-builder form fields.
type ScriptInput struct {
	Title          string
	Description    string
	Theme          string
	Category       string
	ClipCount      int
	Mode           string // "storyboard" or "narrative"
	VisualStyle    string
	CameraMovement string
}

// MetadataInput carries the SEO metadata form fields.
type MetadataInput struct {
	Title       string
	Description string
	Tags        string // comma-joined
	Language    string // "id" or "en"
}

// ThumbnailInput carries the thumbnail prompt form fields.
type ThumbnailInput struct {
	Style               string
	DominantColor       string
	Expression          string
	CompositionElements string
}

// Ideas builds the content-idea research prompt. The model is instructed to
// answer with a bare JSON array and nothing else.
func Ideas(in IdeaInput) string {
	return fmt.Sprintf(`You are a content research assistant for YouTube Shorts.

Find 5-10 video ideas based on:
- keyword: %q
- region: %q
- timeRange: %q

Reply ONLY with a JSON array, with no other text and no code fences.
Each item must look like this:
{
  "idea": "short idea title",
  "category": "short category",
  "volume": "High" | "Medium" | "Low"
}
`, in.Keyword, orDash(in.Region), orDash(in.TimeRange))
}

// Script builds the structured short-video script prompt. The model answers
// in free text; the script is displayed verbatim and never parsed.
func Script(in ScriptInput) string {
	mode := "Narrative script"
	if in.Mode == "storyboard" {
		mode = "Visual storyboard"
	}

	clips := "-"
	if in.ClipCount > 0 {
		clips = fmt.Sprintf("%d", in.ClipCount)
	}

	return fmt.Sprintf(`You are a scriptwriter for TikTok and YouTube Shorts content.

Write a structured script for a short video with these details:
- Title: %s
- Concept description: %s
- Theme: %s
- Content category: %s
- Number of clips (scenes): %s
- Mode: %s
- Visual style: %s
- Camera movement: %s

Structure the output as:

1. Opening (Hook) - 1 clip
2. Body - split into clips matching the %q count (Clip 1, Clip 2, and so on).
3. Closing (Call to action)

For every clip write:
- TIME ESTIMATE (for example: 0-3 seconds)
- VISUAL (what is visible on screen)
- AUDIO / NARRATION (what is spoken / sound effects).

Use a casual tone that fits TikTok, Reels and Shorts.
Do not restate these instructions, write the script right away.
`,
		orDash(in.Title), orDash(in.Description), orDash(in.Theme), orDash(in.Category),
		clips, mode, orDash(in.VisualStyle), orDash(in.CameraMovement), clips)
}

// Metadata builds the SEO title/description/tags prompt. The model is told to
// answer with a single JSON object, no markdown, no fences, no prose.
func Metadata(in MetadataInput) string {
	language := "English"
	if in.Language == "id" {
		language = "Indonesian"
	}

	return fmt.Sprintf(`You are a YouTube Shorts SEO expert.

Input data:
- Title: %s
- Description: %s
- Initial tags (comma separated): %s
- Language: %s

Tasks:
1. Improve and optimize the title so it is more clickable while staying natural.
2. Write a short 2-3 paragraph description, keyword optimized but not spammy.
3. Produce a list of 15-25 relevant tags (without #).

VERY IMPORTANT:
- Reply ONLY with a single JSON object.
- Do NOT use markdown.
- Do NOT use `+"```"+` or code blocks.
- No text outside the JSON.

Example structure:
{
  "title": "title",
  "description": "long description",
  "tags": ["tag1", "tag2", "..."]
}
`, orDash(in.Title), orDash(in.Description), orDash(in.Tags), language)
}

// Thumbnail builds the image-generation prompt request. The answer is a single
// free-text paragraph, consumed as-is.
func Thumbnail(in ThumbnailInput) string {
	return fmt.Sprintf(`Write a prompt for an AI image model (Midjourney / DALL-E) for a YouTube thumbnail.

Details:
- Style: %s
- Dominant color: %s
- Character expression: %s
- Composition elements: %s

Write one very detailed English paragraph using the keywords that matter for
YouTube thumbnails (clickable, high contrast, rim light, and so on).

Reply ONLY with the final prompt, with no other explanation.
`, orDash(in.Style), orDash(in.DominantColor), orDash(in.Expression), orDash(in.CompositionElements))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
