// Package render turns job records and filter tags into a render tree. It
// is pure: no storage, no network, no live surface.
package render

import "github.com/fr4nk3nst1ner/jobboard/internal/models"

const (
	LoadingMessage = "Loading..."
	ErrorMessage   = "An error occurred"
)

// ActionKind is what activating an interactive element asks for
type ActionKind int

const (
	ActionAddFilter ActionKind = iota + 1
	ActionRemoveFilter
	ActionClearFilters
)

func (k ActionKind) String() string {
	switch k {
	case ActionAddFilter:
		return "add"
	case ActionRemoveFilter:
		return "remove"
	case ActionClearFilters:
		return "clear"
	default:
		return "unknown"
	}
}

// Action is emitted when a user activates a tag, a chip's remove control or
// the clear control
type Action struct {
	Kind ActionKind `json:"kind"`
	Tag  string     `json:"tag,omitempty"`
}

// ClearAction is the action of the clear control
var ClearAction = Action{Kind: ActionClearFilters}

// TagChip is a tag shown on a card
type TagChip struct {
	Text       string `json:"text"`
	OnActivate Action `json:"on_activate"`
}

// Card is one job card
type Card struct {
	ImageSrc string    `json:"image_src"`
	Company  string    `json:"company"`
	Title    string    `json:"title"`
	Meta     []string  `json:"meta"`
	Tags     []TagChip `json:"tags"`
}

// FilterChip is one applied filter with its remove control
type FilterChip struct {
	Text   string `json:"text"`
	Remove Action `json:"remove"`
}

// Content is what the card area shows: either cards or a single message
type Content struct {
	Cards   []Card `json:"cards,omitempty"`
	Message string `json:"message,omitempty"`
}

// IsMessage reports whether the card area holds a message instead of cards
func (c Content) IsMessage() bool {
	return c.Message != ""
}

// View is the complete render tree of the board
type View struct {
	Content            Content      `json:"content"`
	Chips              []FilterChip `json:"chips"`
	FilterPanelVisible bool         `json:"filter_panel_visible"`
}

// JobCards builds one card per job, replacing whatever was shown before
func JobCards(jobs []models.JobRecord) Content {
	cards := make([]Card, 0, len(jobs))
	for _, job := range jobs {
		cards = append(cards, jobCard(job))
	}
	return Content{Cards: cards}
}

func jobCard(job models.JobRecord) Card {
	tags := make([]TagChip, 0, len(job.TagNames))
	for _, name := range job.TagNames {
		tags = append(tags, TagChip{
			Text:       name,
			OnActivate: Action{Kind: ActionAddFilter, Tag: name},
		})
	}

	return Card{
		ImageSrc: job.LogoURL,
		Company:  job.CompanyName,
		Title:    job.Title,
		Meta:     []string{job.EmploymentType, job.LocationType, job.CreatedAtHuman},
		Tags:     tags,
	}
}

// FilterChips builds one removable chip per tag, in the given order
func FilterChips(tags []string) []FilterChip {
	chips := make([]FilterChip, 0, len(tags))
	for _, tag := range tags {
		chips = append(chips, FilterChip{
			Text:   tag,
			Remove: Action{Kind: ActionRemoveFilter, Tag: tag},
		})
	}
	return chips
}

// Message replaces the card area with text
func Message(text string) Content {
	return Content{Message: text}
}
