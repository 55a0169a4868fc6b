package gallery

import (
	"strconv"

	"github.com/codr1/themegallery/internal/gallery"
	"github.com/codr1/themegallery/internal/models"
)

const maxCardTags = 4

type Card struct {
	models.ThemeSummary
	IsApplied bool
}

func NewCard(summary models.ThemeSummary, appliedID string) Card {
	return Card{
		ThemeSummary: summary,
		IsApplied:    summary.ID != "" && summary.ID == appliedID,
	}
}

func NewCards(items []models.ThemeSummary, appliedID string) []Card {
	cards := make([]Card, len(items))
	for i, item := range items {
		cards[i] = NewCard(item, appliedID)
	}
	return cards
}

// CardTags returns the tags shown on a card.
func (c Card) CardTags() []string {
	if len(c.Tags) > maxCardTags {
		return c.Tags[:maxCardTags]
	}
	return c.Tags
}

func (c Card) LikesLabel() string {
	return "♥ " + strconv.Itoa(c.Likes)
}

type SortOption struct {
	Value    string
	Label    string
	Selected bool
}

type ControlsData struct {
	Query       string
	Tag         string
	Tags        []string
	SortOptions []SortOption
}

func NewControlsData(state gallery.ViewState, tags []string) ControlsData {
	options := make([]SortOption, 0, len(gallery.SortModes()))
	for _, mode := range gallery.SortModes() {
		options = append(options, SortOption{
			Value:    string(mode),
			Label:    mode.Label(),
			Selected: mode == state.Sort,
		})
	}
	return ControlsData{
		Query:       state.Query,
		Tag:         state.Tag,
		Tags:        tags,
		SortOptions: options,
	}
}

type GridData struct {
	Cards []Card
	Total int
}

// OverlayData drives the inspect overlay. Error replaces the JSON body when
// the payload could not be loaded.
type OverlayData struct {
	Summary  models.ThemeSummary
	JSON     string
	Error    string
	ShareURL string
}

func (o OverlayData) MetaLine() string {
	return o.Summary.MetaLine()
}

type PageData struct {
	Controls  ControlsData
	Grid      GridData
	Overlay   *OverlayData
	AppliedID string
	// LoadError is shown instead of the grid when the listing is unavailable.
	LoadError string
}
