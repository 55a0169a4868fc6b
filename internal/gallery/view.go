package gallery

import (
	"sort"
	"strings"

	"github.com/codr1/themegallery/internal/models"
)

type SortMode string

const (
	SortTrending SortMode = "trending"
	SortNew      SortMode = "new"
	SortPopular  SortMode = "popular"
)

// SortModes lists the modes in the order the UI offers them.
func SortModes() []SortMode {
	return []SortMode{SortTrending, SortNew, SortPopular}
}

// ParseSortMode maps unknown or empty input to trending.
func ParseSortMode(raw string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(raw))) {
	case SortNew:
		return SortNew
	case SortPopular:
		return SortPopular
	default:
		return SortTrending
	}
}

func (m SortMode) Label() string {
	switch m {
	case SortNew:
		return "New"
	case SortPopular:
		return "Popular"
	default:
		return "Trending"
	}
}

// Selection is the theme currently open in the inspect overlay.
type Selection struct {
	Summary models.ThemeSummary
	Payload models.ThemePayload
}

type ViewState struct {
	Query    string
	Tag      string
	Sort     SortMode
	Selected *Selection
}

// ComputeView filters items by query and tag, then orders them by the sort
// mode. It never modifies items; equal keys keep their listing order.
func ComputeView(items []models.ThemeSummary, state ViewState) []models.ThemeSummary {
	query := strings.ToLower(strings.TrimSpace(state.Query))

	out := make([]models.ThemeSummary, 0, len(items))
	for _, item := range items {
		if query != "" && !matchesQuery(item, query) {
			continue
		}
		if state.Tag != "" && !item.HasTag(state.Tag) {
			continue
		}
		out = append(out, item)
	}

	sort.SliceStable(out, lessFunc(out, ParseSortMode(string(state.Sort))))
	return out
}

func matchesQuery(item models.ThemeSummary, query string) bool {
	if strings.Contains(strings.ToLower(item.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(item.Author), query) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// Trending is likes first, then recency. It is not a decaying score.
func lessFunc(items []models.ThemeSummary, mode SortMode) func(i, j int) bool {
	switch mode {
	case SortNew:
		return func(i, j int) bool {
			return items[i].UpdatedAt > items[j].UpdatedAt
		}
	case SortPopular:
		return func(i, j int) bool {
			return items[i].Likes > items[j].Likes
		}
	default:
		return func(i, j int) bool {
			if items[i].Likes != items[j].Likes {
				return items[i].Likes > items[j].Likes
			}
			return items[i].UpdatedAt > items[j].UpdatedAt
		}
	}
}

// Tags returns the distinct tags across items, sorted.
func Tags(items []models.ThemeSummary) []string {
	seen := map[string]bool{}
	tags := []string{}
	for _, item := range items {
		for _, tag := range item.Tags {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags
}
