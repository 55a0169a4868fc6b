package gallery

import (
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/codr1/themegallery/internal/models"
)

func sampleItems() []models.ThemeSummary {
	return []models.ThemeSummary{
		{ID: "a", Name: "Aurora", Author: "Mia", Tags: []string{"dark", "Neon"}, Likes: 5, UpdatedAt: "2024-01-01"},
		{ID: "b", Name: "Birch", Author: "Olu", Tags: []string{"light"}, Likes: 5, UpdatedAt: "2024-02-01"},
		{ID: "c", Name: "Cobalt", Author: "Neo Park", Tags: []string{"dark"}, Likes: 12, UpdatedAt: "2023-11-20"},
		{ID: "d", Name: "Dune", Author: "Rae", Likes: 0},
		{ID: "e", Name: "Ember", Author: "Kai", Tags: []string{"warm", "dark"}, Likes: 9, UpdatedAt: "2024-03-15T10:00:00Z"},
	}
}

func ids(items []models.ThemeSummary) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestComputeView_TrendingTieBreak(t *testing.T) {
	items := []models.ThemeSummary{
		{ID: "a", Likes: 5, UpdatedAt: "2024-01-01", Tags: []string{"dark"}},
		{ID: "b", Likes: 5, UpdatedAt: "2024-02-01", Tags: []string{"light"}},
	}
	got := ids(ComputeView(items, ViewState{}))
	want := []string{"b", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ComputeView() = %v, want %v", got, want)
	}
}

func TestComputeView(t *testing.T) {
	tests := []struct {
		name  string
		state ViewState
		want  []string
	}{
		{name: "trending_default", state: ViewState{}, want: []string{"c", "e", "b", "a", "d"}},
		{name: "popular_stable", state: ViewState{Sort: SortPopular}, want: []string{"c", "e", "a", "b", "d"}},
		{name: "new", state: ViewState{Sort: SortNew}, want: []string{"e", "b", "a", "c", "d"}},
		{name: "unknown_sort_is_trending", state: ViewState{Sort: "hot"}, want: []string{"c", "e", "b", "a", "d"}},
		{name: "query_name", state: ViewState{Query: "  AUR "}, want: []string{"a"}},
		{name: "query_author", state: ViewState{Query: "neo"}, want: []string{"c", "a"}},
		{name: "query_tag_substring", state: ViewState{Query: "ar", Sort: SortNew}, want: []string{"e", "a", "c"}},
		{name: "tag_exact", state: ViewState{Tag: "dark"}, want: []string{"c", "e", "a"}},
		{name: "tag_case_sensitive", state: ViewState{Tag: "neon"}, want: []string{}},
		{name: "tag_and_query", state: ViewState{Tag: "dark", Query: "em"}, want: []string{"e"}},
		{name: "no_match", state: ViewState{Query: "zzz"}, want: []string{}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ids(ComputeView(sampleItems(), test.state))
			if !reflect.DeepEqual(got, test.want) {
				t.Fatalf("ComputeView(%+v) = %v, want %v", test.state, got, test.want)
			}
		})
	}
}

func TestComputeView_DoesNotMutateInput(t *testing.T) {
	items := sampleItems()
	before := sampleItems()
	state := ViewState{Sort: SortNew, Query: "a"}

	first := ComputeView(items, state)
	second := ComputeView(items, state)

	if !reflect.DeepEqual(items, before) {
		t.Fatalf("input items were modified")
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated ComputeView differs: %v vs %v", ids(first), ids(second))
	}
}

func randomItems(r *rand.Rand, n int) []models.ThemeSummary {
	words := []string{"Nord", "Sol", "dark", "Light", "neon", "Mono", "pastel", "Retro"}
	dates := []string{"", "2023-01-01", "2023-06-30", "2024-01-01", "2024-01-01T08:00:00Z", "2025-12-31"}
	items := make([]models.ThemeSummary, n)
	for i := range items {
		tags := []string{}
		for j := 0; j < r.Intn(3); j++ {
			tags = append(tags, words[r.Intn(len(words))])
		}
		items[i] = models.ThemeSummary{
			ID:        fmt.Sprintf("t%d", i),
			Name:      words[r.Intn(len(words))] + " " + words[r.Intn(len(words))],
			Author:    words[r.Intn(len(words))],
			Tags:      tags,
			Likes:     r.Intn(4),
			UpdatedAt: dates[r.Intn(len(dates))],
		}
	}
	return items
}

func containsFolded(item models.ThemeSummary, query string) bool {
	if strings.Contains(strings.ToLower(item.Name), query) || strings.Contains(strings.ToLower(item.Author), query) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func TestComputeView_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	queries := []string{"", "o", "NEON", "dark", " sol ", "x"}
	tags := []string{"", "dark", "Light", "missing"}

	for round := 0; round < 50; round++ {
		items := randomItems(r, 1+r.Intn(25))
		for _, query := range queries {
			for _, tag := range tags {
				for _, mode := range SortModes() {
					state := ViewState{Query: query, Tag: tag, Sort: mode}
					got := ComputeView(items, state)
					folded := strings.ToLower(strings.TrimSpace(query))

					included := map[string]bool{}
					for _, item := range got {
						included[item.ID] = true
						if folded != "" && !containsFolded(item, folded) {
							t.Fatalf("item %s does not match query %q", item.ID, query)
						}
						if tag != "" && !item.HasTag(tag) {
							t.Fatalf("item %s lacks tag %q", item.ID, tag)
						}
					}
					for _, item := range items {
						if included[item.ID] {
							continue
						}
						matchesQ := folded == "" || containsFolded(item, folded)
						matchesT := tag == "" || item.HasTag(tag)
						if matchesQ && matchesT {
							t.Fatalf("item %s was wrongly excluded for %+v", item.ID, state)
						}
					}

					for i := 1; i < len(got); i++ {
						prev, cur := got[i-1], got[i]
						switch mode {
						case SortNew:
							if prev.UpdatedAt < cur.UpdatedAt {
								t.Fatalf("new order broken at %d: %q < %q", i, prev.UpdatedAt, cur.UpdatedAt)
							}
						case SortPopular:
							if prev.Likes < cur.Likes {
								t.Fatalf("popular order broken at %d", i)
							}
						case SortTrending:
							if prev.Likes < cur.Likes || (prev.Likes == cur.Likes && prev.UpdatedAt < cur.UpdatedAt) {
								t.Fatalf("trending order broken at %d", i)
							}
						}
					}
				}
			}
		}
	}
}

func TestComputeView_EmptyTagIsNoop(t *testing.T) {
	items := sampleItems()
	withTag := ComputeView(items, ViewState{Tag: ""})
	if len(withTag) != len(items) {
		t.Fatalf("empty tag filtered items: got %d, want %d", len(withTag), len(items))
	}
}

func TestParseSortMode(t *testing.T) {
	tests := map[string]SortMode{
		"":         SortTrending,
		"trending": SortTrending,
		"NEW":      SortNew,
		" popular": SortPopular,
		"random":   SortTrending,
	}
	for raw, want := range tests {
		if got := ParseSortMode(raw); got != want {
			t.Fatalf("ParseSortMode(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestTags(t *testing.T) {
	got := Tags(sampleItems())
	want := []string{"Neon", "dark", "light", "warm"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tags() = %v, want %v", got, want)
	}
}
