package httpserver

import (
	"net/url"
	"strings"
	"testing"

	"github.com/Clark-Hu/recipebox/internal/repository"
)

func TestBuildRecipeFilters(t *testing.T) {
	values, _ := url.ParseQuery("keyword= Curry &category=Indian&user=abc&sortBy=top-rated&pageNumber=3")

	filters, err := buildRecipeFilters(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := repository.RecipeListFilters{Keyword: "Curry", Category: "Indian", OwnerID: "abc", SortBy: "top-rated", Page: 3}
	if filters != want {
		t.Fatalf("filters = %+v, want %+v", filters, want)
	}
}

func TestBuildRecipeFiltersDefaults(t *testing.T) {
	cases := []struct {
		query    string
		category string
		sortBy   string
		page     int
	}{
		{"", "", "", 1},
		{"category=All", "", "", 1},
		{"pageNumber=0", "", "", 1},
		{"pageNumber=-4", "", "", 1},
		{"pageNumber=abc", "", "", 1},
		{"sortBy=alphabetical", "", "", 1},
		{"sortBy=most-recent&pageNumber=2", "", "most-recent", 2},
		{"pageNumber=1000000000000000000", "", "", repository.MaxPage},
	}
	for _, c := range cases {
		values, _ := url.ParseQuery(c.query)
		filters, err := buildRecipeFilters(values)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", c.query, err)
		}
		if filters.Category != c.category || filters.SortBy != c.sortBy || filters.Page != c.page {
			t.Fatalf("%q: got %+v", c.query, filters)
		}
	}
}

func TestBuildRecipeFiltersInvalid(t *testing.T) {
	for _, raw := range []string{"category=Thai", "category=dessert", "keyword=" + strings.Repeat("a", maxKeywordLength+1)} {
		values, _ := url.ParseQuery(raw)
		if _, err := buildRecipeFilters(values); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func FuzzBuildRecipeFilters(f *testing.F) {
	seeds := []string{
		"keyword=cake&category=Dessert&sortBy=top-rated",
		"pageNumber=abc",
		"category=All&pageNumber=99999999999999999999",
		"pageNumber=1000000000000000000",
		"pageNumber=9223372036854775807",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		filters, err := buildRecipeFilters(values)
		if err != nil {
			return
		}
		if filters.Page < 1 {
			t.Fatalf("page %d below 1", filters.Page)
		}
		if offset := filters.Normalize().Offset(); offset < 0 {
			t.Fatalf("page %d gives negative offset %d", filters.Page, offset)
		}
		if filters.SortBy != "" && filters.SortBy != repository.SortTopRated && filters.SortBy != repository.SortMostRecent {
			t.Fatalf("unexpected sort %q", filters.SortBy)
		}
	})
}
