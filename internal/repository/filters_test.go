package repository

import (
	"math"
	"strings"
	"testing"
)

func TestBuildRecipeWhere(t *testing.T) {
	tests := []struct {
		name     string
		filters  RecipeListFilters
		wantSQL  []string
		wantArgs []interface{}
	}{
		{
			name:    "empty",
			filters: RecipeListFilters{},
		},
		{
			name:     "keyword escapes wildcards",
			filters:  RecipeListFilters{Keyword: " 50%_off "},
			wantSQL:  []string{"r.title ILIKE $1", "ing ILIKE $1"},
			wantArgs: []interface{}{`%50\%\_off%`},
		},
		{
			name:     "category and owner",
			filters:  RecipeListFilters{Category: "Vegan", OwnerID: "abc"},
			wantSQL:  []string{"r.category = $1", "r.user_id = $2"},
			wantArgs: []interface{}{"Vegan", "abc"},
		},
		{
			name:     "all sentinel dropped by Normalize",
			filters:  RecipeListFilters{Category: "All"}.Normalize(),
			wantArgs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := buildRecipeWhere(tt.filters)
			if len(tt.wantSQL) == 0 && sql != "" {
				t.Fatalf("where = %q, want empty", sql)
			}
			for _, fragment := range tt.wantSQL {
				if !strings.Contains(sql, fragment) {
					t.Fatalf("where %q missing %q", sql, fragment)
				}
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Fatalf("arg[%d] = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestPageCount(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 10: 1, 11: 2, 20: 2, 21: 3}
	for total, want := range cases {
		if got := PageCount(total); got != want {
			t.Fatalf("PageCount(%d) = %d, want %d", total, got, want)
		}
	}
}

func TestRecipeOrderBy(t *testing.T) {
	if got := recipeOrderBy(SortTopRated); !strings.HasPrefix(got, "r.average_rating DESC") {
		t.Fatalf("top-rated order = %q", got)
	}
	if got := recipeOrderBy(SortMostRecent); !strings.HasPrefix(got, "r.created_at DESC") {
		t.Fatalf("most-recent order = %q", got)
	}
	if got := recipeOrderBy("bogus"); !strings.HasPrefix(got, "r.created_at ASC") {
		t.Fatalf("default order = %q", got)
	}
}

func FuzzBuildRecipeWhere(f *testing.F) {
	f.Add("beans", "Vegan", "owner")
	f.Add("%_\\", "", "")
	f.Add("", "All", "")

	f.Fuzz(func(t *testing.T, keyword, category, owner string) {
		filters := RecipeListFilters{Keyword: keyword, Category: category, OwnerID: owner}.Normalize()
		sql, args := buildRecipeWhere(filters)
		if strings.ContainsAny(sql, "'\\") {
			t.Fatalf("user input leaked into SQL text: %q", sql)
		}
		if strings.Count(sql, "$") < len(args) {
			t.Fatalf("placeholders %q fewer than args %d", sql, len(args))
		}
	})
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name string
		page int
		want int
	}{
		{"zero", 0, 1},
		{"negative", -3, 1},
		{"first", 1, 1},
		{"middle", 7, 7},
		{"huge", 1000000000000000000, MaxPage},
		{"max int", math.MaxInt, MaxPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filters := RecipeListFilters{Page: tt.page}.Normalize()
			if filters.Page != tt.want {
				t.Fatalf("page = %d, want %d", filters.Page, tt.want)
			}
			if offset := filters.Offset(); offset < 0 || offset != (tt.want-1)*PageSize {
				t.Fatalf("offset = %d, want %d", offset, (tt.want-1)*PageSize)
			}
		})
	}
}
