package repository

import (
	"math"

	"github.com/Clark-Hu/recipebox/internal/domain"
)

const (
	// PageSize is the fixed number of recipes per listing page.
	PageSize = 10

	// MaxPage keeps Offset within int range. Any page past it is empty anyway.
	MaxPage = math.MaxInt / PageSize

	SortTopRated   = "top-rated"
	SortMostRecent = "most-recent"
)

// RecipeCreateParams bundles the fields required to create a recipe.
type RecipeCreateParams struct {
	Owner       domain.UserRef
	Title       string
	Description string
	Ingredients []string
	Steps       []string
	Image       string
	Category    domain.Category
}

// RecipeUpdateParams replaces every editable field of a recipe.
type RecipeUpdateParams struct {
	ID          string
	Title       string
	Description string
	Ingredients []string
	Steps       []string
	Image       string
	Category    domain.Category
}

// RecipeListFilters encapsulates search, sort and pagination options.
type RecipeListFilters struct {
	Keyword  string
	Category string
	OwnerID  string
	SortBy   string
	Page     int
}

// Normalize clamps the page and drops the "All" category sentinel.
func (f RecipeListFilters) Normalize() RecipeListFilters {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.Category == domain.CategoryAll {
		f.Category = ""
	}
	return f
}

// Offset is the number of rows skipped before the current page.
func (f RecipeListFilters) Offset() int {
	return (f.Page - 1) * PageSize
}

// RecipeListResult returns one page of summaries.
type RecipeListResult struct {
	Items []domain.RecipeSummary
	Page  int
	Pages int
	Total int
}

// PageCount is ceil(total / PageSize).
func PageCount(total int) int {
	return (total + PageSize - 1) / PageSize
}

// ReviewCreateParams captures the payload required to add a review.
type ReviewCreateParams struct {
	RecipeID string
	Author   domain.UserRef
	Rating   int
	Comment  string
}

// UserCreateParams bundles the fields of a new account.
type UserCreateParams struct {
	Username     string
	Email        string
	PasswordHash string
}
