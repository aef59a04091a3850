package domain

import "time"

// Category is the closed set of cuisine/type tags a recipe can carry.
type Category string

const (
	CategoryDessert Category = "Dessert"
	CategoryVegan   Category = "Vegan"
	CategoryIndian  Category = "Indian"
	CategoryItalian Category = "Italian"
	CategoryMexican Category = "Mexican"
	CategoryOther   Category = "Other"
)

// CategoryAll is the listing sentinel that disables the category filter.
const CategoryAll = "All"

var categories = []Category{
	CategoryDessert,
	CategoryVegan,
	CategoryIndian,
	CategoryItalian,
	CategoryMexican,
	CategoryOther,
}

// Categories returns every valid category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory reports whether value names one of the known categories.
func ParseCategory(value string) (Category, bool) {
	for _, c := range categories {
		if string(c) == value {
			return c, true
		}
	}
	return "", false
}

// UserRef identifies a user together with the name shown next to their content.
type UserRef struct {
	ID       string
	Username string
}

// Recipe is a shared dish with its embedded reviews and cached rating aggregates.
type Recipe struct {
	ID            string
	Owner         UserRef
	Title         string
	Description   string
	Ingredients   []string
	Steps         []string
	Image         string
	Category      Category
	Reviews       []Review
	NumReviews    int
	AverageRating float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RecipeSummary is the reduced view used for listings and favorites.
type RecipeSummary struct {
	ID            string
	Owner         UserRef
	Title         string
	Description   string
	Image         string
	Category      Category
	NumReviews    int
	AverageRating float64
	CreatedAt     time.Time
}

// Summary drops the heavy fields of the recipe.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:            r.ID,
		Owner:         r.Owner,
		Title:         r.Title,
		Description:   r.Description,
		Image:         r.Image,
		Category:      r.Category,
		NumReviews:    r.NumReviews,
		AverageRating: r.AverageRating,
		CreatedAt:     r.CreatedAt,
	}
}

// OwnedBy reports whether userID owns the recipe.
func (r *Recipe) OwnedBy(userID string) bool {
	return userID != "" && r.Owner.ID == userID
}
