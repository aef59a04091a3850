package domain

import "time"

// User is a registered account. PasswordHash never leaves the service layer.
type User struct {
	ID              string
	Username        string
	Email           string
	PasswordHash    string
	FavoriteRecipes []FavoriteRecipe
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Ref returns the reference embedded in recipes and reviews.
func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username}
}

// FavoriteRecipe is the slim recipe reference listed on a user profile.
type FavoriteRecipe struct {
	ID    string
	Title string
	Image string
}

// Favorite is a user-recipe bookmark, unique per pair.
type Favorite struct {
	ID        string
	UserID    string
	Recipe    RecipeSummary
	CreatedAt time.Time
}
