package httpserver

import (
	"time"

	"github.com/Clark-Hu/recipebox/internal/domain"
)

type messageResponse struct {
	Message string `json:"message"`
}

type userRefResponse struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

type reviewResponse struct {
	ID        string          `json:"_id"`
	User      userRefResponse `json:"user"`
	Rating    int             `json:"rating"`
	Comment   string          `json:"comment"`
	CreatedAt time.Time       `json:"createdAt"`
}

type recipeResponse struct {
	ID            string           `json:"_id"`
	User          userRefResponse  `json:"user"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Ingredients   []string         `json:"ingredients"`
	Steps         []string         `json:"steps"`
	Image         string           `json:"image"`
	Category      string           `json:"category"`
	Reviews       []reviewResponse `json:"reviews"`
	NumReviews    int              `json:"numReviews"`
	AverageRating float64          `json:"averageRating"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

type recipeSummaryResponse struct {
	ID            string          `json:"_id"`
	User          userRefResponse `json:"user"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Image         string          `json:"image"`
	Category      string          `json:"category"`
	NumReviews    int             `json:"numReviews"`
	AverageRating float64         `json:"averageRating"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type recipeListResponse struct {
	Recipes []recipeSummaryResponse `json:"recipes"`
	Page    int                     `json:"page"`
	Pages   int                     `json:"pages"`
	Total   int                     `json:"total"`
}

type reviewCreatedResponse struct {
	Message       string  `json:"message"`
	NumReviews    int     `json:"numReviews"`
	AverageRating float64 `json:"averageRating"`
}

type favoriteRecipeResponse struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
	Image string `json:"image"`
}

type userResponse struct {
	ID              string                   `json:"_id"`
	Username        string                   `json:"username"`
	Email           string                   `json:"email"`
	FavoriteRecipes []favoriteRecipeResponse `json:"favoriteRecipes"`
	CreatedAt       time.Time                `json:"createdAt"`
}

type profileMessageResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type favoriteResponse struct {
	ID        string                `json:"_id"`
	User      string                `json:"user"`
	Recipe    recipeSummaryResponse `json:"recipe"`
	CreatedAt time.Time             `json:"createdAt"`
}

type favoriteListResponse struct {
	Favorites []favoriteResponse `json:"favorites"`
}

type uploadResponse struct {
	URL string `json:"url"`
}

func toUserRefResponse(ref domain.UserRef) userRefResponse {
	return userRefResponse{ID: ref.ID, Username: ref.Username}
}

func toRecipeResponse(recipe domain.Recipe) recipeResponse {
	reviews := make([]reviewResponse, 0, len(recipe.Reviews))
	for _, review := range recipe.Reviews {
		reviews = append(reviews, reviewResponse{
			ID:        review.ID,
			User:      toUserRefResponse(review.Author),
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		})
	}
	return recipeResponse{
		ID:            recipe.ID,
		User:          toUserRefResponse(recipe.Owner),
		Title:         recipe.Title,
		Description:   recipe.Description,
		Ingredients:   nonNilStrings(recipe.Ingredients),
		Steps:         nonNilStrings(recipe.Steps),
		Image:         recipe.Image,
		Category:      string(recipe.Category),
		Reviews:       reviews,
		NumReviews:    recipe.NumReviews,
		AverageRating: recipe.AverageRating,
		CreatedAt:     recipe.CreatedAt,
		UpdatedAt:     recipe.UpdatedAt,
	}
}

func toRecipeSummaryResponse(summary domain.RecipeSummary) recipeSummaryResponse {
	return recipeSummaryResponse{
		ID:            summary.ID,
		User:          toUserRefResponse(summary.Owner),
		Title:         summary.Title,
		Description:   summary.Description,
		Image:         summary.Image,
		Category:      string(summary.Category),
		NumReviews:    summary.NumReviews,
		AverageRating: summary.AverageRating,
		CreatedAt:     summary.CreatedAt,
	}
}

func toUserResponse(user domain.User) userResponse {
	favorites := make([]favoriteRecipeResponse, 0, len(user.FavoriteRecipes))
	for _, fav := range user.FavoriteRecipes {
		favorites = append(favorites, favoriteRecipeResponse{ID: fav.ID, Title: fav.Title, Image: fav.Image})
	}
	return userResponse{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		FavoriteRecipes: favorites,
		CreatedAt:       user.CreatedAt,
	}
}

func toFavoriteResponse(fav domain.Favorite) favoriteResponse {
	return favoriteResponse{
		ID:        fav.ID,
		User:      fav.UserID,
		Recipe:    toRecipeSummaryResponse(fav.Recipe),
		CreatedAt: fav.CreatedAt,
	}
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
