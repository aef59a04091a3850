package docstore

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Clark-Hu/recipebox/internal/domain"
)

type userRefDoc struct {
	ID       primitive.ObjectID `bson:"id"`
	Username string             `bson:"username"`
}

type reviewDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Author    userRefDoc         `bson:"author"`
	Rating    int                `bson:"rating"`
	Comment   string             `bson:"comment"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type recipeDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Owner         userRefDoc         `bson:"owner"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description"`
	Ingredients   []string           `bson:"ingredients"`
	Steps         []string           `bson:"steps"`
	Image         string             `bson:"image"`
	Category      string             `bson:"category"`
	Reviews       []reviewDoc        `bson:"reviews"`
	NumReviews    int                `bson:"numReviews"`
	AverageRating float64            `bson:"averageRating"`
	Version       int64              `bson:"version"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"passwordHash"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

type favoriteDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      primitive.ObjectID `bson:"user"`
	Recipe    primitive.ObjectID `bson:"recipe"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// favoriteJoined is a favorite row after $lookup of its recipe.
type favoriteJoined struct {
	ID        primitive.ObjectID `bson:"_id"`
	User      primitive.ObjectID `bson:"user"`
	CreatedAt time.Time          `bson:"createdAt"`
	RecipeDoc recipeDoc          `bson:"recipeDoc"`
}

// now truncates to the millisecond precision BSON dates keep.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

func (d userRefDoc) toDomain() domain.UserRef {
	return domain.UserRef{ID: d.ID.Hex(), Username: d.Username}
}

func (d reviewDoc) toDomain() domain.Review {
	return domain.Review{
		ID:        d.ID.Hex(),
		Author:    d.Author.toDomain(),
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
	}
}

func (d recipeDoc) toDomain() domain.Recipe {
	recipe := domain.Recipe{
		ID:            d.ID.Hex(),
		Owner:         d.Owner.toDomain(),
		Title:         d.Title,
		Description:   d.Description,
		Ingredients:   nonNil(d.Ingredients),
		Steps:         nonNil(d.Steps),
		Image:         d.Image,
		Category:      domain.Category(d.Category),
		Reviews:       make([]domain.Review, 0, len(d.Reviews)),
		NumReviews:    d.NumReviews,
		AverageRating: d.AverageRating,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	for _, review := range d.Reviews {
		recipe.Reviews = append(recipe.Reviews, review.toDomain())
	}
	return recipe
}

func (d recipeDoc) toSummary() domain.RecipeSummary {
	recipe := d.toDomain()
	return recipe.Summary()
}

func (d userDoc) toDomain() domain.User {
	return domain.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (d favoriteJoined) toDomain() domain.Favorite {
	return domain.Favorite{
		ID:        d.ID.Hex(),
		UserID:    d.User.Hex(),
		Recipe:    d.RecipeDoc.toSummary(),
		CreatedAt: d.CreatedAt,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
