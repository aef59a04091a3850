package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/recipebox/internal/domain"
	"github.com/Clark-Hu/recipebox/internal/store"
)

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate indicates a uniqueness constraint rejected the write.
	ErrDuplicate = errors.New("repository: duplicate")
	// ErrConflict indicates a concurrent writer won every retry.
	ErrConflict = errors.New("repository: concurrent update conflict")
)

// RecipeStore persists recipes together with their embedded reviews.
type RecipeStore interface {
	Create(ctx context.Context, params RecipeCreateParams) (domain.Recipe, error)
	GetByID(ctx context.Context, id string) (domain.Recipe, error)
	Update(ctx context.Context, params RecipeUpdateParams) (domain.Recipe, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters RecipeListFilters) (RecipeListResult, error)
	// AddReview appends a review and refreshes the rating aggregates
	// atomically. Returns domain.ErrAlreadyReviewed for a second review by
	// the same author.
	AddReview(ctx context.Context, params ReviewCreateParams) (domain.Recipe, error)
}

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, params UserCreateParams) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// FavoriteStore persists (user, recipe) bookmarks.
type FavoriteStore interface {
	Add(ctx context.Context, userID, recipeID string) (domain.Favorite, error)
	// Remove reports whether a row was deleted; a missing pair is not an error.
	Remove(ctx context.Context, userID, recipeID string) (bool, error)
	// ListByUser returns the user's favorites, most recent first.
	ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error)
}

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Recipes   RecipeStore
	Users     UserStore
	Favorites FavoriteStore
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Recipes:   &RecipesRepository{pool: pool},
		Users:     &UsersRepository{pool: pool},
		Favorites: &FavoritesRepository{pool: pool},
	}
}
