package service

import (
	"context"
	"fmt"

	"github.com/Clark-Hu/recipebox/internal/domain"
	"github.com/Clark-Hu/recipebox/internal/metrics"
	"github.com/Clark-Hu/recipebox/internal/repository"
)

// RecipeInput carries user-editable recipe fields. On update, empty values
// keep what is stored.
type RecipeInput struct {
	Title       string
	Description string
	Ingredients []string
	Steps       []string
	Image       string
	Category    domain.Category
}

// Recipes implements recipe CRUD, listing and reviews.
type Recipes struct {
	recipes repository.RecipeStore
	users   repository.UserStore
}

// NewRecipes wires the recipe use cases.
func NewRecipes(recipes repository.RecipeStore, users repository.UserStore) *Recipes {
	return &Recipes{recipes: recipes, users: users}
}

// Create stores a new recipe owned by ownerID.
func (s *Recipes) Create(ctx context.Context, ownerID string, in RecipeInput) (domain.Recipe, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("load owner: %w", err)
	}
	return s.recipes.Create(ctx, repository.RecipeCreateParams{
		Owner:       owner.Ref(),
		Title:       in.Title,
		Description: in.Description,
		Ingredients: in.Ingredients,
		Steps:       in.Steps,
		Image:       in.Image,
		Category:    in.Category,
	})
}

// Get returns a recipe with its reviews.
func (s *Recipes) Get(ctx context.Context, id string) (domain.Recipe, error) {
	return s.recipes.GetByID(ctx, id)
}

// Update merges in over the stored recipe. Only the owner may update.
func (s *Recipes) Update(ctx context.Context, userID, id string, in RecipeInput) (domain.Recipe, error) {
	current, err := s.owned(ctx, userID, id)
	if err != nil {
		return domain.Recipe{}, err
	}

	params := repository.RecipeUpdateParams{
		ID:          current.ID,
		Title:       firstNonEmpty(in.Title, current.Title),
		Description: firstNonEmpty(in.Description, current.Description),
		Ingredients: current.Ingredients,
		Steps:       current.Steps,
		Image:       firstNonEmpty(in.Image, current.Image),
		Category:    current.Category,
	}
	if len(in.Ingredients) > 0 {
		params.Ingredients = in.Ingredients
	}
	if len(in.Steps) > 0 {
		params.Steps = in.Steps
	}
	if in.Category != "" {
		params.Category = in.Category
	}
	return s.recipes.Update(ctx, params)
}

// Delete removes a recipe. Only the owner may delete.
func (s *Recipes) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.recipes.Delete(ctx, id)
}

// List returns one page of recipe summaries.
func (s *Recipes) List(ctx context.Context, filters repository.RecipeListFilters) (repository.RecipeListResult, error) {
	return s.recipes.List(ctx, filters.Normalize())
}

// AddReview records userID's review of recipeID.
func (s *Recipes) AddReview(ctx context.Context, userID, recipeID string, rating int, comment string) (domain.Recipe, error) {
	if err := domain.ValidateRating(rating); err != nil {
		return domain.Recipe{}, err
	}
	author, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("load reviewer: %w", err)
	}

	recipe, err := s.recipes.AddReview(ctx, repository.ReviewCreateParams{
		RecipeID: recipeID,
		Author:   author.Ref(),
		Rating:   rating,
		Comment:  comment,
	})
	if err != nil {
		return domain.Recipe{}, err
	}
	metrics.ReviewsAddedTotal.Inc()
	return recipe, nil
}

func (s *Recipes) owned(ctx context.Context, userID, id string) (domain.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return domain.Recipe{}, err
	}
	if !recipe.OwnedBy(userID) {
		return domain.Recipe{}, ErrForbidden
	}
	return recipe, nil
}

func firstNonEmpty(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
