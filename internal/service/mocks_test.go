package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Clark-Hu/recipebox/internal/domain"
	"github.com/Clark-Hu/recipebox/internal/repository"
)

type MockRecipeStore struct {
	mock.Mock
}

func (m *MockRecipeStore) Create(ctx context.Context, params repository.RecipeCreateParams) (domain.Recipe, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(domain.Recipe), args.Error(1)
}

func (m *MockRecipeStore) GetByID(ctx context.Context, id string) (domain.Recipe, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Recipe), args.Error(1)
}

func (m *MockRecipeStore) Update(ctx context.Context, params repository.RecipeUpdateParams) (domain.Recipe, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(domain.Recipe), args.Error(1)
}

func (m *MockRecipeStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeStore) List(ctx context.Context, filters repository.RecipeListFilters) (repository.RecipeListResult, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).(repository.RecipeListResult), args.Error(1)
}

func (m *MockRecipeStore) AddReview(ctx context.Context, params repository.ReviewCreateParams) (domain.Recipe, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(domain.Recipe), args.Error(1)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, params repository.UserCreateParams) (domain.User, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

type MockFavoriteStore struct {
	mock.Mock
}

func (m *MockFavoriteStore) Add(ctx context.Context, userID, recipeID string) (domain.Favorite, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Get(0).(domain.Favorite), args.Error(1)
}

func (m *MockFavoriteStore) Remove(ctx context.Context, userID, recipeID string) (bool, error) {
	args := m.Called(ctx, userID, recipeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFavoriteStore) ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Favorite), args.Error(1)
}
