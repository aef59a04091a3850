package repository

import (
	"errors"
	"testing"

	"github.com/Clark-Hu/recipebox/internal/domain"
)

func TestFavoritesRepository(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	owner := mustCreateUser(t, env, "owner")
	fan := mustCreateUser(t, env, "fan")
	first := mustCreateRecipe(t, env, owner, "First", domain.CategoryVegan)
	second := mustCreateRecipe(t, env, owner, "Second", domain.CategoryDessert)

	fav, err := env.repository.Favorites.Add(env.ctx, fan.ID, first.ID)
	if err != nil {
		t.Fatalf("Add first: %v", err)
	}
	if fav.Recipe.Title != "First" || fav.UserID != fan.ID {
		t.Fatalf("Add returned %+v", fav)
	}

	if _, err := env.repository.Favorites.Add(env.ctx, fan.ID, first.ID); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate Add error = %v, want ErrDuplicate", err)
	}
	if _, err := env.repository.Favorites.Add(env.ctx, fan.ID, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown recipe Add error = %v, want ErrNotFound", err)
	}

	if _, err := env.repository.Favorites.Add(env.ctx, fan.ID, second.ID); err != nil {
		t.Fatalf("Add second: %v", err)
	}

	list, err := env.repository.Favorites.ListByUser(env.ctx, fan.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 || list[0].Recipe.Title != "Second" || list[1].Recipe.Title != "First" {
		t.Fatalf("ListByUser order = %+v", list)
	}

	removed, err := env.repository.Favorites.Remove(env.ctx, fan.ID, first.ID)
	if err != nil || !removed {
		t.Fatalf("Remove = (%v, %v), want (true, nil)", removed, err)
	}
	removed, err = env.repository.Favorites.Remove(env.ctx, fan.ID, first.ID)
	if err != nil || removed {
		t.Fatalf("second Remove = (%v, %v), want (false, nil)", removed, err)
	}
}

func TestFavoritesRepository_RecipeDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	defer env.cleanup()

	owner := mustCreateUser(t, env, "owner")
	fan := mustCreateUser(t, env, "fan")
	recipe := mustCreateRecipe(t, env, owner, "Gone Soon", domain.CategoryOther)

	if _, err := env.repository.Favorites.Add(env.ctx, fan.ID, recipe.ID); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := env.repository.Recipes.AddReview(env.ctx, ReviewCreateParams{RecipeID: recipe.ID, Author: fan.Ref(), Rating: 3}); err != nil {
		t.Fatalf("AddReview: %v", err)
	}
	if err := env.repository.Recipes.Delete(env.ctx, recipe.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	list, err := env.repository.Favorites.ListByUser(env.ctx, fan.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("favorites survived recipe deletion: %+v", list)
	}

	var reviews int
	if err := env.pool.QueryRow(env.ctx, `SELECT COUNT(*) FROM reviews WHERE recipe_id = $1`, recipe.ID).Scan(&reviews); err != nil {
		t.Fatalf("count reviews: %v", err)
	}
	if reviews != 0 {
		t.Fatalf("reviews survived recipe deletion: %d", reviews)
	}
}
