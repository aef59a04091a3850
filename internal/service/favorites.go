package service

import (
	"context"
	"errors"

	"github.com/Clark-Hu/recipebox/internal/domain"
	"github.com/Clark-Hu/recipebox/internal/metrics"
	"github.com/Clark-Hu/recipebox/internal/repository"
)

// Favorites is the single ledger behind both favorites endpoints.
type Favorites struct {
	favorites repository.FavoriteStore
}

// NewFavorites wires the favorites ledger.
func NewFavorites(favorites repository.FavoriteStore) *Favorites {
	return &Favorites{favorites: favorites}
}

// Add bookmarks a recipe. A second call for the same pair fails with
// ErrAlreadyFavorite.
func (s *Favorites) Add(ctx context.Context, userID, recipeID string) (domain.Favorite, error) {
	fav, err := s.favorites.Add(ctx, userID, recipeID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Favorite{}, ErrAlreadyFavorite
		}
		return domain.Favorite{}, err
	}
	metrics.FavoritesChangesTotal.WithLabelValues("add").Inc()
	return fav, nil
}

// Remove deletes the bookmark; removing an absent one is not an error.
func (s *Favorites) Remove(ctx context.Context, userID, recipeID string) error {
	removed, err := s.favorites.Remove(ctx, userID, recipeID)
	if err != nil {
		return err
	}
	if removed {
		metrics.FavoritesChangesTotal.WithLabelValues("remove").Inc()
	}
	return nil
}

// List returns the user's favorites, most recent first.
func (s *Favorites) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	return s.favorites.ListByUser(ctx, userID)
}
