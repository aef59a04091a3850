package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/recipebox/internal/domain"
)

// FavoritesRepository stores the favorites join table.
type FavoritesRepository struct {
	pool *pgxpool.Pool
}

const favoriteColumns = `f.id, f.user_id, f.created_at, ` + summaryColumns

// Add bookmarks recipeID for userID. Unknown recipes yield ErrNotFound and
// an existing pair yields ErrDuplicate.
func (r *FavoritesRepository) Add(ctx context.Context, userID, recipeID string) (domain.Favorite, error) {
	if !validID(userID) || !validID(recipeID) {
		return domain.Favorite{}, ErrNotFound
	}

	query := `
        WITH f AS (
            INSERT INTO favorites (user_id, recipe_id)
            VALUES ($1,$2)
            RETURNING id, user_id, recipe_id, created_at
        )
        SELECT ` + favoriteColumns + `
        FROM f
        JOIN recipes r ON r.id = f.recipe_id
        JOIN users u ON u.id = r.user_id
    `
	fav, err := scanFavorite(r.pool.QueryRow(ctx, query, userID, recipeID))
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return domain.Favorite{}, ErrDuplicate
		case pgForeignKeyViolation:
			return domain.Favorite{}, ErrNotFound
		}
		return domain.Favorite{}, fmt.Errorf("insert favorite: %w", err)
	}
	return fav, nil
}

// Remove deletes the pair if present.
func (r *FavoritesRepository) Remove(ctx context.Context, userID, recipeID string) (bool, error) {
	if !validID(userID) || !validID(recipeID) {
		return false, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2`, userID, recipeID)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByUser returns the user's favorites, newest first, each with its recipe summary.
func (r *FavoritesRepository) ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	favorites := make([]domain.Favorite, 0)
	if !validID(userID) {
		return favorites, nil
	}

	query := `
        SELECT ` + favoriteColumns + `
        FROM favorites f
        JOIN recipes r ON r.id = f.recipe_id
        JOIN users u ON u.id = r.user_id
        WHERE f.user_id = $1
        ORDER BY f.created_at DESC, f.id DESC
    `
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		fav, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		favorites = append(favorites, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return favorites, nil
}

func scanFavorite(row pgx.Row) (domain.Favorite, error) {
	var (
		fav      domain.Favorite
		category string
	)
	err := row.Scan(
		&fav.ID,
		&fav.UserID,
		&fav.CreatedAt,
		&fav.Recipe.ID,
		&fav.Recipe.Owner.ID,
		&fav.Recipe.Owner.Username,
		&fav.Recipe.Title,
		&fav.Recipe.Description,
		&fav.Recipe.Image,
		&category,
		&fav.Recipe.NumReviews,
		&fav.Recipe.AverageRating,
		&fav.Recipe.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Favorite{}, ErrNotFound
		}
		return domain.Favorite{}, err
	}
	fav.Recipe.Category = domain.Category(category)
	return fav, nil
}
