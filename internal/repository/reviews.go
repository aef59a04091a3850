package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Clark-Hu/recipebox/internal/domain"
)

// AddReview locks the recipe row, applies the review through the domain
// aggregate and writes the review plus refreshed aggregates in one transaction.
func (r *RecipesRepository) AddReview(ctx context.Context, params ReviewCreateParams) (domain.Recipe, error) {
	if !validID(params.RecipeID) || !validID(params.Author.ID) {
		return domain.Recipe{}, ErrNotFound
	}
	if err := domain.ValidateRating(params.Rating); err != nil {
		return domain.Recipe{}, err
	}

	var recipe domain.Recipe
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var err error
		recipe, err = getRecipe(ctx, tx, params.RecipeID, true)
		if err != nil {
			return err
		}

		review := domain.Review{
			Author:  params.Author,
			Rating:  params.Rating,
			Comment: params.Comment,
		}
		if err := recipe.AddReview(review); err != nil {
			return err
		}

		const insert = `
            INSERT INTO reviews (recipe_id, user_id, rating, comment)
            VALUES ($1,$2,$3,$4)
            RETURNING id, created_at
        `
		stored := &recipe.Reviews[len(recipe.Reviews)-1]
		if err := tx.QueryRow(ctx, insert, recipe.ID, params.Author.ID, params.Rating, params.Comment).
			Scan(&stored.ID, &stored.CreatedAt); err != nil {
			return err
		}

		const update = `
            UPDATE recipes
            SET num_reviews = $2, average_rating = $3, updated_at = now()
            WHERE id = $1
            RETURNING updated_at
        `
		return tx.QueryRow(ctx, update, recipe.ID, recipe.NumReviews, recipe.AverageRating).
			Scan(&recipe.UpdatedAt)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, domain.ErrAlreadyReviewed), errors.Is(err, domain.ErrInvalidRating):
			return domain.Recipe{}, err
		case pgErrorCode(err) == pgUniqueViolation:
			return domain.Recipe{}, domain.ErrAlreadyReviewed
		case pgErrorCode(err) == pgForeignKeyViolation:
			return domain.Recipe{}, ErrNotFound
		}
		return domain.Recipe{}, fmt.Errorf("add review: %w", err)
	}
	return recipe, nil
}

func loadReviews(ctx context.Context, q querier, recipeID string) ([]domain.Review, error) {
	const query = `
        SELECT rv.id, rv.user_id, u.username, rv.rating, rv.comment, rv.created_at
        FROM reviews rv
        JOIN users u ON u.id = rv.user_id
        WHERE rv.recipe_id = $1
        ORDER BY rv.created_at ASC, rv.id ASC
    `
	rows, err := q.Query(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		var (
			review domain.Review
			rating int16
		)
		if err := rows.Scan(
			&review.ID,
			&review.Author.ID,
			&review.Author.Username,
			&rating,
			&review.Comment,
			&review.CreatedAt,
		); err != nil {
			return nil, err
		}
		review.Rating = int(rating)
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
