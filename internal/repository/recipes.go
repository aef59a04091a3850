package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/recipebox/internal/domain"
)

// RecipesRepository provides persistence helpers for recipe entities.
type RecipesRepository struct {
	pool *pgxpool.Pool
}

const recipeColumns = `
    r.id,
    r.user_id,
    u.username,
    r.title,
    r.description,
    r.ingredients,
    r.steps,
    r.image,
    r.category,
    r.num_reviews,
    r.average_rating,
    r.created_at,
    r.updated_at
`

const summaryColumns = `
    r.id,
    r.user_id,
    u.username,
    r.title,
    r.description,
    r.image,
    r.category,
    r.num_reviews,
    r.average_rating,
    r.created_at
`

const recipeFrom = ` FROM recipes r JOIN users u ON u.id = r.user_id`

// Create inserts a new recipe row and returns the stored entity.
func (r *RecipesRepository) Create(ctx context.Context, params RecipeCreateParams) (domain.Recipe, error) {
	if !validID(params.Owner.ID) {
		return domain.Recipe{}, ErrNotFound
	}

	query := fmt.Sprintf(`
        WITH r AS (
            INSERT INTO recipes (user_id, title, description, ingredients, steps, image, category)
            VALUES ($1,$2,$3,$4,$5,$6,$7)
            RETURNING *
        )
        SELECT %s FROM r JOIN users u ON u.id = r.user_id
    `, recipeColumns)

	row := r.pool.QueryRow(ctx, query,
		params.Owner.ID,
		params.Title,
		params.Description,
		nonNil(params.Ingredients),
		nonNil(params.Steps),
		params.Image,
		string(params.Category),
	)
	recipe, err := scanRecipe(row)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return domain.Recipe{}, ErrNotFound
		}
		return domain.Recipe{}, fmt.Errorf("insert recipe: %w", err)
	}
	return recipe, nil
}

// GetByID fetches a recipe and its reviews.
func (r *RecipesRepository) GetByID(ctx context.Context, id string) (domain.Recipe, error) {
	if !validID(id) {
		return domain.Recipe{}, ErrNotFound
	}
	return getRecipe(ctx, r.pool, id, false)
}

// Update overwrites the editable fields of a recipe.
func (r *RecipesRepository) Update(ctx context.Context, params RecipeUpdateParams) (domain.Recipe, error) {
	if !validID(params.ID) {
		return domain.Recipe{}, ErrNotFound
	}

	query := fmt.Sprintf(`
        WITH r AS (
            UPDATE recipes
            SET title = $2,
                description = $3,
                ingredients = $4,
                steps = $5,
                image = $6,
                category = $7,
                updated_at = now()
            WHERE id = $1
            RETURNING *
        )
        SELECT %s FROM r JOIN users u ON u.id = r.user_id
    `, recipeColumns)

	row := r.pool.QueryRow(ctx, query,
		params.ID,
		params.Title,
		params.Description,
		nonNil(params.Ingredients),
		nonNil(params.Steps),
		params.Image,
		string(params.Category),
	)
	recipe, err := scanRecipe(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Recipe{}, ErrNotFound
		}
		return domain.Recipe{}, fmt.Errorf("update recipe: %w", err)
	}

	reviews, err := loadReviews(ctx, r.pool, recipe.ID)
	if err != nil {
		return domain.Recipe{}, err
	}
	recipe.Reviews = reviews
	return recipe, nil
}

// Delete removes a recipe; reviews and favorites go with it via ON DELETE CASCADE.
func (r *RecipesRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of recipe summaries matching the filters.
func (r *RecipesRepository) List(ctx context.Context, filters RecipeListFilters) (RecipeListResult, error) {
	filters = filters.Normalize()
	result := RecipeListResult{Items: make([]domain.RecipeSummary, 0), Page: filters.Page}

	if filters.OwnerID != "" && !validID(filters.OwnerID) {
		return result, nil
	}

	where, args := buildRecipeWhere(filters)

	countQuery := "SELECT COUNT(*) FROM recipes r" + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&result.Total); err != nil {
		return RecipeListResult{}, fmt.Errorf("count recipes: %w", err)
	}
	result.Pages = PageCount(result.Total)
	if result.Total == 0 {
		return result, nil
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString("SELECT ")
	queryBuilder.WriteString(summaryColumns)
	queryBuilder.WriteString(recipeFrom)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(" ORDER BY ")
	queryBuilder.WriteString(recipeOrderBy(filters.SortBy))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT %d OFFSET %d", PageSize, filters.Offset()))

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return RecipeListResult{}, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return RecipeListResult{}, err
		}
		result.Items = append(result.Items, summary)
	}
	if err := rows.Err(); err != nil {
		return RecipeListResult{}, err
	}
	return result, nil
}

// buildRecipeWhere renders the WHERE clause for filters, which must already
// be normalized. Keyword matching is literal and case-insensitive on the
// title or any single ingredient.
func buildRecipeWhere(filters RecipeListFilters) (string, []interface{}) {
	where := make([]string, 0)
	args := make([]interface{}, 0)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if kw := strings.TrimSpace(filters.Keyword); kw != "" {
		p := arg("%" + escapeLike(kw) + "%")
		where = append(where, fmt.Sprintf(
			"(r.title ILIKE %s OR EXISTS (SELECT 1 FROM unnest(r.ingredients) AS ing WHERE ing ILIKE %s))", p, p))
	}
	if filters.Category != "" {
		where = append(where, fmt.Sprintf("r.category = %s", arg(filters.Category)))
	}
	if filters.OwnerID != "" {
		where = append(where, fmt.Sprintf("r.user_id = %s", arg(filters.OwnerID)))
	}

	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func recipeOrderBy(sortBy string) string {
	switch sortBy {
	case SortTopRated:
		return "r.average_rating DESC, r.created_at ASC, r.id ASC"
	case SortMostRecent:
		return "r.created_at DESC, r.id DESC"
	default:
		return "r.created_at ASC, r.id ASC"
	}
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// getRecipe loads a recipe with its reviews; forUpdate locks the recipe row.
func getRecipe(ctx context.Context, q querier, id string, forUpdate bool) (domain.Recipe, error) {
	query := "SELECT " + recipeColumns + recipeFrom + " WHERE r.id = $1"
	if forUpdate {
		query += " FOR UPDATE OF r"
	}

	recipe, err := scanRecipe(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Recipe{}, ErrNotFound
		}
		return domain.Recipe{}, fmt.Errorf("get recipe: %w", err)
	}

	reviews, err := loadReviews(ctx, q, id)
	if err != nil {
		return domain.Recipe{}, err
	}
	recipe.Reviews = reviews
	return recipe, nil
}

func scanRecipe(row pgx.Row) (domain.Recipe, error) {
	var (
		recipe   domain.Recipe
		category string
	)

	err := row.Scan(
		&recipe.ID,
		&recipe.Owner.ID,
		&recipe.Owner.Username,
		&recipe.Title,
		&recipe.Description,
		&recipe.Ingredients,
		&recipe.Steps,
		&recipe.Image,
		&category,
		&recipe.NumReviews,
		&recipe.AverageRating,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		return domain.Recipe{}, err
	}

	recipe.Category = domain.Category(category)
	recipe.Reviews = make([]domain.Review, 0)
	return recipe, nil
}

func scanSummary(row pgx.Row) (domain.RecipeSummary, error) {
	var (
		summary  domain.RecipeSummary
		category string
	)
	err := row.Scan(
		&summary.ID,
		&summary.Owner.ID,
		&summary.Owner.Username,
		&summary.Title,
		&summary.Description,
		&summary.Image,
		&category,
		&summary.NumReviews,
		&summary.AverageRating,
		&summary.CreatedAt,
	)
	if err != nil {
		return domain.RecipeSummary{}, err
	}
	summary.Category = domain.Category(category)
	return summary, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
