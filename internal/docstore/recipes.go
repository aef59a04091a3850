package docstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Clark-Hu/recipebox/internal/domain"
	"github.com/Clark-Hu/recipebox/internal/logging"
	"github.com/Clark-Hu/recipebox/internal/metrics"
	"github.com/Clark-Hu/recipebox/internal/repository"
)

// maxReviewAttempts bounds the compare-and-swap loop in AddReview.
const maxReviewAttempts = 10

var errVersionConflict = errors.New("docstore: recipe version changed")

func reviewBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 3 * time.Second
	return backoff.WithContext(backoff.WithMaxRetries(b, maxReviewAttempts-1), ctx)
}

// RecipeStore keeps recipes with embedded reviews.
type RecipeStore struct {
	recipes   *mongo.Collection
	favorites *mongo.Collection
}

var _ repository.RecipeStore = (*RecipeStore)(nil)

// Create inserts a recipe with zero reviews.
func (s *RecipeStore) Create(ctx context.Context, params repository.RecipeCreateParams) (domain.Recipe, error) {
	ownerID, ok := parseID(params.Owner.ID)
	if !ok {
		return domain.Recipe{}, repository.ErrNotFound
	}

	ts := now()
	doc := recipeDoc{
		ID:          primitive.NewObjectID(),
		Owner:       userRefDoc{ID: ownerID, Username: params.Owner.Username},
		Title:       params.Title,
		Description: params.Description,
		Ingredients: nonNil(params.Ingredients),
		Steps:       nonNil(params.Steps),
		Image:       params.Image,
		Category:    string(params.Category),
		Reviews:     []reviewDoc{},
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if _, err := s.recipes.InsertOne(ctx, doc); err != nil {
		return domain.Recipe{}, fmt.Errorf("insert recipe: %w", err)
	}
	return doc.toDomain(), nil
}

// GetByID fetches a recipe and its reviews.
func (s *RecipeStore) GetByID(ctx context.Context, id string) (domain.Recipe, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return domain.Recipe{}, err
	}
	return doc.toDomain(), nil
}

func (s *RecipeStore) find(ctx context.Context, id string) (recipeDoc, error) {
	oid, ok := parseID(id)
	if !ok {
		return recipeDoc{}, repository.ErrNotFound
	}
	var doc recipeDoc
	if err := s.recipes.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return recipeDoc{}, repository.ErrNotFound
		}
		return recipeDoc{}, fmt.Errorf("find recipe: %w", err)
	}
	return doc, nil
}

// Update overwrites the editable fields and bumps the version.
func (s *RecipeStore) Update(ctx context.Context, params repository.RecipeUpdateParams) (domain.Recipe, error) {
	oid, ok := parseID(params.ID)
	if !ok {
		return domain.Recipe{}, repository.ErrNotFound
	}

	update := bson.M{
		"$set": bson.M{
			"title":       params.Title,
			"description": params.Description,
			"ingredients": nonNil(params.Ingredients),
			"steps":       nonNil(params.Steps),
			"image":       params.Image,
			"category":    string(params.Category),
			"updatedAt":   now(),
		},
		"$inc": bson.M{"version": 1},
	}

	var doc recipeDoc
	err := s.recipes.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Recipe{}, repository.ErrNotFound
		}
		return domain.Recipe{}, fmt.Errorf("update recipe: %w", err)
	}
	return doc.toDomain(), nil
}

// Delete removes the recipe and every favorite pointing at it.
func (s *RecipeStore) Delete(ctx context.Context, id string) error {
	oid, ok := parseID(id)
	if !ok {
		return repository.ErrNotFound
	}
	// Favorites first: a failure here leaves the recipe intact.
	if _, err := s.favorites.DeleteMany(ctx, bson.M{"recipe": oid}); err != nil {
		return fmt.Errorf("delete recipe favorites: %w", err)
	}
	res, err := s.recipes.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns one page of summaries; reviews are projected away.
func (s *RecipeStore) List(ctx context.Context, filters repository.RecipeListFilters) (repository.RecipeListResult, error) {
	filters = filters.Normalize()
	result := repository.RecipeListResult{Items: make([]domain.RecipeSummary, 0), Page: filters.Page}

	filter, ok := recipeFilter(filters)
	if !ok {
		return result, nil
	}

	total, err := s.recipes.CountDocuments(ctx, filter)
	if err != nil {
		return repository.RecipeListResult{}, fmt.Errorf("count recipes: %w", err)
	}
	result.Total = int(total)
	result.Pages = repository.PageCount(result.Total)
	if total == 0 {
		return result, nil
	}

	opts := options.Find().
		SetSort(recipeSort(filters.SortBy)).
		SetSkip(int64(filters.Offset())).
		SetLimit(repository.PageSize).
		SetProjection(bson.M{"reviews": 0})

	cursor, err := s.recipes.Find(ctx, filter, opts)
	if err != nil {
		return repository.RecipeListResult{}, fmt.Errorf("list recipes: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc recipeDoc
		if err := cursor.Decode(&doc); err != nil {
			return repository.RecipeListResult{}, err
		}
		result.Items = append(result.Items, doc.toSummary())
	}
	if err := cursor.Err(); err != nil {
		return repository.RecipeListResult{}, err
	}
	return result, nil
}

// recipeFilter builds the query document. It reports false when the filters
// cannot match anything, such as a malformed owner id.
func recipeFilter(filters repository.RecipeListFilters) (bson.M, bool) {
	filter := bson.M{}
	if kw := strings.TrimSpace(filters.Keyword); kw != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(kw), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"ingredients": pattern},
		}
	}
	if filters.Category != "" {
		filter["category"] = filters.Category
	}
	if filters.OwnerID != "" {
		oid, ok := parseID(filters.OwnerID)
		if !ok {
			return nil, false
		}
		filter["owner.id"] = oid
	}
	return filter, true
}

func recipeSort(sortBy string) bson.D {
	switch sortBy {
	case repository.SortTopRated:
		return bson.D{{Key: "averageRating", Value: -1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	case repository.SortMostRecent:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	}
}

// AddReview applies the review to a fresh read of the recipe and writes it
// back only if the version is unchanged. Lost races are retried after a
// jittered backoff.
func (s *RecipeStore) AddReview(ctx context.Context, params repository.ReviewCreateParams) (domain.Recipe, error) {
	authorID, ok := parseID(params.Author.ID)
	if !ok {
		return domain.Recipe{}, repository.ErrNotFound
	}
	if err := domain.ValidateRating(params.Rating); err != nil {
		return domain.Recipe{}, err
	}

	attempt := 0
	recipe, err := backoff.RetryWithData(func() (domain.Recipe, error) {
		attempt++
		recipe, err := s.tryAddReview(ctx, authorID, params)
		switch {
		case err == nil:
			return recipe, nil
		case errors.Is(err, errVersionConflict):
			metrics.ReviewConflictsTotal.Inc()
			logging.Ctx(ctx).Debug().Str("recipe_id", params.RecipeID).Int("attempt", attempt).Msg("review version conflict")
			return domain.Recipe{}, err
		default:
			return domain.Recipe{}, backoff.Permanent(err)
		}
	}, reviewBackOff(ctx))
	if errors.Is(err, errVersionConflict) {
		logging.Ctx(ctx).Warn().Str("recipe_id", params.RecipeID).Int("attempts", attempt).Msg("review retries exhausted")
		return domain.Recipe{}, repository.ErrConflict
	}
	return recipe, err
}

func (s *RecipeStore) tryAddReview(ctx context.Context, authorID primitive.ObjectID, params repository.ReviewCreateParams) (domain.Recipe, error) {
	doc, err := s.find(ctx, params.RecipeID)
	if err != nil {
		return domain.Recipe{}, err
	}

	stored := reviewDoc{
		ID:        primitive.NewObjectID(),
		Author:    userRefDoc{ID: authorID, Username: params.Author.Username},
		Rating:    params.Rating,
		Comment:   params.Comment,
		CreatedAt: now(),
	}

	recipe := doc.toDomain()
	if err := recipe.AddReview(stored.toDomain()); err != nil {
		return domain.Recipe{}, err
	}
	recipe.UpdatedAt = stored.CreatedAt

	res, err := s.recipes.UpdateOne(ctx,
		bson.M{"_id": doc.ID, "version": doc.Version},
		bson.M{
			"$push": bson.M{"reviews": stored},
			"$set": bson.M{
				"numReviews":    recipe.NumReviews,
				"averageRating": recipe.AverageRating,
				"updatedAt":     recipe.UpdatedAt,
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("add review: %w", err)
	}
	if res.MatchedCount != 1 {
		return domain.Recipe{}, errVersionConflict
	}
	return recipe, nil
}
