package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Clark-Hu/recipebox/internal/domain"
	"github.com/Clark-Hu/recipebox/internal/repository"
)

// FavoriteStore keeps one document per (user, recipe) pair.
type FavoriteStore struct {
	favorites *mongo.Collection
	recipes   *mongo.Collection
}

var _ repository.FavoriteStore = (*FavoriteStore)(nil)

func (s *FavoriteStore) Add(ctx context.Context, userID, recipeID string) (domain.Favorite, error) {
	uid, ok := parseID(userID)
	if !ok {
		return domain.Favorite{}, repository.ErrNotFound
	}
	rid, ok := parseID(recipeID)
	if !ok {
		return domain.Favorite{}, repository.ErrNotFound
	}

	var recipe recipeDoc
	err := s.recipes.FindOne(ctx, bson.M{"_id": rid}).Decode(&recipe)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Favorite{}, repository.ErrNotFound
	}
	if err != nil {
		return domain.Favorite{}, fmt.Errorf("find recipe: %w", err)
	}

	doc := favoriteDoc{ID: primitive.NewObjectID(), User: uid, Recipe: rid, CreatedAt: now()}
	if _, err := s.favorites.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Favorite{}, repository.ErrDuplicate
		}
		return domain.Favorite{}, fmt.Errorf("insert favorite: %w", err)
	}
	return favoriteJoined{ID: doc.ID, User: uid, CreatedAt: doc.CreatedAt, RecipeDoc: recipe}.toDomain(), nil
}

func (s *FavoriteStore) Remove(ctx context.Context, userID, recipeID string) (bool, error) {
	uid, ok := parseID(userID)
	if !ok {
		return false, nil
	}
	rid, ok := parseID(recipeID)
	if !ok {
		return false, nil
	}
	res, err := s.favorites.DeleteOne(ctx, bson.M{"user": uid, "recipe": rid})
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// ListByUser joins each favorite with its recipe, newest first.
func (s *FavoriteStore) ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	favorites := make([]domain.Favorite, 0)
	uid, ok := parseID(userID)
	if !ok {
		return favorites, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "user", Value: uid}}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: recipesCollection},
			{Key: "localField", Value: "recipe"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "recipeDoc"},
		}}},
		{{Key: "$unwind", Value: "$recipeDoc"}},
		{{Key: "$project", Value: bson.D{{Key: "recipeDoc.reviews", Value: 0}}}},
	}

	cursor, err := s.favorites.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var row favoriteJoined
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		favorites = append(favorites, row.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return favorites, nil
}
