package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Clark-Hu/recipebox/internal/domain"
	"github.com/Clark-Hu/recipebox/internal/repository"
)

// UserStore keeps accounts; emails are stored lower-cased under a unique index.
type UserStore struct {
	users *mongo.Collection
}

var _ repository.UserStore = (*UserStore)(nil)

func (s *UserStore) Create(ctx context.Context, params repository.UserCreateParams) (domain.User, error) {
	ts := now()
	doc := userDoc{
		ID:           primitive.NewObjectID(),
		Username:     params.Username,
		Email:        strings.ToLower(strings.TrimSpace(params.Email)),
		PasswordHash: params.PasswordHash,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.User{}, repository.ErrDuplicate
		}
		return domain.User{}, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	oid, ok := parseID(id)
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (domain.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, repository.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}
