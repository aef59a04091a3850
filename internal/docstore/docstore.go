// Package docstore implements the repository interfaces on MongoDB. Recipes
// embed their reviews and an owner snapshot; favorites live in their own
// collection with a unique (user, recipe) index.
package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Clark-Hu/recipebox/internal/repository"
)

const (
	usersCollection     = "users"
	recipesCollection   = "recipes"
	favoritesCollection = "favorites"
)

// Options controls the client connection.
type Options struct {
	ConnTimeout time.Duration
	MaxPoolSize uint64
	Logger      zerolog.Logger
}

// Store owns the Mongo client and the selected database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger zerolog.Logger
	opts   Options
}

// Connect dials MongoDB and verifies connectivity with Ping.
func Connect(ctx context.Context, uri, database string, opts Options) (*Store, error) {
	logger := opts.Logger.With().Str("component", "docstore").Logger()

	connCtx := ctx
	if opts.ConnTimeout > 0 {
		var cancel context.CancelFunc
		connCtx, cancel = context.WithTimeout(ctx, opts.ConnTimeout)
		defer cancel()
	}

	clientOpts := options.Client().ApplyURI(uri)
	if opts.MaxPoolSize > 0 {
		clientOpts.SetMaxPoolSize(opts.MaxPoolSize)
	}

	client, err := mongo.Connect(connCtx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Info().Str("database", database).Msg("connected to MongoDB")
	return &Store{client: client, db: client.Database(database), logger: logger, opts: opts}, nil
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		recipesCollection: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "owner.id", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}},
			{Keys: bson.D{{Key: "averageRating", Value: -1}}},
		},
		favoritesCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "recipe", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "recipe", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	s.logger.Info().Msg("indexes ensured")
	return nil
}

// HealthCheck pings the primary.
func (s *Store) HealthCheck(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("docstore not initialized")
	}
	checkCtx := ctx
	if s.opts.ConnTimeout > 0 {
		var cancel context.CancelFunc
		checkCtx, cancel = context.WithTimeout(ctx, s.opts.ConnTimeout)
		defer cancel()
	}
	return s.client.Ping(checkCtx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close() {
	if s == nil || s.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		s.logger.Error().Err(err).Msg("disconnect mongo")
		return
	}
	s.logger.Info().Msg("disconnected from MongoDB")
}

// Database exposes the underlying database handle.
func (s *Store) Database() *mongo.Database {
	return s.db
}

// NewRepository wires the Mongo-backed stores into a repository.Repository.
func NewRepository(db *mongo.Database) *repository.Repository {
	recipes := &RecipeStore{
		recipes:   db.Collection(recipesCollection),
		favorites: db.Collection(favoritesCollection),
	}
	return &repository.Repository{
		Recipes: recipes,
		Users:   &UserStore{users: db.Collection(usersCollection)},
		Favorites: &FavoriteStore{
			favorites: db.Collection(favoritesCollection),
			recipes:   db.Collection(recipesCollection),
		},
	}
}
