// Command seed loads a JSON fixture of recipes into the configured store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/Clark-Hu/recipebox/internal/auth"
	"github.com/Clark-Hu/recipebox/internal/backend"
	"github.com/Clark-Hu/recipebox/internal/config"
	"github.com/Clark-Hu/recipebox/internal/domain"
	"github.com/Clark-Hu/recipebox/internal/logging"
	"github.com/Clark-Hu/recipebox/internal/repository"
	"github.com/Clark-Hu/recipebox/internal/service"
)

const reviewerEmailDomain = "seed.recipebox.local"

func main() {
	var (
		data     = flag.String("data", "db/seed/recipes.json", "path to the recipe fixture")
		email    = flag.String("email", "chef@"+reviewerEmailDomain, "seed owner email")
		username = flag.String("username", "seedchef", "seed owner username")
		password = flag.String("password", "changeme123", "password for seeded accounts")
		reviews  = flag.Bool("reviews", true, "also add the fixture's sample reviews")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger := logging.WithComponent("seed")

	fx, err := loadFixture(*data)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *data).Msg("invalid fixture")
	}

	be, err := backend.Open(ctx, cfg, logging.Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("open store")
	}
	defer be.Close()

	s := &seeder{
		accounts: service.NewAccounts(be.Repo.Users, be.Repo.Favorites, auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)),
		recipes:  service.NewRecipes(be.Repo.Recipes, be.Repo.Users),
		password: *password,
		logger:   logger,
	}
	if err := s.run(ctx, fx, *username, *email, *reviews); err != nil {
		logger.Error().Err(err).Msg("seeding failed")
		be.Close()
		os.Exit(1)
	}
}

type seeder struct {
	accounts *service.Accounts
	recipes  *service.Recipes
	password string
	logger   zerolog.Logger
}

func (s *seeder) run(ctx context.Context, fx fixture, username, email string, withReviews bool) error {
	owner, err := s.ensureUser(ctx, username, email)
	if err != nil {
		return fmt.Errorf("seed owner: %w", err)
	}

	existing, err := s.ownedTitles(ctx, owner.ID)
	if err != nil {
		return err
	}

	created, skipped := 0, 0
	for _, entry := range fx.Recipes {
		if existing[strings.ToLower(entry.Title)] {
			skipped++
			continue
		}
		recipe, err := s.recipes.Create(ctx, owner.ID, entry.input())
		if err != nil {
			return fmt.Errorf("create %q: %w", entry.Title, err)
		}
		created++

		if !withReviews {
			continue
		}
		for _, review := range entry.Reviews {
			reviewer, err := s.ensureUser(ctx, review.Username, review.Username+"@"+reviewerEmailDomain)
			if err != nil {
				return fmt.Errorf("seed reviewer %s: %w", review.Username, err)
			}
			_, err = s.recipes.AddReview(ctx, reviewer.ID, recipe.ID, review.Rating, review.Comment)
			if err != nil && !errors.Is(err, domain.ErrAlreadyReviewed) {
				return fmt.Errorf("review %q by %s: %w", entry.Title, review.Username, err)
			}
		}
	}

	s.logger.Info().Int("created", created).Int("skipped", skipped).Str("owner", owner.Username).Msg("seed complete")
	return nil
}

// ensureUser logs in with the seed password, registering the account first
// when it does not exist yet.
func (s *seeder) ensureUser(ctx context.Context, username, email string) (domain.User, error) {
	session, err := s.accounts.Login(ctx, email, s.password)
	if err == nil {
		return session.User, nil
	}
	if !errors.Is(err, service.ErrInvalidCredentials) {
		return domain.User{}, err
	}
	session, err = s.accounts.Register(ctx, service.RegisterInput{Username: username, Email: email, Password: s.password})
	if err != nil {
		return domain.User{}, err
	}
	s.logger.Info().Str("username", username).Msg("registered seed account")
	return session.User, nil
}

func (s *seeder) ownedTitles(ctx context.Context, ownerID string) (map[string]bool, error) {
	titles := make(map[string]bool)
	for page := 1; ; page++ {
		result, err := s.recipes.List(ctx, repository.RecipeListFilters{OwnerID: ownerID, Page: page})
		if err != nil {
			return nil, fmt.Errorf("list existing recipes: %w", err)
		}
		for _, item := range result.Items {
			titles[strings.ToLower(item.Title)] = true
		}
		if page >= result.Pages {
			return titles, nil
		}
	}
}
