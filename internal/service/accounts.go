package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Clark-Hu/recipebox/internal/auth"
	"github.com/Clark-Hu/recipebox/internal/domain"
	"github.com/Clark-Hu/recipebox/internal/repository"
)

// Session is an authenticated user plus the token to hand back as a cookie.
type Session struct {
	User      domain.User
	Token     string
	ExpiresAt time.Time
}

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Accounts implements registration, login and the profile view.
type Accounts struct {
	users     repository.UserStore
	favorites repository.FavoriteStore
	tokens    *auth.TokenManager
}

// NewAccounts wires the account use cases.
func NewAccounts(users repository.UserStore, favorites repository.FavoriteStore, tokens *auth.TokenManager) *Accounts {
	return &Accounts{users: users, favorites: favorites, tokens: tokens}
}

// Register creates an account and opens a session for it.
func (s *Accounts) Register(ctx context.Context, in RegisterInput) (Session, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}
	user, err := s.users.Create(ctx, repository.UserCreateParams{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Session{}, ErrUserExists
		}
		return Session{}, err
	}
	return s.open(user)
}

// Login checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Accounts) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}
	return s.open(user)
}

// Profile returns the user with favoriteRecipes resolved, oldest first.
func (s *Accounts) Profile(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, err
	}
	favorites, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("load favorites: %w", err)
	}

	user.FavoriteRecipes = make([]domain.FavoriteRecipe, 0, len(favorites))
	for i := len(favorites) - 1; i >= 0; i-- {
		r := favorites[i].Recipe
		user.FavoriteRecipes = append(user.FavoriteRecipes, domain.FavoriteRecipe{ID: r.ID, Title: r.Title, Image: r.Image})
	}
	return user, nil
}

func (s *Accounts) open(user domain.User) (Session, error) {
	token, expires, err := s.tokens.Issue(user.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, Token: token, ExpiresAt: expires}, nil
}
