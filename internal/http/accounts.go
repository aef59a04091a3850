package httpserver

import (
	"net/http"
	"strings"

	"github.com/Clark-Hu/recipebox/internal/auth"
	"github.com/Clark-Hu/recipebox/internal/service"
)

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func (r *registerRequest) normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *loginRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

type recipeRefRequest struct {
	RecipeID string `json:"recipeId" validate:"required"`
}

func (r *recipeRefRequest) normalize() {
	r.RecipeID = strings.TrimSpace(r.RecipeID)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	session, err := s.accounts.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.respondServiceError(w, r, err, "register user")
		return
	}

	auth.SetSessionCookie(w, session.Token, session.ExpiresAt, s.cfg.Production())
	s.respondJSON(w, http.StatusCreated, toUserResponse(session.User))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	session, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondServiceError(w, r, err, "log in")
		return
	}

	auth.SetSessionCookie(w, session.Token, session.ExpiresAt, s.cfg.Production())
	s.respondJSON(w, http.StatusOK, toUserResponse(session.User))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, s.cfg.Production())
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.accounts.Profile(r.Context(), currentUserID(r))
	if err != nil {
		s.respondServiceError(w, r, err, "load profile")
		return
	}
	s.respondJSON(w, http.StatusOK, toUserResponse(user))
}

// handleAddProfileFavorite is the profile-shaped view of the favorites
// ledger: it answers with the updated profile.
func (s *Server) handleAddProfileFavorite(w http.ResponseWriter, r *http.Request) {
	var req recipeRefRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	userID := currentUserID(r)
	if _, err := s.favorites.Add(r.Context(), userID, req.RecipeID); err != nil {
		s.respondServiceError(w, r, err, "add favorite")
		return
	}
	s.respondProfile(w, r, userID, "Recipe added to favorites")
}

func (s *Server) handleRemoveProfileFavorite(w http.ResponseWriter, r *http.Request) {
	var req recipeRefRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	userID := currentUserID(r)
	if err := s.favorites.Remove(r.Context(), userID, req.RecipeID); err != nil {
		s.respondServiceError(w, r, err, "remove favorite")
		return
	}
	s.respondProfile(w, r, userID, "Recipe removed from favorites")
}

func (s *Server) respondProfile(w http.ResponseWriter, r *http.Request, userID, message string) {
	user, err := s.accounts.Profile(r.Context(), userID)
	if err != nil {
		s.respondServiceError(w, r, err, "load profile")
		return
	}
	s.respondJSON(w, http.StatusOK, profileMessageResponse{Message: message, User: toUserResponse(user)})
}
