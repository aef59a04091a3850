package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req recipeRefRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	fav, err := s.favorites.Add(r.Context(), currentUserID(r), req.RecipeID)
	if err != nil {
		s.respondServiceError(w, r, err, "add favorite")
		return
	}
	s.respondJSON(w, http.StatusCreated, toFavoriteResponse(fav))
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if err := s.favorites.Remove(r.Context(), currentUserID(r), chi.URLParam(r, "recipeId")); err != nil {
		s.respondServiceError(w, r, err, "remove favorite")
		return
	}
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Removed from favorites"})
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := s.favorites.List(r.Context(), currentUserID(r))
	if err != nil {
		s.respondServiceError(w, r, err, "list favorites")
		return
	}

	items := make([]favoriteResponse, 0, len(favorites))
	for _, fav := range favorites {
		items = append(items, toFavoriteResponse(fav))
	}
	s.respondJSON(w, http.StatusOK, favoriteListResponse{Favorites: items})
}
