package httpserver

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/recipebox/internal/domain"
	"github.com/Clark-Hu/recipebox/internal/export"
	"github.com/Clark-Hu/recipebox/internal/repository"
	"github.com/Clark-Hu/recipebox/internal/service"
)

const maxKeywordLength = 200

type recipeCreateRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Ingredients []string `json:"ingredients" validate:"max=100,dive,required,max=300"`
	Steps       []string `json:"steps" validate:"max=100,dive,required,max=2000"`
	Image       string   `json:"image" validate:"omitempty,url,max=2048"`
	Category    string   `json:"category" validate:"required,category"`
}

func (r *recipeCreateRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Image = strings.TrimSpace(r.Image)
	r.Category = strings.TrimSpace(r.Category)
	r.Ingredients = trimAll(r.Ingredients)
	r.Steps = trimAll(r.Steps)
}

func (r *recipeCreateRequest) input() service.RecipeInput {
	return service.RecipeInput{
		Title:       r.Title,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		Image:       r.Image,
		Category:    domain.Category(r.Category),
	}
}

// recipeUpdateRequest mirrors create, but every field is optional.
type recipeUpdateRequest struct {
	Title       string   `json:"title" validate:"max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Ingredients []string `json:"ingredients" validate:"max=100,dive,required,max=300"`
	Steps       []string `json:"steps" validate:"max=100,dive,required,max=2000"`
	Image       string   `json:"image" validate:"omitempty,url,max=2048"`
	Category    string   `json:"category" validate:"omitempty,category"`
}

func (r *recipeUpdateRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Image = strings.TrimSpace(r.Image)
	r.Category = strings.TrimSpace(r.Category)
	r.Ingredients = trimAll(r.Ingredients)
	r.Steps = trimAll(r.Steps)
}

func (r *recipeUpdateRequest) input() service.RecipeInput {
	return service.RecipeInput{
		Title:       r.Title,
		Description: r.Description,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		Image:       r.Image,
		Category:    domain.Category(r.Category),
	}
}

// reviewRequest takes the rating as a JSON number so fractional values
// surface as a validation error rather than a decode failure.
type reviewRequest struct {
	Rating  float64 `json:"rating" validate:"required,min=1,max=5"`
	Comment string  `json:"comment" validate:"max=2000"`
}

func (r *reviewRequest) normalize() {
	r.Comment = strings.TrimSpace(r.Comment)
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	filters, err := buildRecipeFilters(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	result, err := s.recipes.List(r.Context(), filters)
	if err != nil {
		s.respondServiceError(w, r, err, "list recipes")
		return
	}

	items := make([]recipeSummaryResponse, 0, len(result.Items))
	for _, summary := range result.Items {
		items = append(items, toRecipeSummaryResponse(summary))
	}
	s.respondJSON(w, http.StatusOK, recipeListResponse{
		Recipes: items,
		Page:    result.Page,
		Pages:   result.Pages,
		Total:   result.Total,
	})
}

// buildRecipeFilters reads keyword, category, user, sortBy and pageNumber.
// A missing or unparsable page falls back to the first page.
func buildRecipeFilters(query url.Values) (repository.RecipeListFilters, error) {
	var filters repository.RecipeListFilters

	filters.Keyword = strings.TrimSpace(query.Get("keyword"))
	if len(filters.Keyword) > maxKeywordLength {
		return filters, fmt.Errorf("keyword must be at most %d characters", maxKeywordLength)
	}

	if val := strings.TrimSpace(query.Get("category")); val != "" && val != domain.CategoryAll {
		if _, ok := domain.ParseCategory(val); !ok {
			return filters, fmt.Errorf("invalid category value")
		}
		filters.Category = val
	}

	filters.OwnerID = strings.TrimSpace(query.Get("user"))

	switch val := strings.TrimSpace(query.Get("sortBy")); val {
	case repository.SortTopRated, repository.SortMostRecent:
		filters.SortBy = val
	}

	filters.Page = 1
	if val := strings.TrimSpace(query.Get("pageNumber")); val != "" {
		if page, err := strconv.Atoi(val); err == nil && page > 0 {
			filters.Page = min(page, repository.MaxPage)
		}
	}
	return filters, nil
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.recipes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, r, err, "fetch recipe")
		return
	}
	s.respondJSON(w, http.StatusOK, toRecipeResponse(recipe))
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeCreateRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	recipe, err := s.recipes.Create(r.Context(), currentUserID(r), req.input())
	if err != nil {
		s.respondServiceError(w, r, err, "create recipe")
		return
	}

	w.Header().Set("Location", "/api/recipes/"+url.PathEscape(recipe.ID))
	s.respondJSON(w, http.StatusCreated, toRecipeResponse(recipe))
}

func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeUpdateRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	recipe, err := s.recipes.Update(r.Context(), currentUserID(r), chi.URLParam(r, "id"), req.input())
	if err != nil {
		s.respondServiceError(w, r, err, "update recipe")
		return
	}
	s.respondJSON(w, http.StatusOK, toRecipeResponse(recipe))
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.recipes.Delete(r.Context(), currentUserID(r), chi.URLParam(r, "id")); err != nil {
		s.respondServiceError(w, r, err, "delete recipe")
		return
	}
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Recipe removed"})
}

func (s *Server) handleAddReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	if req.Rating != math.Trunc(req.Rating) {
		s.respondServiceError(w, r, domain.ErrInvalidRating, "add review")
		return
	}

	recipe, err := s.recipes.AddReview(r.Context(), currentUserID(r), chi.URLParam(r, "id"), int(req.Rating), req.Comment)
	if err != nil {
		s.respondServiceError(w, r, err, "add review")
		return
	}
	s.respondJSON(w, http.StatusCreated, reviewCreatedResponse{
		Message:       "Review added",
		NumReviews:    recipe.NumReviews,
		AverageRating: recipe.AverageRating,
	})
}

func (s *Server) handleRecipePDF(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.recipes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, r, err, "export recipe")
		return
	}

	var buf bytes.Buffer
	if err := export.RecipePDF(&buf, &recipe); err != nil {
		s.respondServiceError(w, r, err, "export recipe")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(recipe.ID)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}
