package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Clark-Hu/recipebox/internal/domain"
	"github.com/Clark-Hu/recipebox/internal/service"
)

type fixture struct {
	Recipes []recipeEntry `json:"recipes"`
}

type recipeEntry struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Ingredients []string      `json:"ingredients"`
	Steps       []string      `json:"steps"`
	Image       string        `json:"image"`
	Category    string        `json:"category"`
	Reviews     []reviewEntry `json:"reviews"`
}

type reviewEntry struct {
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

func (e recipeEntry) input() service.RecipeInput {
	return service.RecipeInput{
		Title:       e.Title,
		Description: e.Description,
		Ingredients: e.Ingredients,
		Steps:       e.Steps,
		Image:       e.Image,
		Category:    domain.Category(e.Category),
	}
}

func loadFixture(path string) (fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	return parseFixture(raw)
}

// parseFixture decodes and checks a fixture so a bad file fails before
// anything is written.
func parseFixture(raw []byte) (fixture, error) {
	var f fixture
	if err := json.Unmarshal(raw, &f); err != nil {
		return fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	for i, entry := range f.Recipes {
		if strings.TrimSpace(entry.Title) == "" {
			return fixture{}, fmt.Errorf("recipe %d: title is required", i)
		}
		if _, ok := domain.ParseCategory(entry.Category); !ok {
			return fixture{}, fmt.Errorf("recipe %q: unknown category %q", entry.Title, entry.Category)
		}
		seen := make(map[string]bool)
		for _, review := range entry.Reviews {
			if err := domain.ValidateRating(review.Rating); err != nil {
				return fixture{}, fmt.Errorf("recipe %q: review by %s: %w", entry.Title, review.Username, err)
			}
			if strings.TrimSpace(review.Username) == "" {
				return fixture{}, fmt.Errorf("recipe %q: review without username", entry.Title)
			}
			if seen[review.Username] {
				return fixture{}, fmt.Errorf("recipe %q: %s reviews twice", entry.Title, review.Username)
			}
			seen[review.Username] = true
		}
	}
	return f, nil
}
