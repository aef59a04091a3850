package domain

import (
	"errors"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	// ErrInvalidRating is returned for ratings outside MinRating..MaxRating.
	ErrInvalidRating = errors.New("domain: rating must be an integer between 1 and 5")
	// ErrAlreadyReviewed is returned when a user reviews the same recipe twice.
	ErrAlreadyReviewed = errors.New("domain: recipe already reviewed")
)

// Review represents a single user's rating and comment on a recipe.
type Review struct {
	ID        string
	Author    UserRef
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// ValidateRating checks the rating bounds.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// HasReviewFrom reports whether userID already reviewed the recipe.
func (r *Recipe) HasReviewFrom(userID string) bool {
	for _, review := range r.Reviews {
		if review.Author.ID == userID {
			return true
		}
	}
	return false
}

// AddReview appends review and refreshes NumReviews and AverageRating.
// The recipe is left untouched when an error is returned.
func (r *Recipe) AddReview(review Review) error {
	if err := ValidateRating(review.Rating); err != nil {
		return err
	}
	if r.HasReviewFrom(review.Author.ID) {
		return ErrAlreadyReviewed
	}
	r.Reviews = append(r.Reviews, review)
	r.RecomputeRatings()
	return nil
}

// RecomputeRatings derives the cached aggregates from the review list.
func (r *Recipe) RecomputeRatings() {
	r.NumReviews = len(r.Reviews)
	r.AverageRating = AverageRating(r.Reviews)
}

// AverageRating is the arithmetic mean of the ratings, or 0 without reviews.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	return float64(sum) / float64(len(reviews))
}
