package moderation

import (
	"math"
	"strings"

	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
	"github.com/yigit/placementprep/internal/pkg/validation"
)

// AddHelpfulVote records a helpful vote from email. Each email votes once.
func AddHelpfulVote(c *models.Company, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.FieldError("email", "email is required")
	}
	if c.HasHelpfulVote(email) {
		return apperrors.ErrAlreadyVoted
	}
	c.HelpfulUsers = append(c.HelpfulUsers, email)
	c.HelpfulCount++
	return nil
}

// AddDifficultyRating appends a 1..5 rating and recomputes the mean, which
// is clamped to [0, 5] and rounded to two decimals.
func AddDifficultyRating(c *models.Company, rating int) error {
	check := validation.NewNumericValidation("rating", rating).
		WithRange(validation.RatingMin, validation.RatingMax)
	if msg := check.Check(); msg != "" {
		return apperrors.FieldError("rating", msg)
	}

	c.DifficultyRatings = append(c.DifficultyRatings, rating)
	c.InterviewDifficultyLevel = MeanDifficulty(c.DifficultyRatings)
	c.DifficultyRatingCount++
	return nil
}

// MeanDifficulty averages ratings into the [0, 5] range
func MeanDifficulty(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	mean = math.Max(0, math.Min(float64(validation.RatingMax), mean))
	return math.Round(mean*100) / 100
}
