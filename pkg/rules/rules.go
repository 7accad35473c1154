// Package rules holds the business-rule constants and checks applied
// before any write. Every bound lives here; handlers never re-declare them.
package rules

import (
	"errors"
	"strings"
)

const (
	MinPublishedYear = 1000
	MaxPublishedYear = 2024

	MinRating = 1
	MaxRating = 5

	// Reviews one user may hold against one book.
	MaxReviewsPerBook = 3

	MinRecentLimit     = 1
	MaxRecentLimit     = 50
	DefaultRecentLimit = 10

	// Fine accrued per day a loan stays out past its due date.
	FineDailyRate = 0.50
)

// Languages a book may be catalogued in, as two-letter codes.
var Languages = []string{"es", "en", "fr", "de", "it", "pt"}

var allowedLanguages = func() map[string]bool {
	m := make(map[string]bool, len(Languages))
	for _, l := range Languages {
		m[l] = true
	}
	return m
}()

var (
	ErrLanguage      = errors.New("language must be one of " + strings.Join(Languages, ","))
	ErrNewStock      = errors.New("stock must be greater than 0")
	ErrStock         = errors.New("stock cannot be negative")
	ErrPublishedYear = errors.New("publication year must be between 1000 and 2024")
	ErrRating        = errors.New("rating must be between 1 and 5")
	ErrReviewLimit   = errors.New("user already has 3 reviews for this book")
	ErrRecentLimit   = errors.New("limit must be between 1 and 50")
	ErrCategories    = errors.New("one or more categories do not exist")
)

func ValidateLanguage(language string) error {
	if !allowedLanguages[language] {
		return ErrLanguage
	}
	return nil
}

// ValidateNewStock applies the creation bound: stock must be positive.
func ValidateNewStock(stock int) error {
	if stock <= 0 {
		return ErrNewStock
	}
	return nil
}

// ValidateStock applies the update bound: stock may drop to zero but not below.
func ValidateStock(stock int) error {
	if stock < 0 {
		return ErrStock
	}
	return nil
}

func ValidatePublishedYear(year int) error {
	if year < MinPublishedYear || year > MaxPublishedYear {
		return ErrPublishedYear
	}
	return nil
}

func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return ErrRating
	}
	return nil
}

// ValidateReviewCount checks the existing review count for a (user, book)
// pair before another insert is allowed.
func ValidateReviewCount(existing int64) error {
	if existing >= MaxReviewsPerBook {
		return ErrReviewLimit
	}
	return nil
}

func ValidateRecentLimit(limit int) error {
	if limit < MinRecentLimit || limit > MaxRecentLimit {
		return ErrRecentLimit
	}
	return nil
}
