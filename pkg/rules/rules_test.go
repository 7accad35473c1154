package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLanguage(t *testing.T) {
	for _, lang := range Languages {
		assert.NoError(t, ValidateLanguage(lang))
	}
	assert.Equal(t, ErrLanguage, ValidateLanguage("ru"))
	assert.Equal(t, ErrLanguage, ValidateLanguage(""))
	assert.Equal(t, ErrLanguage, ValidateLanguage("ES"))
}

func TestValidateStockBounds(t *testing.T) {
	assert.Equal(t, ErrNewStock, ValidateNewStock(0))
	assert.Equal(t, ErrNewStock, ValidateNewStock(-5))
	assert.NoError(t, ValidateNewStock(1))

	assert.Equal(t, ErrStock, ValidateStock(-1))
	assert.NoError(t, ValidateStock(0))
	assert.NoError(t, ValidateStock(10))
}

func TestValidatePublishedYear(t *testing.T) {
	cases := []struct {
		year int
		ok   bool
	}{
		{999, false},
		{1000, true},
		{1605, true},
		{2024, true},
		{2025, false},
	}
	for _, tc := range cases {
		err := ValidatePublishedYear(tc.year)
		if tc.ok {
			assert.NoError(t, err, "year %d", tc.year)
		} else {
			assert.Equal(t, ErrPublishedYear, err, "year %d", tc.year)
		}
	}
}

func TestValidateRating(t *testing.T) {
	assert.Equal(t, ErrRating, ValidateRating(0))
	assert.NoError(t, ValidateRating(1))
	assert.NoError(t, ValidateRating(5))
	assert.Equal(t, ErrRating, ValidateRating(6))
}

func TestValidateReviewCount(t *testing.T) {
	assert.NoError(t, ValidateReviewCount(0))
	assert.NoError(t, ValidateReviewCount(2))
	assert.Equal(t, ErrReviewLimit, ValidateReviewCount(3))
	assert.Equal(t, ErrReviewLimit, ValidateReviewCount(7))
}

func TestValidateRecentLimit(t *testing.T) {
	assert.Equal(t, ErrRecentLimit, ValidateRecentLimit(0))
	assert.NoError(t, ValidateRecentLimit(1))
	assert.NoError(t, ValidateRecentLimit(50))
	assert.Equal(t, ErrRecentLimit, ValidateRecentLimit(51))
}

func TestLanguageMessageListsAllCodes(t *testing.T) {
	assert.Equal(t, "language must be one of es,en,fr,de,it,pt", ErrLanguage.Error())
}
