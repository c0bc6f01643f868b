package ai

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealsync/api/internal/domain/ingredient"
	"github.com/mealsync/api/internal/domain/recipe"
)

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("Chicken Breast", "chicken breast"))
	assert.Equal(t, 1.0, similarity("  tomato ", "tomato"))
	assert.InDelta(t, 0.875, similarity("tomatoes", "tomatoe"), 0.001)
	assert.Less(t, similarity("salmon", "peanut butter"), 0.3)
	assert.Equal(t, 0.0, similarity("", ""))
	assert.Equal(t, 0.0, similarity("", "tomato"))
	assert.Equal(t, 0.0, similarity("tomato", "   "))
}

func TestSimilarityCountsRunesNotBytes(t *testing.T) {
	// Disjoint two-rune names share no runes at all.
	assert.Equal(t, 0.0, similarity("牛肉", "豆腐"))
	assert.InDelta(t, 0.5, similarity("牛肉", "牛排"), 0.001)
}

func TestMatchIngredient(t *testing.T) {
	chicken := &ingredient.Ingredient{ID: uuid.New(), Name: "chicken breast", Category: ingredient.CategoryMeat}
	tomato := &ingredient.Ingredient{ID: uuid.New(), Name: "tomatoes", Category: ingredient.CategoryProduce}
	inventory := []*ingredient.Ingredient{chicken, tomato}

	t.Run("ExactMatchWins", func(t *testing.T) {
		id, score := matchIngredient("Chicken Breast", inventory, nil)
		assert.Equal(t, chicken.ID, id)
		assert.Equal(t, 1.0, score)
	})

	t.Run("FuzzyMatchAboveThreshold", func(t *testing.T) {
		id, score := matchIngredient("tomatoe", inventory, nil)
		assert.Equal(t, tomato.ID, id)
		assert.GreaterOrEqual(t, score, matchThreshold)
	})

	t.Run("NoMatchBelowThreshold", func(t *testing.T) {
		id, score := matchIngredient("soy sauce", inventory, nil)
		assert.Equal(t, uuid.Nil, id)
		assert.Equal(t, 0.0, score)
	})

	t.Run("CategoryFilterSkipsFuzzyCandidates", func(t *testing.T) {
		meat := ingredient.CategoryMeat
		id, _ := matchIngredient("tomatoe", inventory, &meat)
		assert.Equal(t, uuid.Nil, id)
	})

	t.Run("CategoryFilterDoesNotBlockExactMatch", func(t *testing.T) {
		meat := ingredient.CategoryMeat
		id, score := matchIngredient("tomatoes", inventory, &meat)
		assert.Equal(t, tomato.ID, id)
		assert.Equal(t, 1.0, score)
	})
}

func TestMatchRecipe(t *testing.T) {
	padThai := &recipe.Recipe{ID: uuid.New(), Name: "Pad Thai"}
	carbonara := &recipe.Recipe{ID: uuid.New(), Name: "Spaghetti Carbonara"}
	candidates := []*recipe.Recipe{padThai, carbonara}

	t.Run("CloseNameMatches", func(t *testing.T) {
		got := matchRecipe("pad thai", candidates)
		require.NotNil(t, got)
		assert.Equal(t, padThai.ID, got.ID)
	})

	t.Run("DistantNameDoesNot", func(t *testing.T) {
		assert.Nil(t, matchRecipe("Beef Stew", candidates))
	})

	t.Run("EmptyCandidates", func(t *testing.T) {
		assert.Nil(t, matchRecipe("anything", nil))
	})
}
