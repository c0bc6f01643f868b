package ai

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/mealsync/api/internal/domain/ingredient"
	"github.com/mealsync/api/internal/domain/recipe"
)

// matchThreshold is the minimum similarity for a fuzzy match.
const matchThreshold = 0.85

// dedupThreshold is the stricter similarity used when deciding whether
// an ingredient already exists before auto-creating it.
const dedupThreshold = 0.9

// similarity returns a 0..1 ratio based on edit distance, 1 meaning
// identical. Comparison is case-insensitive.
func similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	// ComputeDistance counts runes, so the denominator must too.
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

// matchIngredient finds the household ingredient best matching the
// name. Exact case-insensitive matches win outright; otherwise the best
// fuzzy match at or above the threshold is returned, optionally filtered
// by category. Returns uuid.Nil and 0 when nothing matches.
func matchIngredient(name string, candidates []*ingredient.Ingredient, category *ingredient.Category) (uuid.UUID, float64) {
	for _, c := range candidates {
		if strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(name)) {
			return c.ID, 1.0
		}
	}

	var bestID uuid.UUID
	bestScore := 0.0
	for _, c := range candidates {
		if category != nil && c.Category != *category {
			continue
		}
		score := similarity(name, c.Name)
		if score > bestScore && score >= matchThreshold {
			bestScore = score
			bestID = c.ID
		}
	}
	return bestID, bestScore
}

// matchRecipe finds the household recipe whose name best matches the
// meal name, or nil when no candidate clears the threshold.
func matchRecipe(mealName string, candidates []*recipe.Recipe) *recipe.Recipe {
	var best *recipe.Recipe
	bestScore := 0.0
	for _, c := range candidates {
		score := similarity(mealName, c.Name)
		if score > bestScore && score > matchThreshold {
			bestScore = score
			best = c
		}
	}
	return best
}
