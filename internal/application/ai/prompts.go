package ai

import (
	"fmt"
	"strings"
)

// Prompt builders. Each prompt pins the model to a strict JSON schema so
// extractJSON can parse the response.

func ingredientsPrompt(mealName string, servings int, dietaryRestrictions []string) string {
	restrictions := "None"
	if len(dietaryRestrictions) > 0 {
		restrictions = strings.Join(dietaryRestrictions, ", ")
	}

	return fmt.Sprintf(`You are a culinary expert. Generate a comprehensive ingredient list for %q.

Requirements:
- Servings: %d
- Dietary restrictions: %s
- Format: Return ONLY valid JSON with no additional text or markdown

JSON Schema:
{
  "ingredients": [
    {
      "name": "ingredient name (lowercase)",
      "quantity": number,
      "unit": "gram|kilogram|ounce|pound|milliliter|liter|teaspoon|tablespoon|cup|pint|quart|gallon|piece|slice|clove|package|can|bunch|to_taste|as_needed",
      "category": "produce|meat|seafood|dairy|bakery|pantry|spices|beverages|frozen|snacks|other",
      "notes": "preparation notes (optional)"
    }
  ]
}

Example:
{"ingredients": [{"name": "chicken breast", "quantity": 500, "unit": "gram", "category": "meat", "notes": "boneless, skinless"}]}

Generate ingredients for %s:

note: Return ONLY valid JSON with no additional text or markdown
`, mealName, servings, restrictions, mealName)
}

func recipePrompt(mealName string, ingredientNames []string, servings int, difficulty, cuisine string, maxPrepMinutes *int, dietaryRestrictions []string) string {
	var ingredientSection string
	if len(ingredientNames) > 0 {
		ingredientSection = fmt.Sprintf(`Using these main ingredients:
%s

IMPORTANT: You may suggest additional ingredients needed to complete the recipe (like spices, oils, seasonings, etc.).
Mark user-provided ingredients with is_user_provided=true, and additional ingredients with is_user_provided=false.`,
			strings.Join(ingredientNames, ", "))
	} else {
		ingredientSection = `The user has not provided any specific ingredients.

IMPORTANT: You must suggest ALL ingredients needed for this recipe.
Mark all ingredients with is_user_provided=false since they are all AI-suggested.`
	}

	if difficulty == "" {
		difficulty = "any"
	}
	if cuisine == "" {
		cuisine = "any"
	}
	maxPrep := "no limit"
	if maxPrepMinutes != nil {
		maxPrep = fmt.Sprintf("%d", *maxPrepMinutes)
	}
	restrictions := "None"
	if len(dietaryRestrictions) > 0 {
		restrictions = strings.Join(dietaryRestrictions, ", ")
	}

	return fmt.Sprintf(`You are a culinary expert. Create a detailed recipe for %q.

%s

Requirements:
- Servings: %d
- Difficulty: %s
- Max prep time: %s minutes
- Cuisine type: %s
- Dietary restrictions: %s
- Format: Return ONLY valid JSON with no additional text

JSON Schema:
{
  "name": "recipe name",
  "description": "brief description",
  "instructions": "detailed step-by-step instructions (use \n for line breaks)",
  "prep_time_minutes": number,
  "cook_time_minutes": number,
  "difficulty": "easy|medium|hard",
  "cuisine_type": "italian|chinese|mexican|indian|japanese|american|french|thai|mediterranean|middle_eastern|korean|vietnamese|other",
  "tags": "comma,separated,tags",
  "calories_per_serving": number (estimate),
  "ingredients": [
    {
      "ingredient_name": "ingredient name",
      "quantity": "decimal number (e.g., 0.25, 1.5, 2)",
      "unit": "gram|kilogram|ounce|pound|milliliter|liter|teaspoon|tablespoon|cup|pint|quart|gallon|piece|slice|clove|package|can|bunch|to_taste|as_needed",
      "category": "produce|meat|seafood|dairy|bakery|pantry|spices|beverages|frozen|snacks|other",
      "notes": "preparation notes",
      "is_optional": false,
      "is_user_provided": true if from main ingredients list, false if additional
    }
  ]
}

Generate recipe:

note: Return ONLY valid JSON with no additional text or markdown
`, mealName, ingredientSection, servings, difficulty, maxPrep, cuisine, restrictions)
}

func mealPlanPrompt(days, mealsPerDay int, availableIngredients, pastMeals []string, dietaryPreferences, preferredMealTypes []string, useAvailableOnly bool) string {
	ingredientList := "None"
	if len(availableIngredients) > 0 {
		ingredientList = strings.Join(availableIngredients, ", ")
	}
	preferences := "None"
	if len(dietaryPreferences) > 0 {
		preferences = strings.Join(dietaryPreferences, ", ")
	}
	mealTypes := "breakfast, lunch, dinner"
	if len(preferredMealTypes) > 0 {
		mealTypes = strings.Join(preferredMealTypes, ", ")
	}

	var pastMealsContext string
	if len(pastMeals) > 0 {
		pastMealsContext = fmt.Sprintf(`Past Meals (last 30 days):
%s

IMPORTANT: Use this meal history to:
- Avoid repeating the same meals too frequently
- Maintain variety in meal types and cuisines
- Consider user preferences based on recently planned meals
- Balance the meal plan with different protein sources and cooking styles
`, strings.Join(pastMeals, "\n"))
	} else {
		pastMealsContext = "No past meal history available. Focus on creating a diverse, balanced meal plan.\n"
	}

	constraint := "Can suggest additional ingredients"
	if useAvailableOnly {
		constraint = "Only use available ingredients"
	}

	return fmt.Sprintf(`You are a meal planning expert. Create a %d-day meal plan with %d meals per day.

Available Ingredients:
%s

%s

Requirements:
- Use available ingredients prioritized
- Dietary preferences: %s
- Strict constraint: %s
- Preferred meal types: %s
- Ensure variety and avoid repeating meals from the past 30 days when possible
- Format: Return ONLY valid JSON

JSON Schema:
{
  "meal_plan": [
    {
      "day": 1,
      "meal_type": "breakfast|lunch|dinner|snack",
      "meal_name": "name",
      "description": "brief description",
      "ingredients_used": ["ingredient names from available list"],
      "additional_ingredients_needed": ["ingredient names not in available list"],
      "estimated_prep_time_minutes": minutes,
      "estimated_calories": number
    }
  ]
}

Generate meal plan:

note: Return ONLY valid JSON with no additional text or markdown
`, days, mealsPerDay, ingredientList, pastMealsContext, preferences, constraint, mealTypes)
}
