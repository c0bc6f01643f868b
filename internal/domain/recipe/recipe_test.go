package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealsync/api/internal/domain/ingredient"
)

func intp(v int) *int { return &v }

func TestTotalTimeMinutes(t *testing.T) {
	r := Recipe{}
	assert.Nil(t, r.TotalTimeMinutes())

	r.PrepTimeMinutes = intp(15)
	assert.Nil(t, r.TotalTimeMinutes(), "needs both prep and cook time")

	r.CookTimeMinutes = intp(30)
	require.NotNil(t, r.TotalTimeMinutes())
	assert.Equal(t, 45, *r.TotalTimeMinutes())
}

func TestParseCuisine(t *testing.T) {
	assert.Equal(t, CuisineThai, ParseCuisine("thai"))
	assert.Equal(t, CuisineMiddleEastern, ParseCuisine("middle_eastern"))
	assert.Equal(t, CuisineOther, ParseCuisine("klingon"))
	assert.Equal(t, CuisineOther, ParseCuisine(""))
}

func TestValidate(t *testing.T) {
	valid := Recipe{
		Name:         "Pancakes",
		Instructions: "Mix. Fry. Flip.",
		Servings:     4,
	}
	require.NoError(t, valid.Validate())

	t.Run("NameRequired", func(t *testing.T) {
		r := valid
		r.Name = ""
		assert.ErrorIs(t, r.Validate(), ErrNameRequired)
	})

	t.Run("InstructionsRequired", func(t *testing.T) {
		r := valid
		r.Instructions = ""
		assert.ErrorIs(t, r.Validate(), ErrInstructionsRequired)
	})

	t.Run("InvalidServings", func(t *testing.T) {
		r := valid
		r.Servings = 0
		assert.ErrorIs(t, r.Validate(), ErrInvalidServings)
	})

	t.Run("InvalidDifficulty", func(t *testing.T) {
		r := valid
		d := Difficulty("impossible")
		r.Difficulty = &d
		assert.ErrorIs(t, r.Validate(), ErrInvalidDifficulty)
	})

	t.Run("IngredientLinks", func(t *testing.T) {
		r := valid
		r.Ingredients = []RecipeIngredient{
			{Quantity: 200, Unit: ingredient.UnitGram},
			{Quantity: 0, Unit: ingredient.UnitGram},
		}
		assert.ErrorIs(t, r.Validate(), ErrInvalidQuantity)

		r.Ingredients[1].Quantity = 1
		r.Ingredients[1].Unit = "handful"
		assert.ErrorIs(t, r.Validate(), ingredient.ErrInvalidUnit)

		r.Ingredients[1].Unit = ingredient.UnitCup
		assert.NoError(t, r.Validate())
	})
}
