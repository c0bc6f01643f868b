package ingredient

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	assert.Equal(t, CategoryProduce, ParseCategory("produce"))
	assert.Equal(t, CategoryOther, ParseCategory("misc"))
	assert.Equal(t, CategoryOther, ParseCategory(""))
}

func TestParseUnit(t *testing.T) {
	assert.Equal(t, UnitGram, ParseUnit("gram"))
	assert.Equal(t, UnitToTaste, ParseUnit("to_taste"))
	// AI output sometimes invents units; fall back to piece.
	assert.Equal(t, UnitPiece, ParseUnit("handful"))
	assert.Equal(t, UnitPiece, ParseUnit(""))
}

func TestCategoriesOrder(t *testing.T) {
	cats := Categories()
	assert.Len(t, cats, 11)
	assert.Equal(t, CategoryProduce, cats[0])
	assert.Equal(t, CategoryOther, cats[len(cats)-1])
}

func TestValidate(t *testing.T) {
	ing := Ingredient{Name: "basil", Category: CategorySpices}
	assert.NoError(t, ing.Validate())

	ing.Name = ""
	assert.ErrorIs(t, ing.Validate(), ErrNameRequired)

	ing.Name = strings.Repeat("x", 201)
	assert.ErrorIs(t, ing.Validate(), ErrNameTooLong)

	ing.Name = "basil"
	ing.Category = "herbs"
	assert.ErrorIs(t, ing.Validate(), ErrInvalidCategory)
}
