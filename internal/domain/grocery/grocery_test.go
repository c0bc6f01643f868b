package grocery

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealsync/api/internal/domain/ingredient"
)

func TestListValidate(t *testing.T) {
	l := GroceryList{Name: "Weekly shop"}
	require.NoError(t, l.Validate())

	t.Run("NameRequired", func(t *testing.T) {
		bad := l
		bad.Name = ""
		assert.ErrorIs(t, bad.Validate(), ErrNameRequired)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		bad := l
		bad.Status = "stale"
		assert.ErrorIs(t, bad.Validate(), ErrInvalidStatus)
	})

	t.Run("InvalidDateRange", func(t *testing.T) {
		start := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 0, -1)
		bad := l
		bad.StartDate = &start
		bad.EndDate = &end
		assert.ErrorIs(t, bad.Validate(), ErrInvalidDateRange)
	})
}

func TestItemValidate(t *testing.T) {
	item := GroceryItem{Name: "milk", Quantity: 2, Unit: ingredient.UnitLiter}
	require.NoError(t, item.Validate())

	bad := item
	bad.Quantity = 0
	assert.ErrorIs(t, bad.Validate(), ErrInvalidQuantity)

	bad = item
	bad.Unit = "jug"
	assert.ErrorIs(t, bad.Validate(), ingredient.ErrInvalidUnit)
}

func TestPurchaseTracking(t *testing.T) {
	userID := uuid.New()
	at := time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC)

	item := GroceryItem{Name: "eggs", Quantity: 12, Unit: ingredient.UnitPiece}
	item.MarkPurchased(userID, at)

	assert.True(t, item.IsPurchased)
	require.NotNil(t, item.PurchasedAt)
	assert.Equal(t, at, *item.PurchasedAt)
	require.NotNil(t, item.PurchasedByID)
	assert.Equal(t, userID, *item.PurchasedByID)

	item.MarkUnpurchased()
	assert.False(t, item.IsPurchased)
	assert.Nil(t, item.PurchasedAt)
	assert.Nil(t, item.PurchasedByID)
}

func TestPurchasedCount(t *testing.T) {
	l := GroceryList{
		Items: []GroceryItem{
			{Name: "a", IsPurchased: true},
			{Name: "b"},
			{Name: "c", IsPurchased: true},
		},
	}
	assert.Equal(t, 2, l.PurchasedCount())
}

func TestExportText(t *testing.T) {
	l := GroceryList{
		Name: "Weekend",
		Items: []GroceryItem{
			{Name: "flour", Quantity: 0.5, Unit: ingredient.UnitKilogram, Category: ingredient.CategoryPantry},
			{Name: "apples", Quantity: 6, Unit: ingredient.UnitPiece, Category: ingredient.CategoryProduce, IsPurchased: true},
			{Name: "chicken thighs", Quantity: 800, Unit: ingredient.UnitGram, Category: ingredient.CategoryMeat, Notes: "bone-in"},
		},
	}

	text := l.ExportText()

	assert.Contains(t, text, "Weekend\n=======\n")
	assert.Contains(t, text, "PRODUCE:\n  [x] apples - 6 piece\n")
	assert.Contains(t, text, "MEAT:\n  [ ] chicken thighs - 800 gram (bone-in)\n")
	assert.Contains(t, text, "PANTRY:\n  [ ] flour - 0.5 kilogram\n")

	// Categories come out in store order.
	produce := indexOf(t, text, "PRODUCE:")
	meat := indexOf(t, text, "MEAT:")
	pantry := indexOf(t, text, "PANTRY:")
	assert.Less(t, produce, meat)
	assert.Less(t, meat, pantry)

	assert.NotContains(t, text, "DAIRY:", "empty categories are omitted")
}

func indexOf(t *testing.T, s, sub string) int {
	t.Helper()
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	t.Fatalf("%q not found", sub)
	return -1
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "2", formatQuantity(2))
	assert.Equal(t, "0.5", formatQuantity(0.5))
	assert.Equal(t, "1.25", formatQuantity(1.25))
	assert.Equal(t, "800", formatQuantity(800))
}
