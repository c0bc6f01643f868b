// Package grocery contains the grocery-list domain. Lists can be built
// by hand or generated from a date range of planned meals; items track
// purchase state per ingredient.
package grocery

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealsync/api/internal/domain/ingredient"
	"github.com/mealsync/api/internal/domain/user"
)

// Status is the grocery list's lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusArchived  Status = "archived"
)

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusArchived:
		return true
	}
	return false
}

// GroceryList is a shopping list scoped to a household.
type GroceryList struct {
	ID   uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name string    `gorm:"type:varchar(200);not null" json:"name"`

	Status Status `gorm:"type:varchar(20);not null;default:active" json:"status"`

	// Date range of the meals the list was generated from, if any.
	StartDate *time.Time `gorm:"type:date" json:"start_date,omitempty"`
	EndDate   *time.Time `gorm:"type:date" json:"end_date,omitempty"`

	HouseholdID uuid.UUID `gorm:"type:char(36);not null;index" json:"household_id"`
	CreatedByID uuid.UUID `gorm:"type:char(36);not null" json:"created_by_id"`

	Items []GroceryItem `gorm:"foreignKey:GroceryListID;constraint:OnDelete:CASCADE" json:"items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroceryItem is a single line on a grocery list.
type GroceryItem struct {
	ID            uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	GroceryListID uuid.UUID `gorm:"type:char(36);not null;index" json:"grocery_list_id"`

	// Name is denormalized from the ingredient so free-form items work too.
	Name     string          `gorm:"type:varchar(200);not null" json:"name"`
	Quantity float64         `gorm:"not null;default:1" json:"quantity"`
	Unit     ingredient.Unit `gorm:"type:varchar(20);not null" json:"unit"`
	Notes    string          `gorm:"type:varchar(200)" json:"notes,omitempty"`

	Category ingredient.Category `gorm:"type:varchar(30);not null;default:other" json:"category"`

	IngredientID *uuid.UUID             `gorm:"type:char(36);index" json:"ingredient_id,omitempty"`
	Ingredient   *ingredient.Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`

	IsPurchased   bool       `gorm:"default:false;not null" json:"is_purchased"`
	PurchasedAt   *time.Time `json:"purchased_at,omitempty"`
	PurchasedByID *uuid.UUID `gorm:"type:char(36)" json:"purchased_by_id,omitempty"`
	PurchasedBy   *user.User `gorm:"foreignKey:PurchasedByID" json:"purchased_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns an ID and default status when none is set.
func (l *GroceryList) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Status == "" {
		l.Status = StatusActive
	}
	return nil
}

// BeforeCreate assigns an ID when none is set.
func (i *GroceryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName sets the table name.
func (GroceryList) TableName() string {
	return "grocery_lists"
}

// TableName sets the table name.
func (GroceryItem) TableName() string {
	return "grocery_items"
}

// Validate checks the list's own invariants.
func (l *GroceryList) Validate() error {
	if l.Name == "" {
		return ErrNameRequired
	}
	if len(l.Name) > 200 {
		return ErrNameTooLong
	}
	if l.Status != "" && !l.Status.Valid() {
		return ErrInvalidStatus
	}
	if l.StartDate != nil && l.EndDate != nil && l.EndDate.Before(*l.StartDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// Validate checks the item's own invariants.
func (i *GroceryItem) Validate() error {
	if i.Name == "" {
		return ErrItemNameRequired
	}
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !i.Unit.Valid() {
		return ingredient.ErrInvalidUnit
	}
	return nil
}

// MarkPurchased records who bought the item and when.
func (i *GroceryItem) MarkPurchased(userID uuid.UUID, at time.Time) {
	i.IsPurchased = true
	i.PurchasedAt = &at
	i.PurchasedByID = &userID
}

// MarkUnpurchased clears the purchase record.
func (i *GroceryItem) MarkUnpurchased() {
	i.IsPurchased = false
	i.PurchasedAt = nil
	i.PurchasedByID = nil
	i.PurchasedBy = nil
}

// PurchasedCount returns how many items on the list have been bought.
func (l *GroceryList) PurchasedCount() int {
	n := 0
	for i := range l.Items {
		if l.Items[i].IsPurchased {
			n++
		}
	}
	return n
}

// ExportText renders the list as plain text grouped by category, with a
// checkbox per item. Purchased items show a checked box.
func (l *GroceryList) ExportText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", l.Name)
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", len(l.Name)))

	byCategory := make(map[ingredient.Category][]*GroceryItem)
	for i := range l.Items {
		item := &l.Items[i]
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	for _, cat := range ingredient.Categories() {
		items, ok := byCategory[cat]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", strings.ToUpper(string(cat)))
		for _, item := range items {
			box := "[ ]"
			if item.IsPurchased {
				box = "[x]"
			}
			fmt.Fprintf(&b, "  %s %s - %s %s", box, item.Name, formatQuantity(item.Quantity), item.Unit)
			if item.Notes != "" {
				fmt.Fprintf(&b, " (%s)", item.Notes)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatQuantity(q float64) string {
	if q == float64(int64(q)) {
		return fmt.Sprintf("%d", int64(q))
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", q), "0"), ".")
}
