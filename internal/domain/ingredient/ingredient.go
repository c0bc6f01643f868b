// Package ingredient contains the household ingredient inventory domain.
// Ingredients are scoped to a household and shared across its recipes,
// meals, and grocery lists.
package ingredient

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category organizes ingredients for shopping and matching.
type Category string

const (
	CategoryProduce   Category = "produce"
	CategoryMeat      Category = "meat"
	CategorySeafood   Category = "seafood"
	CategoryDairy     Category = "dairy"
	CategoryBakery    Category = "bakery"
	CategoryPantry    Category = "pantry"
	CategorySpices    Category = "spices"
	CategoryBeverages Category = "beverages"
	CategoryFrozen    Category = "frozen"
	CategorySnacks    Category = "snacks"
	CategoryOther     Category = "other"
)

// Valid reports whether the category is a known value.
func (c Category) Valid() bool {
	switch c {
	case CategoryProduce, CategoryMeat, CategorySeafood, CategoryDairy,
		CategoryBakery, CategoryPantry, CategorySpices, CategoryBeverages,
		CategoryFrozen, CategorySnacks, CategoryOther:
		return true
	}
	return false
}

// Categories returns every category in display order, with other last.
func Categories() []Category {
	return []Category{
		CategoryProduce, CategoryMeat, CategorySeafood, CategoryDairy,
		CategoryBakery, CategoryPantry, CategorySpices, CategoryBeverages,
		CategoryFrozen, CategorySnacks, CategoryOther,
	}
}

// ParseCategory maps a free-form string to a Category, defaulting to other.
func ParseCategory(s string) Category {
	c := Category(s)
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// Unit is a unit of measurement for quantities.
type Unit string

const (
	// Weight
	UnitGram     Unit = "gram"
	UnitKilogram Unit = "kilogram"
	UnitOunce    Unit = "ounce"
	UnitPound    Unit = "pound"

	// Volume
	UnitMilliliter Unit = "milliliter"
	UnitLiter      Unit = "liter"
	UnitTeaspoon   Unit = "teaspoon"
	UnitTablespoon Unit = "tablespoon"
	UnitCup        Unit = "cup"
	UnitPint       Unit = "pint"
	UnitQuart      Unit = "quart"
	UnitGallon     Unit = "gallon"

	// Count
	UnitPiece   Unit = "piece"
	UnitSlice   Unit = "slice"
	UnitClove   Unit = "clove"
	UnitPackage Unit = "package"
	UnitCan     Unit = "can"
	UnitBunch   Unit = "bunch"

	// Other
	UnitToTaste  Unit = "to_taste"
	UnitAsNeeded Unit = "as_needed"
)

// Valid reports whether the unit is a known value.
func (u Unit) Valid() bool {
	switch u {
	case UnitGram, UnitKilogram, UnitOunce, UnitPound,
		UnitMilliliter, UnitLiter, UnitTeaspoon, UnitTablespoon,
		UnitCup, UnitPint, UnitQuart, UnitGallon,
		UnitPiece, UnitSlice, UnitClove, UnitPackage, UnitCan, UnitBunch,
		UnitToTaste, UnitAsNeeded:
		return true
	}
	return false
}

// ParseUnit maps a free-form string to a Unit, defaulting to piece. The
// lenient default keeps AI output usable when the model invents a unit.
func ParseUnit(s string) Unit {
	u := Unit(s)
	if u.Valid() {
		return u
	}
	return UnitPiece
}

// Ingredient is a household-scoped inventory entry.
type Ingredient struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(200);not null;index" json:"name"`
	Category    Category  `gorm:"type:varchar(20);default:'other'" json:"category"`
	Description string    `gorm:"type:varchar(500)" json:"description,omitempty"`

	// Optional cost estimation data.
	AveragePrice *float64 `gorm:"type:decimal(10,2)" json:"average_price,omitempty"`
	PriceUnit    *Unit    `gorm:"type:varchar(20)" json:"price_unit,omitempty"`

	HouseholdID uuid.UUID `gorm:"type:char(36);not null;index" json:"household_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns an ID when none is set.
func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName sets the table name.
func (Ingredient) TableName() string {
	return "ingredients"
}

// Validate checks the ingredient's own invariants.
func (i *Ingredient) Validate() error {
	if len(i.Name) == 0 {
		return ErrNameRequired
	}
	if len(i.Name) > 200 {
		return ErrNameTooLong
	}
	if !i.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}
