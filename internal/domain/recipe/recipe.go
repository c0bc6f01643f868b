// Package recipe contains the recipe domain. A recipe can be personal,
// shared within a household, or public, and links to household
// ingredients through RecipeIngredient rows.
package recipe

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealsync/api/internal/domain/ingredient"
)

// Difficulty classifies how hard a recipe is to cook.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether the difficulty is a known value.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Cuisine classifies a recipe's cuisine.
type Cuisine string

const (
	CuisineItalian       Cuisine = "italian"
	CuisineChinese       Cuisine = "chinese"
	CuisineMexican       Cuisine = "mexican"
	CuisineIndian        Cuisine = "indian"
	CuisineJapanese      Cuisine = "japanese"
	CuisineAmerican      Cuisine = "american"
	CuisineFrench        Cuisine = "french"
	CuisineThai          Cuisine = "thai"
	CuisineMediterranean Cuisine = "mediterranean"
	CuisineMiddleEastern Cuisine = "middle_eastern"
	CuisineKorean        Cuisine = "korean"
	CuisineVietnamese    Cuisine = "vietnamese"
	CuisineOther         Cuisine = "other"
)

// Valid reports whether the cuisine is a known value.
func (c Cuisine) Valid() bool {
	switch c {
	case CuisineItalian, CuisineChinese, CuisineMexican, CuisineIndian,
		CuisineJapanese, CuisineAmerican, CuisineFrench, CuisineThai,
		CuisineMediterranean, CuisineMiddleEastern, CuisineKorean,
		CuisineVietnamese, CuisineOther:
		return true
	}
	return false
}

// ParseCuisine maps a free-form string to a Cuisine, defaulting to other.
func ParseCuisine(s string) Cuisine {
	c := Cuisine(s)
	if c.Valid() {
		return c
	}
	return CuisineOther
}

// Recipe is a stored recipe with its ingredient links.
type Recipe struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(200);not null;index" json:"name"`
	Description  string    `gorm:"type:text" json:"description,omitempty"`
	Instructions string    `gorm:"type:text;not null" json:"instructions"`

	PrepTimeMinutes *int `gorm:"column:prep_time_minutes" json:"prep_time_minutes,omitempty"`
	CookTimeMinutes *int `gorm:"column:cook_time_minutes" json:"cook_time_minutes,omitempty"`
	Servings        int  `gorm:"default:1;not null" json:"servings"`

	Difficulty *Difficulty `gorm:"type:varchar(20)" json:"difficulty,omitempty"`
	Cuisine    *Cuisine    `gorm:"type:varchar(30)" json:"cuisine_type,omitempty"`

	// Comma-separated tags ("quick,weeknight,one-pot").
	Tags string `gorm:"type:varchar(500)" json:"tags,omitempty"`

	CaloriesPerServing *int   `json:"calories_per_serving,omitempty"`
	SourceURL          string `gorm:"type:varchar(500)" json:"source_url,omitempty"`
	ImageURL           string `gorm:"type:varchar(500)" json:"image_url,omitempty"`

	IsPublic bool `gorm:"default:false;not null" json:"is_public"`

	// AI provenance, set when the recipe was generated and saved.
	AIGenerated bool   `gorm:"default:false" json:"ai_generated"`
	AIModel     string `gorm:"type:varchar(100)" json:"ai_model,omitempty"`

	HouseholdID *uuid.UUID `gorm:"type:char(36);index" json:"household_id,omitempty"`
	CreatedByID uuid.UUID  `gorm:"type:char(36);not null;index" json:"created_by_id"`

	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecipeIngredient links a recipe to an ingredient with a quantity.
type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:char(36);not null;index" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:char(36);not null;index" json:"ingredient_id"`

	Quantity   float64         `gorm:"not null" json:"quantity"`
	Unit       ingredient.Unit `gorm:"type:varchar(20);not null" json:"unit"`
	Notes      string          `gorm:"type:varchar(200)" json:"notes,omitempty"`
	IsOptional bool            `gorm:"default:false;not null" json:"is_optional"`
	Position   int             `gorm:"default:0" json:"position"`

	Ingredient *ingredient.Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns an ID when none is set.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate assigns an ID when none is set.
func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// TableName sets the table name.
func (Recipe) TableName() string {
	return "recipes"
}

// TableName sets the table name.
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// TotalTimeMinutes returns prep + cook time when both are known.
func (r *Recipe) TotalTimeMinutes() *int {
	if r.PrepTimeMinutes == nil || r.CookTimeMinutes == nil {
		return nil
	}
	total := *r.PrepTimeMinutes + *r.CookTimeMinutes
	return &total
}

// Validate checks the recipe's own invariants.
func (r *Recipe) Validate() error {
	if len(r.Name) == 0 {
		return ErrNameRequired
	}
	if len(r.Name) > 200 {
		return ErrNameTooLong
	}
	if len(r.Instructions) == 0 {
		return ErrInstructionsRequired
	}
	if r.Servings < 1 {
		return ErrInvalidServings
	}
	if r.Difficulty != nil && !r.Difficulty.Valid() {
		return ErrInvalidDifficulty
	}
	if r.Cuisine != nil && !r.Cuisine.Valid() {
		return ErrInvalidCuisine
	}
	for i := range r.Ingredients {
		if err := r.Ingredients[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the ingredient link's invariants.
func (ri *RecipeIngredient) Validate() error {
	if ri.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !ri.Unit.Valid() {
		return ingredient.ErrInvalidUnit
	}
	return nil
}
