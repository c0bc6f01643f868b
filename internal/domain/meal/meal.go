// Package meal contains the planned-meal domain. A meal places a recipe
// (or a free-form name) on a household's calendar, optionally assigned
// to a member who will cook it.
package meal

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealsync/api/internal/domain/recipe"
	"github.com/mealsync/api/internal/domain/user"
)

// Type is the meal slot within a day.
type Type string

const (
	TypeBreakfast Type = "breakfast"
	TypeLunch     Type = "lunch"
	TypeDinner    Type = "dinner"
	TypeSnack     Type = "snack"
)

// Valid reports whether the meal type is a known value.
func (t Type) Valid() bool {
	switch t {
	case TypeBreakfast, TypeLunch, TypeDinner, TypeSnack:
		return true
	}
	return false
}

// ParseType maps a free-form string to a Type, defaulting to dinner.
func ParseType(s string) Type {
	t := Type(s)
	if t.Valid() {
		return t
	}
	return TypeDinner
}

// Status is the meal's lifecycle state.
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusPreparing Status = "preparing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusPreparing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may move to next. Meals
// progress planned -> preparing -> completed; any non-terminal state can
// be cancelled; cancelled and completed are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusPlanned:
		return next == StatusPreparing || next == StatusCompleted || next == StatusCancelled
	case StatusPreparing:
		return next == StatusCompleted || next == StatusCancelled
	case StatusCompleted, StatusCancelled:
		return false
	}
	return false
}

// Meal is a planned meal on the household calendar.
type Meal struct {
	ID uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`

	// Name is used when no recipe is linked, or to override the recipe name.
	Name  string `gorm:"type:varchar(200)" json:"name,omitempty"`
	Notes string `gorm:"type:varchar(1000)" json:"notes,omitempty"`

	MealDate time.Time `gorm:"type:date;not null;index" json:"meal_date"`
	MealType Type      `gorm:"type:varchar(20);not null" json:"meal_type"`
	Status   Status    `gorm:"type:varchar(20);not null;default:planned" json:"status"`

	Servings int `gorm:"default:1;not null" json:"servings"`

	HouseholdID uuid.UUID `gorm:"type:char(36);not null;index" json:"household_id"`
	CreatedByID uuid.UUID `gorm:"type:char(36);not null" json:"created_by_id"`

	RecipeID *uuid.UUID     `gorm:"type:char(36);index" json:"recipe_id,omitempty"`
	Recipe   *recipe.Recipe `gorm:"foreignKey:RecipeID" json:"recipe,omitempty"`

	// AssignedToID is the member responsible for cooking, if any.
	AssignedToID *uuid.UUID `gorm:"type:char(36);index" json:"assigned_to_id,omitempty"`
	AssignedTo   *user.User `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns an ID and default status when none is set.
func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = StatusPlanned
	}
	return nil
}

// TableName sets the table name.
func (Meal) TableName() string {
	return "meals"
}

// DisplayName returns the meal name, falling back to the recipe name.
func (m *Meal) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	if m.Recipe != nil {
		return m.Recipe.Name
	}
	return ""
}

// Assign sets the cooking assignment.
func (m *Meal) Assign(userID uuid.UUID) {
	m.AssignedToID = &userID
}

// Unassign clears the cooking assignment.
func (m *Meal) Unassign() {
	m.AssignedToID = nil
	m.AssignedTo = nil
}

// IsAssignedTo reports whether the meal is assigned to the given user.
func (m *Meal) IsAssignedTo(userID uuid.UUID) bool {
	return m.AssignedToID != nil && *m.AssignedToID == userID
}

// TransitionTo moves the meal to the given status, enforcing the
// lifecycle order.
func (m *Meal) TransitionTo(next Status) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if !m.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	m.Status = next
	return nil
}

// Validate checks the meal's own invariants.
func (m *Meal) Validate() error {
	if m.Name == "" && m.RecipeID == nil {
		return ErrNameOrRecipeRequired
	}
	if len(m.Name) > 200 {
		return ErrNameTooLong
	}
	if !m.MealType.Valid() {
		return ErrInvalidType
	}
	if m.Status != "" && !m.Status.Valid() {
		return ErrInvalidStatus
	}
	if m.Servings < 1 {
		return ErrInvalidServings
	}
	if m.MealDate.IsZero() {
		return ErrDateRequired
	}
	return nil
}
