// Package meal provides the application layer for meal planning: CRUD,
// cooking assignment, status transitions, and calendar views.
package meal

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	householdapp "github.com/mealsync/api/internal/application/household"
	"github.com/mealsync/api/internal/domain/meal"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// Service implements meal planning use cases
type Service struct {
	mealRepo   outbound.MealRepository
	recipeRepo outbound.RecipeRepository
	households *householdapp.Service
	logger     *zap.Logger
}

// NewService creates a new meal service
func NewService(
	mealRepo outbound.MealRepository,
	recipeRepo outbound.RecipeRepository,
	households *householdapp.Service,
	logger *zap.Logger,
) *Service {
	return &Service{
		mealRepo:   mealRepo,
		recipeRepo: recipeRepo,
		households: households,
		logger:     logger.Named("meal-service"),
	}
}

// CreateCommand contains meal creation data
type CreateCommand struct {
	HouseholdID  uuid.UUID
	Name         string
	Notes        string
	MealDate     time.Time
	MealType     string
	Servings     int
	RecipeID     *uuid.UUID
	AssignedToID *uuid.UUID
}

// UpdateCommand contains partial meal changes. Nil pointers leave the
// current value untouched.
type UpdateCommand struct {
	Name     *string
	Notes    *string
	MealDate *time.Time
	MealType *string
	Servings *int
	RecipeID *uuid.UUID
}

// DayPlan groups one day's meals for the calendar view.
type DayPlan struct {
	Date  time.Time    `json:"date"`
	Meals []*meal.Meal `json:"meals"`
}

// Create schedules a meal on the household calendar.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, cmd CreateCommand) (*meal.Meal, error) {
	if err := s.households.RequireMember(ctx, cmd.HouseholdID, userID); err != nil {
		return nil, err
	}

	m := &meal.Meal{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(cmd.Name),
		Notes:       strings.TrimSpace(cmd.Notes),
		MealDate:    cmd.MealDate,
		MealType:    meal.ParseType(cmd.MealType),
		Status:      meal.StatusPlanned,
		Servings:    cmd.Servings,
		HouseholdID: cmd.HouseholdID,
		CreatedByID: userID,
		RecipeID:    cmd.RecipeID,
	}
	if m.Servings == 0 {
		m.Servings = 1
	}

	if cmd.RecipeID != nil {
		if err := s.checkRecipe(ctx, cmd.HouseholdID, *cmd.RecipeID); err != nil {
			return nil, err
		}
	}
	if cmd.AssignedToID != nil {
		if err := s.households.RequireMember(ctx, cmd.HouseholdID, *cmd.AssignedToID); err != nil {
			return nil, apperrors.NewBadRequest("Assignee must be a household member")
		}
		m.AssignedToID = cmd.AssignedToID
	}

	if err := m.Validate(); err != nil {
		return nil, apperrors.NewValidation(err.Error())
	}
	if err := s.mealRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("meal created",
		zap.String("meal_id", m.ID.String()),
		zap.String("household_id", cmd.HouseholdID.String()),
		zap.Time("meal_date", m.MealDate),
	)
	return s.mealRepo.FindByID(ctx, m.ID)
}

// Get returns a meal after checking household membership.
func (s *Service) Get(ctx context.Context, userID, mealID uuid.UUID) (*meal.Meal, error) {
	m, err := s.mealRepo.FindByID(ctx, mealID)
	if err != nil {
		return nil, err
	}
	if err := s.households.RequireMember(ctx, m.HouseholdID, userID); err != nil {
		return nil, err
	}
	return m, nil
}

// List returns a filtered page of household meals.
func (s *Service) List(ctx context.Context, userID, householdID uuid.UUID, filter outbound.MealFilter) ([]*meal.Meal, int, error) {
	if err := s.households.RequireMember(ctx, householdID, userID); err != nil {
		return nil, 0, err
	}
	return s.mealRepo.FindByHousehold(ctx, householdID, filter)
}

// Update applies partial changes to a meal.
func (s *Service) Update(ctx context.Context, userID, mealID uuid.UUID, cmd UpdateCommand) (*meal.Meal, error) {
	m, err := s.Get(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		m.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Notes != nil {
		m.Notes = strings.TrimSpace(*cmd.Notes)
	}
	if cmd.MealDate != nil {
		m.MealDate = *cmd.MealDate
	}
	if cmd.MealType != nil {
		m.MealType = meal.ParseType(*cmd.MealType)
	}
	if cmd.Servings != nil {
		m.Servings = *cmd.Servings
	}
	if cmd.RecipeID != nil {
		if err := s.checkRecipe(ctx, m.HouseholdID, *cmd.RecipeID); err != nil {
			return nil, err
		}
		m.RecipeID = cmd.RecipeID
	}

	if err := m.Validate(); err != nil {
		return nil, apperrors.NewValidation(err.Error())
	}
	if err := s.mealRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.mealRepo.FindByID(ctx, mealID)
}

// Delete removes a meal from the calendar.
func (s *Service) Delete(ctx context.Context, userID, mealID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, mealID); err != nil {
		return err
	}
	return s.mealRepo.Delete(ctx, mealID)
}

// Assign sets a household member as the cook.
func (s *Service) Assign(ctx context.Context, callerID, mealID, assigneeID uuid.UUID) (*meal.Meal, error) {
	m, err := s.Get(ctx, callerID, mealID)
	if err != nil {
		return nil, err
	}
	if err := s.households.RequireMember(ctx, m.HouseholdID, assigneeID); err != nil {
		return nil, apperrors.NewBadRequest("Assignee must be a household member")
	}

	m.Assign(assigneeID)
	if err := s.mealRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.mealRepo.FindByID(ctx, mealID)
}

// Claim assigns the meal to the caller. Fails when someone else already
// claimed it.
func (s *Service) Claim(ctx context.Context, userID, mealID uuid.UUID) (*meal.Meal, error) {
	m, err := s.Get(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}
	if m.AssignedToID != nil && *m.AssignedToID != userID {
		return nil, apperrors.NewConflict("Meal is already assigned to another member")
	}

	m.Assign(userID)
	if err := s.mealRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.mealRepo.FindByID(ctx, mealID)
}

// Unclaim clears the caller's assignment. Only the current assignee may
// unclaim.
func (s *Service) Unclaim(ctx context.Context, userID, mealID uuid.UUID) (*meal.Meal, error) {
	m, err := s.Get(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}
	if !m.IsAssignedTo(userID) {
		return nil, apperrors.NewForbidden("Meal is assigned to another member")
	}

	m.Unassign()
	if err := s.mealRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.mealRepo.FindByID(ctx, mealID)
}

// UpdateStatus moves a meal through its lifecycle.
func (s *Service) UpdateStatus(ctx context.Context, userID, mealID uuid.UUID, status string) (*meal.Meal, error) {
	m, err := s.Get(ctx, userID, mealID)
	if err != nil {
		return nil, err
	}

	next := meal.Status(status)
	if !next.Valid() {
		return nil, apperrors.NewValidation("unknown meal status: " + status)
	}
	if err := m.TransitionTo(next); err != nil {
		return nil, apperrors.NewInvalidTransition(string(m.Status), status)
	}

	if err := s.mealRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return s.mealRepo.FindByID(ctx, mealID)
}

// Week returns the seven days starting at the given date.
func (s *Service) Week(ctx context.Context, userID, householdID uuid.UUID, start time.Time) ([]DayPlan, error) {
	return s.Calendar(ctx, userID, householdID, start, start.AddDate(0, 0, 6))
}

// Calendar returns meals grouped per day over [start, end].
func (s *Service) Calendar(ctx context.Context, userID, householdID uuid.UUID, start, end time.Time) ([]DayPlan, error) {
	if err := s.households.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, apperrors.NewBadRequest("End date must not be before start date")
	}

	meals, err := s.mealRepo.FindByDateRange(ctx, householdID, start, end)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]*meal.Meal)
	for _, m := range meals {
		key := m.MealDate.Format("2006-01-02")
		byDay[key] = append(byDay[key], m)
	}

	var days []DayPlan
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		days = append(days, DayPlan{
			Date:  d,
			Meals: byDay[key],
		})
	}
	return days, nil
}

// checkRecipe verifies the recipe exists and is usable by the household:
// public, household-owned, or unscoped.
func (s *Service) checkRecipe(ctx context.Context, householdID, recipeID uuid.UUID) error {
	rec, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return apperrors.NewBadRequest("Recipe not found")
	}
	if rec.HouseholdID != nil && *rec.HouseholdID != householdID && !rec.IsPublic {
		return apperrors.NewBadRequest("Recipe doesn't belong to this household")
	}
	return nil
}
