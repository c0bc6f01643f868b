// Package ingredient provides the application layer for the household
// ingredient inventory.
package ingredient

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealsync/api/internal/domain/ingredient"
	householdapp "github.com/mealsync/api/internal/application/household"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// Service implements ingredient use cases
type Service struct {
	ingredientRepo outbound.IngredientRepository
	households     *householdapp.Service
	logger         *zap.Logger
}

// NewService creates a new ingredient service
func NewService(
	ingredientRepo outbound.IngredientRepository,
	households *householdapp.Service,
	logger *zap.Logger,
) *Service {
	return &Service{
		ingredientRepo: ingredientRepo,
		households:     households,
		logger:         logger.Named("ingredient-service"),
	}
}

// CreateCommand contains ingredient creation data
type CreateCommand struct {
	HouseholdID  uuid.UUID
	Name         string
	Category     string
	Description  string
	AveragePrice *float64
	PriceUnit    *string
}

// UpdateCommand contains partial ingredient changes. Nil pointers leave
// the current value untouched.
type UpdateCommand struct {
	Name         *string
	Category     *string
	Description  *string
	AveragePrice *float64
	PriceUnit    *string
}

// Create adds an ingredient to the household inventory.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, cmd CreateCommand) (*ingredient.Ingredient, error) {
	if err := s.households.RequireMember(ctx, cmd.HouseholdID, userID); err != nil {
		return nil, err
	}

	ing := &ingredient.Ingredient{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(cmd.Name),
		Category:     ingredient.ParseCategory(cmd.Category),
		Description:  strings.TrimSpace(cmd.Description),
		AveragePrice: cmd.AveragePrice,
		HouseholdID:  cmd.HouseholdID,
	}
	if cmd.PriceUnit != nil {
		u := ingredient.ParseUnit(*cmd.PriceUnit)
		ing.PriceUnit = &u
	}

	if err := ing.Validate(); err != nil {
		return nil, apperrors.NewValidation(err.Error())
	}
	if err := s.ingredientRepo.Create(ctx, ing); err != nil {
		return nil, err
	}

	s.logger.Info("ingredient created",
		zap.String("ingredient_id", ing.ID.String()),
		zap.String("household_id", cmd.HouseholdID.String()),
	)
	return ing, nil
}

// Get returns an ingredient after checking household membership.
func (s *Service) Get(ctx context.Context, userID, ingredientID uuid.UUID) (*ingredient.Ingredient, error) {
	ing, err := s.ingredientRepo.FindByID(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	if err := s.households.RequireMember(ctx, ing.HouseholdID, userID); err != nil {
		return nil, err
	}
	return ing, nil
}

// List returns a filtered page of the household inventory.
func (s *Service) List(ctx context.Context, userID, householdID uuid.UUID, filter outbound.IngredientFilter) ([]*ingredient.Ingredient, int, error) {
	if err := s.households.RequireMember(ctx, householdID, userID); err != nil {
		return nil, 0, err
	}
	return s.ingredientRepo.FindByHousehold(ctx, householdID, filter)
}

// Update applies partial changes to an ingredient.
func (s *Service) Update(ctx context.Context, userID, ingredientID uuid.UUID, cmd UpdateCommand) (*ingredient.Ingredient, error) {
	ing, err := s.ingredientRepo.FindByID(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	if err := s.households.RequireMember(ctx, ing.HouseholdID, userID); err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		ing.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Category != nil {
		ing.Category = ingredient.ParseCategory(*cmd.Category)
	}
	if cmd.Description != nil {
		ing.Description = strings.TrimSpace(*cmd.Description)
	}
	if cmd.AveragePrice != nil {
		ing.AveragePrice = cmd.AveragePrice
	}
	if cmd.PriceUnit != nil {
		u := ingredient.ParseUnit(*cmd.PriceUnit)
		ing.PriceUnit = &u
	}

	if err := ing.Validate(); err != nil {
		return nil, apperrors.NewValidation(err.Error())
	}
	if err := s.ingredientRepo.Update(ctx, ing); err != nil {
		return nil, err
	}
	return ing, nil
}

// Delete removes an ingredient from the inventory.
func (s *Service) Delete(ctx context.Context, userID, ingredientID uuid.UUID) error {
	ing, err := s.ingredientRepo.FindByID(ctx, ingredientID)
	if err != nil {
		return err
	}
	if err := s.households.RequireMember(ctx, ing.HouseholdID, userID); err != nil {
		return err
	}
	return s.ingredientRepo.Delete(ctx, ingredientID)
}
