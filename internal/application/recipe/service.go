// Package recipe provides the application layer for recipe management
// and search.
package recipe

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	householdapp "github.com/mealsync/api/internal/application/household"
	"github.com/mealsync/api/internal/domain/ingredient"
	"github.com/mealsync/api/internal/domain/recipe"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// Service implements recipe use cases
type Service struct {
	recipeRepo     outbound.RecipeRepository
	ingredientRepo outbound.IngredientRepository
	households     *householdapp.Service
	transactor     outbound.Transactor
	logger         *zap.Logger
}

// NewService creates a new recipe service
func NewService(
	recipeRepo outbound.RecipeRepository,
	ingredientRepo outbound.IngredientRepository,
	households *householdapp.Service,
	transactor outbound.Transactor,
	logger *zap.Logger,
) *Service {
	return &Service{
		recipeRepo:     recipeRepo,
		ingredientRepo: ingredientRepo,
		households:     households,
		transactor:     transactor,
		logger:         logger.Named("recipe-service"),
	}
}

// IngredientInput is one ingredient line on a recipe command.
type IngredientInput struct {
	IngredientID uuid.UUID
	Quantity     float64
	Unit         string
	Notes        string
	IsOptional   bool
}

// CreateCommand contains recipe creation data
type CreateCommand struct {
	Name               string
	Description        string
	Instructions       string
	PrepTimeMinutes    *int
	CookTimeMinutes    *int
	Servings           int
	Difficulty         *string
	Cuisine            *string
	Tags               string
	CaloriesPerServing *int
	SourceURL          string
	ImageURL           string
	IsPublic           bool
	HouseholdID        *uuid.UUID
	Ingredients        []IngredientInput
}

// UpdateCommand contains partial recipe changes. Nil pointers leave the
// current value untouched; a non-nil Ingredients slice replaces all
// ingredient links.
type UpdateCommand struct {
	Name               *string
	Description        *string
	Instructions       *string
	PrepTimeMinutes    *int
	CookTimeMinutes    *int
	Servings           *int
	Difficulty         *string
	Cuisine            *string
	Tags               *string
	CaloriesPerServing *int
	SourceURL          *string
	ImageURL           *string
	IsPublic           *bool
	Ingredients        []IngredientInput
}

// Create creates a recipe with its ingredient links in one transaction.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, cmd CreateCommand) (*recipe.Recipe, error) {
	if cmd.HouseholdID != nil {
		if err := s.households.RequireMember(ctx, *cmd.HouseholdID, userID); err != nil {
			return nil, err
		}
	}

	rec := &recipe.Recipe{
		ID:                 uuid.New(),
		Name:               strings.TrimSpace(cmd.Name),
		Description:        strings.TrimSpace(cmd.Description),
		Instructions:       cmd.Instructions,
		PrepTimeMinutes:    cmd.PrepTimeMinutes,
		CookTimeMinutes:    cmd.CookTimeMinutes,
		Servings:           cmd.Servings,
		Tags:               cmd.Tags,
		CaloriesPerServing: cmd.CaloriesPerServing,
		SourceURL:          cmd.SourceURL,
		ImageURL:           cmd.ImageURL,
		IsPublic:           cmd.IsPublic,
		HouseholdID:        cmd.HouseholdID,
		CreatedByID:        userID,
	}
	if rec.Servings == 0 {
		rec.Servings = 1
	}
	if cmd.Difficulty != nil {
		d := recipe.Difficulty(*cmd.Difficulty)
		rec.Difficulty = &d
	}
	if cmd.Cuisine != nil {
		c := recipe.ParseCuisine(*cmd.Cuisine)
		rec.Cuisine = &c
	}

	links, err := s.buildIngredientLinks(ctx, rec, cmd.Ingredients)
	if err != nil {
		return nil, err
	}
	rec.Ingredients = links

	if err := rec.Validate(); err != nil {
		return nil, apperrors.NewValidation(err.Error())
	}

	if err := s.recipeRepo.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.Info("recipe created",
		zap.String("recipe_id", rec.ID.String()),
		zap.String("created_by", userID.String()),
	)
	return s.recipeRepo.FindByID(ctx, rec.ID)
}

// Get returns a recipe the user may see.
func (s *Service) Get(ctx context.Context, userID, recipeID uuid.UUID) (*recipe.Recipe, error) {
	rec, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := s.requireVisible(ctx, userID, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Search returns recipes visible to the user matching the criteria.
func (s *Service) Search(ctx context.Context, userID uuid.UUID, criteria outbound.RecipeSearchCriteria) ([]*recipe.Recipe, int, error) {
	households, err := s.households.List(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]uuid.UUID, len(households))
	for i, h := range households {
		ids[i] = h.ID
	}
	return s.recipeRepo.FindVisible(ctx, userID, ids, criteria)
}

// ListByHousehold returns the household's recipes for any member.
func (s *Service) ListByHousehold(ctx context.Context, userID, householdID uuid.UUID) ([]*recipe.Recipe, error) {
	if err := s.households.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	return s.recipeRepo.FindByHousehold(ctx, householdID)
}

// Update applies partial changes to a recipe. Only the creator may edit.
func (s *Service) Update(ctx context.Context, userID, recipeID uuid.UUID, cmd UpdateCommand) (*recipe.Recipe, error) {
	rec, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if rec.CreatedByID != userID {
		return nil, apperrors.NewForbidden("Only the recipe creator can edit it")
	}

	if cmd.Name != nil {
		rec.Name = strings.TrimSpace(*cmd.Name)
	}
	if cmd.Description != nil {
		rec.Description = strings.TrimSpace(*cmd.Description)
	}
	if cmd.Instructions != nil {
		rec.Instructions = *cmd.Instructions
	}
	if cmd.PrepTimeMinutes != nil {
		rec.PrepTimeMinutes = cmd.PrepTimeMinutes
	}
	if cmd.CookTimeMinutes != nil {
		rec.CookTimeMinutes = cmd.CookTimeMinutes
	}
	if cmd.Servings != nil {
		rec.Servings = *cmd.Servings
	}
	if cmd.Difficulty != nil {
		d := recipe.Difficulty(*cmd.Difficulty)
		rec.Difficulty = &d
	}
	if cmd.Cuisine != nil {
		c := recipe.ParseCuisine(*cmd.Cuisine)
		rec.Cuisine = &c
	}
	if cmd.Tags != nil {
		rec.Tags = *cmd.Tags
	}
	if cmd.CaloriesPerServing != nil {
		rec.CaloriesPerServing = cmd.CaloriesPerServing
	}
	if cmd.SourceURL != nil {
		rec.SourceURL = *cmd.SourceURL
	}
	if cmd.ImageURL != nil {
		rec.ImageURL = *cmd.ImageURL
	}
	if cmd.IsPublic != nil {
		rec.IsPublic = *cmd.IsPublic
	}

	var links []recipe.RecipeIngredient
	if cmd.Ingredients != nil {
		links, err = s.buildIngredientLinks(ctx, rec, cmd.Ingredients)
		if err != nil {
			return nil, err
		}
		rec.Ingredients = links
	}

	if err := rec.Validate(); err != nil {
		return nil, apperrors.NewValidation(err.Error())
	}

	err = s.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.recipeRepo.Update(txCtx, rec); err != nil {
			return err
		}
		if cmd.Ingredients != nil {
			return s.recipeRepo.ReplaceIngredients(txCtx, rec.ID, links)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.recipeRepo.FindByID(ctx, recipeID)
}

// Delete removes a recipe. Only the creator may delete.
func (s *Service) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	rec, err := s.recipeRepo.FindByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if rec.CreatedByID != userID {
		return apperrors.NewForbidden("Only the recipe creator can delete it")
	}
	return s.recipeRepo.Delete(ctx, recipeID)
}

// buildIngredientLinks validates each referenced ingredient and its
// household scope, and builds ordered link rows.
func (s *Service) buildIngredientLinks(ctx context.Context, rec *recipe.Recipe, inputs []IngredientInput) ([]recipe.RecipeIngredient, error) {
	links := make([]recipe.RecipeIngredient, 0, len(inputs))
	for i, in := range inputs {
		ing, err := s.ingredientRepo.FindByID(ctx, in.IngredientID)
		if err != nil {
			return nil, apperrors.NewBadRequest("Ingredient " + in.IngredientID.String() + " not found")
		}
		if rec.HouseholdID != nil && ing.HouseholdID != *rec.HouseholdID {
			return nil, apperrors.NewBadRequest("Ingredient " + ing.Name + " doesn't belong to this household")
		}

		links = append(links, recipe.RecipeIngredient{
			ID:           uuid.New(),
			RecipeID:     rec.ID,
			IngredientID: in.IngredientID,
			Quantity:     in.Quantity,
			Unit:         ingredient.ParseUnit(in.Unit),
			Notes:        in.Notes,
			IsOptional:   in.IsOptional,
			Position:     i,
		})
	}
	return links, nil
}

// requireVisible allows the creator, household members, and anyone for
// public recipes.
func (s *Service) requireVisible(ctx context.Context, userID uuid.UUID, rec *recipe.Recipe) error {
	if rec.IsPublic || rec.CreatedByID == userID {
		return nil
	}
	if rec.HouseholdID != nil {
		if err := s.households.RequireMember(ctx, *rec.HouseholdID, userID); err == nil {
			return nil
		}
	}
	return apperrors.NewNotFound("recipe")
}
