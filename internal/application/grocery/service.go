// Package grocery provides the application layer for grocery lists:
// CRUD, item purchase tracking, generation from planned meals, and
// plain-text export.
package grocery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	householdapp "github.com/mealsync/api/internal/application/household"
	"github.com/mealsync/api/internal/domain/grocery"
	"github.com/mealsync/api/internal/domain/ingredient"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// Service implements grocery list use cases
type Service struct {
	groceryRepo outbound.GroceryListRepository
	mealRepo    outbound.MealRepository
	households  *householdapp.Service
	transactor  outbound.Transactor
	logger      *zap.Logger
}

// NewService creates a new grocery service
func NewService(
	groceryRepo outbound.GroceryListRepository,
	mealRepo outbound.MealRepository,
	households *householdapp.Service,
	transactor outbound.Transactor,
	logger *zap.Logger,
) *Service {
	return &Service{
		groceryRepo: groceryRepo,
		mealRepo:    mealRepo,
		households:  households,
		transactor:  transactor,
		logger:      logger.Named("grocery-service"),
	}
}

// CreateCommand contains grocery list creation data
type CreateCommand struct {
	HouseholdID uuid.UUID
	Name        string
	StartDate   *time.Time
	EndDate     *time.Time
	Items       []ItemInput
}

// ItemInput is one line on a list creation or item-add command.
type ItemInput struct {
	Name         string
	Quantity     float64
	Unit         string
	Category     string
	Notes        string
	IngredientID *uuid.UUID
}

// GenerateCommand asks for a list built from planned meals in a range.
type GenerateCommand struct {
	HouseholdID uuid.UUID
	Name        string
	StartDate   time.Time
	EndDate     time.Time
}

// Create creates a grocery list with optional initial items.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, cmd CreateCommand) (*grocery.GroceryList, error) {
	if err := s.households.RequireMember(ctx, cmd.HouseholdID, userID); err != nil {
		return nil, err
	}

	l := &grocery.GroceryList{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(cmd.Name),
		Status:      grocery.StatusActive,
		StartDate:   cmd.StartDate,
		EndDate:     cmd.EndDate,
		HouseholdID: cmd.HouseholdID,
		CreatedByID: userID,
	}
	for _, in := range cmd.Items {
		l.Items = append(l.Items, s.buildItem(l.ID, in))
	}

	if err := l.Validate(); err != nil {
		return nil, apperrors.NewValidation(err.Error())
	}
	for i := range l.Items {
		if err := l.Items[i].Validate(); err != nil {
			return nil, apperrors.NewValidation(err.Error())
		}
	}

	if err := s.groceryRepo.Create(ctx, l); err != nil {
		return nil, err
	}
	s.logger.Info("grocery list created",
		zap.String("list_id", l.ID.String()),
		zap.Int("items", len(l.Items)),
	)
	return s.groceryRepo.FindByID(ctx, l.ID)
}

// Generate builds a list from planned meals in the date range:
// aggregates the linked recipes' ingredients and merges lines that share
// ingredient and unit.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, cmd GenerateCommand) (*grocery.GroceryList, error) {
	if err := s.households.RequireMember(ctx, cmd.HouseholdID, userID); err != nil {
		return nil, err
	}
	if cmd.EndDate.Before(cmd.StartDate) {
		return nil, apperrors.NewBadRequest("End date must not be before start date")
	}

	meals, err := s.mealRepo.FindByDateRange(ctx, cmd.HouseholdID, cmd.StartDate, cmd.EndDate)
	if err != nil {
		return nil, err
	}

	type mergeKey struct {
		ingredientID uuid.UUID
		unit         ingredient.Unit
	}
	merged := make(map[mergeKey]*grocery.GroceryItem)
	var order []mergeKey

	for _, m := range meals {
		if m.Recipe == nil {
			continue
		}
		// Scale quantities by planned servings over recipe servings.
		scale := 1.0
		if m.Recipe.Servings > 0 && m.Servings > 0 {
			scale = float64(m.Servings) / float64(m.Recipe.Servings)
		}
		for _, ri := range m.Recipe.Ingredients {
			if ri.Ingredient == nil {
				continue
			}
			key := mergeKey{ingredientID: ri.IngredientID, unit: ri.Unit}
			if item, ok := merged[key]; ok {
				item.Quantity += ri.Quantity * scale
				continue
			}
			ingID := ri.IngredientID
			merged[key] = &grocery.GroceryItem{
				ID:           uuid.New(),
				Name:         ri.Ingredient.Name,
				Quantity:     ri.Quantity * scale,
				Unit:         ri.Unit,
				Category:     ri.Ingredient.Category,
				IngredientID: &ingID,
			}
			order = append(order, key)
		}
	}

	if len(order) == 0 {
		return nil, apperrors.NewBadRequest("No planned meals with recipes in the given date range")
	}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		name = fmt.Sprintf("Groceries %s - %s",
			cmd.StartDate.Format("Jan 2"),
			cmd.EndDate.Format("Jan 2"),
		)
	}

	start, end := cmd.StartDate, cmd.EndDate
	l := &grocery.GroceryList{
		ID:          uuid.New(),
		Name:        name,
		Status:      grocery.StatusActive,
		StartDate:   &start,
		EndDate:     &end,
		HouseholdID: cmd.HouseholdID,
		CreatedByID: userID,
	}
	for _, key := range order {
		item := merged[key]
		item.GroceryListID = l.ID
		l.Items = append(l.Items, *item)
	}

	if err := s.groceryRepo.Create(ctx, l); err != nil {
		return nil, err
	}
	s.logger.Info("grocery list generated",
		zap.String("list_id", l.ID.String()),
		zap.Int("meals", len(meals)),
		zap.Int("items", len(l.Items)),
	)
	return s.groceryRepo.FindByID(ctx, l.ID)
}

// Get returns a list after checking household membership.
func (s *Service) Get(ctx context.Context, userID, listID uuid.UUID) (*grocery.GroceryList, error) {
	l, err := s.groceryRepo.FindByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if err := s.households.RequireMember(ctx, l.HouseholdID, userID); err != nil {
		return nil, err
	}
	return l, nil
}

// List returns a page of the household's lists.
func (s *Service) List(ctx context.Context, userID, householdID uuid.UUID, offset, limit int) ([]*grocery.GroceryList, int, error) {
	if err := s.households.RequireMember(ctx, householdID, userID); err != nil {
		return nil, 0, err
	}
	return s.groceryRepo.FindByHousehold(ctx, householdID, offset, limit)
}

// Update renames a list or changes its status and date range.
func (s *Service) Update(ctx context.Context, userID, listID uuid.UUID, name *string, status *string, startDate, endDate *time.Time) (*grocery.GroceryList, error) {
	l, err := s.Get(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		l.Name = strings.TrimSpace(*name)
	}
	if status != nil {
		l.Status = grocery.Status(*status)
	}
	if startDate != nil {
		l.StartDate = startDate
	}
	if endDate != nil {
		l.EndDate = endDate
	}

	if err := l.Validate(); err != nil {
		return nil, apperrors.NewValidation(err.Error())
	}
	if err := s.groceryRepo.Update(ctx, l); err != nil {
		return nil, err
	}
	return s.groceryRepo.FindByID(ctx, listID)
}

// Delete removes a list and its items.
func (s *Service) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, listID); err != nil {
		return err
	}
	return s.groceryRepo.Delete(ctx, listID)
}

// AddItem appends an item to a list.
func (s *Service) AddItem(ctx context.Context, userID, listID uuid.UUID, in ItemInput) (*grocery.GroceryItem, error) {
	if _, err := s.Get(ctx, userID, listID); err != nil {
		return nil, err
	}

	item := s.buildItem(listID, in)
	if err := item.Validate(); err != nil {
		return nil, apperrors.NewValidation(err.Error())
	}
	if err := s.groceryRepo.CreateItem(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem applies partial changes to an item.
func (s *Service) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, name *string, quantity *float64, unit, category, notes *string) (*grocery.GroceryItem, error) {
	item, err := s.getItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		item.Name = strings.TrimSpace(*name)
	}
	if quantity != nil {
		item.Quantity = *quantity
	}
	if unit != nil {
		item.Unit = ingredient.ParseUnit(*unit)
	}
	if category != nil {
		item.Category = ingredient.ParseCategory(*category)
	}
	if notes != nil {
		item.Notes = strings.TrimSpace(*notes)
	}

	if err := item.Validate(); err != nil {
		return nil, apperrors.NewValidation(err.Error())
	}
	if err := s.groceryRepo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// TogglePurchase marks an item purchased or clears the purchase record.
func (s *Service) TogglePurchase(ctx context.Context, userID, itemID uuid.UUID, purchased bool) (*grocery.GroceryItem, error) {
	item, err := s.getItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if purchased {
		item.MarkPurchased(userID, time.Now())
	} else {
		item.MarkUnpurchased()
	}
	if err := s.groceryRepo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item from its list.
func (s *Service) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	if _, err := s.getItem(ctx, userID, itemID); err != nil {
		return err
	}
	return s.groceryRepo.DeleteItem(ctx, itemID)
}

// ClearPurchased removes every purchased item from the list in one
// transaction.
func (s *Service) ClearPurchased(ctx context.Context, userID, listID uuid.UUID) (int, error) {
	l, err := s.Get(ctx, userID, listID)
	if err != nil {
		return 0, err
	}

	removed := 0
	err = s.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		for i := range l.Items {
			if !l.Items[i].IsPurchased {
				continue
			}
			if err := s.groceryRepo.DeleteItem(txCtx, l.Items[i].ID); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// Export renders the list as plain text grouped by category.
func (s *Service) Export(ctx context.Context, userID, listID uuid.UUID) (string, error) {
	l, err := s.Get(ctx, userID, listID)
	if err != nil {
		return "", err
	}
	return l.ExportText(), nil
}

func (s *Service) buildItem(listID uuid.UUID, in ItemInput) grocery.GroceryItem {
	item := grocery.GroceryItem{
		ID:            uuid.New(),
		GroceryListID: listID,
		Name:          strings.TrimSpace(in.Name),
		Quantity:      in.Quantity,
		Unit:          ingredient.ParseUnit(in.Unit),
		Category:      ingredient.ParseCategory(in.Category),
		Notes:         strings.TrimSpace(in.Notes),
		IngredientID:  in.IngredientID,
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	return item
}

func (s *Service) getItem(ctx context.Context, userID, itemID uuid.UUID) (*grocery.GroceryItem, error) {
	item, err := s.groceryRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, userID, item.GroceryListID); err != nil {
		return nil, err
	}
	return item, nil
}
