package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealsync/api/internal/domain/grocery"
	"github.com/mealsync/api/internal/ports/outbound"
	apperrors "github.com/mealsync/api/pkg/errors"
)

// GroceryListRepository implements the grocery list repository interface using GORM
type GroceryListRepository struct {
	db *gorm.DB
}

// NewGroceryListRepository creates a new grocery list repository
func NewGroceryListRepository(db *gorm.DB) outbound.GroceryListRepository {
	return &GroceryListRepository{db: db}
}

// Create creates a new grocery list with its items
func (r *GroceryListRepository) Create(ctx context.Context, l *grocery.GroceryList) error {
	if err := dbFromContext(ctx, r.db).Create(l).Error; err != nil {
		return apperrors.NewDatabase("create grocery list", err)
	}
	return nil
}

// Update saves all scalar fields of an existing list
func (r *GroceryListRepository) Update(ctx context.Context, l *grocery.GroceryList) error {
	result := dbFromContext(ctx, r.db).Omit("Items").Save(l)
	if result.Error != nil {
		return apperrors.NewDatabase("update grocery list", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("grocery list")
	}
	return nil
}

// Delete removes a grocery list and its items
func (r *GroceryListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)

	if err := db.Delete(&grocery.GroceryItem{}, "grocery_list_id = ?", id).Error; err != nil {
		return apperrors.NewDatabase("delete grocery items", err)
	}

	result := db.Delete(&grocery.GroceryList{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.NewDatabase("delete grocery list", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("grocery list")
	}
	return nil
}

// FindByID finds a grocery list by ID with items preloaded
func (r *GroceryListRepository) FindByID(ctx context.Context, id uuid.UUID) (*grocery.GroceryList, error) {
	var l grocery.GroceryList
	err := dbFromContext(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("grocery_items.category ASC, grocery_items.name ASC")
		}).
		Preload("Items.Ingredient").
		First(&l, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("grocery list")
		}
		return nil, apperrors.NewDatabase("find grocery list", err)
	}
	return &l, nil
}

// FindByHousehold returns a paginated page of the household's lists
func (r *GroceryListRepository) FindByHousehold(ctx context.Context, householdID uuid.UUID, offset, limit int) ([]*grocery.GroceryList, int, error) {
	db := dbFromContext(ctx, r.db).
		Model(&grocery.GroceryList{}).
		Where("household_id = ?", householdID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewDatabase("count grocery lists", err)
	}

	var lists []*grocery.GroceryList
	err := db.
		Preload("Items").
		Order("created_at DESC").
		Scopes(paginate(offset, limit)).
		Find(&lists).Error
	if err != nil {
		return nil, 0, apperrors.NewDatabase("list grocery lists", err)
	}
	return lists, int(total), nil
}

// FindRecentByHousehold returns the newest lists with items preloaded
func (r *GroceryListRepository) FindRecentByHousehold(ctx context.Context, householdID uuid.UUID, limit int) ([]*grocery.GroceryList, error) {
	if limit <= 0 {
		limit = 10
	}
	var lists []*grocery.GroceryList
	err := dbFromContext(ctx, r.db).
		Preload("Items").
		Where("household_id = ?", householdID).
		Order("created_at DESC").
		Limit(limit).
		Find(&lists).Error
	if err != nil {
		return nil, apperrors.NewDatabase("list recent grocery lists", err)
	}
	return lists, nil
}

// CreateItem adds an item to a list
func (r *GroceryListRepository) CreateItem(ctx context.Context, item *grocery.GroceryItem) error {
	if err := dbFromContext(ctx, r.db).Create(item).Error; err != nil {
		return apperrors.NewDatabase("create grocery item", err)
	}
	return nil
}

// UpdateItem saves all fields of an existing item
func (r *GroceryListRepository) UpdateItem(ctx context.Context, item *grocery.GroceryItem) error {
	result := dbFromContext(ctx, r.db).
		Omit("Ingredient", "PurchasedBy").
		Save(item)
	if result.Error != nil {
		return apperrors.NewDatabase("update grocery item", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("grocery item")
	}
	return nil
}

// DeleteItem removes an item by ID
func (r *GroceryListRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	result := dbFromContext(ctx, r.db).Delete(&grocery.GroceryItem{}, "id = ?", itemID)
	if result.Error != nil {
		return apperrors.NewDatabase("delete grocery item", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFound("grocery item")
	}
	return nil
}

// FindItemByID finds a grocery item by ID
func (r *GroceryListRepository) FindItemByID(ctx context.Context, itemID uuid.UUID) (*grocery.GroceryItem, error) {
	var item grocery.GroceryItem
	err := dbFromContext(ctx, r.db).
		Preload("Ingredient").
		First(&item, "id = ?", itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("grocery item")
		}
		return nil, apperrors.NewDatabase("find grocery item", err)
	}
	return &item, nil
}
