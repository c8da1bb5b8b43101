package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/appakade/pos-backend/pkg/db/models"
	"github.com/appakade/pos-backend/pkg/enums"
	pkgerrors "github.com/appakade/pos-backend/pkg/errors"
)

// Service exposes the item store operations consumed by the API and the
// checkout engine.
type Service interface {
	Create(ctx context.Context, input CreateItemInput) (*models.Item, error)
	List(ctx context.Context, filter ListFilter) ([]models.Item, error)
	ListLowStock(ctx context.Context) ([]models.Item, error)
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	Update(ctx context.Context, input UpdateItemInput) (*models.Item, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type service struct {
	repo Repository
}

// NewService builds the item service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("items repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (*models.Item, error) {
	item, err := buildItem(input.Name, input.Category, input.Price, input.QuantityInStock, input.LowStockThreshold)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateName(item.Name)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating item")
	}
	return created, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Item, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing items")
	}
	return items, nil
}

func (s *service) ListLowStock(ctx context.Context) ([]models.Item, error) {
	items, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing low stock items")
	}
	return items, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("item %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading item")
	}
	return item, nil
}

func (s *service) Update(ctx context.Context, input UpdateItemInput) (*models.Item, error) {
	if input.ID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	item, err := buildItem(input.Name, input.Category, input.Price, input.QuantityInStock, input.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	item.ID = input.ID

	affected, err := s.repo.Update(ctx, item)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, duplicateName(item.Name)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating item")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("item %d not found", input.ID))
	}
	return item, nil
}

// Delete returns the affected row count. Zero with a nil error means the item
// is referenced by order history and deletion was refused.
func (s *service) Delete(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting item")
	}
	return affected, nil
}

func buildItem(name string, category enums.ItemCategory, price decimal.Decimal, qty int, threshold *int) (*models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown category %q", category))
	}
	if !price.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if qty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
	}

	low := models.DefaultLowStockThreshold
	if threshold != nil {
		if *threshold < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "low stock threshold cannot be negative")
		}
		low = *threshold
	}

	return &models.Item{
		Name:              name,
		Category:          category,
		Price:             price,
		QuantityInStock:   qty,
		LowStockThreshold: low,
	}, nil
}

func duplicateName(name string) error {
	return pkgerrors.New(pkgerrors.CodeDuplicateName, fmt.Sprintf("an item named %q already exists", name)).
		WithDetails(map[string]any{"name": name})
}
