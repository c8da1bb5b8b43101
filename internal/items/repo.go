package items

import (
	"context"

	"gorm.io/gorm"

	"github.com/appakade/pos-backend/pkg/db/models"
)

// Repository defines persistence operations for catalog items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	List(ctx context.Context, filter ListFilter) ([]models.Item, error)
	ListLowStock(ctx context.Context) ([]models.Item, error)
	FindByID(ctx context.Context, id int64) (*models.Item, error)
	FindByName(ctx context.Context, name string) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	DecrementStock(ctx context.Context, id int64, qty int) (int64, error)
}

// ListFilter narrows the catalog listing; zero value returns everything.
type ListFilter struct {
	Search      string
	InStockOnly bool
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// List returns items ordered by name ascending, a fresh snapshot per call.
func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Item, error) {
	query := r.db.WithContext(ctx).Model(&models.Item{})
	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if filter.InStockOnly {
		query = query.Where("quantity_in_stock > 0")
	}

	var items []models.Item
	if err := query.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListLowStock returns items at or below their low-stock threshold.
func (r *repository) ListLowStock(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("quantity_in_stock <= low_stock_threshold").
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByName matches the exact, case-sensitive name.
func (r *repository) FindByName(ctx context.Context, name string) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) Update(ctx context.Context, item *models.Item) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":                item.Name,
			"category":            item.Category,
			"price":               item.Price,
			"quantity_in_stock":   item.QuantityInStock,
			"low_stock_threshold": item.LowStockThreshold,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Delete refuses to remove an item referenced by historical order lines.
// The block surfaces as zero rows affected, not as an error.
func (r *repository) Delete(ctx context.Context, id int64) (int64, error) {
	var refs int64
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("item_id = ?", id).
		Count(&refs).Error
	if err != nil {
		return 0, err
	}
	if refs > 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Item{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DecrementStock subtracts qty guarded against going negative; zero rows
// affected means the live stock no longer covers the request.
func (r *repository) DecrementStock(ctx context.Context, id int64, qty int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND quantity_in_stock >= ?", id, qty).
		Update("quantity_in_stock", gorm.Expr("quantity_in_stock - ?", qty))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
