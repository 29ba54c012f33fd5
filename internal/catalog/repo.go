package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/kiranapos/backend/pkg/db/models"
	"github.com/kiranapos/backend/pkg/sequence"
)

// Repository encapsulates product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository view bound to the transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create allocates the next padded id and inserts the product.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	id, err := sequence.Next(r.db.WithContext(ctx), "products", "id")
	if err != nil {
		return err
	}
	product.ID = id
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByID loads one product with its supplier.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Supplier").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns products ordered by id, filtered by search and category.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Preload("Supplier")

	if trimmed := strings.TrimSpace(filter.Search); trimmed != "" {
		like := "%" + strings.ToLower(trimmed) + "%"
		query = query.Where("LOWER(name) LIKE ? OR id = ?", like, trimmed)
	}
	if trimmed := strings.TrimSpace(filter.Category); trimmed != "" {
		query = query.Where("category = ?", trimmed)
	}

	var records []models.Product
	if err := query.Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListLowStock returns products at or below their reorder level.
func (r *Repository) ListLowStock(ctx context.Context) ([]models.Product, error) {
	var records []models.Product
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Where("quantity <= reorder_level").
		Order("quantity ASC").
		Find(&records).
		Error
	return records, err
}

// Update persists the full record.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete removes the product row.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// CountSaleLines reports how many committed sale lines reference the product.
func (r *Repository) CountSaleLines(ctx context.Context, productID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SaleLine{}).
		Where("product_id = ?", productID).
		Count(&count).
		Error
	return count, err
}

// ApplyDelta shifts the stored quantity by delta, refusing to take it
// negative. Returns the number of rows changed; zero means the guard fired
// or the product is missing.
func (r *Repository) ApplyDelta(ctx context.Context, productID string, delta int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity + ? >= 0", productID, delta).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	return result.RowsAffected, result.Error
}
