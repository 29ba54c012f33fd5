package suppliers

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/kiranapos/backend/pkg/db/models"
	"github.com/kiranapos/backend/pkg/sequence"
)

// Repository encapsulates supplier persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a supplier repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository view bound to the transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create allocates the next padded id and inserts the supplier.
func (r *Repository) Create(ctx context.Context, supplier *models.Supplier) error {
	id, err := sequence.Next(r.db.WithContext(ctx), "suppliers", "id")
	if err != nil {
		return err
	}
	supplier.ID = id
	return r.db.WithContext(ctx).Create(supplier).Error
}

// FindByID loads one supplier.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// List returns suppliers ordered by id, optionally filtered by a name or
// company substring.
func (r *Repository) List(ctx context.Context, search string) ([]models.Supplier, error) {
	query := r.db.WithContext(ctx).Model(&models.Supplier{})
	if trimmed := strings.TrimSpace(search); trimmed != "" {
		like := "%" + strings.ToLower(trimmed) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(company) LIKE ?", like, like)
	}

	var records []models.Supplier
	if err := query.Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Update persists the full record.
func (r *Repository) Update(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// Delete removes the supplier row.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Supplier{}, "id = ?", id).Error
}

// CountProducts reports how many catalog products reference the supplier.
func (r *Repository) CountProducts(ctx context.Context, supplierID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("supplier_id = ?", supplierID).
		Count(&count).
		Error
	return count, err
}
