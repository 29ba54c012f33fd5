package sales

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kiranapos/backend/pkg/db/models"
	"github.com/kiranapos/backend/pkg/sequence"
)

// Repository encapsulates sale persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a sales repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository view bound to the transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create allocates the next padded sale id and inserts the sale with its
// lines. Runs inside the checkout transaction.
func (r *Repository) Create(ctx context.Context, sale *models.Sale) error {
	id, err := sequence.Next(r.db.WithContext(ctx), "sales", "id")
	if err != nil {
		return err
	}
	sale.ID = id
	for i := range sale.Lines {
		sale.Lines[i].SaleID = id
	}
	return r.db.WithContext(ctx).Create(sale).Error
}

// FindByID loads one sale with its lines.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Preload("Lines", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		First(&sale, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// List returns sales newest first, narrowed by the filter.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Sale, error) {
	query := r.db.WithContext(ctx).Model(&models.Sale{})

	if !filter.From.IsZero() {
		query = query.Where("date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("date <= ?", filter.To)
	}
	if trimmed := strings.TrimSpace(filter.SoldBy); trimmed != "" {
		query = query.Where("sold_by = ?", trimmed)
	}
	if trimmed := strings.TrimSpace(filter.Customer); trimmed != "" {
		like := "%" + strings.ToLower(trimmed) + "%"
		query = query.Where("LOWER(customer_name) LIKE ? OR customer_phone = ?", like, trimmed)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	var records []models.Sale
	err := query.Order("date DESC").Order("id DESC").Limit(limit).Find(&records).Error
	return records, err
}

// UpdateLineEffectiveTotal shrinks a line's post-refund total.
func (r *Repository) UpdateLineEffectiveTotal(ctx context.Context, lineID uint, total decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.SaleLine{}).
		Where("id = ?", lineID).
		UpdateColumn("effective_total", total).
		Error
}

// UpdateGrandTotal replaces the sale's grand total.
func (r *Repository) UpdateGrandTotal(ctx context.Context, saleID string, total decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ?", saleID).
		UpdateColumn("grand_total", total).
		Error
}

// SumRefundedQuantity totals prior refunds for one sale line's product.
func (r *Repository) SumRefundedQuantity(ctx context.Context, saleID, productID string) (int, error) {
	var total *int
	err := r.db.WithContext(ctx).
		Model(&models.ReturnEntry{}).
		Select("SUM(quantity)").
		Where("sale_id = ? AND product_id = ?", saleID, productID).
		Scan(&total).
		Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

// RecentSince lists sales on or after the cutoff, for the returns screen.
func (r *Repository) RecentSince(ctx context.Context, cutoff time.Time) ([]models.Sale, error) {
	var records []models.Sale
	err := r.db.WithContext(ctx).
		Where("date >= ?", cutoff).
		Order("date DESC").
		Order("id DESC").
		Find(&records).
		Error
	return records, err
}
