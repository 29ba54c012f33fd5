package stocklog

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kiranapos/backend/pkg/db/models"
	"github.com/kiranapos/backend/pkg/enums"
)

// Repository encapsulates the append-only stock audit trail.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a stock log repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository view bound to the transaction handle. Entries
// written by checkout, returns and manual adjustment ride the same
// transaction as the quantity change they describe.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Append inserts one audit entry.
func (r *Repository) Append(ctx context.Context, entry *models.StockLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListFilter narrows List output. Zero values are ignored.
type ListFilter struct {
	ProductID  string
	ChangeType enums.StockChangeType
	From       time.Time
	To         time.Time
	Limit      int
}

// List returns audit entries, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.StockLogEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.StockLogEntry{})

	if trimmed := strings.TrimSpace(filter.ProductID); trimmed != "" {
		query = query.Where("product_id = ?", trimmed)
	}
	if filter.ChangeType != "" {
		query = query.Where("change_type = ?", filter.ChangeType)
	}
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at <= ?", filter.To)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	var entries []models.StockLogEntry
	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
