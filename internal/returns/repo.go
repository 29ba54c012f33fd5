package returns

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kiranapos/backend/pkg/db/models"
)

// Repository encapsulates the append-only return ledger.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a returns repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository view bound to the transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts one return entry.
func (r *Repository) Create(ctx context.Context, entry *models.ReturnEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns entries newest first, optionally for one sale.
func (r *Repository) List(ctx context.Context, saleID string, limit int) ([]models.ReturnEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.ReturnEntry{})
	if trimmed := strings.TrimSpace(saleID); trimmed != "" {
		query = query.Where("sale_id = ?", trimmed)
	}
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	var entries []models.ReturnEntry
	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

// EntryDTO is the API shape of one committed return entry.
type EntryDTO struct {
	ID           uint            `json:"id"`
	SaleID       string          `json:"sale_id"`
	ProductID    string          `json:"product_id"`
	Quantity     int             `json:"quantity"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	Reason       string          `json:"reason"`
	ProcessedBy  string          `json:"processed_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toEntryDTO(entry models.ReturnEntry) EntryDTO {
	return EntryDTO{
		ID:           entry.ID,
		SaleID:       entry.SaleID,
		ProductID:    entry.ProductID,
		Quantity:     entry.Quantity,
		RefundAmount: entry.RefundAmount,
		Reason:       entry.Reason,
		ProcessedBy:  entry.ProcessedBy,
		CreatedAt:    entry.CreatedAt,
	}
}
