package customers

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/kiranapos/backend/pkg/db/models"
	"github.com/kiranapos/backend/pkg/sequence"
)

// Repository encapsulates customer persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a customer repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository view bound to the transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create allocates the next padded id and inserts the customer.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	id, err := sequence.Next(r.db.WithContext(ctx), "customers", "id")
	if err != nil {
		return err
	}
	customer.ID = id
	return r.db.WithContext(ctx).Create(customer).Error
}

// FindByID loads one customer.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByPhone loads a customer by exact phone match.
func (r *Repository) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "phone = ?", phone).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// List returns customers ordered by id, optionally filtered by a name or
// phone substring.
func (r *Repository) List(ctx context.Context, search string) ([]models.Customer, error) {
	query := r.db.WithContext(ctx).Model(&models.Customer{})
	if trimmed := strings.TrimSpace(search); trimmed != "" {
		like := "%" + strings.ToLower(trimmed) + "%"
		query = query.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, "%"+trimmed+"%")
	}

	var records []models.Customer
	if err := query.Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
