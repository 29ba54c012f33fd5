package employees

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kiranapos/backend/pkg/db/models"
	"github.com/kiranapos/backend/pkg/sequence"
)

// Repository encapsulates employee persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an employee repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository view bound to the transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create allocates the next padded id and inserts the employee.
func (r *Repository) Create(ctx context.Context, employee *models.Employee) error {
	id, err := sequence.Next(r.db.WithContext(ctx), "employees", "id")
	if err != nil {
		return err
	}
	employee.ID = id
	return r.db.WithContext(ctx).Create(employee).Error
}

// FindByID loads one employee.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByUsername loads one employee by login name.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).First(&employee, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// List returns all employees ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.Employee, error) {
	var records []models.Employee
	err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error
	return records, err
}

// Count reports the total number of employees.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).Count(&count).Error
	return count, err
}

// TouchLastLogin stamps the successful-login time.
func (r *Repository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).
		Error
}
