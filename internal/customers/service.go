package customers

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/kiranapos/backend/pkg/db"
	"github.com/kiranapos/backend/pkg/db/models"
	pkgerrors "github.com/kiranapos/backend/pkg/errors"
	"github.com/kiranapos/backend/pkg/validate"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the customer service.
type ServiceParams struct {
	Repo *Repository
	DB   txRunner
}

// Service exposes business rules for customer management.
type Service interface {
	Create(ctx context.Context, input CreateCustomerInput) (CustomerDTO, error)
	Get(ctx context.Context, id string) (CustomerDTO, error)
	List(ctx context.Context, search string) ([]CustomerDTO, error)
	FindByPhone(ctx context.Context, phone string) (CustomerDTO, error)
}

type service struct {
	repo *Repository
	db   txRunner
}

// NewService builds a customer service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer repo is required")
	}
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db runner is required")
	}
	return &service{repo: params.Repo, db: params.DB}, nil
}

// Create validates contact fields and inserts a new customer.
func (s *service) Create(ctx context.Context, input CreateCustomerInput) (CustomerDTO, error) {
	record, err := ValidateInput(input)
	if err != nil {
		return CustomerDTO{}, err
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, record)
	})
	if err != nil {
		switch db.UniqueViolationColumn(err, "email", "phone") {
		case "email":
			return CustomerDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "customer email already registered")
		case "phone":
			return CustomerDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "customer phone already registered")
		}
		return CustomerDTO{}, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "creating customer")
	}

	return toDTO(*record), nil
}

// Get loads one customer.
func (s *service) Get(ctx context.Context, id string) (CustomerDTO, error) {
	if strings.TrimSpace(id) == "" {
		return CustomerDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CustomerDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "customer not found")
		}
		return CustomerDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return toDTO(*record), nil
}

// List returns customers, optionally matching a name/phone search.
func (s *service) List(ctx context.Context, search string) ([]CustomerDTO, error) {
	records, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "listing customers")
	}
	dtos := make([]CustomerDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toDTO(record))
	}
	return dtos, nil
}

// FindByPhone resolves a customer by exact phone number.
func (s *service) FindByPhone(ctx context.Context, phone string) (CustomerDTO, error) {
	if err := validate.Phone("customer phone", phone); err != nil {
		return CustomerDTO{}, err
	}
	record, err := s.repo.FindByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CustomerDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "customer not found")
		}
		return CustomerDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return toDTO(*record), nil
}

// ValidateInput normalizes and validates create input into a model. Shared
// with the checkout flow, which creates customers inline.
func ValidateInput(input CreateCustomerInput) (*models.Customer, error) {
	if err := validate.PersonName("customer name", input.Name); err != nil {
		return nil, err
	}
	if err := validate.OptionalPhone("customer phone", input.Phone); err != nil {
		return nil, err
	}
	if err := validate.OptionalEmail("customer email", input.Email); err != nil {
		return nil, err
	}
	return &models.Customer{
		Name:  strings.TrimSpace(input.Name),
		Phone: optionalString(input.Phone),
		Email: optionalString(input.Email),
	}, nil
}

func toDTO(record models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        record.ID,
		Name:      record.Name,
		Phone:     record.Phone,
		Email:     record.Email,
		CreatedAt: record.CreatedAt,
	}
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
