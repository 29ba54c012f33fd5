package suppliers

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

// ServiceParams groups dependencies for the supplier service.
type ServiceParams struct {
	Repo *Repository
	DB   txRunner
}

// Service exposes business rules for supplier management.
type Service interface {
	Create(ctx context.Context, input CreateSupplierInput) (SupplierDTO, error)
	Get(ctx context.Context, id string) (SupplierDTO, error)
	List(ctx context.Context, search string) ([]SupplierDTO, error)
	Update(ctx context.Context, id string, input UpdateSupplierInput) (SupplierDTO, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo *Repository
	db   txRunner
}

// NewService builds a supplier service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier repo is required")
	}
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db runner is required")
	}
	return &service{repo: params.Repo, db: params.DB}, nil
}

// Create validates contact fields and inserts a new supplier.
func (s *service) Create(ctx context.Context, input CreateSupplierInput) (SupplierDTO, error) {
	if err := validate.PersonName("supplier name", input.Name); err != nil {
		return SupplierDTO{}, err
	}
	if strings.TrimSpace(input.Company) == "" {
		return SupplierDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "company is required")
	}
	if err := validate.Phone("supplier phone", input.Phone); err != nil {
		return SupplierDTO{}, err
	}
	if err := validate.OptionalEmail("supplier email", input.Email); err != nil {
		return SupplierDTO{}, err
	}

	record := models.Supplier{
		Name:    strings.TrimSpace(input.Name),
		Company: strings.TrimSpace(input.Company),
		Phone:   strings.TrimSpace(input.Phone),
		Email:   optionalString(input.Email),
		Address: optionalString(input.Address),
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, &record)
	})
	if err != nil {
		if conflict := supplierConflict(err); conflict != nil {
			return SupplierDTO{}, conflict
		}
		return SupplierDTO{}, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "creating supplier")
	}

	return toDTO(record), nil
}

// Get loads one supplier.
func (s *service) Get(ctx context.Context, id string) (SupplierDTO, error) {
	record, err := s.loadSupplier(ctx, id)
	if err != nil {
		return SupplierDTO{}, err
	}
	return toDTO(*record), nil
}

// List returns suppliers, optionally matching a name/company search.
func (s *service) List(ctx context.Context, search string) ([]SupplierDTO, error) {
	records, err := s.repo.List(ctx, search)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "listing suppliers")
	}
	dtos := make([]SupplierDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toDTO(record))
	}
	return dtos, nil
}

// Update applies the provided fields, revalidating any contact change.
func (s *service) Update(ctx context.Context, id string, input UpdateSupplierInput) (SupplierDTO, error) {
	record, err := s.loadSupplier(ctx, id)
	if err != nil {
		return SupplierDTO{}, err
	}

	if input.Name != nil {
		if err := validate.PersonName("supplier name", *input.Name); err != nil {
			return SupplierDTO{}, err
		}
		record.Name = strings.TrimSpace(*input.Name)
	}
	if input.Company != nil {
		if strings.TrimSpace(*input.Company) == "" {
			return SupplierDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "company is required")
		}
		record.Company = strings.TrimSpace(*input.Company)
	}
	if input.Phone != nil {
		if err := validate.Phone("supplier phone", *input.Phone); err != nil {
			return SupplierDTO{}, err
		}
		record.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		if err := validate.OptionalEmail("supplier email", *input.Email); err != nil {
			return SupplierDTO{}, err
		}
		record.Email = optionalString(*input.Email)
	}
	if input.Address != nil {
		record.Address = optionalString(*input.Address)
	}

	if err := s.repo.Update(ctx, record); err != nil {
		if conflict := supplierConflict(err); conflict != nil {
			return SupplierDTO{}, conflict
		}
		return SupplierDTO{}, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "updating supplier")
	}
	return toDTO(*record), nil
}

// Delete removes a supplier with no remaining product references.
func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.loadSupplier(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "counting supplier products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "supplier has products in the catalog and cannot be removed")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "deleting supplier")
	}
	return nil
}

func (s *service) loadSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id is required")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	return record, nil
}

func supplierConflict(err error) error {
	switch db.UniqueViolationColumn(err, "email", "phone") {
	case "email":
		return pkgerrors.New(pkgerrors.CodeConflict, "supplier email already registered")
	case "phone":
		return pkgerrors.New(pkgerrors.CodeConflict, "supplier phone already registered")
	}
	return nil
}

func toDTO(record models.Supplier) SupplierDTO {
	return SupplierDTO{
		ID:        record.ID,
		Name:      record.Name,
		Company:   record.Company,
		Phone:     record.Phone,
		Email:     record.Email,
		Address:   record.Address,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
