package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kiranapos/backend/internal/pricing"
	"github.com/kiranapos/backend/internal/stocklog"
	"github.com/kiranapos/backend/internal/suppliers"
	"github.com/kiranapos/backend/pkg/db/models"
	"github.com/kiranapos/backend/pkg/enums"
	pkgerrors "github.com/kiranapos/backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo         *Repository
	SupplierRepo *suppliers.Repository
	StockLogRepo *stocklog.Repository
	DB           txRunner
}

// Service exposes business rules for catalog management.
type Service interface {
	Create(ctx context.Context, input CreateProductInput) (ProductDTO, error)
	Get(ctx context.Context, id string) (ProductDTO, error)
	List(ctx context.Context, filter ListFilter) ([]ProductDTO, error)
	ListLowStock(ctx context.Context) ([]ProductDTO, error)
	Update(ctx context.Context, id string, input UpdateProductInput) (ProductDTO, error)
	Delete(ctx context.Context, id string) error
	AdjustQuantity(ctx context.Context, id string, input AdjustQuantityInput, actor string) (ProductDTO, error)
}

type service struct {
	repo         *Repository
	supplierRepo *suppliers.Repository
	stockLogRepo *stocklog.Repository
	db           txRunner
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.SupplierRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier repo is required")
	}
	if params.StockLogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock log repo is required")
	}
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db runner is required")
	}
	return &service{
		repo:         params.Repo,
		supplierRepo: params.SupplierRepo,
		stockLogRepo: params.StockLogRepo,
		db:           params.DB,
	}, nil
}

// Create validates the product, derives its MRP and inserts it.
func (s *service) Create(ctx context.Context, input CreateProductInput) (ProductDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if input.Quantity < 0 {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if input.CostPrice.IsNegative() {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cost price must not be negative")
	}
	if input.ReorderLevel < 0 {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "reorder level must not be negative")
	}
	if err := s.ensureSupplier(ctx, input.SupplierID); err != nil {
		return ProductDTO{}, err
	}

	mrp, err := pricing.DeriveMRP(input.UnitPrice, input.GSTPercent)
	if err != nil {
		return ProductDTO{}, err
	}

	record := models.Product{
		Name:         strings.TrimSpace(input.Name),
		Category:     strings.TrimSpace(input.Category),
		SupplierID:   strings.TrimSpace(input.SupplierID),
		Quantity:     input.Quantity,
		CostPrice:    input.CostPrice,
		UnitPrice:    input.UnitPrice,
		GSTPercent:   pricing.ClampGST(input.GSTPercent),
		MRP:          mrp,
		ReorderLevel: input.ReorderLevel,
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, &record); err != nil {
			return err
		}
		if record.Quantity > 0 {
			return s.stockLogRepo.WithTx(tx).Append(ctx, &models.StockLogEntry{
				ProductID:   record.ID,
				ProductName: record.Name,
				ChangeType:  enums.StockChangeIn,
				Quantity:    record.Quantity,
				Reason:      "initial stock",
				ChangedBy:   "system",
			})
		}
		return nil
	})
	if err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "creating product")
	}

	return s.Get(ctx, record.ID)
}

// Get loads one product.
func (s *service) Get(ctx context.Context, id string) (ProductDTO, error) {
	record, err := s.loadProduct(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}
	return toDTO(*record), nil
}

// List returns products matching the filter.
func (s *service) List(ctx context.Context, filter ListFilter) ([]ProductDTO, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "listing products")
	}
	return toDTOs(records), nil
}

// ListLowStock returns products at or below their reorder level.
func (s *service) ListLowStock(ctx context.Context) ([]ProductDTO, error) {
	records, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "listing low stock products")
	}
	return toDTOs(records), nil
}

// Update applies the provided fields and recomputes MRP when pricing inputs
// change. Quantity is never touched here.
func (s *service) Update(ctx context.Context, id string, input UpdateProductInput) (ProductDTO, error) {
	record, err := s.loadProduct(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
		}
		record.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		if strings.TrimSpace(*input.Category) == "" {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
		}
		record.Category = strings.TrimSpace(*input.Category)
	}
	if input.SupplierID != nil {
		if err := s.ensureSupplier(ctx, *input.SupplierID); err != nil {
			return ProductDTO{}, err
		}
		record.SupplierID = strings.TrimSpace(*input.SupplierID)
	}
	if input.CostPrice != nil {
		if input.CostPrice.IsNegative() {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "cost price must not be negative")
		}
		record.CostPrice = *input.CostPrice
	}
	if input.ReorderLevel != nil {
		if *input.ReorderLevel < 0 {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "reorder level must not be negative")
		}
		record.ReorderLevel = *input.ReorderLevel
	}

	repriced := false
	if input.UnitPrice != nil {
		record.UnitPrice = *input.UnitPrice
		repriced = true
	}
	if input.GSTPercent != nil {
		record.GSTPercent = pricing.ClampGST(*input.GSTPercent)
		repriced = true
	}
	if repriced {
		mrp, err := pricing.DeriveMRP(record.UnitPrice, record.GSTPercent)
		if err != nil {
			return ProductDTO{}, err
		}
		record.MRP = mrp
	}

	record.Supplier = nil
	if err := s.repo.Update(ctx, record); err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "updating product")
	}
	return s.Get(ctx, record.ID)
}

// Delete removes a product that no committed sale line references. Sales
// snapshot product details, but the audit and return paths still resolve by
// product id, so referenced products stay.
func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.loadProduct(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountSaleLines(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "counting product sale lines")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "product appears on committed sales and cannot be removed")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "deleting product")
	}
	return nil
}

// AdjustQuantity applies a manual stock correction and writes the audit entry
// in the same transaction. Negative deltas cannot take stock below zero.
func (s *service) AdjustQuantity(ctx context.Context, id string, input AdjustQuantityInput, actor string) (ProductDTO, error) {
	if input.Delta == 0 {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "delta must not be zero")
	}
	if strings.TrimSpace(input.Reason) == "" {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}
	if strings.TrimSpace(actor) == "" {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "actor is required")
	}

	record, err := s.loadProduct(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}

	changeType := enums.StockChangeIn
	magnitude := input.Delta
	if input.Delta < 0 {
		changeType = enums.StockChangeOut
		magnitude = -input.Delta
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		affected, err := s.repo.WithTx(tx).ApplyDelta(ctx, record.ID, input.Delta)
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeOutOfStock,
				fmt.Sprintf("adjustment of %d would take %s below zero", input.Delta, record.Name))
		}
		return s.stockLogRepo.WithTx(tx).Append(ctx, &models.StockLogEntry{
			ProductID:   record.ID,
			ProductName: record.Name,
			ChangeType:  changeType,
			Quantity:    magnitude,
			Reason:      strings.TrimSpace(input.Reason),
			ChangedBy:   strings.TrimSpace(actor),
		})
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return ProductDTO{}, appErr
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "adjusting stock")
	}

	return s.Get(ctx, record.ID)
}

func (s *service) ensureSupplier(ctx context.Context, supplierID string) error {
	if strings.TrimSpace(supplierID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "supplier id is required")
	}
	if _, err := s.supplierRepo.FindByID(ctx, strings.TrimSpace(supplierID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "supplier not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	return nil
}

func (s *service) loadProduct(ctx context.Context, id string) (*models.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return record, nil
}

func toDTO(record models.Product) ProductDTO {
	dto := ProductDTO{
		ID:           record.ID,
		Name:         record.Name,
		Category:     record.Category,
		SupplierID:   record.SupplierID,
		Quantity:     record.Quantity,
		CostPrice:    record.CostPrice,
		UnitPrice:    record.UnitPrice,
		GSTPercent:   record.GSTPercent,
		MRP:          record.MRP,
		ReorderLevel: record.ReorderLevel,
		LowStock:     record.Quantity <= record.ReorderLevel,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
	if record.Supplier != nil {
		dto.SupplierName = record.Supplier.Name
	}
	return dto
}

func toDTOs(records []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, toDTO(record))
	}
	return dtos
}
