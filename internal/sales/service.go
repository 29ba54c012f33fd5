package sales

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kiranapos/backend/pkg/config"
	"github.com/kiranapos/backend/pkg/db/models"
	pkgerrors "github.com/kiranapos/backend/pkg/errors"
)

// ServiceParams groups dependencies for the sales query service.
type ServiceParams struct {
	Repo    *Repository
	Returns config.ReturnsConfig
	Now     func() time.Time
}

// Service exposes read access to committed sales.
type Service interface {
	Get(ctx context.Context, id string) (SaleDTO, error)
	List(ctx context.Context, filter ListFilter) ([]SaleDTO, error)
	Recent(ctx context.Context) ([]SaleDTO, error)
}

type service struct {
	repo    *Repository
	returns config.ReturnsConfig
	now     func() time.Time
}

// NewService builds a sales query service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sales repo is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, returns: params.Returns, now: now}, nil
}

// Get loads one sale with lines.
func (s *service) Get(ctx context.Context, id string) (SaleDTO, error) {
	if strings.TrimSpace(id) == "" {
		return SaleDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "sale id is required")
	}
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SaleDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "sale not found")
		}
		return SaleDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
	}
	return ToDTO(*record), nil
}

// List returns sales matching the filter, newest first.
func (s *service) List(ctx context.Context, filter ListFilter) ([]SaleDTO, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "listing sales")
	}
	return toDTOs(records), nil
}

// Recent returns sales inside the configured lookback window. The window is
// a convenience filter for the returns screen; older sales are still
// addressable and refundable by id.
func (s *service) Recent(ctx context.Context) ([]SaleDTO, error) {
	cutoff := s.now().Add(-s.returns.Lookback())
	records, err := s.repo.RecentSince(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "listing recent sales")
	}
	return toDTOs(records), nil
}

// ToDTO converts a sale with lines to its API shape.
func ToDTO(record models.Sale) SaleDTO {
	dto := SaleDTO{
		ID:            record.ID,
		Date:          record.Date,
		SoldBy:        record.SoldBy,
		CustomerName:  record.CustomerName,
		CustomerPhone: record.CustomerPhone,
		Subtotal:      record.Subtotal,
		GrandTotal:    record.GrandTotal,
	}
	for _, line := range record.Lines {
		dto.Lines = append(dto.Lines, SaleLineDTO{
			ProductID:      line.ProductID,
			ProductName:    line.ProductName,
			Category:       line.Category,
			Quantity:       line.Quantity,
			MRP:            line.MRP,
			LineTotal:      line.LineTotal,
			DiscountType:   line.DiscountType,
			DiscountValue:  line.DiscountValue,
			EffectiveTotal: line.EffectiveTotal,
		})
	}
	return dto
}

func toDTOs(records []models.Sale) []SaleDTO {
	dtos := make([]SaleDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, ToDTO(record))
	}
	return dtos
}
