package stocklog

import (
	"context"
	"time"

	"github.com/kiranapos/backend/pkg/db/models"
	"github.com/kiranapos/backend/pkg/enums"
	pkgerrors "github.com/kiranapos/backend/pkg/errors"
)

// EntryDTO is the API shape of one audit entry.
type EntryDTO struct {
	ID          uint                  `json:"id"`
	ProductID   string                `json:"product_id"`
	ProductName string                `json:"product_name"`
	ChangeType  enums.StockChangeType `json:"change_type"`
	Quantity    int                   `json:"quantity"`
	Reason      string                `json:"reason"`
	ChangedBy   string                `json:"changed_by"`
	CreatedAt   time.Time             `json:"created_at"`
}

// Service exposes read access to the stock audit trail.
type Service interface {
	List(ctx context.Context, filter ListFilter) ([]EntryDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds a stock log service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock log repo is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]EntryDTO, error) {
	if filter.ChangeType != "" && !filter.ChangeType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "change type must be IN or OUT")
	}
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "listing stock logs")
	}
	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, toDTO(entry))
	}
	return dtos, nil
}

func toDTO(entry models.StockLogEntry) EntryDTO {
	return EntryDTO{
		ID:          entry.ID,
		ProductID:   entry.ProductID,
		ProductName: entry.ProductName,
		ChangeType:  entry.ChangeType,
		Quantity:    entry.Quantity,
		Reason:      entry.Reason,
		ChangedBy:   entry.ChangedBy,
		CreatedAt:   entry.CreatedAt,
	}
}
