package returns

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/kiranapos/backend/internal/catalog"
	"github.com/kiranapos/backend/internal/pricing"
	"github.com/kiranapos/backend/internal/sales"
	"github.com/kiranapos/backend/internal/stocklog"
	"github.com/kiranapos/backend/pkg/db/models"
	"github.com/kiranapos/backend/pkg/enums"
	pkgerrors "github.com/kiranapos/backend/pkg/errors"
	"github.com/kiranapos/backend/pkg/logger"
	"github.com/kiranapos/backend/pkg/metrics"
	"github.com/kiranapos/backend/pkg/money"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the returns service.
type ServiceParams struct {
	SalesRepo    *sales.Repository
	ProductRepo  *catalog.Repository
	StockLogRepo *stocklog.Repository
	ReturnsRepo  *Repository
	Metrics      *metrics.Registry
	Logger       *logger.Logger
	DB           txRunner
}

// Service applies refund batches against committed sales.
type Service interface {
	Apply(ctx context.Context, operator, saleID string, input ApplyInput) (*RefundResult, error)
	History(ctx context.Context, saleID string, limit int) ([]EntryDTO, error)
}

type service struct {
	salesRepo    *sales.Repository
	productRepo  *catalog.Repository
	stockLogRepo *stocklog.Repository
	returnsRepo  *Repository
	metrics      *metrics.Registry
	logg         *logger.Logger
	db           txRunner
}

// NewService builds a returns service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.SalesRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sales repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.StockLogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock log repo is required")
	}
	if params.ReturnsRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "returns repo is required")
	}
	if params.Metrics == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "metrics registry is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db runner is required")
	}
	return &service{
		salesRepo:    params.SalesRepo,
		productRepo:  params.ProductRepo,
		stockLogRepo: params.StockLogRepo,
		returnsRepo:  params.ReturnsRepo,
		metrics:      params.Metrics,
		logg:         params.Logger,
		db:           params.DB,
	}, nil
}

// Apply processes a refund batch in one transaction. Per product the unit
// refund is the line's current effective total spread over the full sold
// quantity; cumulative refunds may never exceed the sold quantity. Any
// failing entry rolls back the whole batch. Refunded units go back to stock
// with an IN audit entry; sale line and grand totals shrink, floored at zero.
func (s *service) Apply(ctx context.Context, operator, saleID string, input ApplyInput) (*RefundResult, error) {
	if strings.TrimSpace(operator) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "operator is required")
	}
	if strings.TrimSpace(saleID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale id is required")
	}
	if strings.TrimSpace(input.Reason) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}
	if len(input.Entries) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one return entry is required")
	}

	sale, err := s.salesRepo.FindByID(ctx, saleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
	}

	linesByProduct := make(map[string]*models.SaleLine, len(sale.Lines))
	for i := range sale.Lines {
		line := &sale.Lines[i]
		linesByProduct[line.ProductID] = line
	}

	// Surface every bad entry at once rather than failing one at a time.
	var inputErr error
	seen := make(map[string]bool, len(input.Entries))
	for i, entry := range input.Entries {
		switch {
		case strings.TrimSpace(entry.ProductID) == "":
			inputErr = multierr.Append(inputErr, fmt.Errorf("entry %d: product id is required", i+1))
		case entry.Quantity <= 0:
			inputErr = multierr.Append(inputErr, fmt.Errorf("entry %d (%s): quantity must be positive", i+1, entry.ProductID))
		case linesByProduct[entry.ProductID] == nil:
			inputErr = multierr.Append(inputErr, fmt.Errorf("entry %d: product %s is not on sale %s", i+1, entry.ProductID, saleID))
		case seen[entry.ProductID]:
			inputErr = multierr.Append(inputErr, fmt.Errorf("entry %d: product %s listed twice", i+1, entry.ProductID))
		default:
			seen[entry.ProductID] = true
		}
	}
	if inputErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, inputErr, "invalid return batch")
	}

	result := &RefundResult{SaleID: saleID, TotalRefund: decimal.Zero}
	reason := strings.TrimSpace(input.Reason)

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		salesRepo := s.salesRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		logRepo := s.stockLogRepo.WithTx(tx)
		returnsRepo := s.returnsRepo.WithTx(tx)

		grandTotal := sale.GrandTotal

		for _, entry := range input.Entries {
			line := linesByProduct[entry.ProductID]

			refunded, err := salesRepo.SumRefundedQuantity(ctx, saleID, entry.ProductID)
			if err != nil {
				return err
			}
			if entry.Quantity+refunded > line.Quantity {
				return pkgerrors.New(pkgerrors.CodeOverRefund,
					fmt.Sprintf("cannot refund %d of %s: %d of %d already refunded",
						entry.Quantity, line.ProductName, refunded, line.Quantity))
			}

			unit, err := pricing.RefundUnitPrice(line.EffectiveTotal, line.Quantity)
			if err != nil {
				return err
			}
			refund := money.Round2(unit.Mul(decimal.NewFromInt(int64(entry.Quantity))))

			if err := returnsRepo.Create(ctx, &models.ReturnEntry{
				SaleID:       saleID,
				ProductID:    entry.ProductID,
				Quantity:     entry.Quantity,
				RefundAmount: refund,
				Reason:       reason,
				ProcessedBy:  strings.TrimSpace(operator),
			}); err != nil {
				return err
			}

			if _, err := productRepo.ApplyDelta(ctx, entry.ProductID, entry.Quantity); err != nil {
				return err
			}
			if err := logRepo.Append(ctx, &models.StockLogEntry{
				ProductID:   entry.ProductID,
				ProductName: line.ProductName,
				ChangeType:  enums.StockChangeIn,
				Quantity:    entry.Quantity,
				Reason:      "return against sale " + saleID,
				ChangedBy:   strings.TrimSpace(operator),
			}); err != nil {
				return err
			}

			newEffective := money.FloorZero(line.EffectiveTotal.Sub(refund))
			if err := salesRepo.UpdateLineEffectiveTotal(ctx, line.ID, newEffective); err != nil {
				return err
			}
			line.EffectiveTotal = newEffective

			grandTotal = money.FloorZero(grandTotal.Sub(refund))

			result.TotalRefund = result.TotalRefund.Add(refund)
			result.Entries = append(result.Entries, AppliedRefund{
				ProductID:    entry.ProductID,
				ProductName:  line.ProductName,
				Quantity:     entry.Quantity,
				RefundAmount: refund,
			})
		}

		if err := salesRepo.UpdateGrandTotal(ctx, saleID, grandTotal); err != nil {
			return err
		}
		result.GrandTotal = grandTotal
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			return nil, appErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "processing refund batch")
	}

	for _, applied := range result.Entries {
		s.metrics.RefundsTotal.Inc()
		s.metrics.RefundAmount.Add(applied.RefundAmount.InexactFloat64())
	}
	ctx = s.logg.WithSaleID(ctx, saleID)
	s.logg.Info(ctx, "refund batch committed")

	return result, nil
}

// History lists committed return entries, optionally narrowed to one sale.
func (s *service) History(ctx context.Context, saleID string, limit int) ([]EntryDTO, error) {
	entries, err := s.returnsRepo.List(ctx, saleID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "listing returns")
	}
	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, toEntryDTO(entry))
	}
	return dtos, nil
}
