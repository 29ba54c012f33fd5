package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kiranapos/backend/internal/cart"
	"github.com/kiranapos/backend/internal/catalog"
	"github.com/kiranapos/backend/internal/customers"
	"github.com/kiranapos/backend/internal/delivery"
	"github.com/kiranapos/backend/internal/invoices"
	"github.com/kiranapos/backend/internal/sales"
	"github.com/kiranapos/backend/internal/stocklog"
	"github.com/kiranapos/backend/pkg/db"
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

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Cart         cart.Service
	CustomerRepo *customers.Repository
	ProductRepo  *catalog.Repository
	SalesRepo    *sales.Repository
	StockLogRepo *stocklog.Repository
	Invoices     *invoices.Builder
	Sender       delivery.Sender
	Metrics      *metrics.Registry
	Logger       *logger.Logger
	DB           txRunner
	Now          func() time.Time
}

// Service commits carts into durable sales.
type Service interface {
	Execute(ctx context.Context, operator, sessionID string, selection CustomerSelection) (*Receipt, error)
}

type service struct {
	cart         cart.Service
	customerRepo *customers.Repository
	productRepo  *catalog.Repository
	salesRepo    *sales.Repository
	stockLogRepo *stocklog.Repository
	invoices     *invoices.Builder
	sender       delivery.Sender
	metrics      *metrics.Registry
	logg         *logger.Logger
	db           txRunner
	now          func() time.Time
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	if params.CustomerRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.SalesRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sales repo is required")
	}
	if params.StockLogRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock log repo is required")
	}
	if params.Invoices == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice builder is required")
	}
	if params.Sender == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery sender is required")
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
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		cart:         params.Cart,
		customerRepo: params.CustomerRepo,
		productRepo:  params.ProductRepo,
		salesRepo:    params.SalesRepo,
		stockLogRepo: params.StockLogRepo,
		invoices:     params.Invoices,
		sender:       params.Sender,
		metrics:      params.Metrics,
		logg:         params.Logger,
		db:           params.DB,
		now:          now,
	}, nil
}

// Execute turns the session's cart into a committed sale. The sale master,
// its lines, the stock decrements and the OUT audit entries all ride one
// transaction; any failure rolls everything back and keeps the cart intact.
// Invoice rendering and email delivery happen after commit and can only
// produce a warning.
func (s *service) Execute(ctx context.Context, operator, sessionID string, selection CustomerSelection) (*Receipt, error) {
	if strings.TrimSpace(operator) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "operator is required")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	lines := s.cart.Snapshot(sessionID)
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	resolved, err := s.resolveCustomer(ctx, selection)
	if err != nil {
		s.metrics.CheckoutFailures.WithLabelValues("customer").Inc()
		return nil, err
	}

	subtotal := decimal.Zero
	saleLines := make([]models.SaleLine, 0, len(lines))
	for _, line := range lines {
		subtotal = subtotal.Add(line.EffectiveTotal)
		saleLines = append(saleLines, models.SaleLine{
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
	subtotal = money.Round2(subtotal)

	sale := models.Sale{
		Date:          s.now(),
		SoldBy:        strings.TrimSpace(operator),
		CustomerName:  resolved.name,
		CustomerPhone: resolved.phone,
		Subtotal:      subtotal,
		GrandTotal:    subtotal,
		Lines:         saleLines,
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if resolved.pending != nil {
			if err := s.customerRepo.WithTx(tx).Create(ctx, resolved.pending); err != nil {
				return err
			}
		}
		if err := s.salesRepo.WithTx(tx).Create(ctx, &sale); err != nil {
			return err
		}
		productRepo := s.productRepo.WithTx(tx)
		logRepo := s.stockLogRepo.WithTx(tx)
		for _, line := range sale.Lines {
			affected, err := productRepo.ApplyDelta(ctx, line.ProductID, -line.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return pkgerrors.New(pkgerrors.CodeOutOfStock,
					fmt.Sprintf("not enough stock of %s to sell %d units", line.ProductName, line.Quantity))
			}
			if err := logRepo.Append(ctx, &models.StockLogEntry{
				ProductID:   line.ProductID,
				ProductName: line.ProductName,
				ChangeType:  enums.StockChangeOut,
				Quantity:    line.Quantity,
				Reason:      "sale " + sale.ID,
				ChangedBy:   sale.SoldBy,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			if appErr.Code() == pkgerrors.CodeOutOfStock {
				s.metrics.OversellRejections.Inc()
				s.metrics.CheckoutFailures.WithLabelValues("out_of_stock").Inc()
			} else {
				s.metrics.CheckoutFailures.WithLabelValues(string(appErr.Code())).Inc()
			}
			return nil, appErr
		}
		s.metrics.CheckoutFailures.WithLabelValues("persistence").Inc()
		if conflict := customerConflict(err); conflict != nil {
			return nil, conflict
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "committing sale")
	}

	s.metrics.CheckoutsTotal.Inc()
	ctx = s.logg.WithSaleID(ctx, sale.ID)
	s.logg.Info(ctx, "sale committed")

	receipt := &Receipt{Sale: sales.ToDTO(sale)}
	document, buildErr := s.invoices.Build(sale)
	if buildErr != nil {
		receipt.DeliveryWarning = "invoice rendering failed: " + buildErr.Error()
		s.logg.Warn(ctx, "invoice rendering failed")
	} else {
		receipt.Invoice = document
		receipt.DeliveryWarning = s.deliverInvoice(ctx, document, resolved.email)
	}

	if err := s.cart.Clear(ctx, sessionID); err != nil {
		s.logg.Warn(ctx, "clearing cart after checkout failed")
	}
	return receipt, nil
}

type resolvedCustomer struct {
	name    string
	phone   *string
	email   string
	pending *models.Customer
}

func (s *service) resolveCustomer(ctx context.Context, selection CustomerSelection) (resolvedCustomer, error) {
	switch strings.TrimSpace(selection.Mode) {
	case "", ModeWalkIn:
		return resolvedCustomer{name: WalkInCustomerName}, nil

	case ModeExisting:
		if strings.TrimSpace(selection.CustomerID) == "" {
			return resolvedCustomer{}, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required for existing customer checkout")
		}
		record, err := s.customerRepo.FindByID(ctx, strings.TrimSpace(selection.CustomerID))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return resolvedCustomer{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "customer not found")
			}
			return resolvedCustomer{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
		}
		resolved := resolvedCustomer{name: record.Name, phone: record.Phone}
		if record.Email != nil {
			resolved.email = *record.Email
		}
		return resolved, nil

	case ModeNew:
		if selection.New == nil {
			return resolvedCustomer{}, pkgerrors.New(pkgerrors.CodeValidation, "new customer details are required")
		}
		record, err := customers.ValidateInput(*selection.New)
		if err != nil {
			return resolvedCustomer{}, err
		}
		resolved := resolvedCustomer{name: record.Name, phone: record.Phone, pending: record}
		if record.Email != nil {
			resolved.email = *record.Email
		}
		return resolved, nil

	default:
		return resolvedCustomer{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("unknown customer mode %q", selection.Mode))
	}
}

func (s *service) deliverInvoice(ctx context.Context, document invoices.Document, email string) string {
	if strings.TrimSpace(email) == "" {
		return ""
	}
	body, err := document.EmailBody()
	if err != nil {
		s.logg.Warn(ctx, "invoice email rendering failed")
		return "invoice email rendering failed: " + err.Error()
	}
	err = s.sender.Send(ctx, delivery.Message{
		To:      email,
		Subject: fmt.Sprintf("Your invoice %s", document.InvoiceNo),
		Body:    body,
	})
	if err != nil {
		s.logg.Warn(ctx, "invoice email delivery failed")
		return "invoice email delivery failed: " + err.Error()
	}
	return ""
}

func customerConflict(err error) error {
	switch db.UniqueViolationColumn(err, "email", "phone") {
	case "email":
		return pkgerrors.New(pkgerrors.CodeConflict, "customer email already registered")
	case "phone":
		return pkgerrors.New(pkgerrors.CodeConflict, "customer phone already registered")
	}
	return nil
}
