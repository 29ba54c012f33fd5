package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kiranapos/backend/internal/pricing"
	"github.com/kiranapos/backend/pkg/db/models"
	"github.com/kiranapos/backend/pkg/enums"
	pkgerrors "github.com/kiranapos/backend/pkg/errors"
	"github.com/kiranapos/backend/pkg/money"
)

type productLoader interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Store    Store
	Products productLoader
}

// Service exposes the open-cart operations for one operator session.
type Service interface {
	Get(ctx context.Context, sessionID string) (CartDTO, error)
	Add(ctx context.Context, sessionID string, input AddItemInput) (CartDTO, error)
	RemoveOne(ctx context.Context, sessionID, lineID string) (CartDTO, error)
	Clear(ctx context.Context, sessionID string) error
	Snapshot(sessionID string) []Line
}

type service struct {
	store    Store
	products productLoader
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart store is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	return &service{store: params.Store, products: params.Products}, nil
}

// Get returns the cart with its running subtotal.
func (s *service) Get(_ context.Context, sessionID string) (CartDTO, error) {
	if strings.TrimSpace(sessionID) == "" {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return toDTO(s.store.Get(sessionID)), nil
}

// Add rings up a product. A line with the same product and discount merges
// with the new quantity; the merged quantity is priced as one line and may
// not exceed the stock on hand. Any validation failure leaves the cart
// untouched.
func (s *service) Add(ctx context.Context, sessionID string, input AddItemInput) (CartDTO, error) {
	if strings.TrimSpace(sessionID) == "" {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if strings.TrimSpace(input.ProductID) == "" {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity <= 0 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	discountType := enums.DiscountTypeFlat
	if strings.TrimSpace(input.DiscountType) != "" {
		parsed, err := enums.ParseDiscountType(strings.ToLower(strings.TrimSpace(input.DiscountType)))
		if err != nil {
			return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "discount type must be flat or percent")
		}
		discountType = parsed
	}

	product, err := s.loadProduct(ctx, input.ProductID)
	if err != nil {
		return CartDTO{}, err
	}

	lines := s.store.Get(sessionID)
	mergeIdx := -1
	for i, line := range lines {
		if line.ProductID == product.ID &&
			line.DiscountType == discountType &&
			line.DiscountValue.Equal(input.DiscountValue) {
			mergeIdx = i
			break
		}
	}

	quantity := input.Quantity
	mrp := product.MRP
	if mergeIdx >= 0 {
		quantity += lines[mergeIdx].Quantity
		mrp = lines[mergeIdx].MRP
	}

	if quantity > product.Quantity {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeOutOfStock,
			fmt.Sprintf("only %d units of %s in stock, cart wants %d", product.Quantity, product.Name, quantity))
	}

	priced, err := pricing.ComputeLine(mrp, quantity, discountType, input.DiscountValue)
	if err != nil {
		return CartDTO{}, err
	}

	line := Line{
		ID:             uuid.NewString(),
		ProductID:      product.ID,
		ProductName:    product.Name,
		Category:       product.Category,
		Quantity:       quantity,
		MRP:            mrp,
		DiscountType:   discountType,
		DiscountValue:  input.DiscountValue,
		LineTotal:      priced.LineTotal,
		EffectiveTotal: priced.EffectiveTotal,
	}
	if mergeIdx >= 0 {
		line.ID = lines[mergeIdx].ID
		lines[mergeIdx] = line
	} else {
		lines = append(lines, line)
	}

	s.store.Put(sessionID, lines)
	return toDTO(lines), nil
}

// RemoveOne takes a single unit off a cart line and reprices what remains.
// The line disappears once its last unit is removed.
func (s *service) RemoveOne(_ context.Context, sessionID, lineID string) (CartDTO, error) {
	if strings.TrimSpace(sessionID) == "" {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	lines := s.store.Get(sessionID)
	for i, line := range lines {
		if line.ID != lineID {
			continue
		}
		if line.Quantity <= 1 {
			lines = append(lines[:i], lines[i+1:]...)
		} else {
			priced, err := pricing.ComputeLine(line.MRP, line.Quantity-1, line.DiscountType, line.DiscountValue)
			if err != nil {
				return CartDTO{}, err
			}
			line.Quantity--
			line.LineTotal = priced.LineTotal
			line.EffectiveTotal = priced.EffectiveTotal
			lines[i] = line
		}
		s.store.Put(sessionID, lines)
		return toDTO(lines), nil
	}
	return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
}

// Clear empties the cart.
func (s *service) Clear(_ context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	s.store.Clear(sessionID)
	return nil
}

// Snapshot returns a copy of the cart lines for checkout to commit.
func (s *service) Snapshot(sessionID string) []Line {
	return s.store.Get(sessionID)
}

func (s *service) loadProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func toDTO(lines []Line) CartDTO {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.EffectiveTotal)
	}
	if lines == nil {
		lines = []Line{}
	}
	return CartDTO{Lines: lines, Subtotal: money.Round2(subtotal)}
}
