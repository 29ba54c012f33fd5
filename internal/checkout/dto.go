package checkout

import (
	"github.com/kiranapos/backend/internal/customers"
	"github.com/kiranapos/backend/internal/invoices"
	"github.com/kiranapos/backend/internal/sales"
)

// Customer selection modes accepted at checkout.
const (
	ModeWalkIn   = "walk_in"
	ModeExisting = "existing"
	ModeNew      = "new"
)

// WalkInCustomerName is the snapshot name used when no customer is selected.
const WalkInCustomerName = "Walk-in Customer"

// CustomerSelection names who the sale is billed to.
type CustomerSelection struct {
	Mode       string                        `json:"mode" validate:"required"`
	CustomerID string                        `json:"customer_id"`
	New        *customers.CreateCustomerInput `json:"new_customer"`
}

// Receipt is the result of a committed checkout.
type Receipt struct {
	Sale            sales.SaleDTO     `json:"sale"`
	Invoice         invoices.Document `json:"invoice"`
	DeliveryWarning string            `json:"delivery_warning,omitempty"`
}
