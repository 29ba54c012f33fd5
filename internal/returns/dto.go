package returns

import (
	"github.com/shopspring/decimal"
)

// ReturnLineInput names one product and quantity being brought back.
type ReturnLineInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// ApplyInput is one refund batch against a sale. The reason covers the
// whole batch.
type ApplyInput struct {
	Entries []ReturnLineInput `json:"entries" validate:"required,min=1"`
	Reason  string            `json:"reason" validate:"required"`
}

// AppliedRefund reports one accepted entry.
type AppliedRefund struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
}

// RefundResult is the outcome of a committed batch.
type RefundResult struct {
	SaleID      string          `json:"sale_id"`
	TotalRefund decimal.Decimal `json:"total_refund"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	Entries     []AppliedRefund `json:"entries"`
}
