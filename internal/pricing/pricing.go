package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kiranapos/backend/pkg/enums"
	pkgerrors "github.com/kiranapos/backend/pkg/errors"
	"github.com/kiranapos/backend/pkg/money"
)

var (
	maxGSTPercent      = decimal.NewFromInt(40)
	maxPercentDiscount = decimal.NewFromInt(90)
	oneHundred         = decimal.NewFromInt(100)
)

// ClampGST forces a GST percentage into the [0, 40] band. Out-of-band input is
// clamped rather than rejected so a bad master-data row cannot block pricing.
func ClampGST(gstPercent decimal.Decimal) decimal.Decimal {
	if gstPercent.IsNegative() {
		return decimal.Zero
	}
	if gstPercent.GreaterThan(maxGSTPercent) {
		return maxGSTPercent
	}
	return gstPercent
}

// DeriveMRP computes the shelf price from the base unit price and GST percent,
// rounded to two decimal places.
func DeriveMRP(unitPrice, gstPercent decimal.Decimal) (decimal.Decimal, error) {
	if unitPrice.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "unit price must not be negative")
	}
	gst := ClampGST(gstPercent)
	factor := decimal.NewFromInt(1).Add(gst.Div(oneHundred))
	return money.Round2(unitPrice.Mul(factor)), nil
}

// Line is the priced result of one cart position.
type Line struct {
	LineTotal      decimal.Decimal
	Discount       decimal.Decimal
	EffectiveTotal decimal.Decimal
}

// ComputeLine prices quantity units at mrp and applies the discount.
// Flat discounts may not exceed the undiscounted line total; percent discounts
// are capped at 90. The effective total is rounded to two decimals and never
// negative.
func ComputeLine(mrp decimal.Decimal, quantity int, discountType enums.DiscountType, discountValue decimal.Decimal) (Line, error) {
	if quantity <= 0 {
		return Line{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if mrp.IsNegative() {
		return Line{}, pkgerrors.New(pkgerrors.CodeValidation, "mrp must not be negative")
	}
	if discountValue.IsNegative() {
		return Line{}, pkgerrors.New(pkgerrors.CodeValidation, "discount value must not be negative")
	}

	lineTotal := money.Round2(mrp.Mul(decimal.NewFromInt(int64(quantity))))

	var discount decimal.Decimal
	switch discountType {
	case enums.DiscountTypeFlat:
		if discountValue.GreaterThan(lineTotal) {
			return Line{}, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("flat discount %s exceeds line total %s", discountValue.StringFixed(2), lineTotal.StringFixed(2)))
		}
		discount = money.Round2(discountValue)
	case enums.DiscountTypePercent:
		if discountValue.GreaterThan(maxPercentDiscount) {
			return Line{}, pkgerrors.New(pkgerrors.CodeValidation, "percent discount must not exceed 90")
		}
		discount = money.Round2(lineTotal.Mul(discountValue).Div(oneHundred))
	default:
		return Line{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown discount type %q", discountType))
	}

	effective := money.FloorZero(money.Round2(lineTotal.Sub(discount)))
	return Line{
		LineTotal:      lineTotal,
		Discount:       discount,
		EffectiveTotal: effective,
	}, nil
}

// RefundUnitPrice spreads a line's effective total evenly across its units.
// Refunds use this per-unit figure so discounts are shared by every unit.
func RefundUnitPrice(effectiveTotal decimal.Decimal, quantity int) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	return money.Round2(effectiveTotal.Div(decimal.NewFromInt(int64(quantity)))), nil
}
