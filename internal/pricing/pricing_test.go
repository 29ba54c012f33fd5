package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kiranapos/backend/pkg/enums"
	pkgerrors "github.com/kiranapos/backend/pkg/errors"
)

func dec(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parsing decimal %q: %v", value, err)
	}
	return d
}

func TestDeriveMRP(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		unitPrice string
		gst       string
		want      string
	}{
		{name: "standard gst", unitPrice: "100.00", gst: "18", want: "118.00"},
		{name: "zero gst", unitPrice: "45.50", gst: "0", want: "45.50"},
		{name: "gst clamped high", unitPrice: "100.00", gst: "99", want: "140.00"},
		{name: "gst clamped negative", unitPrice: "80.00", gst: "-5", want: "80.00"},
		{name: "rounds half up", unitPrice: "33.33", gst: "5", want: "35.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := DeriveMRP(dec(t, tc.unitPrice), dec(t, tc.gst))
			if err != nil {
				t.Fatalf("DeriveMRP: %v", err)
			}
			if got.StringFixed(2) != tc.want {
				t.Fatalf("DeriveMRP = %s, want %s", got.StringFixed(2), tc.want)
			}
		})
	}
}

func TestDeriveMRPRejectsNegativePrice(t *testing.T) {
	t.Parallel()

	_, err := DeriveMRP(dec(t, "-1.00"), dec(t, "18"))
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestComputeLinePercentDiscount(t *testing.T) {
	t.Parallel()

	// 3 units at 118.00 with 10 percent off: 354.00 - 35.40 = 318.60.
	line, err := ComputeLine(dec(t, "118.00"), 3, enums.DiscountTypePercent, dec(t, "10"))
	if err != nil {
		t.Fatalf("ComputeLine: %v", err)
	}
	if line.LineTotal.StringFixed(2) != "354.00" {
		t.Fatalf("LineTotal = %s, want 354.00", line.LineTotal.StringFixed(2))
	}
	if line.Discount.StringFixed(2) != "35.40" {
		t.Fatalf("Discount = %s, want 35.40", line.Discount.StringFixed(2))
	}
	if line.EffectiveTotal.StringFixed(2) != "318.60" {
		t.Fatalf("EffectiveTotal = %s, want 318.60", line.EffectiveTotal.StringFixed(2))
	}
}

func TestComputeLineFlatDiscount(t *testing.T) {
	t.Parallel()

	line, err := ComputeLine(dec(t, "50.00"), 2, enums.DiscountTypeFlat, dec(t, "15.50"))
	if err != nil {
		t.Fatalf("ComputeLine: %v", err)
	}
	if line.EffectiveTotal.StringFixed(2) != "84.50" {
		t.Fatalf("EffectiveTotal = %s, want 84.50", line.EffectiveTotal.StringFixed(2))
	}
}

func TestComputeLineFlatDiscountCannotExceedLineTotal(t *testing.T) {
	t.Parallel()

	_, err := ComputeLine(dec(t, "50.00"), 1, enums.DiscountTypeFlat, dec(t, "50.01"))
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}

	// Exactly the line total is allowed and nets to zero.
	line, err := ComputeLine(dec(t, "50.00"), 1, enums.DiscountTypeFlat, dec(t, "50.00"))
	if err != nil {
		t.Fatalf("ComputeLine at boundary: %v", err)
	}
	if !line.EffectiveTotal.IsZero() {
		t.Fatalf("EffectiveTotal = %s, want 0.00", line.EffectiveTotal.StringFixed(2))
	}
}

func TestComputeLinePercentDiscountCap(t *testing.T) {
	t.Parallel()

	if _, err := ComputeLine(dec(t, "10.00"), 1, enums.DiscountTypePercent, dec(t, "90.01")); err == nil {
		t.Fatal("expected error for percent discount above 90")
	}
	line, err := ComputeLine(dec(t, "10.00"), 1, enums.DiscountTypePercent, dec(t, "90"))
	if err != nil {
		t.Fatalf("ComputeLine at cap: %v", err)
	}
	if line.EffectiveTotal.StringFixed(2) != "1.00" {
		t.Fatalf("EffectiveTotal = %s, want 1.00", line.EffectiveTotal.StringFixed(2))
	}
}

func TestComputeLineRejectsBadInput(t *testing.T) {
	t.Parallel()

	if _, err := ComputeLine(dec(t, "10.00"), 0, enums.DiscountTypeFlat, decimal.Zero); err == nil {
		t.Fatal("expected error for zero quantity")
	}
	if _, err := ComputeLine(dec(t, "10.00"), 1, enums.DiscountType("bogof"), decimal.Zero); err == nil {
		t.Fatal("expected error for unknown discount type")
	}
	if _, err := ComputeLine(dec(t, "10.00"), 1, enums.DiscountTypeFlat, dec(t, "-2")); err == nil {
		t.Fatal("expected error for negative discount")
	}
}

func TestRefundUnitPrice(t *testing.T) {
	t.Parallel()

	unit, err := RefundUnitPrice(dec(t, "318.60"), 3)
	if err != nil {
		t.Fatalf("RefundUnitPrice: %v", err)
	}
	if unit.StringFixed(2) != "106.20" {
		t.Fatalf("unit refund = %s, want 106.20", unit.StringFixed(2))
	}

	if _, err := RefundUnitPrice(dec(t, "10.00"), 0); err == nil {
		t.Fatal("expected error for zero quantity")
	}
}
