package reports

import (
	"github.com/shopspring/decimal"
)

// Summary is the dashboard headline: lifetime sales, registered customers,
// and a profit estimate over everything sold so far.
type Summary struct {
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalCustomers int64           `json:"total_customers"`
	ProfitEstimate decimal.Decimal `json:"profit_estimate"`
}

// TrendPoint is one bucket of a sales trend. Period is a day (2006-01-02)
// or a month (2006-01) depending on the query.
type TrendPoint struct {
	Period string          `json:"period"`
	Total  decimal.Decimal `json:"total"`
}

// ProductSales ranks a product by what it brought in.
type ProductSales struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold int             `json:"quantity_sold"`
	SalesTotal   decimal.Decimal `json:"sales_total"`
}

// SupplierSales compares suppliers by the sales their products generated.
type SupplierSales struct {
	SupplierID string          `json:"supplier_id"`
	Company    string          `json:"company"`
	SalesTotal decimal.Decimal `json:"sales_total"`
}

// ProfitRow is one product's margin over a date range.
type ProfitRow struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Sales         decimal.Decimal `json:"sales"`
	COGS          decimal.Decimal `json:"cogs"`
	Profit        decimal.Decimal `json:"profit"`
	MarginPercent decimal.Decimal `json:"margin_percent"`
}

// ProfitReport aggregates per-product margins with overall totals.
type ProfitReport struct {
	Rows                 []ProfitRow     `json:"rows"`
	TotalSales           decimal.Decimal `json:"total_sales"`
	TotalProfit          decimal.Decimal `json:"total_profit"`
	OverallMarginPercent decimal.Decimal `json:"overall_margin_percent"`
}
