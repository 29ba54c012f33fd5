package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kiranapos/backend/pkg/db/models"
)

// Repository runs the read-only aggregate queries behind the reports API.
// Everything here joins committed sale data; nothing mutates.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type saleTotal struct {
	Date  time.Time
	Total decimal.Decimal
}

// salesSince fetches per-sale totals from the cutoff onward. Bucketing by
// day or month happens in the service so the query stays portable between
// postgres and the sqlite used in tests.
func (r *Repository) salesSince(ctx context.Context, cutoff time.Time) ([]saleTotal, error) {
	var rows []saleTotal
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("date, grand_total AS total").
		Where("date >= ?", cutoff).
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) totalSales(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Select("SUM(grand_total)").
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *Repository) countCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Customer{}).Count(&count).Error
	return count, err
}

// profitEstimate sums effective_total minus cost over every line ever sold.
// Lines whose product was deleted contribute their full effective total.
func (r *Repository) profitEstimate(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Table("sale_lines AS sl").
		Select("SUM(sl.effective_total - (COALESCE(p.cost_price, 0) * sl.quantity))").
		Joins("LEFT JOIN products p ON p.id = sl.product_id").
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}

func (r *Repository) topProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error) {
	var rows []ProductSales
	err := r.db.WithContext(ctx).
		Table("sale_lines AS sl").
		Select("sl.product_id, sl.product_name, SUM(sl.quantity) AS quantity_sold, SUM(sl.effective_total) AS sales_total").
		Joins("JOIN sales s ON s.id = sl.sale_id").
		Where("s.date BETWEEN ? AND ?", from, to).
		Group("sl.product_id, sl.product_name").
		Order("sales_total DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) supplierSales(ctx context.Context, limit int) ([]SupplierSales, error) {
	var rows []SupplierSales
	err := r.db.WithContext(ctx).
		Table("sale_lines AS sl").
		Select("sup.id AS supplier_id, sup.company, SUM(sl.effective_total) AS sales_total").
		Joins("JOIN products p ON p.id = sl.product_id").
		Joins("LEFT JOIN suppliers sup ON sup.id = p.supplier_id").
		Group("sup.id, sup.company").
		Order("sales_total DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

type profitQueryRow struct {
	ProductID   string
	ProductName string
	Sales       decimal.Decimal
	COGS        decimal.Decimal `gorm:"column:cogs"`
}

func (r *Repository) profitByProduct(ctx context.Context, from, to time.Time) ([]profitQueryRow, error) {
	var rows []profitQueryRow
	err := r.db.WithContext(ctx).
		Table("sale_lines AS sl").
		Select("sl.product_id, sl.product_name, SUM(sl.effective_total) AS sales, SUM(COALESCE(p.cost_price, 0) * sl.quantity) AS cogs").
		Joins("JOIN sales s ON s.id = sl.sale_id").
		Joins("LEFT JOIN products p ON p.id = sl.product_id").
		Where("s.date BETWEEN ? AND ?", from, to).
		Group("sl.product_id, sl.product_name").
		Order("sales DESC").
		Scan(&rows).Error
	return rows, err
}
