package reports

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kiranapos/backend/pkg/db/models"
	"github.com/kiranapos/backend/pkg/enums"
	"github.com/kiranapos/backend/pkg/logger"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func newFixture(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	dsn := "file:reports_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Supplier{},
		&models.Product{},
		&models.Customer{},
		&models.Sale{},
		&models.SaleLine{},
	); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	svc, err := NewService(ServiceParams{
		Repo:   NewRepository(conn),
		Logger: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc, conn
}

func seedSales(t *testing.T, conn *gorm.DB) {
	t.Helper()

	suppliers := []models.Supplier{
		{ID: "001", Name: "Ram", Company: "Ram Traders", Phone: "9876543210"},
		{ID: "002", Name: "Sita", Company: "Sita Wholesale", Phone: "9876543211"},
	}
	if err := conn.Create(&suppliers).Error; err != nil {
		t.Fatalf("seeding suppliers: %v", err)
	}

	products := []models.Product{
		{ID: "001", Name: "Basmati Rice 1kg", Category: "Grocery", SupplierID: "001", Quantity: 10,
			CostPrice: dec("80.00"), UnitPrice: dec("100.00"), GSTPercent: dec("18"), MRP: dec("118.00")},
		{ID: "002", Name: "Sunflower Oil 1L", Category: "Grocery", SupplierID: "002", Quantity: 5,
			CostPrice: dec("120.00"), UnitPrice: dec("150.00"), GSTPercent: dec("5"), MRP: dec("157.50")},
	}
	if err := conn.Create(&products).Error; err != nil {
		t.Fatalf("seeding products: %v", err)
	}

	phone := "9000000001"
	if err := conn.Create(&models.Customer{ID: "001", Name: "Rita Sen", Phone: &phone}).Error; err != nil {
		t.Fatalf("seeding customer: %v", err)
	}

	now := time.Now()
	sales := []models.Sale{
		{
			ID: "001", Date: now.AddDate(0, 0, -1), SoldBy: "asha", CustomerName: "Walk-in Customer",
			Subtotal: dec("318.60"), GrandTotal: dec("318.60"),
			Lines: []models.SaleLine{{
				SaleID: "001", ProductID: "001", ProductName: "Basmati Rice 1kg", Category: "Grocery",
				Quantity: 3, MRP: dec("118.00"), LineTotal: dec("354.00"),
				DiscountType: enums.DiscountTypePercent, DiscountValue: dec("10"),
				EffectiveTotal: dec("318.60"),
			}},
		},
		{
			ID: "002", Date: now, SoldBy: "asha", CustomerName: "Rita Sen",
			Subtotal: dec("157.50"), GrandTotal: dec("157.50"),
			Lines: []models.SaleLine{{
				SaleID: "002", ProductID: "002", ProductName: "Sunflower Oil 1L", Category: "Grocery",
				Quantity: 1, MRP: dec("157.50"), LineTotal: dec("157.50"),
				DiscountType: enums.DiscountTypeFlat, DiscountValue: decimal.Zero,
				EffectiveTotal: dec("157.50"),
			}},
		},
	}
	if err := conn.Create(&sales).Error; err != nil {
		t.Fatalf("seeding sales: %v", err)
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	svc, conn := newFixture(t)
	seedSales(t, conn)

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.TotalSales.StringFixed(2) != "476.10" {
		t.Fatalf("total sales = %s, want 476.10", summary.TotalSales.StringFixed(2))
	}
	if summary.TotalCustomers != 1 {
		t.Fatalf("customers = %d, want 1", summary.TotalCustomers)
	}
	// 318.60 - 3*80 + 157.50 - 120 = 78.60 + 37.50
	if summary.ProfitEstimate.StringFixed(2) != "116.10" {
		t.Fatalf("profit = %s, want 116.10", summary.ProfitEstimate.StringFixed(2))
	}
}

func TestDailyTrendBucketsByDay(t *testing.T) {
	t.Parallel()

	svc, conn := newFixture(t)
	seedSales(t, conn)

	points, err := svc.DailyTrend(context.Background(), 30)
	if err != nil {
		t.Fatalf("daily trend: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2", len(points))
	}
	if points[0].Period >= points[1].Period {
		t.Fatalf("points not ascending: %+v", points)
	}
	if points[1].Total.StringFixed(2) != "157.50" {
		t.Fatalf("today's total = %s, want 157.50", points[1].Total.StringFixed(2))
	}
}

func TestTopProductsOrdersBySales(t *testing.T) {
	t.Parallel()

	svc, conn := newFixture(t)
	seedSales(t, conn)

	rows, err := svc.TopProducts(context.Background(), time.Time{}, time.Time{}, 10)
	if err != nil {
		t.Fatalf("top products: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].ProductID != "001" || rows[0].QuantitySold != 3 {
		t.Fatalf("unexpected leader: %+v", rows[0])
	}
	if rows[0].SalesTotal.StringFixed(2) != "318.60" {
		t.Fatalf("leader sales = %s", rows[0].SalesTotal.StringFixed(2))
	}
}

func TestSupplierComparison(t *testing.T) {
	t.Parallel()

	svc, conn := newFixture(t)
	seedSales(t, conn)

	rows, err := svc.SupplierComparison(context.Background(), 10)
	if err != nil {
		t.Fatalf("supplier comparison: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Company != "Ram Traders" {
		t.Fatalf("leader = %s, want Ram Traders", rows[0].Company)
	}
}

func TestProfitReport(t *testing.T) {
	t.Parallel()

	svc, conn := newFixture(t)
	seedSales(t, conn)

	report, err := svc.Profit(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("profit: %v", err)
	}
	if len(report.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(report.Rows))
	}
	rice := report.Rows[0]
	if rice.ProductID != "001" {
		t.Fatalf("unexpected first row: %+v", rice)
	}
	if rice.COGS.StringFixed(2) != "240.00" || rice.Profit.StringFixed(2) != "78.60" {
		t.Fatalf("rice margin wrong: cogs=%s profit=%s", rice.COGS.StringFixed(2), rice.Profit.StringFixed(2))
	}
	if report.TotalProfit.StringFixed(2) != "116.10" {
		t.Fatalf("total profit = %s, want 116.10", report.TotalProfit.StringFixed(2))
	}
}
