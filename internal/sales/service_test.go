package sales

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kiranapos/backend/pkg/config"
	"github.com/kiranapos/backend/pkg/db/models"
	"github.com/kiranapos/backend/pkg/enums"
	pkgerrors "github.com/kiranapos/backend/pkg/errors"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func newFixture(t *testing.T, now time.Time) (Service, *gorm.DB) {
	t.Helper()

	dsn := "file:sales_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Sale{}, &models.SaleLine{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	svc, err := NewService(ServiceParams{
		Repo:    NewRepository(conn),
		Returns: config.ReturnsConfig{LookbackDays: 7},
		Now:     func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc, conn
}

func seedSales(t *testing.T, conn *gorm.DB, now time.Time) {
	t.Helper()

	phone := "9000000001"
	records := []models.Sale{
		{
			ID: "001", Date: now.AddDate(0, 0, -10), SoldBy: "asha", CustomerName: "Walk-in Customer",
			Subtotal: dec("100.00"), GrandTotal: dec("100.00"),
		},
		{
			ID: "002", Date: now.AddDate(0, 0, -1), SoldBy: "ravi", CustomerName: "Rita Sen", CustomerPhone: &phone,
			Subtotal: dec("318.60"), GrandTotal: dec("318.60"),
			Lines: []models.SaleLine{{
				SaleID: "002", ProductID: "001", ProductName: "Basmati Rice 1kg", Category: "Grocery",
				Quantity: 3, MRP: dec("118.00"), LineTotal: dec("354.00"),
				DiscountType: enums.DiscountTypePercent, DiscountValue: dec("10"),
				EffectiveTotal: dec("318.60"),
			}},
		},
		{
			ID: "003", Date: now, SoldBy: "asha", CustomerName: "Walk-in Customer",
			Subtotal: dec("157.50"), GrandTotal: dec("157.50"),
		},
	}
	if err := conn.Create(&records).Error; err != nil {
		t.Fatalf("seeding sales: %v", err)
	}
}

func TestGetLoadsSaleWithLines(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc, conn := newFixture(t, now)
	seedSales(t, conn, now)

	dto, err := svc.Get(context.Background(), "002")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if dto.SoldBy != "ravi" || len(dto.Lines) != 1 {
		t.Fatalf("unexpected sale: %+v", dto)
	}
	if dto.Lines[0].EffectiveTotal.StringFixed(2) != "318.60" {
		t.Fatalf("line total = %s", dto.Lines[0].EffectiveTotal.StringFixed(2))
	}
}

func TestGetUnknownSaleNotFound(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc, conn := newFixture(t, now)
	seedSales(t, conn, now)

	_, err := svc.Get(context.Background(), "404")
	if err == nil {
		t.Fatal("expected error for unknown sale")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc, conn := newFixture(t, now)
	seedSales(t, conn, now)

	dtos, err := svc.List(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(dtos) != 3 {
		t.Fatalf("sales = %d, want 3", len(dtos))
	}
	if dtos[0].ID != "003" || dtos[2].ID != "001" {
		t.Fatalf("unexpected order: %s, %s, %s", dtos[0].ID, dtos[1].ID, dtos[2].ID)
	}
}

func TestListFiltersBySoldBy(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc, conn := newFixture(t, now)
	seedSales(t, conn, now)

	dtos, err := svc.List(context.Background(), ListFilter{SoldBy: "ravi"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(dtos) != 1 || dtos[0].ID != "002" {
		t.Fatalf("unexpected result: %+v", dtos)
	}
}

func TestListFiltersByCustomer(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc, conn := newFixture(t, now)
	seedSales(t, conn, now)

	byName, err := svc.List(context.Background(), ListFilter{Customer: "rita"})
	if err != nil {
		t.Fatalf("list by name: %v", err)
	}
	if len(byName) != 1 || byName[0].ID != "002" {
		t.Fatalf("unexpected name match: %+v", byName)
	}

	byPhone, err := svc.List(context.Background(), ListFilter{Customer: "9000000001"})
	if err != nil {
		t.Fatalf("list by phone: %v", err)
	}
	if len(byPhone) != 1 || byPhone[0].ID != "002" {
		t.Fatalf("unexpected phone match: %+v", byPhone)
	}
}

func TestRecentHonorsLookback(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc, conn := newFixture(t, now)
	seedSales(t, conn, now)

	dtos, err := svc.Recent(context.Background())
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(dtos) != 2 {
		t.Fatalf("recent sales = %d, want 2", len(dtos))
	}
	for _, dto := range dtos {
		if dto.ID == "001" {
			t.Fatal("sale outside lookback window included")
		}
	}
}
