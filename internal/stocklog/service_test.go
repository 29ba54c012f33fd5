package stocklog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kiranapos/backend/pkg/db/models"
	"github.com/kiranapos/backend/pkg/enums"
	pkgerrors "github.com/kiranapos/backend/pkg/errors"
)

func newFixture(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	dsn := "file:stocklog_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.StockLogEntry{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc, conn
}

func seedEntries(t *testing.T, conn *gorm.DB) {
	t.Helper()

	now := time.Now()
	entries := []models.StockLogEntry{
		{ProductID: "001", ProductName: "Basmati Rice 1kg", ChangeType: enums.StockChangeOut,
			Quantity: 3, Reason: "sale 001", ChangedBy: "asha", CreatedAt: now.Add(-2 * time.Hour)},
		{ProductID: "001", ProductName: "Basmati Rice 1kg", ChangeType: enums.StockChangeIn,
			Quantity: 1, Reason: "return against sale 001", ChangedBy: "asha", CreatedAt: now.Add(-time.Hour)},
		{ProductID: "002", ProductName: "Sunflower Oil 1L", ChangeType: enums.StockChangeIn,
			Quantity: 10, Reason: "manual adjustment: restock", ChangedBy: "ravi", CreatedAt: now},
	}
	if err := conn.Create(&entries).Error; err != nil {
		t.Fatalf("seeding entries: %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	t.Parallel()

	svc, conn := newFixture(t)
	seedEntries(t, conn)

	entries, err := svc.List(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	if entries[0].ProductID != "002" {
		t.Fatalf("newest entry = %+v", entries[0])
	}
}

func TestListFiltersByProductAndType(t *testing.T) {
	t.Parallel()

	svc, conn := newFixture(t)
	seedEntries(t, conn)

	entries, err := svc.List(context.Background(), ListFilter{ProductID: "001", ChangeType: enums.StockChangeIn})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Reason != "return against sale 001" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestListRejectsUnknownChangeType(t *testing.T) {
	t.Parallel()

	svc, conn := newFixture(t)
	seedEntries(t, conn)

	_, err := svc.List(context.Background(), ListFilter{ChangeType: enums.StockChangeType("BOTH")})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}
