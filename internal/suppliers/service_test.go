package suppliers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kiranapos/backend/pkg/db"
	"github.com/kiranapos/backend/pkg/db/models"
	pkgerrors "github.com/kiranapos/backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	dsn := "file:suppliers_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Supplier{}, &models.Product{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	svc, err := NewService(ServiceParams{
		Repo: NewRepository(conn),
		DB:   db.FromGorm(conn),
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc, conn
}

func TestCreateAssignsPaddedIDs(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateSupplierInput{Name: "Ram Kumar", Company: "Ram Traders", Phone: "9876543210"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if first.ID != "001" {
		t.Fatalf("first id = %q, want 001", first.ID)
	}

	second, err := svc.Create(ctx, CreateSupplierInput{Name: "Sita Devi", Company: "Sita Wholesale", Phone: "9876543211"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.ID != "002" {
		t.Fatalf("second id = %q, want 002", second.ID)
	}
}

func TestCreateRequiresCompany(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateSupplierInput{Name: "Ram Kumar", Phone: "9876543210"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateSupplierInput{Name: "Ram Kumar", Company: "Ram Traders", Phone: "9876543210"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	company := "Ram & Sons"
	updated, err := svc.Update(ctx, created.ID, UpdateSupplierInput{Company: &company})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Company != "Ram & Sons" {
		t.Fatalf("company = %q", updated.Company)
	}
	if updated.Name != "Ram Kumar" || updated.Phone != "9876543210" {
		t.Fatalf("unset fields changed: %+v", updated)
	}
}

func TestDeleteBlockedByCatalogReferences(t *testing.T) {
	t.Parallel()

	svc, conn := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateSupplierInput{Name: "Ram Kumar", Company: "Ram Traders", Phone: "9876543210"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	product := models.Product{ID: "001", Name: "Basmati Rice 1kg", Category: "Grocery", SupplierID: created.ID, Quantity: 5}
	if err := conn.Create(&product).Error; err != nil {
		t.Fatalf("seeding product: %v", err)
	}

	err = svc.Delete(ctx, created.ID)
	if err == nil {
		t.Fatal("expected conflict for referenced supplier")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}

	if err := conn.Delete(&product).Error; err != nil {
		t.Fatalf("removing product: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete after clearing products: %v", err)
	}

	_, err = svc.Get(ctx, created.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestListMatchesNameAndCompany(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateSupplierInput{Name: "Ram Kumar", Company: "Ram Traders", Phone: "9876543210"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, CreateSupplierInput{Name: "Sita Devi", Company: "Sita Wholesale", Phone: "9876543211"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	matches, err := svc.List(ctx, "wholesale")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(matches) != 1 || matches[0].Company != "Sita Wholesale" {
		t.Fatalf("unexpected matches: %+v", matches)
	}
}
