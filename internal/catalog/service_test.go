package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kiranapos/backend/internal/stocklog"
	"github.com/kiranapos/backend/internal/suppliers"
	"github.com/kiranapos/backend/pkg/db"
	"github.com/kiranapos/backend/pkg/db/models"
	"github.com/kiranapos/backend/pkg/enums"
	pkgerrors "github.com/kiranapos/backend/pkg/errors"
)

type catalogFixture struct {
	svc      Service
	conn     *gorm.DB
	supplier models.Supplier
}

func newCatalogFixture(t *testing.T) catalogFixture {
	t.Helper()

	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.Supplier{},
		&models.Product{},
		&models.SaleLine{},
		&models.StockLogEntry{},
	))

	supplier := models.Supplier{ID: "001", Name: "Ravi Traders", Company: "Ravi Traders", Phone: "9876543210"}
	require.NoError(t, conn.Create(&supplier).Error)

	svc, err := NewService(ServiceParams{
		Repo:         NewRepository(conn),
		SupplierRepo: suppliers.NewRepository(conn),
		StockLogRepo: stocklog.NewRepository(conn),
		DB:           db.FromGorm(conn),
	})
	require.NoError(t, err)

	return catalogFixture{svc: svc, conn: conn, supplier: supplier}
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestCreateDerivesMRP(t *testing.T) {
	t.Parallel()

	fx := newCatalogFixture(t)
	ctx := context.Background()

	product, err := fx.svc.Create(ctx, CreateProductInput{
		Name:       "Basmati Rice 1kg",
		Category:   "Grocery",
		SupplierID: fx.supplier.ID,
		Quantity:   10,
		CostPrice:  dec("80.00"),
		UnitPrice:  dec("100.00"),
		GSTPercent: dec("18"),
	})
	require.NoError(t, err)
	require.Equal(t, "001", product.ID)
	require.Equal(t, "118.00", product.MRP.StringFixed(2))

	// Initial stock writes an IN audit entry.
	var entries []models.StockLogEntry
	require.NoError(t, fx.conn.Find(&entries).Error)
	require.Len(t, entries, 1)
	require.Equal(t, enums.StockChangeIn, entries[0].ChangeType)
	require.Equal(t, 10, entries[0].Quantity)
}

func TestCreateClampsGST(t *testing.T) {
	t.Parallel()

	fx := newCatalogFixture(t)

	product, err := fx.svc.Create(context.Background(), CreateProductInput{
		Name:       "Imported Chocolate",
		Category:   "Snacks",
		SupplierID: fx.supplier.ID,
		UnitPrice:  dec("100.00"),
		GSTPercent: dec("75"),
	})
	require.NoError(t, err)
	require.Equal(t, "40.00", product.GSTPercent.StringFixed(2))
	require.Equal(t, "140.00", product.MRP.StringFixed(2))
}

func TestUpdateRecomputesMRPOnPricingChange(t *testing.T) {
	t.Parallel()

	fx := newCatalogFixture(t)
	ctx := context.Background()

	product, err := fx.svc.Create(ctx, CreateProductInput{
		Name:       "Sunflower Oil 1L",
		Category:   "Grocery",
		SupplierID: fx.supplier.ID,
		UnitPrice:  dec("150.00"),
		GSTPercent: dec("5"),
	})
	require.NoError(t, err)
	require.Equal(t, "157.50", product.MRP.StringFixed(2))

	newPrice := dec("160.00")
	updated, err := fx.svc.Update(ctx, product.ID, UpdateProductInput{UnitPrice: &newPrice})
	require.NoError(t, err)
	require.Equal(t, "168.00", updated.MRP.StringFixed(2))
}

func TestAdjustQuantityWritesAuditAndGuardsFloor(t *testing.T) {
	t.Parallel()

	fx := newCatalogFixture(t)
	ctx := context.Background()

	product, err := fx.svc.Create(ctx, CreateProductInput{
		Name:       "Detergent Bar",
		Category:   "Household",
		SupplierID: fx.supplier.ID,
		Quantity:   5,
		UnitPrice:  dec("30.00"),
	})
	require.NoError(t, err)

	adjusted, err := fx.svc.AdjustQuantity(ctx, product.ID, AdjustQuantityInput{Delta: -3, Reason: "damaged in storage"}, "admin")
	require.NoError(t, err)
	require.Equal(t, 2, adjusted.Quantity)

	_, err = fx.svc.AdjustQuantity(ctx, product.ID, AdjustQuantityInput{Delta: -5, Reason: "stock count"}, "admin")
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeOutOfStock, appErr.Code())

	// The rejected adjustment must leave quantity and audit trail untouched.
	var record models.Product
	require.NoError(t, fx.conn.First(&record, "id = ?", product.ID).Error)
	require.Equal(t, 2, record.Quantity)

	var entries []models.StockLogEntry
	require.NoError(t, fx.conn.Where("change_type = ?", enums.StockChangeOut).Find(&entries).Error)
	require.Len(t, entries, 1)
	require.Equal(t, 3, entries[0].Quantity)
	require.Equal(t, "damaged in storage", entries[0].Reason)
}

func TestDeleteBlockedWhileReferenced(t *testing.T) {
	t.Parallel()

	fx := newCatalogFixture(t)
	ctx := context.Background()

	product, err := fx.svc.Create(ctx, CreateProductInput{
		Name:       "Green Tea",
		Category:   "Beverages",
		SupplierID: fx.supplier.ID,
		UnitPrice:  dec("200.00"),
	})
	require.NoError(t, err)

	line := models.SaleLine{
		SaleID:         "001",
		ProductID:      product.ID,
		ProductName:    product.Name,
		Category:       product.Category,
		Quantity:       1,
		MRP:            product.MRP,
		LineTotal:      product.MRP,
		DiscountType:   enums.DiscountTypeFlat,
		DiscountValue:  decimal.Zero,
		EffectiveTotal: product.MRP,
	}
	require.NoError(t, fx.conn.Create(&line).Error)

	err = fx.svc.Delete(ctx, product.ID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeConflict, appErr.Code())

	require.NoError(t, fx.conn.Delete(&models.SaleLine{}, "id = ?", line.ID).Error)
	require.NoError(t, fx.svc.Delete(ctx, product.ID))
}

func TestListLowStock(t *testing.T) {
	t.Parallel()

	fx := newCatalogFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, CreateProductInput{
		Name:         "Salt 1kg",
		Category:     "Grocery",
		SupplierID:   fx.supplier.ID,
		Quantity:     2,
		UnitPrice:    dec("20.00"),
		ReorderLevel: 5,
	})
	require.NoError(t, err)
	_, err = fx.svc.Create(ctx, CreateProductInput{
		Name:         "Sugar 1kg",
		Category:     "Grocery",
		SupplierID:   fx.supplier.ID,
		Quantity:     50,
		UnitPrice:    dec("45.00"),
		ReorderLevel: 5,
	})
	require.NoError(t, err)

	low, err := fx.svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	require.Equal(t, "Salt 1kg", low[0].Name)
	require.True(t, low[0].LowStock)
}
