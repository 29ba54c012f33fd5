package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kiranapos/backend/internal/cart"
	"github.com/kiranapos/backend/internal/catalog"
	"github.com/kiranapos/backend/internal/checkout"
	"github.com/kiranapos/backend/internal/customers"
	"github.com/kiranapos/backend/internal/employees"
	"github.com/kiranapos/backend/internal/invoices"
	"github.com/kiranapos/backend/internal/reports"
	"github.com/kiranapos/backend/internal/returns"
	"github.com/kiranapos/backend/internal/sales"
	"github.com/kiranapos/backend/internal/stocklog"
	"github.com/kiranapos/backend/internal/suppliers"
	pkgauth "github.com/kiranapos/backend/pkg/auth"
	"github.com/kiranapos/backend/pkg/config"
	"github.com/kiranapos/backend/pkg/enums"
	"github.com/kiranapos/backend/pkg/logger"
	"github.com/kiranapos/backend/pkg/metrics"
)

type stubSessions struct{}

func (stubSessions) Validate(ctx context.Context, jti string) (string, error) {
	return "001", nil
}

type stubEmployees struct{}

func (stubEmployees) Create(ctx context.Context, input employees.CreateEmployeeInput) (employees.EmployeeDTO, error) {
	panic("unimplemented")
}

func (stubEmployees) Get(ctx context.Context, id string) (employees.EmployeeDTO, error) {
	return employees.EmployeeDTO{ID: id, Username: "asha"}, nil
}

func (stubEmployees) List(ctx context.Context) ([]employees.EmployeeDTO, error) {
	return []employees.EmployeeDTO{}, nil
}

func (stubEmployees) Login(ctx context.Context, input employees.LoginInput, remoteIP string) (employees.LoginResult, error) {
	panic("unimplemented")
}

func (stubEmployees) Logout(ctx context.Context, jti string) error {
	return nil
}

func (stubEmployees) EnsureSeedAdmin(ctx context.Context) error {
	return nil
}

type stubCatalog struct{}

func (stubCatalog) Create(ctx context.Context, input catalog.CreateProductInput) (catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalog) Get(ctx context.Context, id string) (catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalog) List(ctx context.Context, filter catalog.ListFilter) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{}, nil
}

func (stubCatalog) ListLowStock(ctx context.Context) ([]catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalog) Update(ctx context.Context, id string, input catalog.UpdateProductInput) (catalog.ProductDTO, error) {
	panic("unimplemented")
}

func (stubCatalog) Delete(ctx context.Context, id string) error {
	panic("unimplemented")
}

func (stubCatalog) AdjustQuantity(ctx context.Context, id string, input catalog.AdjustQuantityInput, actor string) (catalog.ProductDTO, error) {
	panic("unimplemented")
}

type stubSuppliers struct{}

func (stubSuppliers) Create(ctx context.Context, input suppliers.CreateSupplierInput) (suppliers.SupplierDTO, error) {
	panic("unimplemented")
}

func (stubSuppliers) Get(ctx context.Context, id string) (suppliers.SupplierDTO, error) {
	panic("unimplemented")
}

func (stubSuppliers) List(ctx context.Context, search string) ([]suppliers.SupplierDTO, error) {
	panic("unimplemented")
}

func (stubSuppliers) Update(ctx context.Context, id string, input suppliers.UpdateSupplierInput) (suppliers.SupplierDTO, error) {
	panic("unimplemented")
}

func (stubSuppliers) Delete(ctx context.Context, id string) error {
	panic("unimplemented")
}

type stubCustomers struct{}

func (stubCustomers) Create(ctx context.Context, input customers.CreateCustomerInput) (customers.CustomerDTO, error) {
	panic("unimplemented")
}

func (stubCustomers) Get(ctx context.Context, id string) (customers.CustomerDTO, error) {
	panic("unimplemented")
}

func (stubCustomers) List(ctx context.Context, search string) ([]customers.CustomerDTO, error) {
	panic("unimplemented")
}

func (stubCustomers) FindByPhone(ctx context.Context, phone string) (customers.CustomerDTO, error) {
	panic("unimplemented")
}

type stubCart struct{}

func (stubCart) Get(ctx context.Context, sessionID string) (cart.CartDTO, error) {
	return cart.CartDTO{}, nil
}

func (stubCart) Add(ctx context.Context, sessionID string, input cart.AddItemInput) (cart.CartDTO, error) {
	panic("unimplemented")
}

func (stubCart) RemoveOne(ctx context.Context, sessionID, lineID string) (cart.CartDTO, error) {
	panic("unimplemented")
}

func (stubCart) Clear(ctx context.Context, sessionID string) error {
	panic("unimplemented")
}

func (stubCart) Snapshot(sessionID string) []cart.Line {
	return nil
}

type stubCheckout struct{}

func (stubCheckout) Execute(ctx context.Context, operator, sessionID string, selection checkout.CustomerSelection) (*checkout.Receipt, error) {
	panic("unimplemented")
}

type stubSales struct{}

func (stubSales) Get(ctx context.Context, id string) (sales.SaleDTO, error) {
	panic("unimplemented")
}

func (stubSales) List(ctx context.Context, filter sales.ListFilter) ([]sales.SaleDTO, error) {
	panic("unimplemented")
}

func (stubSales) Recent(ctx context.Context) ([]sales.SaleDTO, error) {
	panic("unimplemented")
}

type stubReturns struct{}

func (stubReturns) Apply(ctx context.Context, operator, saleID string, input returns.ApplyInput) (*returns.RefundResult, error) {
	panic("unimplemented")
}

func (stubReturns) History(ctx context.Context, saleID string, limit int) ([]returns.EntryDTO, error) {
	panic("unimplemented")
}

type stubStockLog struct{}

func (stubStockLog) List(ctx context.Context, filter stocklog.ListFilter) ([]stocklog.EntryDTO, error) {
	panic("unimplemented")
}

type stubReports struct{}

func (stubReports) Summary(ctx context.Context) (*reports.Summary, error) {
	return &reports.Summary{}, nil
}

func (stubReports) DailyTrend(ctx context.Context, days int) ([]reports.TrendPoint, error) {
	panic("unimplemented")
}

func (stubReports) MonthlyTrend(ctx context.Context, months int) ([]reports.TrendPoint, error) {
	panic("unimplemented")
}

func (stubReports) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]reports.ProductSales, error) {
	panic("unimplemented")
}

func (stubReports) SupplierComparison(ctx context.Context, limit int) ([]reports.SupplierSales, error) {
	panic("unimplemented")
}

func (stubReports) Profit(ctx context.Context, from, to time.Time) (*reports.ProfitReport, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "kiranapos",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	builder, err := invoices.NewBuilder("Test Store", "12 Market Road")
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	return NewRouter(Deps{
		Config:   cfg,
		Logger:   logg,
		Sessions: stubSessions{},
		Registry: metrics.New(),

		Employees: stubEmployees{},
		Catalog:   stubCatalog{},
		Suppliers: stubSuppliers{},
		Customers: stubCustomers{},
		Cart:      stubCart{},
		Checkout:  stubCheckout{},
		Sales:     stubSales{},
		Invoices:  builder,
		Returns:   stubReturns{},
		StockLog:  stubStockLog{},
		Reports:   stubReports{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.EmployeeRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		EmployeeID: "001",
		Username:   "asha",
		Role:       role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestProtectedRoutesAcceptValidToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.EmployeeRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token got %d", resp.Code)
	}
}

func TestEmployeeRoutesRequireAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	staff := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.EmployeeRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.EmployeeRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestReportsRequireAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	staff := httptest.NewRequest(http.MethodGet, "/api/v1/reports/summary", nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.EmployeeRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/reports/summary", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.EmployeeRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestLoginRouteIsPublic(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed login body got %d", resp.Code)
	}
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
	if resp.Header().Get("X-KiranaPOS-Env") != "test" {
		t.Fatalf("expected env header, got %q", resp.Header().Get("X-KiranaPOS-Env"))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}
