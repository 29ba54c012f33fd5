package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kiranapos/backend/api/controllers"
	"github.com/kiranapos/backend/api/middleware"
	"github.com/kiranapos/backend/internal/cart"
	"github.com/kiranapos/backend/internal/catalog"
	checkoutsvc "github.com/kiranapos/backend/internal/checkout"
	"github.com/kiranapos/backend/internal/customers"
	"github.com/kiranapos/backend/internal/employees"
	"github.com/kiranapos/backend/internal/invoices"
	"github.com/kiranapos/backend/internal/reports"
	"github.com/kiranapos/backend/internal/returns"
	"github.com/kiranapos/backend/internal/sales"
	"github.com/kiranapos/backend/internal/stocklog"
	"github.com/kiranapos/backend/internal/suppliers"
	"github.com/kiranapos/backend/pkg/config"
	"github.com/kiranapos/backend/pkg/db"
	"github.com/kiranapos/backend/pkg/logger"
	"github.com/kiranapos/backend/pkg/metrics"
	pkgredis "github.com/kiranapos/backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Keeping it a struct
// spares main from a forty-argument constructor.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       *db.Client
	Redis    *pkgredis.Client
	Sessions middleware.SessionValidator
	Registry *metrics.Registry

	Employees employees.Service
	Catalog   catalog.Service
	Suppliers suppliers.Service
	Customers customers.Service
	Cart      cart.Service
	Checkout  checkoutsvc.Service
	Sales     sales.Service
	SalesRepo *sales.Repository
	Invoices  *invoices.Builder
	Returns   returns.Service
	StockLog  stocklog.Service
	Reports   reports.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(d.Registry),
	)

	r.Method(http.MethodGet, "/metrics", d.Registry.Handler())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(d.Employees, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
			r.Post("/logout", controllers.AuthLogout(d.Employees, logg))
			r.Get("/me", controllers.AuthMe(d.Employees, logg))
		})
	})

	var idemStore pkgredis.IdempotencyStore
	if d.Redis != nil {
		idemStore = d.Redis
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(d.Catalog, logg))
			r.Post("/", controllers.ProductCreate(d.Catalog, logg))
			r.Get("/low-stock", controllers.ProductLowStock(d.Catalog, logg))
			r.Get("/{productId}", controllers.ProductDetail(d.Catalog, logg))
			r.Put("/{productId}", controllers.ProductUpdate(d.Catalog, logg))
			r.Delete("/{productId}", controllers.ProductDelete(d.Catalog, logg))
			r.Post("/{productId}/adjust-stock", controllers.ProductAdjustStock(d.Catalog, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.SupplierList(d.Suppliers, logg))
			r.Post("/", controllers.SupplierCreate(d.Suppliers, logg))
			r.Get("/{supplierId}", controllers.SupplierDetail(d.Suppliers, logg))
			r.Put("/{supplierId}", controllers.SupplierUpdate(d.Suppliers, logg))
			r.Delete("/{supplierId}", controllers.SupplierDelete(d.Suppliers, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.CustomerList(d.Customers, logg))
			r.Post("/", controllers.CustomerCreate(d.Customers, logg))
			r.Get("/{customerId}", controllers.CustomerDetail(d.Customers, logg))
		})

		r.Route("/employees", func(r chi.Router) {
			r.Use(middleware.RequireRole("admin", logg))
			r.Get("/", controllers.EmployeeList(d.Employees, logg))
			r.Post("/", controllers.EmployeeCreate(d.Employees, logg))
			r.Get("/{employeeId}", controllers.EmployeeDetail(d.Employees, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(d.Cart, logg))
			r.Post("/items", controllers.CartAddItem(d.Cart, logg))
			r.Delete("/items/{lineId}", controllers.CartRemoveOne(d.Cart, logg))
			r.Delete("/", controllers.CartClear(d.Cart, logg))
		})

		r.Post("/checkout", controllers.Checkout(d.Checkout, logg))

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.SalesList(d.Sales, logg))
			r.Get("/recent", controllers.SalesRecent(d.Sales, logg))
			r.Get("/{saleId}", controllers.SaleDetail(d.Sales, logg))
			r.Get("/{saleId}/invoice", controllers.SaleInvoice(d.SalesRepo, d.Invoices, logg))
			r.Post("/{saleId}/returns", controllers.ReturnsApply(d.Returns, logg))
		})

		r.Get("/returns", controllers.ReturnsList(d.Returns, logg))
		r.Get("/stock-logs", controllers.StockLogList(d.StockLog, logg))

		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.RequireRole("admin", logg))
			r.Get("/summary", controllers.ReportSummary(d.Reports, logg))
			r.Get("/daily-trend", controllers.ReportDailyTrend(d.Reports, logg))
			r.Get("/monthly-trend", controllers.ReportMonthlyTrend(d.Reports, logg))
			r.Get("/top-products", controllers.ReportTopProducts(d.Reports, logg))
			r.Get("/supplier-comparison", controllers.ReportSupplierComparison(d.Reports, logg))
			r.Get("/profit", controllers.ReportProfit(d.Reports, logg))
		})
	})

	return r
}
