package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kiranapos/backend/api/routes"
	"github.com/kiranapos/backend/internal/cart"
	"github.com/kiranapos/backend/internal/catalog"
	checkoutsvc "github.com/kiranapos/backend/internal/checkout"
	"github.com/kiranapos/backend/internal/customers"
	"github.com/kiranapos/backend/internal/delivery"
	"github.com/kiranapos/backend/internal/employees"
	"github.com/kiranapos/backend/internal/invoices"
	"github.com/kiranapos/backend/internal/reports"
	"github.com/kiranapos/backend/internal/returns"
	"github.com/kiranapos/backend/internal/sales"
	"github.com/kiranapos/backend/internal/stocklog"
	"github.com/kiranapos/backend/internal/suppliers"
	"github.com/kiranapos/backend/pkg/auth/session"
	"github.com/kiranapos/backend/pkg/config"
	"github.com/kiranapos/backend/pkg/db"
	"github.com/kiranapos/backend/pkg/logger"
	"github.com/kiranapos/backend/pkg/metrics"
	"github.com/kiranapos/backend/pkg/migrate"
	pkgredis "github.com/kiranapos/backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT.SessionTTL())
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	reg := metrics.New()

	supplierRepo := suppliers.NewRepository(dbClient.DB())
	customerRepo := customers.NewRepository(dbClient.DB())
	stockLogRepo := stocklog.NewRepository(dbClient.DB())
	productRepo := catalog.NewRepository(dbClient.DB())
	employeeRepo := employees.NewRepository(dbClient.DB())
	salesRepo := sales.NewRepository(dbClient.DB())
	returnsRepo := returns.NewRepository(dbClient.DB())
	reportsRepo := reports.NewRepository(dbClient.DB())

	supplierService, err := suppliers.NewService(suppliers.ServiceParams{Repo: supplierRepo, DB: dbClient})
	requireService(logg, "suppliers", err)

	customerService, err := customers.NewService(customers.ServiceParams{Repo: customerRepo, DB: dbClient})
	requireService(logg, "customers", err)

	stockLogService, err := stocklog.NewService(stockLogRepo)
	requireService(logg, "stock logs", err)

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Repo:         productRepo,
		SupplierRepo: supplierRepo,
		StockLogRepo: stockLogRepo,
		DB:           dbClient,
	})
	requireService(logg, "catalog", err)

	employeeService, err := employees.NewService(employees.ServiceParams{
		Repo:     employeeRepo,
		DB:       dbClient,
		Sessions: sessionManager,
		Limiter:  redisClient,
		JWT:      cfg.JWT,
		Auth:     cfg.Auth,
	})
	requireService(logg, "employees", err)

	if err := employeeService.EnsureSeedAdmin(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to seed admin account", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Store:    cart.NewMemoryStore(),
		Products: productRepo,
	})
	requireService(logg, "cart", err)

	invoiceBuilder, err := invoices.NewBuilder(cfg.Store.Name, cfg.Store.Address)
	requireService(logg, "invoices", err)

	var sender delivery.Sender = delivery.NoopSender{}
	if cfg.SMTP.Enabled() {
		smtpSender, err := delivery.NewSMTPSender(cfg.SMTP)
		requireService(logg, "smtp sender", err)
		sender = smtpSender
	}

	checkoutService, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Cart:         cartService,
		CustomerRepo: customerRepo,
		ProductRepo:  productRepo,
		SalesRepo:    salesRepo,
		StockLogRepo: stockLogRepo,
		Invoices:     invoiceBuilder,
		Sender:       sender,
		Metrics:      reg,
		Logger:       logg,
		DB:           dbClient,
	})
	requireService(logg, "checkout", err)

	salesService, err := sales.NewService(sales.ServiceParams{Repo: salesRepo, Returns: cfg.Returns})
	requireService(logg, "sales", err)

	returnsService, err := returns.NewService(returns.ServiceParams{
		SalesRepo:    salesRepo,
		ProductRepo:  productRepo,
		StockLogRepo: stockLogRepo,
		ReturnsRepo:  returnsRepo,
		Metrics:      reg,
		Logger:       logg,
		DB:           dbClient,
	})
	requireService(logg, "returns", err)

	reportsService, err := reports.NewService(reports.ServiceParams{Repo: reportsRepo, Logger: logg})
	requireService(logg, "reports", err)

	handler := routes.NewRouter(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       dbClient,
		Redis:    redisClient,
		Sessions: sessionManager,
		Registry: reg,

		Employees: employeeService,
		Catalog:   catalogService,
		Suppliers: supplierService,
		Customers: customerService,
		Cart:      cartService,
		Checkout:  checkoutService,
		Sales:     salesService,
		SalesRepo: salesRepo,
		Invoices:  invoiceBuilder,
		Returns:   returnsService,
		StockLog:  stockLogService,
		Reports:   reportsService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		graceCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(graceCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}
