package reports

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/kiranapos/backend/pkg/errors"
	"github.com/kiranapos/backend/pkg/logger"
	"github.com/kiranapos/backend/pkg/money"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"

	defaultTrendDays   = 30
	defaultTrendMonths = 12
	defaultTopLimit    = 10
	maxLimit           = 100
)

// ServiceParams groups dependencies for the reports service.
type ServiceParams struct {
	Repo   *Repository
	Logger *logger.Logger
}

// Service answers read-only reporting questions about committed sales.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
	DailyTrend(ctx context.Context, days int) ([]TrendPoint, error)
	MonthlyTrend(ctx context.Context, months int) ([]TrendPoint, error)
	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error)
	SupplierComparison(ctx context.Context, limit int) ([]SupplierSales, error)
	Profit(ctx context.Context, from, to time.Time) (*ProfitReport, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reports repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{repo: params.Repo, logg: params.Logger}, nil
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	total, err := s.repo.totalSales(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "summing sales")
	}
	customers, err := s.repo.countCustomers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "counting customers")
	}
	profit, err := s.repo.profitEstimate(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "estimating profit")
	}
	return &Summary{
		TotalSales:     money.Round2(total),
		TotalCustomers: customers,
		ProfitEstimate: money.Round2(profit),
	}, nil
}

// DailyTrend buckets sale totals by calendar day over the trailing window.
// Days with no sales are omitted, matching the underlying data.
func (s *service) DailyTrend(ctx context.Context, days int) ([]TrendPoint, error) {
	if days <= 0 || days > 366 {
		days = defaultTrendDays
	}
	cutoff := time.Now().AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)
	return s.trend(ctx, cutoff, dayLayout)
}

// MonthlyTrend buckets sale totals by calendar month.
func (s *service) MonthlyTrend(ctx context.Context, months int) ([]TrendPoint, error) {
	if months <= 0 || months > 60 {
		months = defaultTrendMonths
	}
	now := time.Now()
	cutoff := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)
	return s.trend(ctx, cutoff, monthLayout)
}

func (s *service) trend(ctx context.Context, cutoff time.Time, layout string) ([]TrendPoint, error) {
	rows, err := s.repo.salesSince(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "loading sales trend")
	}

	buckets := make(map[string]decimal.Decimal)
	for _, row := range rows {
		key := row.Date.Format(layout)
		buckets[key] = buckets[key].Add(row.Total)
	}

	points := make([]TrendPoint, 0, len(buckets))
	for period, total := range buckets {
		points = append(points, TrendPoint{Period: period, Total: money.Round2(total)})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points, nil
}

func (s *service) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error) {
	from, to = normalizeRange(from, to)
	if limit <= 0 || limit > maxLimit {
		limit = defaultTopLimit
	}
	rows, err := s.repo.topProducts(ctx, from, to, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "ranking products")
	}
	for i := range rows {
		rows[i].SalesTotal = money.Round2(rows[i].SalesTotal)
	}
	return rows, nil
}

func (s *service) SupplierComparison(ctx context.Context, limit int) ([]SupplierSales, error) {
	if limit <= 0 || limit > maxLimit {
		limit = defaultTopLimit
	}
	rows, err := s.repo.supplierSales(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "comparing suppliers")
	}
	for i := range rows {
		if rows[i].Company == "" {
			rows[i].Company = "Unknown"
		}
		rows[i].SalesTotal = money.Round2(rows[i].SalesTotal)
	}
	return rows, nil
}

// Profit reports per-product sales against cost of goods sold for the range.
// Margin percent is profit over COGS; products with zero COGS report zero.
func (s *service) Profit(ctx context.Context, from, to time.Time) (*ProfitReport, error) {
	from, to = normalizeRange(from, to)
	rows, err := s.repo.profitByProduct(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "computing margins")
	}

	report := &ProfitReport{Rows: make([]ProfitRow, 0, len(rows))}
	hundred := decimal.NewFromInt(100)
	for _, row := range rows {
		profit := row.Sales.Sub(row.COGS)
		margin := decimal.Zero
		if row.COGS.IsPositive() {
			margin = profit.Div(row.COGS).Mul(hundred).Round(2)
		}
		report.Rows = append(report.Rows, ProfitRow{
			ProductID:     row.ProductID,
			ProductName:   row.ProductName,
			Sales:         money.Round2(row.Sales),
			COGS:          money.Round2(row.COGS),
			Profit:        money.Round2(profit),
			MarginPercent: margin,
		})
		report.TotalSales = report.TotalSales.Add(row.Sales)
		report.TotalProfit = report.TotalProfit.Add(profit)
	}
	if report.TotalSales.IsPositive() {
		report.OverallMarginPercent = report.TotalProfit.Div(report.TotalSales).Mul(hundred).Round(2)
	}
	report.TotalSales = money.Round2(report.TotalSales)
	report.TotalProfit = money.Round2(report.TotalProfit)
	return report, nil
}

// normalizeRange fills an open range with the trailing 30 days and widens
// the end to cover the whole closing day.
func normalizeRange(from, to time.Time) (time.Time, time.Time) {
	now := time.Now()
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -defaultTrendDays)
	}
	if from.After(to) {
		from, to = to, from
	}
	return from, to.Add(24*time.Hour - time.Nanosecond)
}
