// Package kpi derives the dashboard's key performance indicators from
// whichever datasets a session has loaded. Every function is total:
// absent tables omit their metric group instead of failing.
package kpi

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/opsintel/backend-go/internal/domain"
	"github.com/opsintel/backend-go/internal/session"
	"github.com/opsintel/backend-go/internal/timeseries"
)

// growthWindow is the comparison window for revenue growth: the trailing
// 30 days against the 30 days before them.
const growthWindow = 30 * 24 * time.Hour

// Calculate recomputes the full KPI snapshot from the session's tables.
// Snapshots are derived wholesale on every call; nothing is patched in
// place, so a snapshot can never go stale against its source tables.
func Calculate(ctx *session.Context) domain.KPISnapshot {
	var snap domain.KPISnapshot

	if ctx.Sales != nil {
		snap.Revenue = revenueKPIs(ctx.Sales)
	}
	if ctx.Expenses != nil {
		snap.Expenses = expenseKPIs(ctx.Expenses)
	}
	if snap.Revenue != nil && snap.Expenses != nil {
		snap.Profit = profitKPIs(snap.Revenue.TotalRevenue, snap.Expenses.TotalExpenses)
	}
	if ctx.Inventory != nil {
		snap.Inventory = inventoryKPIs(ctx.Inventory)
	}

	return snap
}

func revenueKPIs(sales *domain.SalesTable) *domain.RevenueKPIs {
	var total float64
	perDay := make(map[time.Time]float64)
	for _, r := range sales.Rows {
		total += r.Revenue
		perDay[r.Date] += r.Revenue
	}

	return &domain.RevenueKPIs{
		TotalRevenue:    total,
		AvgDailyRevenue: meanOfDailySums(perDay),
		RevenueGrowth:   revenueGrowth(sales),
	}
}

// revenueGrowth compares the trailing 30-day revenue (inclusive, anchored
// at the latest sale date) against the prior 30-day window. A zero prior
// window yields growth 0 rather than a division by zero.
func revenueGrowth(sales *domain.SalesTable) float64 {
	if sales.Len() == 0 {
		return 0
	}

	anchor := sales.MaxDate()
	recentStart := anchor.Add(-growthWindow)
	priorStart := anchor.Add(-2 * growthWindow)

	var recent, prior float64
	for _, r := range sales.Rows {
		switch {
		case !r.Date.Before(recentStart):
			recent += r.Revenue
		case !r.Date.Before(priorStart):
			prior += r.Revenue
		}
	}

	if prior <= 0 {
		return 0
	}
	return (recent - prior) / prior * 100
}

func expenseKPIs(expenses *domain.ExpenseTable) *domain.ExpenseKPIs {
	var total float64
	perDay := make(map[time.Time]float64)
	byCategory := make(map[string]float64)
	for _, r := range expenses.Rows {
		total += r.Amount
		perDay[r.Date] += r.Amount
		byCategory[r.Category] += r.Amount
	}

	return &domain.ExpenseKPIs{
		TotalExpenses:    total,
		AvgDailyExpenses: meanOfDailySums(perDay),
		ByCategory:       byCategory,
	}
}

func profitKPIs(totalRevenue, totalExpenses float64) *domain.ProfitKPIs {
	profit := totalRevenue - totalExpenses
	margin := 0.0
	if totalRevenue > 0 {
		margin = profit / totalRevenue * 100
	}
	return &domain.ProfitKPIs{TotalProfit: profit, ProfitMargin: margin}
}

func inventoryKPIs(inv *domain.InventoryTable) *domain.InventoryKPIs {
	k := &domain.InventoryKPIs{TotalProducts: inv.Len()}
	for _, r := range inv.Rows {
		if r.IsLowStock() {
			k.LowStockItems++
		}
		// Stock-unit sum; unit cost is deliberately not applied.
		if !math.IsNaN(r.CurrentStock) {
			k.TotalInventoryValue += r.CurrentStock
		}
	}
	return k
}

func meanOfDailySums(perDay map[time.Time]float64) float64 {
	if len(perDay) == 0 {
		return 0
	}
	var sum float64
	for _, v := range perDay {
		sum += v
	}
	return sum / float64(len(perDay))
}

// RevenueTrend resamples the session's sales into the requested period
// for charting. Returns nil when no sales are loaded.
func RevenueTrend(ctx *session.Context, period timeseries.Period) ([]timeseries.Point, error) {
	if ctx.Sales == nil {
		return nil, nil
	}
	return timeseries.Resample(timeseries.FromSales(ctx.Sales), period)
}

// CategoryTotal is one slice of the expense breakdown.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// ExpenseBreakdown sums expenses per category, largest first. Returns nil
// when no expenses are loaded.
func ExpenseBreakdown(ctx *session.Context) []CategoryTotal {
	if ctx.Expenses == nil {
		return nil
	}

	byCategory := make(map[string]float64)
	for _, r := range ctx.Expenses.Rows {
		byCategory[r.Category] += r.Amount
	}

	out := make([]CategoryTotal, 0, len(byCategory))
	for c, v := range byCategory {
		out = append(out, CategoryTotal{Category: c, Total: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// LowStockAlert is an inventory row projected to its identifying and
// stock-level columns.
type LowStockAlert struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	CurrentStock float64 `json:"current_stock"`
	ReorderLevel float64 `json:"reorder_level"`
}

// LowStockAlerts returns the inventory rows at or below their reorder
// level, independent of any sales history. Returns nil when no inventory
// is loaded.
func LowStockAlerts(ctx *session.Context) []LowStockAlert {
	if ctx.Inventory == nil {
		return nil
	}

	alerts := make([]LowStockAlert, 0)
	for _, r := range ctx.Inventory.Rows {
		if r.IsLowStock() {
			alerts = append(alerts, LowStockAlert{
				ProductID:    r.ProductID,
				ProductName:  r.ProductName,
				CurrentStock: r.CurrentStock,
				ReorderLevel: r.ReorderLevel,
			})
		}
	}
	return alerts
}

// Summarize builds the read-only data summary consumed by the
// recommendation collaborator and the export endpoint.
func Summarize(ctx *session.Context) domain.DataSummary {
	summary := domain.DataSummary{
		DataLoaded: ctx.Loaded(),
		KPIs:       Calculate(ctx),
		Tables:     make(map[string]domain.TableSummary),
	}

	if ctx.Sales != nil {
		summary.Tables[string(domain.KindSales)] = domain.TableSummary{
			TotalRecords: ctx.Sales.Len(),
			DateRange: fmt.Sprintf("%s to %s",
				ctx.Sales.MinDate().Format("2006-01-02"),
				ctx.Sales.MaxDate().Format("2006-01-02")),
		}
	}
	if ctx.Expenses != nil {
		summary.Tables[string(domain.KindExpenses)] = domain.TableSummary{
			TotalRecords: ctx.Expenses.Len(),
			Categories:   ctx.Expenses.Categories(),
		}
	}
	if ctx.Inventory != nil {
		summary.Tables[string(domain.KindInventory)] = domain.TableSummary{
			TotalRecords:  ctx.Inventory.Len(),
			LowStockCount: len(LowStockAlerts(ctx)),
		}
	}

	return summary
}
