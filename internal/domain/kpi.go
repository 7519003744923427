package domain

// RevenueKPIs groups the sales-derived indicators.
type RevenueKPIs struct {
	TotalRevenue    float64 `json:"total_revenue"`
	AvgDailyRevenue float64 `json:"avg_daily_revenue"`
	RevenueGrowth   float64 `json:"revenue_growth"`
}

// ExpenseKPIs groups the expense-derived indicators.
type ExpenseKPIs struct {
	TotalExpenses    float64            `json:"total_expenses"`
	AvgDailyExpenses float64            `json:"avg_daily_expenses"`
	ByCategory       map[string]float64 `json:"expenses_by_category"`
}

// ProfitKPIs groups indicators that need both sales and expenses.
type ProfitKPIs struct {
	TotalProfit  float64 `json:"total_profit"`
	ProfitMargin float64 `json:"profit_margin"`
}

// InventoryKPIs groups the inventory-derived indicators.
// TotalInventoryValue is the sum of stock units, not a monetary value;
// the upstream system reports it that way and dashboards depend on it.
type InventoryKPIs struct {
	TotalProducts       int     `json:"total_products"`
	LowStockItems       int     `json:"low_stock_items"`
	TotalInventoryValue float64 `json:"total_inventory_value"`
}

// KPISnapshot is the full indicator set computed from whichever tables
// are loaded. A nil group means its source table was not uploaded.
// Snapshots are always recomputed wholesale, never patched.
type KPISnapshot struct {
	Revenue   *RevenueKPIs   `json:"revenue,omitempty"`
	Expenses  *ExpenseKPIs   `json:"expenses,omitempty"`
	Profit    *ProfitKPIs    `json:"profit,omitempty"`
	Inventory *InventoryKPIs `json:"inventory,omitempty"`
}

// IsEmpty reports whether no metric group could be computed.
func (s KPISnapshot) IsEmpty() bool {
	return s.Revenue == nil && s.Expenses == nil && s.Profit == nil && s.Inventory == nil
}

// TableSummary describes one loaded table for the data summary export.
type TableSummary struct {
	TotalRecords  int      `json:"total_records"`
	DateRange     string   `json:"date_range,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	LowStockCount int      `json:"low_stock_count,omitempty"`
}

// DataSummary is the read-only view handed to the recommendation
// collaborator and the export endpoint.
type DataSummary struct {
	DataLoaded map[string]bool         `json:"data_loaded"`
	KPIs       KPISnapshot             `json:"kpis"`
	Tables     map[string]TableSummary `json:"tables,omitempty"`
}
