package domain

import (
	"math"
	"time"
)

// DatasetKind identifies one of the three supported upload types.
type DatasetKind string

const (
	KindSales     DatasetKind = "sales"
	KindExpenses  DatasetKind = "expenses"
	KindInventory DatasetKind = "inventory"
)

// Column names recognized by the validator.
const (
	ColDate         = "date"
	ColRevenue      = "revenue"
	ColAmount       = "amount"
	ColCategory     = "category"
	ColProductID    = "product_id"
	ColQuantity     = "quantity"
	ColCustomerID   = "customer_id"
	ColProductName  = "product_name"
	ColCurrentStock = "current_stock"
	ColReorderLevel = "reorder_level"
	ColSupplier     = "supplier"
	ColCostPerUnit  = "cost_per_unit"
)

// SalesRecord is a single validated sales row. Optional columns are
// zero-valued when absent from the upload; table-level column presence
// distinguishes "absent column" from "empty value".
type SalesRecord struct {
	Date       time.Time `json:"date"`
	Revenue    float64   `json:"revenue"`
	ProductID  string    `json:"product_id,omitempty"`
	Quantity   float64   `json:"quantity,omitempty"`
	CustomerID string    `json:"customer_id,omitempty"`
	Category   string    `json:"category,omitempty"`
}

// ExpenseRecord is a single validated expense row.
type ExpenseRecord struct {
	Date     time.Time `json:"date"`
	Amount   float64   `json:"amount"`
	Category string    `json:"category"`
}

// InventoryRecord is a single validated inventory row. CurrentStock and
// ReorderLevel are NaN when the uploaded value failed numeric coercion;
// the row is kept and every consumer treats NaN comparisons as false.
type InventoryRecord struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	CurrentStock float64 `json:"current_stock"`
	ReorderLevel float64 `json:"reorder_level"`
	Supplier     string  `json:"supplier,omitempty"`
	CostPerUnit  float64 `json:"cost_per_unit,omitempty"`
}

// HasStockLevels reports whether both numeric stock fields parsed cleanly.
func (r InventoryRecord) HasStockLevels() bool {
	return !math.IsNaN(r.CurrentStock) && !math.IsNaN(r.ReorderLevel)
}

// IsLowStock is the static low-stock predicate shared by the KPI engine
// and the inventory projector. False when either level is missing.
func (r InventoryRecord) IsLowStock() bool {
	return r.HasStockLevels() && r.CurrentStock <= r.ReorderLevel
}

// SalesTable is an ordered, validated sales dataset.
type SalesTable struct {
	Rows    []SalesRecord
	columns map[string]bool
}

// ExpenseTable is an ordered, validated expense dataset.
type ExpenseTable struct {
	Rows []ExpenseRecord
}

// InventoryTable is an ordered, validated inventory dataset.
type InventoryTable struct {
	Rows []InventoryRecord
}

// NewSalesTable builds a sales table recording which optional columns the
// upload carried.
func NewSalesTable(rows []SalesRecord, columns []string) *SalesTable {
	set := make(map[string]bool, len(columns))
	for _, c := range columns {
		set[c] = true
	}
	return &SalesTable{Rows: rows, columns: set}
}

// HasColumn reports whether the uploaded file contained the named column.
func (t *SalesTable) HasColumn(name string) bool {
	return t != nil && t.columns[name]
}

// Len returns the row count.
func (t *SalesTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// MaxDate returns the latest sale date, or the zero time for an empty table.
func (t *SalesTable) MaxDate() time.Time {
	var max time.Time
	if t == nil {
		return max
	}
	for _, r := range t.Rows {
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return max
}

// MinDate returns the earliest sale date, or the zero time for an empty table.
func (t *SalesTable) MinDate() time.Time {
	var min time.Time
	if t == nil {
		return min
	}
	for _, r := range t.Rows {
		if min.IsZero() || r.Date.Before(min) {
			min = r.Date
		}
	}
	return min
}

// Len returns the row count.
func (t *ExpenseTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Categories returns the distinct expense categories in first-seen order.
func (t *ExpenseTable) Categories() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.Rows {
		if !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	return out
}

// Len returns the row count.
func (t *InventoryTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
