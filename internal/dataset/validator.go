// Package dataset parses and validates uploaded tables into typed records.
package dataset

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/opsintel/backend-go/internal/domain"
)

// Date layouts accepted in upload date columns, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ValidateSales coerces a raw table into a sales table. Required columns
// are date and revenue; rows whose revenue fails numeric coercion are
// dropped, matching the upstream cleaning policy.
func ValidateSales(raw *RawTable) (*domain.SalesTable, error) {
	idx := raw.ColumnIndex()
	if err := requireColumns(idx, domain.KindSales, domain.ColDate, domain.ColRevenue); err != nil {
		return nil, err
	}

	rows := make([]domain.SalesRecord, 0, len(raw.Rows))
	for _, cells := range raw.Rows {
		date, err := parseDate(cell(cells, idx, domain.ColDate))
		if err != nil {
			return nil, err
		}

		revenue, ok := parseNumeric(cell(cells, idx, domain.ColRevenue))
		if !ok {
			continue
		}

		quantity, _ := parseNumeric(cell(cells, idx, domain.ColQuantity))

		rows = append(rows, domain.SalesRecord{
			Date:       date,
			Revenue:    revenue,
			ProductID:  strings.TrimSpace(cell(cells, idx, domain.ColProductID)),
			Quantity:   quantity,
			CustomerID: strings.TrimSpace(cell(cells, idx, domain.ColCustomerID)),
			Category:   strings.TrimSpace(cell(cells, idx, domain.ColCategory)),
		})
	}

	columns := make([]string, 0, len(idx))
	for name := range idx {
		columns = append(columns, name)
	}
	return domain.NewSalesTable(rows, columns), nil
}

// ValidateExpenses coerces a raw table into an expense table. Required
// columns are date, amount and category; rows whose amount fails numeric
// coercion are dropped.
func ValidateExpenses(raw *RawTable) (*domain.ExpenseTable, error) {
	idx := raw.ColumnIndex()
	if err := requireColumns(idx, domain.KindExpenses, domain.ColDate, domain.ColAmount, domain.ColCategory); err != nil {
		return nil, err
	}

	rows := make([]domain.ExpenseRecord, 0, len(raw.Rows))
	for _, cells := range raw.Rows {
		date, err := parseDate(cell(cells, idx, domain.ColDate))
		if err != nil {
			return nil, err
		}

		amount, ok := parseNumeric(cell(cells, idx, domain.ColAmount))
		if !ok {
			continue
		}

		rows = append(rows, domain.ExpenseRecord{
			Date:     date,
			Amount:   amount,
			Category: strings.TrimSpace(cell(cells, idx, domain.ColCategory)),
		})
	}

	return &domain.ExpenseTable{Rows: rows}, nil
}

// ValidateInventory coerces a raw table into an inventory table. Rows are
// never dropped: stock levels that fail numeric coercion become NaN and
// stay out of every threshold comparison downstream.
func ValidateInventory(raw *RawTable) (*domain.InventoryTable, error) {
	idx := raw.ColumnIndex()
	err := requireColumns(idx, domain.KindInventory,
		domain.ColProductID, domain.ColProductName, domain.ColCurrentStock, domain.ColReorderLevel)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.InventoryRecord, 0, len(raw.Rows))
	for _, cells := range raw.Rows {
		stock, ok := parseNumeric(cell(cells, idx, domain.ColCurrentStock))
		if !ok {
			stock = math.NaN()
		}
		reorder, ok := parseNumeric(cell(cells, idx, domain.ColReorderLevel))
		if !ok {
			reorder = math.NaN()
		}
		cost, _ := parseNumeric(cell(cells, idx, domain.ColCostPerUnit))

		rows = append(rows, domain.InventoryRecord{
			ProductID:    strings.TrimSpace(cell(cells, idx, domain.ColProductID)),
			ProductName:  strings.TrimSpace(cell(cells, idx, domain.ColProductName)),
			CurrentStock: stock,
			ReorderLevel: reorder,
			Supplier:     strings.TrimSpace(cell(cells, idx, domain.ColSupplier)),
			CostPerUnit:  cost,
		})
	}

	return &domain.InventoryTable{Rows: rows}, nil
}

func requireColumns(idx map[string]int, kind domain.DatasetKind, required ...string) error {
	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &domain.SchemaError{Kind: kind, Missing: missing}
	}
	return nil
}

// cell returns the named column's value for a row, or "" when the column
// is absent or the row is short.
func cell(cells []string, idx map[string]int, column string) string {
	i, ok := idx[column]
	if !ok || i >= len(cells) {
		return ""
	}
	return cells[i]
}

// parseDate tries the accepted layouts in order. Any unparseable date
// fails the whole table; a half-dated series cannot be resampled.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, &domain.FormatError{Column: domain.ColDate, Value: s}
}

// parseNumeric reports ok=false for values that cannot be coerced,
// leaving the drop-or-keep decision to the caller.
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
