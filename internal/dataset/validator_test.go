package dataset

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsintel/backend-go/internal/domain"
)

func TestValidateSales(t *testing.T) {
	t.Run("parses rows with optional columns", func(t *testing.T) {
		raw := &RawTable{
			Columns: []string{"Date", "Revenue", "Product_ID", "Quantity"},
			Rows: [][]string{
				{"2025-01-02", "120.50", "P-1", "3"},
				{"2025/01/03", "80", "P-2", "1"},
			},
		}

		table, err := ValidateSales(raw)
		require.NoError(t, err)
		require.Equal(t, 2, table.Len())

		assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), table.Rows[0].Date)
		assert.Equal(t, 120.50, table.Rows[0].Revenue)
		assert.Equal(t, "P-1", table.Rows[0].ProductID)
		assert.Equal(t, 3.0, table.Rows[0].Quantity)
		assert.True(t, table.HasColumn(domain.ColProductID))
		assert.False(t, table.HasColumn(domain.ColCustomerID))
	})

	t.Run("missing required columns", func(t *testing.T) {
		raw := &RawTable{Columns: []string{"revenue"}, Rows: nil}

		_, err := ValidateSales(raw)
		var schemaErr *domain.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, domain.KindSales, schemaErr.Kind)
		assert.Equal(t, []string{"date"}, schemaErr.Missing)
		assert.Contains(t, err.Error(), "sales data missing required columns")
	})

	t.Run("drops rows with non-numeric revenue", func(t *testing.T) {
		raw := &RawTable{
			Columns: []string{"date", "revenue"},
			Rows: [][]string{
				{"2025-01-02", "100"},
				{"2025-01-03", "n/a"},
				{"2025-01-04", "1,250.75"},
			},
		}

		table, err := ValidateSales(raw)
		require.NoError(t, err)
		require.Equal(t, 2, table.Len())
		assert.Equal(t, 1250.75, table.Rows[1].Revenue)
	})

	t.Run("unparseable date fails the table", func(t *testing.T) {
		raw := &RawTable{
			Columns: []string{"date", "revenue"},
			Rows:    [][]string{{"not-a-date", "100"}},
		}

		_, err := ValidateSales(raw)
		var formatErr *domain.FormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, "date", formatErr.Column)
		assert.Equal(t, "not-a-date", formatErr.Value)
	})

	t.Run("timestamps normalize to midnight UTC", func(t *testing.T) {
		raw := &RawTable{
			Columns: []string{"date", "revenue"},
			Rows:    [][]string{{"2025-01-02 14:30:00", "100"}},
		}

		table, err := ValidateSales(raw)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), table.Rows[0].Date)
	})
}

func TestValidateExpenses(t *testing.T) {
	t.Run("requires category", func(t *testing.T) {
		raw := &RawTable{Columns: []string{"date", "amount"}, Rows: nil}

		_, err := ValidateExpenses(raw)
		var schemaErr *domain.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{"category"}, schemaErr.Missing)
	})

	t.Run("drops rows with non-numeric amount", func(t *testing.T) {
		raw := &RawTable{
			Columns: []string{"date", "amount", "category"},
			Rows: [][]string{
				{"2025-01-02", "40", "rent"},
				{"2025-01-02", "", "rent"},
				{"2025-01-03", "60", "utilities"},
			},
		}

		table, err := ValidateExpenses(raw)
		require.NoError(t, err)
		require.Equal(t, 2, table.Len())
		assert.Equal(t, []string{"rent", "utilities"}, table.Categories())
	})
}

func TestValidateInventory(t *testing.T) {
	t.Run("bad stock values become NaN, row kept", func(t *testing.T) {
		raw := &RawTable{
			Columns: []string{"product_id", "product_name", "current_stock", "reorder_level"},
			Rows: [][]string{
				{"P-1", "Widget", "12", "20"},
				{"P-2", "Gadget", "unknown", "10"},
			},
		}

		table, err := ValidateInventory(raw)
		require.NoError(t, err)
		require.Equal(t, 2, table.Len())

		assert.True(t, table.Rows[0].IsLowStock())
		assert.True(t, math.IsNaN(table.Rows[1].CurrentStock))
		assert.False(t, table.Rows[1].HasStockLevels())
		assert.False(t, table.Rows[1].IsLowStock())
	})

	t.Run("reports every missing column", func(t *testing.T) {
		raw := &RawTable{Columns: []string{"product_id"}, Rows: nil}

		_, err := ValidateInventory(raw)
		var schemaErr *domain.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{"product_name", "current_stock", "reorder_level"}, schemaErr.Missing)
	})
}

func TestReadBytes(t *testing.T) {
	t.Run("csv with ragged rows", func(t *testing.T) {
		data := []byte("date,revenue,product_id\n2025-01-02,100,P-1\n2025-01-03,50\n")

		raw, err := ReadBytes(data, "sales.csv")
		require.NoError(t, err)
		assert.Equal(t, []string{"date", "revenue", "product_id"}, raw.Columns)
		require.Len(t, raw.Rows, 2)

		table, err := ValidateSales(raw)
		require.NoError(t, err)
		require.Equal(t, 2, table.Len())
		assert.Equal(t, "", table.Rows[1].ProductID)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ReadBytes([]byte("{}"), "sales.json")
		var unsupported *domain.UnsupportedInputError
		require.ErrorAs(t, err, &unsupported)
	})
}
