package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/opsintel/backend-go/internal/domain"
)

// RawTable is an uploaded table before validation: a header row plus
// string cells, exactly as parsed from the file.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex maps normalized column names to their positions. Duplicate
// headers keep the first occurrence.
func (t *RawTable) ColumnIndex() map[string]int {
	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		name := normalizeColumn(c)
		if _, ok := idx[name]; !ok {
			idx[name] = i
		}
	}
	return idx
}

func normalizeColumn(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

// ReadBytes parses an in-memory upload payload into a RawTable.
func ReadBytes(data []byte, filename string) (*RawTable, error) {
	return Read(bytes.NewReader(data), filename)
}

// ReadFile parses a table from disk, for the CLI path.
func ReadFile(path string) (*RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, path)
}

// Read parses an uploaded file into a RawTable, dispatching on the file
// extension. Only CSV and Excel workbooks are supported.
func Read(r io.Reader, filename string) (*RawTable, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(r)
	case ".xlsx", ".xls":
		return readXLSX(r)
	default:
		return nil, &domain.UnsupportedInputError{Input: fmt.Sprintf("file format %q (expected CSV or Excel)", filepath.Ext(filename))}
	}
}

func readCSV(r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return &RawTable{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		rows = append(rows, record)
	}

	return &RawTable{Columns: header, Rows: rows}, nil
}

// readXLSX reads the first sheet of an Excel workbook. The first row is
// treated as the header, matching the CSV path.
func readXLSX(r io.Reader) (*RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}
	defer rows.Close()

	table := &RawTable{}
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read workbook row: %w", err)
		}
		if table.Columns == nil {
			table.Columns = record
			continue
		}
		table.Rows = append(table.Rows, record)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating workbook rows: %w", err)
	}

	return table, nil
}
