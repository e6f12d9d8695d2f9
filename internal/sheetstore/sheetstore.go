package sheetstore

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the backing sheet service is unreachable or the
// configured credentials were rejected.
var ErrUnavailable = errors.New("sheet store unavailable")

// ErrRowOutOfRange indicates a cell write targeted a row beyond the current row count.
var ErrRowOutOfRange = errors.New("row index out of range")

// ErrColumnOutOfRange indicates a cell write targeted a column before the first one.
var ErrColumnOutOfRange = errors.New("column index out of range")

// Record maps column headers to cell values for one data row. Missing trailing
// cells are reported as empty strings.
type Record map[string]string

// Table exposes the operations the workflows need against one named worksheet.
// Row and column coordinates are 1-based and the header occupies row 1, matching
// the on-storage layout of the backing sheet.
type Table interface {
	Headers(ctx context.Context) ([]string, error)
	Rows(ctx context.Context) ([][]string, error)
	Records(ctx context.Context) ([]Record, error)
	Append(ctx context.Context, values []string) error
	UpdateCell(ctx context.Context, row, col int, value string) error
}

// Store opens named tables on a backing document.
type Store interface {
	Table(name string) Table
}

// recordsFromRows converts a raw cell matrix into header keyed records.
func recordsFromRows(rows [][]string) []Record {
	if len(rows) == 0 {
		return nil
	}

	headers := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(Record, len(headers))
		for i, header := range headers {
			if i < len(row) {
				record[header] = row[i]
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}

	return records
}
