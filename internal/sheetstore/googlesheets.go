package sheetstore

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleSheetsStore accesses worksheets of one spreadsheet through the Google
// Sheets API using a service account credentials file.
type GoogleSheetsStore struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewGoogleSheetsStore builds a store for the given spreadsheet.
func NewGoogleSheetsStore(ctx context.Context, spreadsheetID, credentialsFile string) (*GoogleSheetsStore, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id must not be empty")
	}

	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &GoogleSheetsStore{service: service, spreadsheetID: spreadsheetID}, nil
}

// Table binds a worksheet title.
func (s *GoogleSheetsStore) Table(name string) Table {
	return &googleSheetsTable{store: s, title: name}
}

type googleSheetsTable struct {
	store *GoogleSheetsStore
	title string
}

func (t *googleSheetsTable) Headers(ctx context.Context) ([]string, error) {
	rows, err := t.Rows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (t *googleSheetsTable) Rows(ctx context.Context) ([][]string, error) {
	resp, err := t.store.service.Spreadsheets.Values.
		Get(t.store.spreadsheetID, t.title).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %v", ErrUnavailable, t.title, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprintf("%v", cell))
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (t *googleSheetsTable) Records(ctx context.Context) ([]Record, error) {
	rows, err := t.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return recordsFromRows(rows), nil
}

func (t *googleSheetsTable) Append(ctx context.Context, values []string) error {
	raw := make([]interface{}, len(values))
	for i, value := range values {
		raw[i] = value
	}

	_, err := t.store.service.Spreadsheets.Values.
		Append(t.store.spreadsheetID, t.title, &sheets.ValueRange{Values: [][]interface{}{raw}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: append to %q: %v", ErrUnavailable, t.title, err)
	}

	return nil
}

func (t *googleSheetsTable) UpdateCell(ctx context.Context, row, col int, value string) error {
	if row < 1 {
		return fmt.Errorf("%w: row %d", ErrRowOutOfRange, row)
	}
	if col < 1 {
		return fmt.Errorf("%w: col %d", ErrColumnOutOfRange, col)
	}

	rows, err := t.Rows(ctx)
	if err != nil {
		return err
	}
	if row > len(rows) {
		return fmt.Errorf("%w: row %d beyond %d rows", ErrRowOutOfRange, row, len(rows))
	}

	cellRange := fmt.Sprintf("%s!%s%d", t.title, columnLetter(col), row)
	_, err = t.store.service.Spreadsheets.Values.
		Update(t.store.spreadsheetID, cellRange, &sheets.ValueRange{Values: [][]interface{}{{value}}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: update %s: %v", ErrUnavailable, cellRange, err)
	}

	return nil
}

// columnLetter converts a 1-based column index to its A1 notation letters.
func columnLetter(col int) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}
