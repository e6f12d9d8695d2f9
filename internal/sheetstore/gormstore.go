package sheetstore

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// sheetRow persists one sheet row as an ordered cell array. RowIndex is the
// 1-based storage position, header row included.
type sheetRow struct {
	ID        uint                        `gorm:"primaryKey"`
	SheetName string                      `gorm:"column:table_name;size:128;index:idx_sheet_rows_table_row,priority:1;not null"`
	RowIndex  int                         `gorm:"index:idx_sheet_rows_table_row,priority:2;not null"`
	Cells     datatypes.JSONSlice[string] `gorm:"not null"`
}

func (sheetRow) TableName() string {
	return "sheet_rows"
}

// GormStore keeps tables in a relational database while preserving the sheet's
// row/cell addressing model. It serves deployments without Google credentials.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the row table and wraps the connection.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm db must not be nil")
	}
	if err := db.AutoMigrate(&sheetRow{}); err != nil {
		return nil, fmt.Errorf("%w: migrate sheet rows: %v", ErrUnavailable, err)
	}
	return &GormStore{db: db}, nil
}

// Table binds a named table.
func (s *GormStore) Table(name string) Table {
	return &gormTable{db: s.db, name: name}
}

// EnsureHeaders writes the header row if the named table is still empty.
func (s *GormStore) EnsureHeaders(ctx context.Context, name string, headers []string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&sheetRow{}).Where("table_name = ?", name).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: count %q rows: %v", ErrUnavailable, name, err)
	}
	if count > 0 {
		return nil
	}

	row := sheetRow{SheetName: name, RowIndex: 1, Cells: datatypes.NewJSONSlice(headers)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("%w: seed %q headers: %v", ErrUnavailable, name, err)
	}
	return nil
}

type gormTable struct {
	db   *gorm.DB
	name string
}

func (t *gormTable) Headers(ctx context.Context) ([]string, error) {
	rows, err := t.Rows(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (t *gormTable) Rows(ctx context.Context) ([][]string, error) {
	var stored []sheetRow
	err := t.db.WithContext(ctx).
		Where("table_name = ?", t.name).
		Order("row_index ASC").
		Find(&stored).Error
	if err != nil {
		return nil, fmt.Errorf("%w: read %q: %v", ErrUnavailable, t.name, err)
	}

	rows := make([][]string, 0, len(stored))
	for _, row := range stored {
		rows = append(rows, append([]string(nil), row.Cells...))
	}
	return rows, nil
}

func (t *gormTable) Records(ctx context.Context) ([]Record, error) {
	rows, err := t.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return recordsFromRows(rows), nil
}

func (t *gormTable) Append(ctx context.Context, values []string) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxIndex int
		err := tx.Model(&sheetRow{}).
			Where("table_name = ?", t.name).
			Select("COALESCE(MAX(row_index), 0)").
			Scan(&maxIndex).Error
		if err != nil {
			return fmt.Errorf("%w: append to %q: %v", ErrUnavailable, t.name, err)
		}

		row := sheetRow{SheetName: t.name, RowIndex: maxIndex + 1, Cells: datatypes.NewJSONSlice(values)}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("%w: append to %q: %v", ErrUnavailable, t.name, err)
		}
		return nil
	})
}

func (t *gormTable) UpdateCell(ctx context.Context, row, col int, value string) error {
	if row < 1 {
		return fmt.Errorf("%w: row %d", ErrRowOutOfRange, row)
	}
	if col < 1 {
		return fmt.Errorf("%w: col %d", ErrColumnOutOfRange, col)
	}

	var stored sheetRow
	err := t.db.WithContext(ctx).
		Where("table_name = ? AND row_index = ?", t.name, row).
		First(&stored).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: row %d", ErrRowOutOfRange, row)
		}
		return fmt.Errorf("%w: read %q row %d: %v", ErrUnavailable, t.name, row, err)
	}

	cells := append([]string(nil), stored.Cells...)
	for len(cells) < col {
		cells = append(cells, "")
	}
	cells[col-1] = value

	stored.Cells = datatypes.NewJSONSlice(cells)
	if err := t.db.WithContext(ctx).Save(&stored).Error; err != nil {
		return fmt.Errorf("%w: update %q row %d: %v", ErrUnavailable, t.name, row, err)
	}
	return nil
}
