package sheetstore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps tables in process memory. It backs unit tests and
// store.driver=memory runs where nothing needs to survive a restart.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string]*memoryTable
}

// NewMemoryStore builds an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]*memoryTable)}
}

// Table returns the named table, creating it empty on first access.
func (s *MemoryStore) Table(name string) Table {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.tables[name]
	if !ok {
		table = &memoryTable{}
		s.tables[name] = table
	}
	return table
}

// Seed replaces the named table's contents, header row first. Intended for tests.
func (s *MemoryStore) Seed(name string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.tables[name]
	if !ok {
		table = &memoryTable{}
		s.tables[name] = table
	}

	table.mu.Lock()
	defer table.mu.Unlock()
	table.rows = make([][]string, 0, len(rows))
	for _, row := range rows {
		table.rows = append(table.rows, append([]string(nil), row...))
	}
}

type memoryTable struct {
	mu   sync.Mutex
	rows [][]string
}

func (t *memoryTable) Headers(ctx context.Context) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.rows) == 0 {
		return nil, nil
	}
	return append([]string(nil), t.rows[0]...), nil
}

func (t *memoryTable) Rows(ctx context.Context) ([][]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rows := make([][]string, 0, len(t.rows))
	for _, row := range t.rows {
		rows = append(rows, append([]string(nil), row...))
	}
	return rows, nil
}

func (t *memoryTable) Records(ctx context.Context) ([]Record, error) {
	rows, err := t.Rows(ctx)
	if err != nil {
		return nil, err
	}
	return recordsFromRows(rows), nil
}

func (t *memoryTable) Append(ctx context.Context, values []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows = append(t.rows, append([]string(nil), values...))
	return nil
}

func (t *memoryTable) UpdateCell(ctx context.Context, row, col int, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if row < 1 || row > len(t.rows) {
		return fmt.Errorf("%w: row %d beyond %d rows", ErrRowOutOfRange, row, len(t.rows))
	}
	if col < 1 {
		return fmt.Errorf("%w: col %d", ErrColumnOutOfRange, col)
	}

	target := t.rows[row-1]
	for len(target) < col {
		target = append(target, "")
	}
	target[col-1] = value
	t.rows[row-1] = target
	return nil
}
