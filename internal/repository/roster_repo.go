package repository

import (
	"context"

	"github.com/noppadol/classdesk-api/internal/models"
	"github.com/noppadol/classdesk-api/internal/sheetstore"
)

// RosterRepository reads the externally maintained student roster.
type RosterRepository interface {
	List(ctx context.Context) ([]models.Student, error)
}

type rosterRepository struct {
	table sheetstore.Table
}

// NewRosterRepository instantiates the repository over the roster table.
func NewRosterRepository(table sheetstore.Table) RosterRepository {
	return &rosterRepository{table: table}
}

func (r *rosterRepository) List(ctx context.Context) ([]models.Student, error) {
	records, err := r.table.Records(ctx)
	if err != nil {
		return nil, err
	}

	students := make([]models.Student, 0, len(records))
	for _, record := range records {
		students = append(students, models.StudentFromRecord(record))
	}

	return students, nil
}
