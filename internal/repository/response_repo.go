package repository

import (
	"context"
	"errors"

	"github.com/noppadol/classdesk-api/internal/models"
	"github.com/noppadol/classdesk-api/internal/sheetstore"
)

// ErrRowNotFound indicates no stored row matched the (Timestamp, StudentID)
// lookup key, typically because the sheet changed between read and write.
var ErrRowNotFound = errors.New("response row not found")

// ResponseRepository owns all access to the append-only response log.
type ResponseRepository interface {
	List(ctx context.Context) ([]models.Response, error)
	Append(ctx context.Context, response models.Response) error
	// LocateRow returns the 1-based storage position of the first row whose
	// Timestamp and StudentID cells match the given key. The header is row 1,
	// so data rows start at 2.
	LocateRow(ctx context.Context, timestamp, studentID string) (int, error)
	// WriteGrade overwrites the score, comment and status cells of one row, in
	// that order. The three writes are not atomic.
	WriteGrade(ctx context.Context, row int, score, comment, status string) error
}

type responseRepository struct {
	table sheetstore.Table
}

// NewResponseRepository instantiates the repository over the response table.
func NewResponseRepository(table sheetstore.Table) ResponseRepository {
	return &responseRepository{table: table}
}

func (r *responseRepository) List(ctx context.Context) ([]models.Response, error) {
	records, err := r.table.Records(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]models.Response, 0, len(records))
	for _, record := range records {
		responses = append(responses, models.ResponseFromRecord(record))
	}

	return responses, nil
}

func (r *responseRepository) Append(ctx context.Context, response models.Response) error {
	score := ""
	if response.Score != nil {
		score = models.FormatScore(*response.Score)
	}

	return r.table.Append(ctx, []string{
		response.Timestamp,
		response.StudentID,
		response.Name,
		response.Answer1,
		response.Answer2,
		score,
		response.Comment,
		response.Status,
	})
}

func (r *responseRepository) LocateRow(ctx context.Context, timestamp, studentID string) (int, error) {
	rows, err := r.table.Rows(ctx)
	if err != nil {
		return 0, err
	}

	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		if row[0] == timestamp && row[1] == studentID {
			return i + 1, nil
		}
	}

	return 0, ErrRowNotFound
}

func (r *responseRepository) WriteGrade(ctx context.Context, row int, score, comment, status string) error {
	if err := r.table.UpdateCell(ctx, row, models.ScoreColumnIndex, score); err != nil {
		return err
	}
	if err := r.table.UpdateCell(ctx, row, models.CommentColumnIndex, comment); err != nil {
		return err
	}
	return r.table.UpdateCell(ctx, row, models.StatusColumnIndex, status)
}
