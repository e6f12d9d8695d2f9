package models

import (
	"strconv"
	"strings"

	"github.com/noppadol/classdesk-api/internal/sheetstore"
)

// TimestampLayout is the wall clock format written into the Timestamp column.
// It sorts lexicographically in temporal order.
const TimestampLayout = "2006-01-02 15:04:05"

// Response sheet column headers, in their fixed storage order.
const (
	ColumnTimestamp = "Timestamp"
	ColumnStudentID = "StudentID"
	ColumnName      = "Name"
	ColumnAnswer1   = "Answer1"
	ColumnAnswer2   = "Answer2"
	ColumnScore     = "Score"
	ColumnComment   = "Comment"
	ColumnStatus    = "Status"
)

// ResponseColumns is the header row of the response sheet. Append payloads
// position values by this order.
var ResponseColumns = []string{
	ColumnTimestamp,
	ColumnStudentID,
	ColumnName,
	ColumnAnswer1,
	ColumnAnswer2,
	ColumnScore,
	ColumnComment,
	ColumnStatus,
}

// 1-based column positions of the grading cells on the response sheet.
const (
	ScoreColumnIndex   = 6
	CommentColumnIndex = 7
	StatusColumnIndex  = 8
)

const (
	// StatusPending marks a submission that has not been graded yet.
	StatusPending = "pending"
	// StatusGraded marks a submission with a recorded score. The transition is
	// one way; nothing ever moves a row back to pending.
	StatusGraded = "graded"
)

// Response is one row of the append-only response log. Score is nil until a
// grading write succeeds; a non-numeric Score cell also reads as nil, never zero.
type Response struct {
	Timestamp string   `json:"timestamp"`
	StudentID string   `json:"student_id"`
	Name      string   `json:"name"`
	Answer1   string   `json:"answer1"`
	Answer2   string   `json:"answer2"`
	Score     *float64 `json:"score"`
	Comment   string   `json:"comment"`
	Status    string   `json:"status"`
}

// IsGraded reports whether the row carries a final score.
func (r Response) IsGraded() bool {
	return r.Status == StatusGraded
}

// ResponseFromRecord maps a sheet record onto a Response, coercing the score.
func ResponseFromRecord(record sheetstore.Record) Response {
	return Response{
		Timestamp: record[ColumnTimestamp],
		StudentID: record[ColumnStudentID],
		Name:      record[ColumnName],
		Answer1:   record[ColumnAnswer1],
		Answer2:   record[ColumnAnswer2],
		Score:     CoerceScore(record[ColumnScore]),
		Comment:   record[ColumnComment],
		Status:    record[ColumnStatus],
	}
}

// CoerceScore parses a score cell. Blank or non-numeric cells yield nil.
func CoerceScore(cell string) *float64 {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

// FormatScore renders a score for a sheet cell without a trailing decimal for
// whole numbers.
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
