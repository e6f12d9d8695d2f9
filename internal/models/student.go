package models

import "github.com/noppadol/classdesk-api/internal/sheetstore"

// Student is one roster row. The roster is maintained outside this system and
// is read-only here; extra roster columns are ignored.
type Student struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
}

// StudentFromRecord maps a roster record onto a Student.
func StudentFromRecord(record sheetstore.Record) Student {
	return Student{
		StudentID: record[ColumnStudentID],
		Name:      record[ColumnName],
	}
}
