package models

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noppadol/classdesk-api/internal/sheetstore"
)

func TestCoerceScore(t *testing.T) {
	require.Nil(t, CoerceScore(""))
	require.Nil(t, CoerceScore("   "))
	require.Nil(t, CoerceScore("abc"))

	score := CoerceScore("85")
	require.NotNil(t, score)
	require.Equal(t, 85.0, *score)

	score = CoerceScore(" 72.5 ")
	require.NotNil(t, score)
	require.Equal(t, 72.5, *score)
}

func TestFormatScore(t *testing.T) {
	require.Equal(t, "85", FormatScore(85))
	require.Equal(t, "72.5", FormatScore(72.5))
	require.Equal(t, "0", FormatScore(0))
}

func TestResponseFromRecord(t *testing.T) {
	record := sheetstore.Record{
		ColumnTimestamp: "2024-01-01 10:00:00",
		ColumnStudentID: "s1",
		ColumnName:      "Alice",
		ColumnAnswer1:   "a",
		ColumnAnswer2:   "b",
		ColumnScore:     "90",
		ColumnComment:   "nice",
		ColumnStatus:    StatusGraded,
	}

	response := ResponseFromRecord(record)
	require.Equal(t, "s1", response.StudentID)
	require.NotNil(t, response.Score)
	require.Equal(t, 90.0, *response.Score)
	require.True(t, response.IsGraded())
}

func TestResponseFromRecordBlankScore(t *testing.T) {
	record := sheetstore.Record{
		ColumnTimestamp: "2024-01-01 10:00:00",
		ColumnStudentID: "s1",
		ColumnStatus:    StatusPending,
	}

	response := ResponseFromRecord(record)
	require.Nil(t, response.Score)
	require.False(t, response.IsGraded())
}
