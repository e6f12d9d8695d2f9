package dto

// SummaryRow is one roster student joined with their latest response. Response
// derived fields are nil when the student has not submitted or the cell was
// blank; a nil Score is "unset", never zero.
type SummaryRow struct {
	StudentID string   `json:"student_id"`
	Name      string   `json:"name"`
	Timestamp *string  `json:"timestamp"`
	Answer1   *string  `json:"answer1"`
	Answer2   *string  `json:"answer2"`
	Score     *float64 `json:"score"`
	Comment   *string  `json:"comment"`
	Status    *string  `json:"status"`
}

// SummaryResponse is the joined table plus the chart series. Chart is omitted
// and Note explains why when no score is set anywhere.
type SummaryResponse struct {
	Rows  []SummaryRow       `json:"rows"`
	Chart map[string]float64 `json:"chart,omitempty"`
	Note  string             `json:"note,omitempty"`
}
