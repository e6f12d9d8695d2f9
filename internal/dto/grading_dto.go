package dto

import "github.com/noppadol/classdesk-api/internal/models"

// GradeRequest carries the score and optional comment for a grading write.
type GradeRequest struct {
	Score   *float64 `json:"score" validate:"required"`
	Comment string   `json:"comment"`
}

// LatestSubmissionResponse shows a student's most recent submission to the grader.
type LatestSubmissionResponse struct {
	Timestamp string   `json:"timestamp"`
	StudentID string   `json:"student_id"`
	Name      string   `json:"name"`
	Answer1   string   `json:"answer1"`
	Answer2   string   `json:"answer2"`
	Score     *float64 `json:"score"`
	Comment   string   `json:"comment"`
	Status    string   `json:"status"`
}

// NewLatestSubmissionResponse builds the grader view of a response row.
func NewLatestSubmissionResponse(response models.Response) LatestSubmissionResponse {
	return LatestSubmissionResponse{
		Timestamp: response.Timestamp,
		StudentID: response.StudentID,
		Name:      response.Name,
		Answer1:   response.Answer1,
		Answer2:   response.Answer2,
		Score:     response.Score,
		Comment:   response.Comment,
		Status:    response.Status,
	}
}
