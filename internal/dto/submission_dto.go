package dto

import "github.com/noppadol/classdesk-api/internal/models"

// SubmitRequest carries a student's identity and the two answers.
type SubmitRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Answer1   string `json:"answer1" validate:"required"`
	Answer2   string `json:"answer2" validate:"required"`
}

// SubmissionResponse echoes the stored row back to the student. There is no
// surrogate identifier; the (Timestamp, StudentID) pair is the row's key.
type SubmissionResponse struct {
	Timestamp string `json:"timestamp"`
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
}

// NewSubmissionResponse builds the view for a freshly appended row.
func NewSubmissionResponse(response models.Response) SubmissionResponse {
	return SubmissionResponse{
		Timestamp: response.Timestamp,
		StudentID: response.StudentID,
		Name:      response.Name,
		Status:    response.Status,
	}
}
