package dto

import (
	"time"

	"github.com/yigit/placementprep/internal/app/models"
)

// CreateSubmissionRequest is the body of POST /submissions
type CreateSubmissionRequest struct {
	CompanyID   string `json:"companyId" binding:"required" example:"3b241101-e2bb-4255-8caf-4136c566a962"`
	Type        string `json:"type" binding:"required,oneof=onlineQuestions interviewQuestions interviewProcess mustDoTopics" example:"interviewQuestions"`
	Content     string `json:"content" binding:"required" example:"Explain the difference between a process and a thread."`
	IsAnonymous bool   `json:"isAnonymous" example:"false"`
}

// SubmissionResponse is the admin view of a submission
type SubmissionResponse struct {
	ID             string     `json:"id" example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
	CompanyID      string     `json:"companyId" example:"3b241101-e2bb-4255-8caf-4136c566a962"`
	CompanyName    string     `json:"companyName,omitempty" example:"Acme Corp"`
	Type           string     `json:"type" example:"interviewQuestions"`
	Content        string     `json:"content"`
	SubmitterName  string     `json:"submitterName" example:"asha"`
	SubmitterEmail string     `json:"submitterEmail" example:"asha@college.edu"`
	IsAnonymous    bool       `json:"isAnonymous"`
	Status         string     `json:"status" example:"pending"`
	SubmittedAt    time.Time  `json:"submittedAt"`
	ApprovedAt     *time.Time `json:"approvedAt,omitempty"`
}

// SubmissionReceipt is what a contributor gets back; identity fields are omitted
type SubmissionReceipt struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	Type        string    `json:"type"`
	Status      string    `json:"status" example:"pending"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// ApproveSubmissionResponse reports how the fragment was merged
type ApproveSubmissionResponse struct {
	Submission SubmissionResponse `json:"submission"`
	Outcome    string             `json:"outcome" example:"appended" enums:"appended,merged,noop"`
}

// NewSubmissionResponse maps a submission for admins
func NewSubmissionResponse(s *models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:             s.ID.String(),
		CompanyID:      s.CompanyID.String(),
		CompanyName:    s.CompanyName,
		Type:           string(s.Type),
		Content:        s.Content,
		SubmitterName:  s.SubmitterName,
		SubmitterEmail: s.SubmitterEmail,
		IsAnonymous:    s.IsAnonymous,
		Status:         string(s.Status),
		SubmittedAt:    s.SubmittedAt,
		ApprovedAt:     s.ApprovedAt,
	}
}

// NewSubmissionReceipt maps a freshly created submission for its author
func NewSubmissionReceipt(s *models.Submission) SubmissionReceipt {
	return SubmissionReceipt{
		ID:          s.ID.String(),
		CompanyID:   s.CompanyID.String(),
		Type:        string(s.Type),
		Status:      string(s.Status),
		SubmittedAt: s.SubmittedAt,
	}
}
