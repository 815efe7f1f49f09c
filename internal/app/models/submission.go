package models

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionType names the company content array a submission feeds
type SubmissionType string

const (
	SubmissionOnlineQuestions    SubmissionType = "onlineQuestions"
	SubmissionInterviewQuestions SubmissionType = "interviewQuestions"
	SubmissionInterviewProcess   SubmissionType = "interviewProcess"
	SubmissionMustDoTopics       SubmissionType = "mustDoTopics"
)

// Valid reports whether t is one of the mergeable types
func (t SubmissionType) Valid() bool {
	switch t {
	case SubmissionOnlineQuestions, SubmissionInterviewQuestions,
		SubmissionInterviewProcess, SubmissionMustDoTopics:
		return true
	}
	return false
}

// SubmissionStatus is the moderation state of a submission
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
)

// Valid reports whether s is a known status
func (s SubmissionStatus) Valid() bool {
	return s == SubmissionPending || s == SubmissionApproved
}

// Submission is a content fragment waiting for (or past) admin review
type Submission struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	CompanyID      uuid.UUID        `json:"companyId" db:"company_id"`
	CompanyName    string           `json:"companyName,omitempty" db:"-"` // Filled by listing queries
	Type           SubmissionType   `json:"type" db:"type"`
	Content        string           `json:"content" db:"content"`
	SubmitterName  string           `json:"submitterName" db:"submitter_name"`
	SubmitterEmail string           `json:"submitterEmail" db:"submitter_email"`
	IsAnonymous    bool             `json:"isAnonymous" db:"is_anonymous"`
	Status         SubmissionStatus `json:"status" db:"status"`
	SubmittedAt    time.Time        `json:"submittedAt" db:"submitted_at"`
	ApprovedAt     *time.Time       `json:"approvedAt,omitempty" db:"approved_at"`
}
