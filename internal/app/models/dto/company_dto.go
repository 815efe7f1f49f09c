package dto

import (
	"time"

	"github.com/yigit/placementprep/internal/app/models"
)

// CompanyResponse is the public projection of a company document. Online
// questions are exposed as two aligned arrays.
type CompanyResponse struct {
	ID            string  `json:"id" example:"3b241101-e2bb-4255-8caf-4136c566a962"`
	Name          string  `json:"name" example:"Acme Corp"`
	Type          string  `json:"type" example:"Product"`
	BusinessModel string  `json:"business_model,omitempty" example:"B2B"`
	Eligibility   string  `json:"eligibility,omitempty" example:"CGPA >= 7, no active backlogs"`
	Logo          string  `json:"logo,omitempty"`
	VideoURL      *string `json:"videoUrl"`
	DateOfVisit   string  `json:"date_of_visit,omitempty" example:"2026-08-14"`

	Roles              []models.Role              `json:"roles"`
	SelectedCandidates []models.SelectedCandidate `json:"selectedCandidates,omitempty"`
	Count              models.Count               `json:"count,omitempty" swaggertype:"string"`

	OnlineQuestions         []string                `json:"onlineQuestions"`
	OnlineQuestionsSolution []string                `json:"onlineQuestions_solution"`
	InterviewQuestions      []string                `json:"interviewQuestions"`
	InterviewProcess        []string                `json:"interviewProcess"`
	MustDoTopics            []string                `json:"Must_Do_Topics"`
	MCQQuestions            []models.MCQ            `json:"mcqQuestions"`
	JobDescription          []models.JobDescription `json:"jobDescription,omitempty"`

	Status      string            `json:"status" example:"approved"`
	SubmittedBy *models.Submitter `json:"submittedBy,omitempty"`

	HelpfulCount             int     `json:"helpfulCount" example:"12"`
	HasVoted                 bool    `json:"hasVoted"`
	InterviewDifficultyLevel float64 `json:"interview_difficulty_level" example:"3.5"`
	DifficultyRatingCount    int     `json:"difficulty_rating_count" example:"8"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCompanyResponse projects c for viewerEmail. videoURL is nil when the
// company has no video or signing failed. The submitter is only included
// for admins.
func NewCompanyResponse(c *models.Company, viewerEmail string, videoURL *string, includeSubmitter bool) CompanyResponse {
	resp := CompanyResponse{
		ID:                       c.ID.String(),
		Name:                     c.Name,
		Type:                     c.Type,
		BusinessModel:            c.BusinessModel,
		Eligibility:              c.Eligibility,
		Logo:                     c.Logo,
		VideoURL:                 videoURL,
		DateOfVisit:              c.DateOfVisit,
		Roles:                    nonNilRoles(c.Roles),
		SelectedCandidates:       c.SelectedCandidates,
		Count:                    c.Count,
		OnlineQuestions:          c.Questions(),
		OnlineQuestionsSolution:  c.Solutions(),
		InterviewQuestions:       nonNil(c.InterviewQuestions),
		InterviewProcess:         nonNil(c.InterviewProcess),
		MustDoTopics:             nonNil(c.MustDoTopics),
		MCQQuestions:             c.MCQQuestions,
		JobDescription:           c.JobDescription,
		Status:                   string(c.Status),
		HelpfulCount:             c.HelpfulCount,
		HasVoted:                 viewerEmail != "" && c.HasHelpfulVote(viewerEmail),
		InterviewDifficultyLevel: c.InterviewDifficultyLevel,
		DifficultyRatingCount:    c.DifficultyRatingCount,
		CreatedAt:                c.CreatedAt,
		UpdatedAt:                c.UpdatedAt,
	}
	if resp.MCQQuestions == nil {
		resp.MCQQuestions = []models.MCQ{}
	}
	if includeSubmitter {
		s := c.SubmittedBy
		resp.SubmittedBy = &s
	}
	return resp
}

// CompanySummary is one row of the company listing
type CompanySummary struct {
	ID                       string    `json:"id"`
	Name                     string    `json:"name" example:"Acme Corp"`
	Type                     string    `json:"type" example:"Product"`
	Logo                     string    `json:"logo,omitempty"`
	DateOfVisit              string    `json:"date_of_visit,omitempty"`
	RoleNames                []string  `json:"roleNames"`
	Status                   string    `json:"status" example:"approved"`
	HelpfulCount             int       `json:"helpfulCount"`
	InterviewDifficultyLevel float64   `json:"interview_difficulty_level"`
	DifficultyRatingCount    int       `json:"difficulty_rating_count"`
	UpdatedAt                time.Time `json:"updatedAt"`
}

// NewCompanySummary maps a company for listings
func NewCompanySummary(c *models.Company) CompanySummary {
	names := make([]string, 0, len(c.Roles))
	for _, r := range c.Roles {
		names = append(names, r.RoleName)
	}
	return CompanySummary{
		ID:                       c.ID.String(),
		Name:                     c.Name,
		Type:                     c.Type,
		Logo:                     c.Logo,
		DateOfVisit:              c.DateOfVisit,
		RoleNames:                names,
		Status:                   string(c.Status),
		HelpfulCount:             c.HelpfulCount,
		InterviewDifficultyLevel: c.InterviewDifficultyLevel,
		DifficultyRatingCount:    c.DifficultyRatingCount,
		UpdatedAt:                c.UpdatedAt,
	}
}

// RateDifficultyRequest is the body of POST /companies/:id/rate-difficulty.
// Range checks happen in the service so every caller gets the same error.
type RateDifficultyRequest struct {
	Rating int `json:"rating" binding:"required" example:"4"`
}

// HelpfulResponse is returned after an upvote
type HelpfulResponse struct {
	HelpfulCount int  `json:"helpfulCount" example:"13"`
	HasVoted     bool `json:"hasVoted" example:"true"`
}

// DifficultyResponse is returned after a rating
type DifficultyResponse struct {
	InterviewDifficultyLevel float64 `json:"interview_difficulty_level" example:"3.67"`
	DifficultyRatingCount    int     `json:"difficulty_rating_count" example:"3"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilRoles(r []models.Role) []models.Role {
	if r == nil {
		return []models.Role{}
	}
	return r
}
