package validation

import (
	"fmt"

	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/pkg/sanitize"
)

// JobDescriptionFileTypes lists the accepted JD document formats
var JobDescriptionFileTypes = []string{"pdf", "doc", "docx"}

// ValidateCompany checks a company document right before it is persisted.
// The returned error is an *apperrors.ValidationError keyed by JSON path
// (e.g. "roles.0.roleName"), or nil.
func ValidateCompany(c *models.Company) error {
	v := NewCollector()

	v.String("name", NewStringValidation("name", c.Name).
		WithMinLength(NameMinLength).WithMaxLength(NameMaxLength))
	v.String("type", NewStringValidation("type", c.Type))
	v.String("business_model", NewStringValidation("business_model", c.BusinessModel).
		WithRequired(false).WithMaxLength(sanitize.MaxBusinessModel))
	v.String("eligibility", NewStringValidation("eligibility", c.Eligibility).
		WithRequired(false).WithMaxLength(sanitize.MaxEligibility))

	if !c.Status.Valid() {
		v.Fail("status", "status must be one of pending, approved, rejected")
	}

	v.String("submittedBy.name", NewStringValidation("submittedBy.name", c.SubmittedBy.Name))
	v.String("submittedBy.email", NewStringValidation("submittedBy.email", c.SubmittedBy.Email).
		WithPattern(CompiledPatterns.Email))

	for i, role := range c.Roles {
		key := fmt.Sprintf("roles.%d", i)
		v.String(key+".roleName", NewStringValidation("roleName", role.RoleName).
			WithMinLength(NameMinLength).WithMaxLength(NameMaxLength))
		if role.InternshipStipend < 0 {
			v.Fail(key+".internshipStipend", "internshipStipend cannot be negative")
		}
	}

	for i, q := range c.OnlineQuestions {
		key := fmt.Sprintf("onlineQuestions.%d", i)
		v.String(key+".question", NewStringValidation("question", q.Question).
			WithMaxLength(sanitize.MaxQuestion))
		v.String(key+".solution", NewStringValidation("solution", q.Solution).
			WithRequired(false).WithMaxLength(sanitize.MaxSolution))
	}
	checkList(v, "interviewQuestions", c.InterviewQuestions, sanitize.MaxInterviewQuestion)
	checkList(v, "interviewProcess", c.InterviewProcess, sanitize.MaxProcessStep)
	checkList(v, "Must_Do_Topics", c.MustDoTopics, sanitize.MaxTopic)

	for i, q := range c.MCQQuestions {
		key := fmt.Sprintf("mcqQuestions.%d", i)
		v.String(key+".question", NewStringValidation("question", q.Question).
			WithMaxLength(sanitize.MaxMCQQuestion))
		for name, opt := range map[string]string{
			"optionA": q.OptionA, "optionB": q.OptionB,
			"optionC": q.OptionC, "optionD": q.OptionD, "answer": q.Answer,
		} {
			v.String(key+"."+name, NewStringValidation(name, opt).
				WithRequired(false).WithMaxLength(sanitize.MaxMCQOption))
		}
	}

	for i, jd := range c.JobDescription {
		key := fmt.Sprintf("jobDescription.%d", i)
		v.String(key+".title", NewStringValidation("title", jd.Title).
			WithMaxLength(sanitize.MaxJobTitle))
		v.String(key+".fileUrl", NewStringValidation("fileUrl", jd.FileURL))
		v.String(key+".fileType", NewStringValidation("fileType", jd.FileType).
			WithOneOf(JobDescriptionFileTypes...))
	}

	for i, sc := range c.SelectedCandidates {
		key := fmt.Sprintf("selectedCandidates.%d", i)
		v.String(key+".name", NewStringValidation("name", sc.Name).
			WithMinLength(NameMinLength).WithMaxLength(NameMaxLength))
		v.String(key+".emailId", NewStringValidation("emailId", sc.EmailID).
			WithPattern(CompiledPatterns.Email))
	}

	for i, r := range c.DifficultyRatings {
		v.Number(fmt.Sprintf("difficulty_ratings.%d", i),
			NewNumericValidation("rating", r).WithRange(RatingMin, RatingMax))
	}
	if c.InterviewDifficultyLevel < 0 || c.InterviewDifficultyLevel > float64(RatingMax) {
		v.Fail("interview_difficulty_level", "interview_difficulty_level must be between 0 and 5")
	}
	if c.HelpfulCount < 0 {
		v.Fail("helpfulCount", "helpfulCount cannot be negative")
	}

	return v.Err()
}

// checkList rejects empty entries and entries over max characters
func checkList(v *Collector, field string, items []string, max int) {
	for i, item := range items {
		key := fmt.Sprintf("%s.%d", field, i)
		v.String(key, NewStringValidation(field, item).WithMaxLength(max))
	}
}
