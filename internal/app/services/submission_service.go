package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/app/models/dto"
	"github.com/yigit/placementprep/internal/app/moderation"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
	pkgauth "github.com/yigit/placementprep/internal/pkg/auth"
	"github.com/yigit/placementprep/internal/pkg/sanitize"
)

// SubmissionService defines the interface for the moderation queue
type SubmissionService interface {
	CreateSubmission(ctx context.Context, submitter pkgauth.Identity, req *dto.CreateSubmissionRequest) (*dto.SubmissionReceipt, error)
	ListSubmissions(ctx context.Context, status string) ([]dto.SubmissionResponse, error)
	ApproveSubmission(ctx context.Context, id string) (*dto.ApproveSubmissionResponse, error)
	RejectSubmission(ctx context.Context, id string) error
}

// submissionServiceImpl implements SubmissionService
type submissionServiceImpl struct {
	submissions SubmissionStore
	companies   CompanyStore
	companySvc  CompanyService
	merger      *moderation.Merger
	now         func() time.Time
	logger      zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService. Approved fragments
// are written back through companySvc so they get the full save pipeline.
func NewSubmissionService(
	submissions SubmissionStore,
	companies CompanyStore,
	companySvc CompanyService,
	merger *moderation.Merger,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionServiceImpl{
		submissions: submissions,
		companies:   companies,
		companySvc:  companySvc,
		merger:      merger,
		now:         time.Now,
		logger:      logger.With().Str("service", "submission").Logger(),
	}
}

// CreateSubmission queues a content fragment for review. The target company
// need not exist yet; only the shape of its id is checked.
func (s *submissionServiceImpl) CreateSubmission(ctx context.Context, submitter pkgauth.Identity, req *dto.CreateSubmissionRequest) (*dto.SubmissionReceipt, error) {
	verr := apperrors.NewValidationError()

	companyID, err := uuid.Parse(strings.TrimSpace(req.CompanyID))
	if err != nil {
		verr.Add("companyId", "companyId must be a valid id")
	}
	subType := models.SubmissionType(req.Type)
	if !subType.Valid() {
		verr.Add("type", "type must be one of onlineQuestions, interviewQuestions, interviewProcess, mustDoTopics")
	}
	// Content is stored as submitted; the merger sanitizes each field
	// once an onlineQuestions envelope has been parsed.
	content := strings.TrimSpace(req.Content)
	switch {
	case sanitize.Sanitize(content) == "":
		verr.Add("content", "content is required")
	case sanitize.Len(content) > sanitize.MaxSubmission:
		verr.Add("content", fmt.Sprintf("content must be at most %d characters", sanitize.MaxSubmission))
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	name := submitter.Username
	if name == "" {
		name = submitter.Email
	}
	sub := &models.Submission{
		CompanyID:      companyID,
		Type:           subType,
		Content:        content,
		SubmitterName:  name,
		SubmitterEmail: submitter.Email,
		IsAnonymous:    req.IsAnonymous,
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("error creating submission: %w", err)
	}

	s.logger.Info().
		Str("submissionID", sub.ID.String()).
		Str("companyID", companyID.String()).
		Str("type", string(subType)).
		Msg("Submission queued for review")

	receipt := dto.NewSubmissionReceipt(sub)
	return &receipt, nil
}

// ListSubmissions lists submissions newest first; an empty status lists all
func (s *submissionServiceImpl) ListSubmissions(ctx context.Context, status string) ([]dto.SubmissionResponse, error) {
	var filter *models.SubmissionStatus
	if status != "" {
		st := models.SubmissionStatus(status)
		if !st.Valid() {
			return nil, apperrors.FieldError("status", "status must be one of pending, approved")
		}
		filter = &st
	}

	subs, err := s.submissions.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing submissions: %w", err)
	}
	out := make([]dto.SubmissionResponse, 0, len(subs))
	for _, sub := range subs {
		out = append(out, dto.NewSubmissionResponse(sub))
	}
	return out, nil
}

// ApproveSubmission merges the fragment into its company, saves the company
// and only then marks the submission approved. A failed save leaves the
// submission pending.
func (s *submissionServiceImpl) ApproveSubmission(ctx context.Context, id string) (*dto.ApproveSubmissionResponse, error) {
	subID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	sub, err := s.submissions.GetByID(ctx, subID)
	if err != nil {
		return nil, err
	}
	if sub.Status == models.SubmissionApproved {
		return nil, apperrors.ErrSubmissionAlreadyApproved
	}

	company, err := s.companies.GetByID(ctx, sub.CompanyID)
	if err != nil {
		return nil, err
	}

	outcome, err := s.merger.Merge(company, sub)
	if err != nil {
		return nil, err
	}
	if err := s.companySvc.SaveCompany(ctx, company); err != nil {
		s.logger.Warn().Err(err).
			Str("submissionID", sub.ID.String()).
			Str("companyID", company.ID.String()).
			Msg("Company save failed; submission stays pending")
		return nil, err
	}

	at := s.now().UTC()
	if err := s.submissions.MarkApproved(ctx, sub.ID, at); err != nil {
		return nil, fmt.Errorf("error marking submission approved: %w", err)
	}
	sub.Status = models.SubmissionApproved
	sub.ApprovedAt = &at
	sub.CompanyName = company.Name

	s.logger.Info().
		Str("submissionID", sub.ID.String()).
		Str("companyID", company.ID.String()).
		Str("outcome", string(outcome)).
		Msg("Submission approved")

	return &dto.ApproveSubmissionResponse{
		Submission: dto.NewSubmissionResponse(sub),
		Outcome:    string(outcome),
	}, nil
}

// RejectSubmission hard-deletes a submission
func (s *submissionServiceImpl) RejectSubmission(ctx context.Context, id string) error {
	subID, err := parseID("id", id)
	if err != nil {
		return err
	}
	if err := s.submissions.Delete(ctx, subID); err != nil {
		return err
	}
	s.logger.Info().Str("submissionID", subID.String()).Msg("Submission rejected")
	return nil
}
