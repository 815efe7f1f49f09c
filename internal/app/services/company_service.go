package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/placementprep/internal/app/compensation"
	"github.com/yigit/placementprep/internal/app/events"
	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/app/models/dto"
	"github.com/yigit/placementprep/internal/app/moderation"
	"github.com/yigit/placementprep/internal/app/repositories"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
	pkgauth "github.com/yigit/placementprep/internal/pkg/auth"
	"github.com/yigit/placementprep/internal/pkg/filestorage"
	"github.com/yigit/placementprep/internal/pkg/helpers"
	"github.com/yigit/placementprep/internal/pkg/validation"
)

// CompanyService defines the interface for company operations
type CompanyService interface {
	// Public reads only ever see approved companies
	ListCompanies(ctx context.Context, search string, page, size int) ([]dto.CompanySummary, int64, error)
	GetCompany(ctx context.Context, id string, viewerEmail string) (*dto.CompanyResponse, error)
	CreateCompany(ctx context.Context, submitter pkgauth.Identity, c *models.Company) (*dto.CompanyResponse, error)
	Upvote(ctx context.Context, id string, email string) (*dto.HelpfulResponse, error)
	RateDifficulty(ctx context.Context, id string, rating int) (*dto.DifficultyResponse, error)

	// Admin operations see every status
	ListByStatus(ctx context.Context, status string, page, size int) ([]dto.CompanySummary, int64, error)
	GetCompanyForAdmin(ctx context.Context, id string) (*dto.CompanyResponse, error)
	ApproveCompany(ctx context.Context, id string) (*dto.CompanyResponse, error)
	RejectCompany(ctx context.Context, id string) error
	DeleteCompany(ctx context.Context, id string) error

	// SaveCompany runs the save pipeline on an existing company
	SaveCompany(ctx context.Context, c *models.Company) error
}

// companyServiceImpl implements CompanyService
type companyServiceImpl struct {
	companies  CompanyStore
	normalizer *compensation.Normalizer
	events     events.Publisher
	signer     filestorage.URLSigner
	videoTTL   time.Duration
	logger     zerolog.Logger
}

// NewCompanyService creates a new CompanyService. signer may be nil, in
// which case no video links are produced.
func NewCompanyService(
	companies CompanyStore,
	normalizer *compensation.Normalizer,
	publisher events.Publisher,
	signer filestorage.URLSigner,
	videoTTL time.Duration,
	logger zerolog.Logger,
) CompanyService {
	return &companyServiceImpl{
		companies:  companies,
		normalizer: normalizer,
		events:     publisher,
		signer:     signer,
		videoTTL:   videoTTL,
		logger:     logger.With().Str("service", "company").Logger(),
	}
}

// ListCompanies lists approved companies, optionally filtered by name
func (s *companyServiceImpl) ListCompanies(ctx context.Context, search string, page, size int) ([]dto.CompanySummary, int64, error) {
	status := models.CompanyApproved
	return s.list(ctx, repositories.CompanyFilter{Status: &status, Search: strings.TrimSpace(search)}, page, size)
}

// ListByStatus lists companies in one moderation state; an empty status lists all
func (s *companyServiceImpl) ListByStatus(ctx context.Context, status string, page, size int) ([]dto.CompanySummary, int64, error) {
	filter := repositories.CompanyFilter{}
	if status != "" {
		st := models.CompanyStatus(status)
		if !st.Valid() {
			return nil, 0, apperrors.FieldError("status", "status must be one of pending, approved, rejected")
		}
		filter.Status = &st
	}
	return s.list(ctx, filter, page, size)
}

func (s *companyServiceImpl) list(ctx context.Context, filter repositories.CompanyFilter, page, size int) ([]dto.CompanySummary, int64, error) {
	filter.Offset, filter.Limit = helpers.CalculateOffsetLimit(page, size)

	companies, total, err := s.companies.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing companies: %w", err)
	}

	summaries := make([]dto.CompanySummary, 0, len(companies))
	for _, c := range companies {
		summaries = append(summaries, dto.NewCompanySummary(c))
	}
	return summaries, total, nil
}

// GetCompany returns an approved company as seen by viewerEmail
func (s *companyServiceImpl) GetCompany(ctx context.Context, id string, viewerEmail string) (*dto.CompanyResponse, error) {
	c, err := s.loadApproved(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewCompanyResponse(c, viewerEmail, s.videoURL(ctx, c), false)
	return &resp, nil
}

// GetCompanyForAdmin returns a company in any status, submitter included
func (s *companyServiceImpl) GetCompanyForAdmin(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewCompanyResponse(c, "", s.videoURL(ctx, c), true)
	return &resp, nil
}

// videoURL signs the company's video key. Storage failures degrade to nil.
func (s *companyServiceImpl) videoURL(ctx context.Context, c *models.Company) *string {
	if c.VideoKey == "" || s.signer == nil {
		return nil
	}
	u, err := s.signer.SignedURL(ctx, c.VideoKey, s.videoTTL)
	if err != nil {
		s.logger.Warn().Err(err).Str("companyID", c.ID.String()).Msg("Failed to sign video URL")
		return nil
	}
	return &u
}

// CreateCompany stores a student-submitted company for moderation. Status,
// submitter and engagement counters are never taken from the request.
func (s *companyServiceImpl) CreateCompany(ctx context.Context, submitter pkgauth.Identity, c *models.Company) (*dto.CompanyResponse, error) {
	c.ID = uuid.Nil
	c.Status = models.CompanyPending
	c.SubmittedBy = models.Submitter{Name: submitter.Username, Email: submitter.Email}
	if c.SubmittedBy.Name == "" {
		c.SubmittedBy.Name = submitter.Email
	}
	c.HelpfulCount = 0
	c.HelpfulUsers = []string{}
	c.DifficultyRatings = []int{}
	c.InterviewDifficultyLevel = 0
	c.DifficultyRatingCount = 0

	if err := s.persist(ctx, c, true); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("companyID", c.ID.String()).
		Str("submittedBy", submitter.Email).
		Msg("Company submitted for review")

	resp := dto.NewCompanyResponse(c, submitter.Email, nil, true)
	return &resp, nil
}

// Upvote records a helpful vote; each email votes once per company
func (s *companyServiceImpl) Upvote(ctx context.Context, id string, email string) (*dto.HelpfulResponse, error) {
	c, err := s.loadApproved(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := moderation.AddHelpfulVote(c, email); err != nil {
		return nil, err
	}
	if err := s.SaveCompany(ctx, c); err != nil {
		return nil, err
	}
	return &dto.HelpfulResponse{HelpfulCount: c.HelpfulCount, HasVoted: true}, nil
}

// RateDifficulty records a 1..5 interview difficulty rating
func (s *companyServiceImpl) RateDifficulty(ctx context.Context, id string, rating int) (*dto.DifficultyResponse, error) {
	c, err := s.loadApproved(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := moderation.AddDifficultyRating(c, rating); err != nil {
		return nil, err
	}
	if err := s.SaveCompany(ctx, c); err != nil {
		return nil, err
	}
	return &dto.DifficultyResponse{
		InterviewDifficultyLevel: c.InterviewDifficultyLevel,
		DifficultyRatingCount:    c.DifficultyRatingCount,
	}, nil
}

// ApproveCompany publishes a pending company
func (s *companyServiceImpl) ApproveCompany(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == models.CompanyApproved {
		return nil, apperrors.NewConflictError("company is already approved")
	}

	c.Status = models.CompanyApproved
	if err := s.SaveCompany(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info().Str("companyID", c.ID.String()).Str("name", c.Name).Msg("Company approved")
	resp := dto.NewCompanyResponse(c, "", s.videoURL(ctx, c), true)
	return &resp, nil
}

// RejectCompany hard-deletes a company that was never approved
func (s *companyServiceImpl) RejectCompany(ctx context.Context, id string) error {
	c, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if c.Status == models.CompanyApproved {
		return apperrors.NewConflictError("approved companies are removed with delete, not reject")
	}
	if err := s.companies.Delete(ctx, c.ID); err != nil {
		return err
	}
	s.logger.Info().Str("companyID", c.ID.String()).Msg("Company rejected")
	return nil
}

// DeleteCompany removes a company in any state along with its notifications
func (s *companyServiceImpl) DeleteCompany(ctx context.Context, id string) error {
	companyID, err := parseID("id", id)
	if err != nil {
		return err
	}
	if err := s.companies.Delete(ctx, companyID); err != nil {
		return err
	}
	s.logger.Info().Str("companyID", companyID.String()).Msg("Company deleted")
	return nil
}

// SaveCompany runs the save pipeline and writes c
func (s *companyServiceImpl) SaveCompany(ctx context.Context, c *models.Company) error {
	return s.persist(ctx, c, false)
}

// persist sanitizes, normalizes and validates c, writes it, and raises
// CompanyApproved once the write has succeeded
func (s *companyServiceImpl) persist(ctx context.Context, c *models.Company, create bool) error {
	if c.MigrateLegacySolutions() {
		s.logger.Debug().Str("companyID", c.ID.String()).Msg("Folded legacy solutions into online questions")
	}
	moderation.FinalPass(c)
	s.normalizer.NormalizeCompany(c)
	if err := validation.ValidateCompany(c); err != nil {
		return err
	}

	var err error
	if create {
		err = s.companies.Create(ctx, c)
	} else {
		err = s.companies.Save(ctx, c)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return err
		}
		return fmt.Errorf("error saving company: %w", err)
	}

	if c.Status == models.CompanyApproved && s.events != nil {
		s.events.Publish(ctx, events.Event{
			Name:        events.CompanyApproved,
			CompanyID:   c.ID,
			CompanyName: c.Name,
			OccurredAt:  time.Now().UTC(),
		})
	}
	return nil
}

func (s *companyServiceImpl) load(ctx context.Context, id string) (*models.Company, error) {
	companyID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	return s.companies.GetByID(ctx, companyID)
}

func (s *companyServiceImpl) loadApproved(ctx context.Context, id string) (*models.Company, error) {
	c, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status != models.CompanyApproved {
		return nil, apperrors.ErrCompanyNotFound
	}
	return c, nil
}
