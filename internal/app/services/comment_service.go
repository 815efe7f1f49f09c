package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/app/models/dto"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
	pkgauth "github.com/yigit/placementprep/internal/pkg/auth"
	"github.com/yigit/placementprep/internal/pkg/helpers"
	"github.com/yigit/placementprep/internal/pkg/sanitize"
)

// CommentAuthorizer checks who may remove a comment
type CommentAuthorizer interface {
	ValidateCommentOwnership(ctx context.Context, c *models.Comment, id pkgauth.Identity) error
}

// CommentService defines the interface for company discussion threads
type CommentService interface {
	ListComments(ctx context.Context, companyID string, page, size int) ([]dto.CommentResponse, int64, error)
	CreateComment(ctx context.Context, author pkgauth.Identity, companyID string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, caller pkgauth.Identity, commentID string) error
}

// commentServiceImpl implements CommentService
type commentServiceImpl struct {
	comments  CommentStore
	companies CompanyStore
	authz     CommentAuthorizer
	logger    zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(comments CommentStore, companies CompanyStore, authz CommentAuthorizer, logger zerolog.Logger) CommentService {
	return &commentServiceImpl{
		comments:  comments,
		companies: companies,
		authz:     authz,
		logger:    logger.With().Str("service", "comment").Logger(),
	}
}

// ListComments lists a company's comments newest first
func (s *commentServiceImpl) ListComments(ctx context.Context, companyID string, page, size int) ([]dto.CommentResponse, int64, error) {
	id, err := parseID("companyId", companyID)
	if err != nil {
		return nil, 0, err
	}
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	comments, total, err := s.comments.ListByCompany(ctx, id, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing comments: %w", err)
	}
	out := make([]dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, dto.NewCommentResponse(c))
	}
	return out, total, nil
}

// CreateComment adds a comment to an approved company
func (s *commentServiceImpl) CreateComment(ctx context.Context, author pkgauth.Identity, companyID string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	id, err := parseID("companyId", companyID)
	if err != nil {
		return nil, err
	}
	content := sanitize.Truncate(req.Content, sanitize.MaxComment)
	if content == "" {
		return nil, apperrors.FieldError("content", "content is required")
	}

	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company.Status != models.CompanyApproved {
		return nil, apperrors.ErrCompanyNotFound
	}

	username := author.Username
	if username == "" {
		username = author.Email
	}
	comment := &models.Comment{
		CompanyID: id,
		UserID:    author.UserID,
		Username:  username,
		Content:   content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}

	resp := dto.NewCommentResponse(comment)
	return &resp, nil
}

// DeleteComment removes a comment; only its author or an admin may do so
func (s *commentServiceImpl) DeleteComment(ctx context.Context, caller pkgauth.Identity, commentID string) error {
	id, err := parseID("id", commentID)
	if err != nil {
		return err
	}
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authz.ValidateCommentOwnership(ctx, comment, caller); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("commentID", id.String()).Str("by", caller.UserID).Msg("Comment deleted")
	return nil
}
