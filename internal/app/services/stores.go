package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/app/repositories"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
)

// The store interfaces below are the slices of the repositories each service
// uses. The pgx repositories satisfy them; tests substitute in-memory fakes.

// CompanyStore persists company documents
type CompanyStore interface {
	Create(ctx context.Context, c *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	List(ctx context.Context, f repositories.CompanyFilter) ([]*models.Company, int64, error)
	Save(ctx context.Context, c *models.Company) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, status models.CompanyStatus) (int64, error)
}

// SubmissionStore persists moderation submissions
type SubmissionStore interface {
	Create(ctx context.Context, s *models.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	List(ctx context.Context, status *models.SubmissionStatus) ([]*models.Submission, error)
	MarkApproved(ctx context.Context, id uuid.UUID, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, status models.SubmissionStatus) (int64, error)
}

// NotificationStore persists per-user notifications
type NotificationStore interface {
	ExistsForCompany(ctx context.Context, companyID uuid.UUID, notifType models.NotificationType) (bool, error)
	CreateBatch(ctx context.Context, companyID uuid.UUID, notifType models.NotificationType, items []*models.Notification) (bool, error)
	ListForUser(ctx context.Context, userID string, limit uint64) ([]*models.Notification, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkSeen(ctx context.Context, userID string, id uuid.UUID) error
	MarkAllSeen(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
	Clear(ctx context.Context, userID string) (int64, error)
	PruneSeenBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// UserStore persists the local user records
type UserStore interface {
	Upsert(ctx context.Context, u *models.User) (bool, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	ListIDs(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// CommentStore persists company comments
type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit uint64) ([]*models.Comment, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

var (
	_ CompanyStore      = (*repositories.CompanyRepository)(nil)
	_ SubmissionStore   = (*repositories.SubmissionRepository)(nil)
	_ NotificationStore = (*repositories.NotificationRepository)(nil)
	_ UserStore         = (*repositories.UserRepository)(nil)
	_ CommentStore      = (*repositories.CommentRepository)(nil)
)

// parseID turns a path id into a uuid, reporting a field error when malformed
func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.FieldError(field, "must be a valid id")
	}
	return id, nil
}
