package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/pkg/apperrors"
	"github.com/yigit/placementprep/internal/pkg/logger"
)

// SubmissionRepository handles submission database operations
type SubmissionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *SubmissionRepository) selectSubmissions() squirrel.SelectBuilder {
	return r.sb.Select(
		"s.id", "s.company_id", "COALESCE(c.name, '') AS company_name", "s.type", "s.content",
		"s.submitter_name", "s.submitter_email", "s.is_anonymous", "s.status",
		"s.submitted_at", "s.approved_at",
	).
		From("submissions s").
		LeftJoin("companies c ON c.id = s.company_id")
}

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var s models.Submission
	var subType, status string
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.CompanyName, &subType, &s.Content,
		&s.SubmitterName, &s.SubmitterEmail, &s.IsAnonymous, &status,
		&s.SubmittedAt, &s.ApprovedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Type = models.SubmissionType(subType)
	s.Status = models.SubmissionStatus(status)
	return &s, nil
}

// Create inserts a pending submission
func (r *SubmissionRepository) Create(ctx context.Context, s *models.Submission) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now().UTC()
	}
	s.Status = models.SubmissionPending

	query, args, err := r.sb.Insert("submissions").
		Columns("id", "company_id", "type", "content", "submitter_name", "submitter_email",
			"is_anonymous", "status", "submitted_at").
		Values(s.ID, s.CompanyID, string(s.Type), s.Content, s.SubmitterName, s.SubmitterEmail,
			s.IsAnonymous, string(s.Status), s.SubmittedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert submission query: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		logger.Error().Err(err).Str("companyID", s.CompanyID.String()).Msg("Error inserting submission")
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

// GetByID loads one submission
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Submission, error) {
	query, args, err := r.selectSubmissions().Where(squirrel.Eq{"s.id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get submission query: %w", err)
	}
	s, err := scanSubmission(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return s, nil
}

// List returns submissions newest first, optionally filtered by status
func (r *SubmissionRepository) List(ctx context.Context, status *models.SubmissionStatus) ([]*models.Submission, error) {
	b := r.selectSubmissions()
	if status != nil {
		b = b.Where(squirrel.Eq{"s.status": string(*status)})
	}
	query, args, err := b.OrderBy("s.submitted_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list submissions query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]*models.Submission, 0)
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission row: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submission rows: %w", err)
	}
	return submissions, nil
}

// MarkApproved flips a pending submission to approved
func (r *SubmissionRepository) MarkApproved(ctx context.Context, id uuid.UUID, at time.Time) error {
	query, args, err := r.sb.Update("submissions").
		Set("status", string(models.SubmissionApproved)).
		Set("approved_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build approve submission query: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to approve submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubmissionNotFound
	}
	return nil
}

// Delete removes a submission permanently
func (r *SubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := r.sb.Delete("submissions").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete submission query: %w", err)
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSubmissionNotFound
	}
	return nil
}

// CountByStatus counts submissions in one status
func (r *SubmissionRepository) CountByStatus(ctx context.Context, status models.SubmissionStatus) (int64, error) {
	query, args, err := r.sb.Select("COUNT(*)").From("submissions").
		Where(squirrel.Eq{"status": string(status)}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return n, nil
}
