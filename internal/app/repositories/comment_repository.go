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
)

// CommentRepository handles comment database operations
type CommentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var commentColumns = []string{"id", "company_id", "user_id", "username", "content", "created_at"}

// Create inserts a comment
func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now().UTC()

	query, args, err := r.sb.Insert("comments").
		Columns(commentColumns...).
		Values(c.ID, c.CompanyID, c.UserID, c.Username, c.Content, c.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert comment query: %w", err)
	}
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// GetByID loads one comment
func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	query, args, err := r.sb.Select(commentColumns...).From("comments").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get comment query: %w", err)
	}
	var c models.Comment
	err = r.db.QueryRow(ctx, query, args...).Scan(&c.ID, &c.CompanyID, &c.UserID, &c.Username, &c.Content, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &c, nil
}

// ListByCompany returns a page of comments newest first, plus the total
func (r *CommentRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit uint64) ([]*models.Comment, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE company_id = $1`, companyID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}
	if total == 0 {
		return []*models.Comment{}, 0, nil
	}

	query, args, err := r.sb.Select(commentColumns...).
		From("comments").
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("created_at DESC").
		Limit(limit).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list comments query: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query comments: %w", err)
	}
	comments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Comment, error) {
		var c models.Comment
		err := row.Scan(&c.ID, &c.CompanyID, &c.UserID, &c.Username, &c.Content, &c.CreatedAt)
		return &c, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan comments: %w", err)
	}
	return comments, total, nil
}

// Delete removes a comment
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}
	return nil
}
